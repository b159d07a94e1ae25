/*

Executable provides examples of lpps use and an exerciser for exported functions.

SUMMARY

This executable provides examples of how the lpps package can be used to
presolve linear and integer feasibility problems read from a problem file,
and to complete problems presolve does not decide with the gonum simplex
solver. It also provides an exerciser to call individual lpps functions
against the last problem reduced.

The program runs in one of two ways. Without arguments other than flags it
displays a menu and waits for commands. With the -batch flag it solves every
problem of a file, prints the counters of the run, and exits.

The flags are:

    -batch file   solve every problem of file and print the counters
    -input file   problem file used by the menu (feasibility_testcases.txt)
    -int          solve problems in integer mode (true)
    -workers n    batch workers, 0 for one per CPU
    -solve        solve residual problems with gonum simplex in batch mode
    -loglevel n   lpps log level, 0 (errors) to 4 (trace)

The options available from the main menu are:

    0 - exit program
    1 - read, print, and reduce problem without solving
    2 - solve problem with presolve only
    3 - solve problem with presolve and gonum simplex
    4 - solve all problems of the file
    5 - display lpps solution
    6 - select problem of the file
    7 - toggle integer mode
    f - function exerciser

To select an option, enter the corresponding letter or number when prompted.
To redisplay the available options, enter a blank line or any other
"unsupported" option.

MAIN COMMANDS

Read, print, and reduce

This option reads the selected problem of the input file, prints it, reduces
it with every reduction enabled, prints the reduced problem and the implied
bounds of the variables, and writes the pre-solve operations to psop_file.txt.
The problem is not solved.

Solve with presolve only

This option calls SolveProb on the selected problem. The result is one of
infeasible, reduced to empty (with a full solution), or residual (with the
values known so far). The pre-solve operations are written to psop_file.txt
and unsatisfied rows, if any, are logged.

Solve with presolve and gonum simplex

This option calls SolveCombined. When presolve leaves a residual problem it
is solved by the simplex method of gonum with a zero objective, and the
solution is completed by postsolve. In integer mode a fractional simplex
answer is reported as "did not converge".

Solve all problems

This option solves every problem of the input file on a worker pool and
prints how many were reduced to empty, had an integer solution, were empty,
were infeasible (and of those, by parallel rows), led to unsatisfied
constraints, or were left with a residual.

FUNCTION EXERCISER

The function exerciser gives access to the following functions:

    1 - GetLogLevel        - Get the current log level.
    2 - SetLogLevel        - Set the log level to the value specified.
    3 - PrintLP            - Print the problem of the last presolver.
    4 - PrintImpliedBounds - Print the implied bounds of the last presolver.
    5 - Psops              - List the pre-solve operations.
    6 - WritePsopFile      - Write the pre-solve operations to a text file.
    7 - EncodePsops        - Write the pre-solve operations in CBOR to psop_file.cbor.
    8 - DecodePsops        - Read psop_file.cbor back.
    9 - Stats              - Print the counters of the reduction.

Options 3 to 9 except 8 need a problem reduced with option 1 first.
*/
package main
