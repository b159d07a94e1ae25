package lpps

// log: leveled printing used by every lpps component.
//
// Messages go through a zerolog logger. The package level (pERR ... pTRC)
// decides what is printed; SetLogOutput redirects it, for example to a file
// when many problems are processed in a batch.

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Print levels, from least to most verbose.
const (
	pERR  = 0 // errors only
	pWARN = 1 // warnings and errors
	pINFO = 2 // progress of the reduction loop
	pDEB  = 3 // every rule application
	pTRC  = 4 // cache rebuilds and postsolve steps
)

var logLevel int32 = pWARN // current print level
var logger atomic.Value     // zerolog.Logger used by log()

func init() {
	SetLogOutput(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}

// SetLogOutput directs all lpps messages to w. Passing nil discards them.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	logger.Store(zerolog.New(w).Level(zerolog.TraceLevel))
}

// SetLogLevel sets the level of detail printed by lpps, from 0 (errors only)
// to 4 (trace). In case of failure, function returns an error.
func SetLogLevel(level int) error {
	if level < pERR || level > pTRC {
		return errors.Errorf("Log level %d out of range [%d, %d]", level, pERR, pTRC)
	}

	atomic.StoreInt32(&logLevel, int32(level))
	return nil
}

// GetLogLevel passes back the current print level in the level variable.
// In case of failure, function returns an error.
func GetLogLevel(level *int) error {
	if level == nil {
		return errors.New("GetLogLevel received a nil pointer")
	}

	*level = int(atomic.LoadInt32(&logLevel))
	return nil
}

// log prints the formatted message if the package print level is at least
// the level given. Trailing newlines are dropped since zerolog terminates
// every event itself.
func log(level int, format string, args ...interface{}) {
	if int32(level) > atomic.LoadInt32(&logLevel) {
		return
	}

	zl := logger.Load().(zerolog.Logger)
	msg := fmt.Sprintf(format, args...)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}

	switch level {
	case pERR:
		zl.Error().Msg(msg)
	case pWARN:
		zl.Warn().Msg(msg)
	case pINFO:
		zl.Info().Msg(msg)
	case pDEB:
		zl.Debug().Msg(msg)
	default:
		zl.Trace().Msg(msg)
	}
}
