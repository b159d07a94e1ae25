package lpps

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	var level int

	require.NoError(t, GetLogLevel(&level))
	defer SetLogLevel(level)

	assert.Error(t, SetLogLevel(pTRC+1))
	assert.Error(t, SetLogLevel(-1))
	assert.Error(t, GetLogLevel(nil))

	require.NoError(t, SetLogLevel(pDEB))
	require.NoError(t, GetLogLevel(&level))
	assert.Equal(t, pDEB, level)
}

func TestLogOutput(t *testing.T) {
	var buf bytes.Buffer
	var level int

	require.NoError(t, GetLogLevel(&level))
	SetLogOutput(&buf)
	defer func() {
		SetLogOutput(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
		SetLogLevel(level)
	}()

	require.NoError(t, SetLogLevel(pDEB))
	_, err := SolveProb(ProblemInput{
		Matrix: [][]int64{{3}}, Lower: []float64{6}, Upper: []float64{6}, NumEq: 1,
	}, DefaultPsCtrl())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), "RCS: row 0 col 0")

	buf.Reset()
	require.NoError(t, SetLogLevel(pERR))
	log(pINFO, "hidden\n")
	assert.Empty(t, buf.String())
}
