package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velachain/vela-node/utils"
)

func TestLogLevelString(t *testing.T) {
	for level, str := range map[utils.LogLevel]string{
		utils.DEBUG: "debug",
		utils.INFO:  "info",
		utils.WARN:  "warn",
		utils.ERROR: "error",
	} {
		assert.Equal(t, str, level.String())
	}
}

func TestLogLevelSet(t *testing.T) {
	for _, s := range []string{"debug", "DEBUG", "info", "INFO", "warn", "WARN", "error", "ERROR"} {
		var level utils.LogLevel
		require.NoError(t, level.Set(s), s)
	}

	var level utils.LogLevel
	assert.ErrorIs(t, level.Set("fatal"), utils.ErrUnknownLogLevel)
	assert.ErrorIs(t, level.UnmarshalText([]byte("trace")), utils.ErrUnknownLogLevel)
}

func TestNewZapLogger(t *testing.T) {
	for _, level := range []utils.LogLevel{utils.DEBUG, utils.INFO, utils.WARN, utils.ERROR} {
		for _, colour := range []bool{true, false} {
			log, err := utils.NewZapLogger(level, colour)
			require.NoError(t, err)
			log.Named("test").Debugw("hidden at most levels", "level", level)
		}
	}
}

func TestNopLogger(t *testing.T) {
	log := utils.NewNopLogger()
	log.Debugw("msg")
	log.Infow("msg")
	log.Warnw("msg")
	log.Errorw("msg")
	assert.NotNil(t, log.Named("child"))
}
