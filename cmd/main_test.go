package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"wedding/site/internal/config"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := rootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "promote", "seed", "version"} {
		assert.True(t, names[want], want)
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.yaml", flag.DefValue)
}

func TestPromoteCmd_RequiresEmail(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"promote"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = newLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
