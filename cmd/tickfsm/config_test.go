package main

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	cmd := newRunCmd()
	cmd.Flags().String(flagLogLevel, "info", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd.Flags()
}

func TestLoadRunConfigDefaults(t *testing.T) {
	cfg, err := loadRunConfig(context.Background(), envconfig.MapLookuper(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.TickRate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Zero(t, cfg.MaxTicks)
}

func TestLoadRunConfigFromEnv(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{
		"TICKFSM_TICK_RATE": "250ms",
		"TICKFSM_HTTP_ADDR": ":9100",
		"TICKFSM_MAX_TICKS": "40",
		"TICKFSM_TRACE":     "true",
	})
	cfg, err := loadRunConfig(context.Background(), env, runFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.TickRate)
	assert.Equal(t, ":9100", cfg.HTTPAddr)
	assert.Equal(t, uint64(40), cfg.MaxTicks)
	assert.True(t, cfg.Trace)
}

func TestFlagsOverrideEnv(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{
		"TICKFSM_TICK_RATE": "250ms",
		"TICKFSM_LOG_LEVEL": "warn",
	})
	flags := runFlags(t, "--tick-rate=5ms", "--log-level=debug", "--machine-id=lab")
	cfg, err := loadRunConfig(context.Background(), env, flags)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, cfg.TickRate)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "lab", cfg.MachineID)
}

func TestLoadRunConfigBadEnv(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{"TICKFSM_TICK_RATE": "soon"})
	_, err := loadRunConfig(context.Background(), env, nil)
	assert.Error(t, err)
}
