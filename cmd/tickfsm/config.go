package main

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
)

// runConfig holds the settings of the run command. Environment variables
// provide defaults; flags given on the command line take precedence.
type runConfig struct {
	TickRate  time.Duration `env:"TICKFSM_TICK_RATE, default=10ms"`
	LogLevel  string        `env:"TICKFSM_LOG_LEVEL, default=info"`
	HTTPAddr  string        `env:"TICKFSM_HTTP_ADDR"`
	MachineID string        `env:"TICKFSM_MACHINE_ID"`
	MaxTicks  uint64        `env:"TICKFSM_MAX_TICKS, default=0"`
	Trace     bool          `env:"TICKFSM_TRACE, default=false"`
}

const (
	flagTickRate  = "tick-rate"
	flagLogLevel  = "log-level"
	flagHTTPAddr  = "http"
	flagMachineID = "machine-id"
	flagMaxTicks  = "ticks"
	flagTrace     = "trace"
)

func loadRunConfig(ctx context.Context, l envconfig.Lookuper, flags *pflag.FlagSet) (runConfig, error) {
	var cfg runConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return cfg, err
	}
	if flags == nil {
		return cfg, nil
	}

	var err error
	if flags.Changed(flagTickRate) {
		if cfg.TickRate, err = flags.GetDuration(flagTickRate); err != nil {
			return cfg, err
		}
	}
	if flags.Changed(flagLogLevel) {
		if cfg.LogLevel, err = flags.GetString(flagLogLevel); err != nil {
			return cfg, err
		}
	}
	if flags.Changed(flagHTTPAddr) {
		if cfg.HTTPAddr, err = flags.GetString(flagHTTPAddr); err != nil {
			return cfg, err
		}
	}
	if flags.Changed(flagMachineID) {
		if cfg.MachineID, err = flags.GetString(flagMachineID); err != nil {
			return cfg, err
		}
	}
	if flags.Changed(flagMaxTicks) {
		if cfg.MaxTicks, err = flags.GetUint64(flagMaxTicks); err != nil {
			return cfg, err
		}
	}
	if flags.Changed(flagTrace) {
		if cfg.Trace, err = flags.GetBool(flagTrace); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
