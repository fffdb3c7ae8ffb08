package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/tickfsm"
	"github.com/comalice/tickfsm/internal/core"
	"github.com/comalice/tickfsm/internal/extensibility"
	tlog "github.com/comalice/tickfsm/internal/log"
	"github.com/comalice/tickfsm/internal/metrics"
	"github.com/comalice/tickfsm/internal/primitives"
	"github.com/comalice/tickfsm/internal/production"
	"github.com/comalice/tickfsm/realtime"
)

const shutdownTimeout = 5 * time.Second

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Load a machine definition and tick it until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadRunConfig(ctx, envconfig.OsLookuper(), cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tlog.Configure(tlog.Config{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})

			mc, err := primitives.LoadFile(args[0])
			if err != nil {
				return err
			}
			return run(ctx, cfg, mc, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Duration(flagTickRate, realtime.DefaultTickRate, "Interval between ticks")
	cmd.Flags().String(flagHTTPAddr, "", "Serve /metrics, /state and /dot on this address")
	cmd.Flags().String(flagMachineID, "", "Machine label for logs and metrics (defaults to the file's id)")
	cmd.Flags().Uint64(flagMaxTicks, 0, "Stop after this many ticks (0 runs until interrupted)")
	cmd.Flags().Bool(flagTrace, false, "Print every state change as a JSON line")
	return cmd
}

// run drives mc until ctx is canceled, the tick limit is reached or a tick
// fails.
func run(ctx context.Context, cfg runConfig, mc primitives.MachineConfig, out io.Writer) error {
	machineID := cfg.MachineID
	if machineID == "" {
		machineID = mc.ID
	}
	logger := tlog.WithComponent("run").With().Str(tlog.FieldMachine, machineID).Logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var lm *core.Machine
	names := func(i tickfsm.StateIndex) string { return lm.NameOf(i) }

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg, machineID, names)

	steps := make(chan production.PublishedStep, 64)
	publisher := production.NewChannelPublisher(steps)

	machineOpts := []tickfsm.Option{tickfsm.WithObserver(collector.Observe)}
	if cfg.Trace {
		machineOpts = append(machineOpts, tickfsm.WithObserver(publisher.Observer(machineID, names)))
	}
	if cfg.MaxTicks > 0 {
		machineOpts = append(machineOpts, tickfsm.WithObserver(func(s tickfsm.Step) {
			if s.Tick >= cfg.MaxTicks {
				cancel()
			}
		}))
	}

	vars := primitives.NewContext()
	actions := extensibility.NewLoggingActionRunner(extensibility.NewNamedActions(vars, logger), logger)

	var err error
	lm, err = core.Load(mc,
		core.WithLogger(logger),
		core.WithContext(vars),
		core.WithActionRunner(actions),
		core.WithMachineOptions(machineOpts...),
	)
	if err != nil {
		return err
	}

	rt := realtime.NewRuntime(lm.Machine, realtime.Config{
		TickRate: cfg.TickRate,
		Logger:   &logger,
		OnError:  collector.ObserveError,
	})

	g, gctx := errgroup.WithContext(ctx)
	if err := rt.Start(gctx); err != nil {
		return err
	}
	logger.Info().
		Dur(tlog.FieldTickRate, cfg.TickRate).
		Str(tlog.FieldState, lm.NameOf(rt.GetCurrentState())).
		Msg("machine started")

	g.Go(func() error {
		defer publisher.Close()
		return rt.Wait()
	})

	g.Go(func() error {
		enc := json.NewEncoder(out)
		for s := range steps {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	})

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           newServer(lm, rt, reg, logger).routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str(tlog.FieldAddr, cfg.HTTPAddr).Msg("http listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	final := lm.NameOf(rt.GetCurrentState())
	ev := logger.Info()
	if err != nil {
		ev = logger.Error().Err(err)
	}
	ev.Uint64(tlog.FieldTick, rt.GetTickNumber()).Str(tlog.FieldState, final).Msg("machine stopped")
	return err
}
