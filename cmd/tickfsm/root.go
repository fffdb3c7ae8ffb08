package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/tickfsm/internal/core"
	"github.com/comalice/tickfsm/internal/primitives"
	"github.com/comalice/tickfsm/internal/production"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tickfsm",
		Short:         "Run tick-driven state machines",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String(flagLogLevel, "info",
		"Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(), newDotCmd(), newValidateCmd())
	return rootCmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a machine definition and resolve its guards and actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := primitives.LoadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := core.Load(cfg); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d states, version %s\n",
				cfg.ID, len(cfg.States), primitives.ComputeVersion(&cfg))
			return err
		},
	}
}

func newDotCmd() *cobra.Command {
	var current string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dot FILE",
		Short: "Render a machine definition as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := primitives.LoadFile(args[0])
			if err != nil {
				return err
			}
			v := &production.DefaultVisualizer{}
			if asJSON {
				data, err := v.ExportJSON(cfg)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(cfg, current))
			return err
		},
	}
	cmd.Flags().StringVar(&current, "highlight", "", "State to highlight")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the definition as JSON instead")
	return cmd
}
