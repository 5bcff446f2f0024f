package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hackgods/dentist-appointment-booking/internal/appointment"
	"github.com/hackgods/dentist-appointment-booking/internal/bootstrap"
	"github.com/hackgods/dentist-appointment-booking/internal/config"
	"github.com/hackgods/dentist-appointment-booking/internal/logger"
)

// app carries what every subcommand needs once the root pre-run has opened
// the store.
type app struct {
	verbose bool
	log     *zap.Logger
	rt      *bootstrap.Runtime
}

func (a *app) svc() *appointment.Service { return a.rt.Service }

// close releases what the pre-run opened. It runs after every command,
// including failed ones, which cobra's post-run hooks skip.
func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.rt == nil {
		return nil
	}
	err := a.rt.Close()
	a.rt = nil
	return err
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dentist",
		Short:         "Book and manage dentist appointments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !a.verbose {
				cfg.LogLevel = "warn"
			}
			a.log = logger.New(cfg)

			rt, err := bootstrap.Open(cmd.Context(), cfg, a.log)
			if err != nil {
				return err
			}
			a.rt = rt
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at the configured level instead of warn")

	rootCmd.AddCommand(
		slotsCmd(a),
		bookCmd(a),
		listCmd(a),
		cancelCmd(a),
		rescheduleCmd(a),
		historyCmd(a),
		exportCmd(a),
		darkModeCmd(a),
		archiveCmd(a),
		seedCmd(a),
	)
	return rootCmd
}

func execute(ctx context.Context, a *app, out io.Writer, args []string) error {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)

	err := rootCmd.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func main() {
	if err := execute(context.Background(), &app{}, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}
