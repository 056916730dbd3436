// Package cli implements the ftcheck operator commands over the family tree archive.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"familytree/internal/config"
	"familytree/internal/core"
	"familytree/internal/logging"
)

// errChecksFailed is returned after every requested document has been reported
// and at least one of them failed.
var errChecksFailed = errors.New("one or more documents failed")

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs one invocation and always releases the session, including when
// the command itself failed.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	s := &session{}
	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if ferr := s.finish(); ferr != nil {
		fmt.Fprintln(stderr, "error:", ferr)
		err = errors.Join(err, ferr)
	}
	return err
}

// session holds the archive opened for one command invocation.
type session struct {
	archive     *core.Archive
	metricsFile string
	// registry is set only for FAMILYTREE_METRICS=prometheus; it is private to
	// the invocation and written out by finish.
	registry *prometheus.Registry
	close    func() error
}

func newRootCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ftcheck",
		Short:         "Inspect family tree documents in the configured store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.open(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&s.metricsFile, "metrics-file", "",
		"write Prometheus metrics in text exposition format to this file on exit (needs FAMILYTREE_METRICS=prometheus)")
	cmd.AddCommand(validateCmd(s), summaryCmd(s), listCmd(s))
	return cmd
}

// finish flushes metrics for a textfile collector and closes the store.
func (s *session) finish() error {
	var errs []error
	if s.registry != nil && s.metricsFile != "" {
		if err := prometheus.WriteToTextfile(s.metricsFile, s.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if s.close != nil {
		errs = append(errs, s.close())
	}
	return errors.Join(errs...)
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return report(cmd, err)
	}
	logger, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return report(cmd, err)
	}
	var reg prometheus.Registerer
	switch {
	case cfg.Metrics == "prometheus":
		s.registry = prometheus.NewRegistry()
		reg = s.registry
	case s.metricsFile != "":
		return report(cmd, errors.New("--metrics-file requires FAMILYTREE_METRICS=prometheus"))
	}
	metrics, err := core.NewMetricsRecorder(cfg.Metrics, reg)
	if err != nil {
		return report(cmd, err)
	}
	store, err := core.OpenPersistentStore(cmd.Context(), cfg.Storage)
	if err != nil {
		return report(cmd, err)
	}
	if c, ok := store.(io.Closer); ok {
		s.close = c.Close
	}
	s.archive, err = core.NewArchive(store, core.WithLogger(logger), core.WithMetricsRecorder(metrics))
	if err != nil {
		return report(cmd, err)
	}
	logger.Debug("store opened", "driver", string(store.Driver()))
	return nil
}

// report prints err on the command's error stream and returns it.
func report(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
	return err
}
