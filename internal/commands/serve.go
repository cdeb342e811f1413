package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/internal/accounts"
	"github.com/ledgerbook/ledgerbook/internal/api"
	"github.com/ledgerbook/ledgerbook/internal/audit"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/logging"
	"github.com/ledgerbook/ledgerbook/internal/tax"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	repoDir   string
	addr      string
	logLevel  string
	logFormat string
}

func newServeCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(opts.repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			opts.repoDir = absDir

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, logger, cleanup, err := buildServer(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()
			return runServer(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (default from config)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json (default from config)")

	return cmd
}

// buildServer loads the repo and environment and wires the API. Flags take
// precedence over LEDGERBOOK_* variables, which take precedence over
// ledgerbook.yaml.
func buildServer(ctx context.Context, opts serveOptions) (*http.Server, *logrus.Logger, func(), error) {
	if err := config.LoadDotEnv(filepath.Join(opts.repoDir, ".env")); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(opts.repoDir)
	if err != nil {
		return nil, nil, nil, err
	}
	config.ApplyEnv(cfg)
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}

	chart, err := accounts.Load(opts.repoDir)
	if err != nil {
		return nil, nil, nil, err
	}
	seq, closeSeq, err := openSequencer(ctx, cfg, opts.repoDir)
	if err != nil {
		return nil, nil, nil, err
	}

	handler := api.New(api.Deps{
		Config:     cfg,
		Accounts:   chart,
		Vouchers:   voucher.NewService(newValidator(cfg, chart, seq), voucher.NewBook(), logger),
		Calculator: tax.NewCalculator(nil),
		History:    tax.NewHistory(),
		Logger:     logger,
		Audit:      audit.NewLog(opts.repoDir, "api"),
	}).Handler()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanup := func() {
		if err := closeSeq(); err != nil {
			logging.LogError(logger, "commands", "buildServer", "closing sequencer", nil, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"business": cfg.Business.Name,
		"accounts": len(chart.All()),
		"sequence": cfg.Vouchers.Sequence.Backend,
	}).Info("ledgerbook configured")
	return srv, logger, cleanup, nil
}

// runServer serves until ctx is done, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, logger *logrus.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
