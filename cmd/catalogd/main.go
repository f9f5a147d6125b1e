package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curriculum-catalog/internal/catalog"
	"curriculum-catalog/internal/config"
	"curriculum-catalog/internal/export"
	"curriculum-catalog/internal/logging"
	"curriculum-catalog/internal/server"
	"curriculum-catalog/internal/sftpclient"
	"curriculum-catalog/internal/store"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogd",
	Short: "Curriculum catalog aggregation service",
	Long: `catalogd aggregates the university curriculum catalog: it pulls the
paginated curriculum collection and the school registry from the backend,
reconciles the two identifier spaces, and serves the normalized
school/program/department hierarchy to the catalog UI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Fetch the catalog and serve the aggregation API",
	RunE:  runServe,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and reconcile the catalog once, printing a JSON summary",
	RunE:  runFetch,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the canonical catalog as CSV, optionally uploading via SFTP",
	RunE:  runExport,
}

var (
	exportOut  string
	exportSFTP bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	exportCmd.Flags().StringVar(&exportOut, "out", "curriculum-catalog.csv", "output csv path")
	exportCmd.Flags().BoolVar(&exportSFTP, "sftp", false, "upload the generated CSV via SFTP")

	rootCmd.AddCommand(serveCmd, fetchCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newStore(cfg config.Config) *store.Store {
	client := catalog.New(cfg.CatalogBaseURL, cfg.CatalogToken)
	client.Log = logger
	return store.New(client, cfg.PageSize, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st := newStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	if err := st.Refresh(ctx); err != nil {
		logger.Warn("initial refresh incomplete", zap.Error(err))
	}
	cancel()

	app := server.New(st, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		errCh <- app.Listen(cfg.ListenAddr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st := newStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := st.Refresh(ctx); err != nil {
		return err
	}

	schools := st.Schools()
	synthesized := 0
	for _, s := range schools {
		if s.FromCurricula {
			synthesized++
		}
	}

	summary := map[string]any{
		"curricula":          len(st.Curricula()),
		"schools":            len(schools),
		"schoolsSynthesized": synthesized,
		"departments":        len(st.Departments()),
		"mapping":            st.Mapping(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st := newStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := st.Refresh(ctx); err != nil {
		return err
	}
	curricula := st.Curricula()

	if dir := filepath.Dir(exportOut); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := export.WriteCatalogCSV(f, curricula); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote catalog csv", zap.String("path", exportOut), zap.Int("curricula", len(curricula)))

	if !exportSFTP {
		return nil
	}

	upCtx, upCancel := context.WithTimeout(ctx, 5*time.Minute)
	defer upCancel()

	upCfg := sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}
	remoteName := filepath.Base(exportOut)
	if err := sftpclient.UploadFile(upCtx, upCfg, exportOut, remoteName); err != nil {
		return err
	}
	logger.Info("uploaded catalog csv",
		zap.String("host", upCfg.Host), zap.String("remoteDir", upCfg.RemoteDir), zap.String("file", remoteName))
	return nil
}
