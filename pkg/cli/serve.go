package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/mnemosyne/pkg/cli/config"
	httpctrl "github.com/secmon-lab/mnemosyne/pkg/controller/http"
	"github.com/secmon-lab/mnemosyne/pkg/usecase"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var configPath string
	var sessionsCfg config.Sessions
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Sources:     cli.EnvVars("MNEMOSYNE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("MNEMOSYNE_CONFIG"),
			Destination: &configPath,
		},
	}
	flags = append(flags, sessionsCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			fileCfg, err := config.LoadFile(configPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration file")
			}

			store, err := sessionsCfg.Configure(ctx, fileCfg.SessionsDir)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize session store")
			}

			repo, err := repoCfg.Configure(ctx, fileCfg.TasksFile)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize task store")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close task store", "error", err.Error())
				}
			}()

			uc := usecase.New(store, repo)

			listenAddr := addr
			if listenAddr == "" {
				if fileCfg.Addr != "" {
					listenAddr = fileCfg.Addr
				} else {
					listenAddr = "127.0.0.1:8021"
				}
			}

			server := &http.Server{
				Addr:              listenAddr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", listenAddr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
