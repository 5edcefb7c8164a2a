package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atvirokodosprendimai/mortgageapi/internal/app"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "mortgageapi",
		Usage: "Mortgage affordability API for the no-down-payment loan program",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "HTTP listen address",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Value: "./mortgageapi.sqlite",
				Usage: "SQLite file path",
			},
			&cli.StringFlag{
				Name:    "rates-url",
				Sources: cli.EnvVars("MORTGAGEAPI_RATES_URL"),
				Usage:   "Upstream rate feed URL (enables the daily refresher)",
			},
			&cli.DurationFlag{
				Name:    "refresh-interval",
				Value:   24 * time.Hour,
				Sources: cli.EnvVars("MORTGAGEAPI_REFRESH_INTERVAL"),
				Usage:   "How often to poll the rate feed",
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Sources: cli.EnvVars("MORTGAGEAPI_REDIS_ADDR"),
				Usage:   "Optional redis address for the shared rate cache",
			},
			&cli.StringFlag{
				Name:    "bootstrap-api-key",
				Sources: cli.EnvVars("MORTGAGEAPI_BOOTSTRAP_API_KEY"),
				Usage:   "Optional admin API key to upsert at startup",
			},
			&cli.StringFlag{
				Name:    "bootstrap-key-name",
				Value:   "bootstrap",
				Sources: cli.EnvVars("MORTGAGEAPI_BOOTSTRAP_KEY_NAME"),
				Usage:   "Name for the bootstrap API key",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := app.Config{
				Addr:             c.String("addr"),
				DBPath:           c.String("db-path"),
				RatesURL:         c.String("rates-url"),
				RefreshInterval:  c.Duration("refresh-interval"),
				RedisAddr:        c.String("redis-addr"),
				BootstrapAPIKey:  c.String("bootstrap-api-key"),
				BootstrapKeyName: c.String("bootstrap-key-name"),
			}

			server, closer, err := app.NewServer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					log.Printf("close resources: %v", closeErr)
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s", cfg.Addr)
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case sig := <-sigCh:
				log.Printf("received signal %s", sig)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
