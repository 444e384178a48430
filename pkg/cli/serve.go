package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/enishi-chat/enishi/pkg/cli/config"
	httpctrl "github.com/enishi-chat/enishi/pkg/controller/http"
	wsctrl "github.com/enishi-chat/enishi/pkg/controller/websocket"
	"github.com/enishi-chat/enishi/pkg/repository/memory"
	"github.com/enishi-chat/enishi/pkg/service/bot"
	"github.com/enishi-chat/enishi/pkg/service/embedding"
	"github.com/enishi-chat/enishi/pkg/service/scoring"
	"github.com/enishi-chat/enishi/pkg/service/worker"
	"github.com/enishi-chat/enishi/pkg/usecase"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

const historyPruneInterval = 10 * time.Minute

func cmdServe(version string) *cli.Command {
	var addr string
	var enableCompanion bool
	var matchingCfg config.Matching
	var rulesCfg config.Rules
	var geminiCfg config.Gemini
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ENISHI_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "enable-companion",
			Usage:       "Pair lone searchers with an AI companion when nobody else is waiting (requires Gemini)",
			Sources:     cli.EnvVars("ENISHI_ENABLE_COMPANION"),
			Destination: &enableCompanion,
		},
	}

	// Add shared config flags
	flags = append(flags, matchingCfg.Flags()...)
	flags = append(flags, rulesCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the matchmaking server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			sentryCloser, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer sentryCloser()

			matching, err := matchingCfg.Configure()
			if err != nil {
				return err
			}

			rules, err := rulesCfg.Configure()
			if err != nil {
				return err
			}
			logging.Default().Info("Rule table loaded", "groups", rules.Size())

			repo := memory.New(memory.WithHistoryBounds(matching.HistoryTTL, matching.HistoryLimit))
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			hub := wsctrl.NewHub()

			ucOpts := []usecase.Option{
				usecase.WithMatching(matching),
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient != nil {
				embedder, err := embedding.New(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize embedding service")
				}
				ucOpts = append(ucOpts, usecase.WithEmbedding(embedder))
				logging.Default().Info("Embedding scoring enabled")
			} else {
				logging.Default().Info("Gemini not configured, matching runs on the rule table only")
			}

			if enableCompanion {
				if llmClient == nil {
					return goerr.New("--enable-companion requires a configured Gemini client")
				}
				companion, err := bot.New(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize companion service")
				}
				ucOpts = append(ucOpts, usecase.WithCompanion(companion))
				logging.Default().Info("AI companion enabled")
			}

			uc := usecase.New(repo, hub, scoring.New(rules), ucOpts...)
			hub.SetHandler(uc)

			pruneWorker := worker.NewHistoryPruneWorker(repo, historyPruneInterval)
			if err := pruneWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start history prune worker")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(hub, uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Graceful shutdown on SIGINT/SIGTERM
			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server",
					"addr", addr, "matching", matchingCfg.LogValue())
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			eg.Go(func() error {
				<-egCtx.Done()
				logging.Default().Info("Shutting down")

				pruneWorker.Stop()
				hub.Shutdown(context.Background())

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
