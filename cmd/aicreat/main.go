// Command aicreat drives the generation backend from a terminal: it lists the
// catalog, starts jobs and follows them, edits generated assets and downloads
// them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/logging"
	"aicreat-gateway/internal/prompt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "aicreat",
		Usage: "generate, edit and download creative assets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "generation backend base URL",
				Value:   "http://localhost:8000",
				EnvVars: []string{"CREATIVE_API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token forwarded to the backend",
				EnvVars: []string{"AICREAT_TOKEN"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per-request timeout",
				Value:   30 * time.Second,
				EnvVars: []string{"CREATIVE_API_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log backend calls",
			},
		},
		Before: func(c *cli.Context) error {
			env := "production"
			if c.Bool("debug") {
				env = "development"
			}
			logger := logging.NewWithWriter(env, c.App.ErrWriter)
			if !c.Bool("debug") {
				logger = logger.Level(zerolog.WarnLevel)
			}
			c.App.Metadata = map[string]any{
				"client": creative.NewClient(creative.Options{
					BaseURL: c.String("api-url"),
					Timeout: c.Duration("timeout"),
					Logger:  &logger,
				}).WithToken(c.String("token")),
				"logger": logger,
			}
			return nil
		},
		Commands: []*cli.Command{
			providersCommand(),
			formatsCommand(),
			generateCommand(),
			statusCommand(),
			editCommand(),
			downloadCommand(),
			projectsCommand(),
		},
	}
}

func clientFrom(c *cli.Context) *creative.Client {
	return c.App.Metadata["client"].(*creative.Client)
}

func loggerFrom(c *cli.Context) zerolog.Logger {
	return c.App.Metadata["logger"].(zerolog.Logger)
}

func terminal(c *cli.Context) *prompt.Terminal {
	return prompt.NewTerminal(os.Stdin, c.App.Writer)
}
