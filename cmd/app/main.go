package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/jera/internal"
	"github.com/starford/jera/internal/mcpserver"
	"github.com/starford/jera/internal/navigate"
	"github.com/starford/jera/internal/slot"
	pkgconfig "github.com/starford/jera/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func initConfig(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote default config to %s\n", path)
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runOnce(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	svc, cleanup, err := internal.BuildService(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	res := svc.Run(ctx)
	fmt.Printf("run %s: created %d, failed %d\n", res.RunID, res.Created(), res.Failed())
	for _, rep := range res.Reports {
		for _, p := range rep.Created {
			fmt.Printf("  %s %s\n", rep.Period, p)
		}
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("run finished with errors: %v", res.Errors)
	}
	return nil
}

func open(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	period, err := slot.ParsePeriod(cmd.String("period"))
	if err != nil {
		return err
	}
	dir, err := navigate.ParseDirection(cmd.String("direction"))
	if err != nil {
		return err
	}

	svc, cleanup, err := internal.BuildService(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	path, err := svc.Resolve(ctx, period, dir, cmd.String("anchor"))
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no note for that slot")
	}
	fmt.Println(path)
	return nil
}

func history(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := internal.NewLogger(cfg)

	svc, cleanup, err := internal.BuildService(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := svc.History(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  created=%d failed=%d\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.ID, r.Created, r.Failed)
	}
	return nil
}

func mcpStdio(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Stdout belongs to the MCP transport; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, cleanup, err := internal.BuildService(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	return mcpserver.New(svc).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "jera",
		Usage: "Gapless calendar of dated journal notes: backfill, navigation, and a REST/MCP surface",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a default config file",
				Action: initConfig,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with scheduled reconciliation",
				Action: serve,
			},
			{
				Name:   "run",
				Usage:  "Run one reconciliation pass and exit",
				Action: runOnce,
			},
			{
				Name:   "open",
				Usage:  "Resolve a journal navigation request to a vault path",
				Action: open,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "period",
						Usage: "Period type: daily or monthly",
						Value: "daily",
					},
					&cli.StringFlag{
						Name:  "direction",
						Usage: "Direction: previous, next, or today",
						Value: "today",
					},
					&cli.StringFlag{
						Name:  "anchor",
						Usage: "Anchor note path the direction is relative to",
					},
				},
			},
			{
				Name:   "history",
				Usage:  "List recent reconciliation runs",
				Action: history,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve journal tools over the Model Context Protocol on stdio",
				Action: mcpStdio,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
