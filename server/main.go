package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"
)

const DEFAULT_CONFIG_FILE = "areyouin.yaml"

func main() {

	// Load .env first, a missing file is fine
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "areyouin-events",
		Usage: "Keep an event feed in sync and remind users of the events they attend.",
		Commands: []*cli.Command{
			serveCommand(),
			versionCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logger.LogEf("Application failed: %v", err)
		logger.Sync()
		os.Exit(1)
	}

	logger.Sync()
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the event store, the reminder scheduler and the admin shell.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: DEFAULT_CONFIG_FILE, Usage: "path to the YAML config file"},
			&cli.BoolFlag{Name: "memory", Usage: "keep events in memory instead of Cassandra"},
			&cli.StringFlag{Name: "user", Usage: "sign this user in on start"},
			&cli.BoolFlag{Name: "demo", Usage: "seed demo events (memory mode only)"},
			&cli.BoolFlag{Name: "debug", Usage: "log debug messages"},
		},
		Action: func(c *cli.Context) error {

			if c.Bool("debug") {
				logger.InitZap(logger.OptionSetLevel(zapcore.DebugLevel))
			}

			config, err := readConfig(c.String("config"), c.IsSet("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if c.Bool("memory") {
				config.data.MemoryMode = true
			}

			ctx, cancel := signalContext()
			defer cancel()

			server, err := NewServer(ctx, config)
			if err != nil {
				return err
			}

			if userID := c.String("user"); userID != "" {
				server.Session().Login(userID)
			}

			if c.Bool("demo") {
				if !config.MemoryMode() {
					server.Close()
					return errors.New("--demo requires memory mode")
				}
				userID, ok := server.Session().CurrentUserID()
				if !ok {
					userID = "user1"
					server.Session().Login(userID)
				}
				ids, err := initDemoEvents(ctx, server.DAO(), server.Model().Clock, userID)
				if err != nil {
					server.Close()
					return err
				}
				logger.LogIf("Server: %v demo events created for %v", len(ids), userID)
			}

			return server.Run(ctx)
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version and build time.",
		Action: func(c *cli.Context) error {
			fmt.Printf("Version %v Build %v\n", BUILD_VERSION, buildTime)
			return nil
		},
	}
}

// readConfig loads file. Without an explicit --config a missing default file
// means built-in defaults.
func readConfig(file string, explicit bool) (*Config, error) {

	config, err := loadConfigFromFile(file)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		logger.LogWf("Config file %v not found, using defaults", file)
		config, err = parseConfig(nil)
	}
	if err != nil {
		return nil, err
	}

	config.applyEnv()

	return config, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.LogIf("Received signal %v, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
