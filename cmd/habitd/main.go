// ABOUTME: Entry point for habitd, the habit tracking server
// ABOUTME: Dispatches serve, init, health, summary and version subcommands

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	_ "time/tzdata"

	"github.com/fatih/color"

	"github.com/2389/habitd/internal/config"
	"github.com/2389/habitd/internal/logging"
	"github.com/2389/habitd/internal/server"
)

// version is the build version, set with -ldflags "-X main.version=v1.2.3".
var version = "dev"

const banner = `
  _           _     _ _       _
 | |__   __ _| |__ (_) |_  __| |
 | '_ \ / _' | '_ \| | __|/ _' |
 | | | | (_| | |_) | | |_| (_| |
 |_| |_|\__,_|_.__/|_|\__|\__,_|
`

// getConfigPath returns the path to the habitd config file.
// Priority: HABITD_CONFIG env var > XDG_CONFIG_HOME/habitd/config.yaml > ~/.config/habitd/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("HABITD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "habitd", "config.yaml")
}

func usage() {
	fmt.Println("Usage: habitd <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve     Start the habit server")
	fmt.Println("  init      Create a new config file interactively")
	fmt.Println("  health    Check server health")
	fmt.Println("  summary   Print per-day completion ratios")
	fmt.Println("  version   Print the build version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	case "summary":
		err = runSummary(ctx)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", describeDatabase(cfg.Database))
	green.Print("    ▶ ")
	fmt.Printf("Timezone:  %s\n", cfg.Calendar.Location())

	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel {
			yellow.Print(" [funnel]")
		} else if cfg.Tailscale.HTTPS {
			yellow.Print(" [https]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	} else {
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	}
	if cfg.Metrics.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Metrics:   %s\n", cfg.Metrics.Path)
	}

	fmt.Println()

	logger.Info("starting habitd",
		"version", version,
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"driver", cfg.Database.Driver,
	)

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx)
}

// describeDatabase renders the store location without exposing DSN credentials.
func describeDatabase(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return "postgres"
	}
	return cfg.Path
}
