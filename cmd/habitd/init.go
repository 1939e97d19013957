// ABOUTME: Interactive config generation for habitd init
// ABOUTME: Prompts for settings and writes a YAML config plus data directory

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389/habitd/internal/config"
)

// initAnswers holds the values collected by runInit.
type initAnswers struct {
	HTTPAddr string
	Driver   string
	DBPath   string
	DSN      string
	Timezone string

	TailscaleEnabled bool
	TSHostname       string
	TSAuthKey        string
	TSEphemeral      bool
	TSFunnel         bool

	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("habitd configuration setup")
	fmt.Println("==========================")
	fmt.Println()

	defaultDbPath := filepath.Join(config.DataDir(), config.DefaultDatabaseFile)

	outputFile := prompt(reader, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, "File exists. Overwrite?", "no")) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var a initAnswers

	fmt.Println("\n--- Server Configuration ---")
	a.HTTPAddr = prompt(reader, "HTTP address", "localhost:8080")
	a.Timezone = prompt(reader, "Calendar timezone", "UTC")

	fmt.Println("\n--- Database Configuration ---")
	a.Driver = prompt(reader, "Driver (sqlite/postgres)", "sqlite")
	if a.Driver == "postgres" {
		a.DSN = prompt(reader, "PostgreSQL DSN", "${HABITD_POSTGRES_DSN}")
	} else {
		a.DBPath = prompt(reader, "SQLite database path", defaultDbPath)
	}

	fmt.Println("\n--- Tailscale Configuration ---")
	a.TailscaleEnabled = yes(prompt(reader, "Enable Tailscale?", "no"))
	if a.TailscaleEnabled {
		a.TSHostname = prompt(reader, "Tailscale hostname", "habitd")
		a.TSAuthKey = prompt(reader, "Tailscale auth key (leave empty to use TS_AUTHKEY)", "")
		a.TSEphemeral = yes(prompt(reader, "Ephemeral node?", "no"))
		a.TSFunnel = yes(prompt(reader, "Enable Funnel (public HTTPS)?", "no"))
	}

	fmt.Println("\n--- Logging Configuration ---")
	a.LogLevel = prompt(reader, "Log level (debug/info/warn/error)", "info")
	a.LogFormat = prompt(reader, "Log format (text/json)", "text")
	a.MetricsEnabled = yes(prompt(reader, "Enable Prometheus metrics?", "no"))

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// The file may carry a tailscale auth key.
	if err := os.WriteFile(outputFile, []byte(renderConfig(a)), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)

	if a.DBPath != "" {
		dataDir := filepath.Dir(a.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		fmt.Printf("Data directory: %s\n", dataDir)
	}

	fmt.Println("\nTo start the server:")
	fmt.Printf("  habitd serve\n")

	return nil
}

// renderConfig produces the YAML config for a.
func renderConfig(a initAnswers) string {
	var cfg strings.Builder
	cfg.WriteString("# habitd configuration\n")
	cfg.WriteString("# Generated by habitd init\n\n")

	cfg.WriteString("server:\n")
	if !a.TailscaleEnabled {
		cfg.WriteString(fmt.Sprintf("  http_addr: %q\n", a.HTTPAddr))
	}
	cfg.WriteString("  read_header_timeout: \"10s\"\n")
	cfg.WriteString("  shutdown_timeout: \"10s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	if a.Driver == "postgres" {
		cfg.WriteString("  driver: \"postgres\"\n")
		cfg.WriteString(fmt.Sprintf("  dsn: %q\n", a.DSN))
	} else {
		cfg.WriteString("  driver: \"sqlite\"\n")
		cfg.WriteString(fmt.Sprintf("  path: %q\n", a.DBPath))
	}
	cfg.WriteString("\n")

	cfg.WriteString("calendar:\n")
	cfg.WriteString(fmt.Sprintf("  timezone: %q\n", a.Timezone))
	cfg.WriteString("\n")

	cfg.WriteString("tailscale:\n")
	cfg.WriteString(fmt.Sprintf("  enabled: %t\n", a.TailscaleEnabled))
	if a.TailscaleEnabled {
		cfg.WriteString(fmt.Sprintf("  hostname: %q\n", a.TSHostname))
		if a.TSAuthKey != "" {
			cfg.WriteString(fmt.Sprintf("  auth_key: %q\n", a.TSAuthKey))
		}
		cfg.WriteString(fmt.Sprintf("  ephemeral: %t\n", a.TSEphemeral))
		cfg.WriteString(fmt.Sprintf("  funnel: %t\n", a.TSFunnel))
	}
	cfg.WriteString("\n")

	cfg.WriteString("toggle:\n")
	cfg.WriteString("  max_attempts: 3\n")
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", a.LogLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", a.LogFormat))
	cfg.WriteString("\n")

	cfg.WriteString("metrics:\n")
	cfg.WriteString(fmt.Sprintf("  enabled: %t\n", a.MetricsEnabled))
	cfg.WriteString("  path: \"/metrics\"\n")

	return cfg.String()
}

func yes(answer string) bool {
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
