// ABOUTME: CLI subcommands that talk to a running habitd over HTTP
// ABOUTME: Implements health and summary

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/2389/habitd/internal/api"
	"github.com/2389/habitd/internal/config"
)

// serverURL returns the base URL of the configured server.
// HABITD_URL overrides the address from the config file.
func serverURL() (string, error) {
	if u := os.Getenv("HABITD_URL"); u != "" {
		return strings.TrimSuffix(u, "/"), nil
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	if cfg.Server.HTTPAddr == "" {
		return "", errors.New("server.http_addr is not set (set HABITD_URL to reach a tailnet server)")
	}
	return "http://" + cfg.Server.HTTPAddr, nil
}

func get(ctx context.Context, url string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{resp.Body, cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func runHealth(ctx context.Context) error {
	base, err := serverURL()
	if err != nil {
		return err
	}

	resp, err := get(ctx, base+"/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

func runSummary(ctx context.Context) error {
	base, err := serverURL()
	if err != nil {
		return err
	}

	resp, err := get(ctx, base+"/summary")
	if err != nil {
		return fmt.Errorf("fetching summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("summary failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []api.SummaryEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("decoding summary: %w", err)
	}

	printSummary(os.Stdout, entries)
	return nil
}

// printSummary writes one line per day: date, completed/possible and a bar.
func printSummary(w io.Writer, entries []api.SummaryEntryResponse) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no completions recorded")
		return
	}

	for _, e := range entries {
		ratio := 0.0
		if e.Possible > 0 {
			ratio = e.Completed / e.Possible
		}
		fmt.Fprintf(w, "%s  %3.0f/%-3.0f %s\n",
			e.Date, e.Completed, e.Possible, ratioColor(ratio).Sprint(ratioBar(ratio)))
	}
}

const barWidth = 20

func ratioBar(ratio float64) string {
	filled := int(min(ratio, 1)*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + fmt.Sprintf(" %3.0f%%", ratio*100)
}

func ratioColor(ratio float64) *color.Color {
	switch {
	case ratio >= 1:
		return color.New(color.FgGreen)
	case ratio >= 0.5:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
