// Command enrich runs the analytics pipeline offline: it reads a detection
// engine payload from a file or stdin and writes the derived view to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
	"github.com/davidleathers/muletrace-analytics/internal/service/enrichment"
)

// Command-line flags
var (
	inputPath = flag.String("in", "-", "Payload JSON file, or - for stdin")
	pretty    = flag.Bool("pretty", false, "Indent the output JSON")
	at        = flag.String("at", "", "Reference time for synthetic windows (RFC3339, default now)")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, "enrich:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	data, err := readInput(*inputPath)
	if err != nil {
		return err
	}

	payload, err := detection.ParsePayload(data)
	if err != nil {
		return err
	}

	opts := []enrichment.Option{}
	if *at != "" {
		ref, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("parsing -at: %w", err)
		}
		opts = append(opts, enrichment.WithClock(func() time.Time { return ref }))
	}

	svc := enrichment.NewService(nil, logger, opts...)
	result, err := svc.Enrich(context.Background(), payload)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
