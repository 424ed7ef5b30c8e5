// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/resolvit"
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/ingestion"
	"github.com/poiesic/resolvit/resolve"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "resolvit",
		Usage: "Self-hosted fuzzy address resolution engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show corpus and index statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a TSV address file into the corpus",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "TSV file: unit, number, street name, street type, locality, region, postcode, [lat, lng]",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per ingest batch",
						Value: 1000,
					},
				},
			},
			{
				Name:   "rebuild",
				Usage:  "Rebuild the index from the stored corpus",
				Action: rebuildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
				},
			},
			{
				Name:   "resolve",
				Usage:  "Resolve a query against the corpus",
				Action: resolveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB corpus directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML resolver configuration file",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per-query deadline (0 disables)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine assembles the engine for a command, loading the resolver
// config file when the command defines a config flag and one was given.
func openEngine(c *cli.Context, opts ...resolvit.EngineOption) (*resolvit.Engine, error) {
	if path := c.String("config"); path != "" {
		config, err := resolve.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("invalid resolver configuration: %w", err)
		}
		opts = append(opts, resolvit.WithResolveConfig(config))
	}
	return resolvit.Open(c.String("db"), opts...)
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Stored records:  %d\n", stats.StoredRecords)
	fmt.Printf("Indexed records: %d\n", stats.IndexedRecords)
	fmt.Printf("Indexed tokens:  %d\n", stats.IndexedTokens)
	if !stats.ShardBuiltAt.IsZero() {
		fmt.Printf("Shard built at:  %s\n", stats.ShardBuiltAt.Format(time.RFC3339))
	}
	if cp := stats.LastCheckpoint; cp != nil {
		fmt.Printf("Last build:      %s (%d records, %d tokens)\n",
			cp.UpdatedAt.Format(time.RFC3339), cp.Records, cp.Tokens)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	batch := make([]*core.AddressRecord, 0, batchSize)
	ingested := 0
	lineNo := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := engine.Ingest(ctx, batch...); err != nil {
			return err
		}
		ingested += len(batch)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		record, err := ingestion.ParseTSVLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if record == nil {
			continue
		}
		batch = append(batch, record)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return fmt.Errorf("line %d: ingest failed: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading input file: %w", err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d records\n", ingested)
	return nil
}

func rebuildCommand(c *cli.Context) error {
	engine, err := openEngine(c, resolvit.WithProgress(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	// Open already rebuilt a non-empty corpus; report what it produced.
	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Index ready: %d records, %d tokens\n",
		stats.IndexedRecords, stats.IndexedTokens)
	return nil
}

func resolveCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	ctx := context.Background()
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := engine.Resolve(ctx, query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	printResults(query, result)
	return nil
}

func printResults(query string, result *resolve.Result) {
	fmt.Printf("Found %d hits for %q\n", len(result.Results), query)
	if result.Truncated {
		fmt.Println("(partial: deadline expired before all candidates were scored)")
	}
	for i, hit := range result.Results {
		fmt.Printf("%d: '%s' (%d)[%0.1f]\n", i, hit.Display, hit.Id, hit.Score)
		for _, span := range hit.Spans {
			fmt.Printf("   %s [%d:%d]\n", span.Field, span.Start, span.End)
		}
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
