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
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/stemdex"
	"github.com/poiesic/stemdex/reindex"
	"github.com/poiesic/stemdex/server"
	"github.com/poiesic/stemdex/text"
	"github.com/urfave/cli/v2"
)

const defaultBatchSize = 100

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stemdex",
		Usage: "Porter2 stemmer and stemmed full-text index",
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
				Name:      "stem",
				Usage:     "Print the stem of each word (reads stdin when no words are given)",
				ArgsUsage: "[WORD...]",
				Action:    stemCommand,
			},
			{
				Name:      "index",
				Usage:     "Index each non-empty line of the given files (or stdin) as a document",
				ArgsUsage: "[FILE...]",
				Action:    indexCommand,
				Flags: append(indexFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to ingest per transaction",
						Value: defaultBatchSize,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the index",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append(indexFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-stem every stored document with the current analyzer settings",
				Action: reindexCommand,
				Flags: append(indexFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: reindex.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a batch write that hits a transaction conflict",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "resume",
						Usage: "Continue after the last checkpoint of an interrupted run instead of starting over",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the stem and search HTTP API",
				Action: serveCommand,
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
				),
			},
		},
	}
}

// indexFlags are shared by every command that opens a database.
func indexFlags() []cli.Flag {
	defaults := stemdex.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Number of stemming workers",
			Value: defaults.PoolSize,
		},
		&cli.IntFlag{
			Name:  "min-token-length",
			Usage: "Drop tokens shorter than this",
			Value: defaults.MinTokenLength,
		},
		&cli.BoolFlag{
			Name:  "keep-stopwords",
			Usage: "Index and query English stopwords",
		},
		&cli.BoolFlag{
			Name:  "compress",
			Usage: "Store new documents zstd-compressed",
		},
	}
}

func configFromFlags(c *cli.Context) *stemdex.Config {
	return stemdex.NewConfig(
		stemdex.WithPoolSize(c.Int("pool-size")),
		stemdex.WithMinTokenLength(c.Int("min-token-length")),
		stemdex.WithStopWords(c.Bool("keep-stopwords")),
		stemdex.WithCompression(c.Bool("compress")),
	)
}

func openDatabase(c *cli.Context) (*stemdex.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return stemdex.NewDatabase(dbPath, stemdex.WithConfig(configFromFlags(c)))
}

func stemCommand(c *cli.Context) error {
	out := c.App.Writer
	if c.NArg() > 0 {
		for _, word := range c.Args().Slice() {
			printStem(out, word)
		}
		return nil
	}

	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		for _, word := range strings.Fields(scanner.Text()) {
			printStem(out, word)
		}
	}
	return scanner.Err()
}

func printStem(out io.Writer, word string) {
	lower := strings.ToLower(word)
	fmt.Fprintf(out, "%s %s\n", lower, text.StemToken(lower))
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	batchSize := c.Int("batch-size")
	if batchSize < 1 {
		return fmt.Errorf("batch-size must be at least 1")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var readers []io.Reader
	if c.NArg() == 0 {
		readers = append(readers, c.App.Reader)
	}
	for _, path := range c.Args().Slice() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		readers = append(readers, f)
	}

	total := 0
	batch := make([]string, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		docs, err := db.Ingest(ctx, batch)
		if err != nil {
			return err
		}
		total += len(docs)
		slog.Debug("indexed batch", "documents", len(docs), "total", total)
		batch = batch[:0]
		return nil
	}

	for _, r := range readers {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			batch = append(batch, line)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	if err := flush(); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Indexed %d documents\n", total)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Search(ctx, query, c.Int("limit"))
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(out, "%d: '%s' (%d)[%0.3f]\n", i, hit.Document.Contents, hit.Document.Id, hit.Score)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Resume:         c.Bool("resume"),
	}
	if config.MaxRetries < 1 {
		return fmt.Errorf("max-retries must be at least 1")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	reindexer, err := reindex.NewReindexer(db.DocumentRepository(), db.CheckpointRepository(), db.Analyzer(), config, c.App.Writer)
	if err != nil {
		return err
	}

	_, err = reindexer.Run(ctx)
	return err
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := server.New(db, server.WithAddr(c.String("addr")), server.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
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
