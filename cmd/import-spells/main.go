// Package main provides the SRD spell importer that writes the spell
// reference table consumed by npcgen.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/npcforge/internal/config"
	"github.com/cory-johannsen/npcforge/internal/importer"
	"github.com/cory-johannsen/npcforge/internal/importer/srd"
	"github.com/cory-johannsen/npcforge/internal/observability"
)

func main() {
	output := flag.String("output", "content/reference/spells.yaml", "path of the spell table to write")
	baseURL := flag.String("base-url", "", "SRD API base URL (empty = library default)")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request HTTP timeout")
	class := flag.String("class", "", "only import spells for this class index, e.g. wizard")
	level := flag.Int("level", -1, "only import spells of this level (-1 = all)")
	names := flag.String("spells", "", "comma-separated spell names to import; overrides -class and -level")
	merge := flag.Bool("merge", true, "keep existing entries the import does not replace")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api, err := srd.NewClient(*baseURL, *timeout)
	if err != nil {
		logger.Fatal("creating SRD client", zap.Error(err))
	}

	filter := srd.Filter{Class: *class}
	if *level >= 0 {
		filter.Level = level
	}
	for _, n := range strings.Split(*names, ",") {
		if n = strings.TrimSpace(n); n != "" {
			filter.Names = append(filter.Names, n)
		}
	}

	start := time.Now()
	src := srd.NewSource(api, filter, observability.Component(logger, "srd"))
	imp := importer.New(src,
		importer.WithMerge(*merge),
		importer.WithLogger(observability.Component(logger, "importer")),
	)
	n, err := imp.Run(ctx, *output)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	fmt.Printf("imported %d spell(s) into %s in %s\n", n, *output, time.Since(start).Round(time.Millisecond))
}
