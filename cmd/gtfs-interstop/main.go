package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theoremus-urban-solutions/gtfs-interstop/config"
	"github.com/theoremus-urban-solutions/gtfs-interstop/engine"
	"github.com/theoremus-urban-solutions/gtfs-interstop/feed"
	"github.com/theoremus-urban-solutions/gtfs-interstop/metrics"
	"github.com/theoremus-urban-solutions/gtfs-interstop/server"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to YAML configuration")
	feedPath := flag.String("feed", "", "path to GTFS zip (overrides config)")
	date := flag.String("date", "", "analysis date, YYYYMMDD (oneshot mode)")
	routes := flag.String("routes", "", "comma-separated route_id filter (empty = all routes)")
	format := flag.String("format", "json", "oneshot output format: json|csv")
	serve := flag.Bool("serve", false, "serve the HTTP query API instead of running oneshot")
	workers := flag.Int("workers", 0, "analyzer worker pool size (0 = one per CPU)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *feedPath != "" {
		cfg.Feed.Path = *feedPath
	}
	if *workers > 0 {
		cfg.Analysis.Workers = *workers
	}
	if cfg.Feed.Path == "" {
		logger.Error("no feed given, set -feed or feed.path in config")
		os.Exit(1)
	}

	store, err := feed.NewStoreFromZipFile(cfg.Feed.Path, logger)
	if err != nil {
		logger.Error("feed load failed", "feed", cfg.Feed.Path, "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	eng, err := engine.New(store, cfg.Analysis.Workers,
		engine.WithLogger(logger),
		engine.WithCollector(collector),
	)
	if err != nil {
		logger.Error("engine init failed", "error", err)
		os.Exit(1)
	}

	if *serve {
		runServer(eng, logger, collector, cfg)
		return
	}

	if *date == "" {
		logger.Error("oneshot mode needs -date YYYYMMDD")
		os.Exit(1)
	}
	report, err := eng.Run(context.Background(), *date, splitRoutes(*routes))
	if err != nil {
		logger.Error("analysis failed", "date", *date, "error", err)
		os.Exit(1)
	}
	if err := writeReport(os.Stdout, report, *format); err != nil {
		logger.Error("output failed", "error", err)
		os.Exit(1)
	}
}

func runServer(eng *engine.Engine, logger *slog.Logger, collector *metrics.Collector, cfg config.AppConfig) {
	srv := server.New(eng, logger, collector)
	srv.Start(cfg.Server.Port)
	if cfg.Analysis.MetricsAddr != "" {
		collector.Serve(cfg.Analysis.MetricsAddr, logger)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}

func splitRoutes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeReport(w *os.File, report *engine.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"route_id", "total_distance_meters", "total_elapsed_seconds", "average_speed_mps", "segment_count", "outlier_count", "skipped_trips"}); err != nil {
			return err
		}
		ids := make([]string, 0, len(report.Routes))
		for id := range report.Routes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			agg := report.Routes[id]
			row := []string{
				agg.RouteID,
				strconv.FormatFloat(agg.TotalDistanceMeters, 'f', 1, 64),
				strconv.Itoa(agg.TotalElapsedSeconds),
				strconv.FormatFloat(agg.AverageSpeedMPS, 'f', 3, 64),
				strconv.Itoa(agg.SegmentCount),
				strconv.Itoa(agg.OutlierCount),
				strconv.Itoa(agg.SkippedTrips),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
