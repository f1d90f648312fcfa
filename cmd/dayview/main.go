package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"dayview/internal/backend"
	"dayview/internal/config"
	"dayview/internal/dayview"
	"dayview/internal/ics"
	appLog "dayview/internal/log"
	"dayview/internal/timeutil"
	"dayview/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	date       string
	out        string
	once       bool
	debug      bool
}

func main() {
	appLog.Info("dayview starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("failed to load display timezone", err, "timezone", conf.Timezone)
		os.Exit(1)
	}
	norm := timeutil.NewNormalizer(loc)

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"backend_url", conf.BackendURL,
		"refresh", conf.RefreshCron,
		"width", conf.Width,
		"height", conf.Height,
		"ics_count", len(conf.ICS),
		"once", flags.once,
	)

	var client *backend.Client
	if conf.BackendURL != "" {
		client = backend.NewClient(conf.BackendURL)
	}
	sources := icsSources(conf)
	var fetcher *ics.Fetcher
	if len(sources) > 0 {
		fetcher = ics.NewFetcher(filepath.Join(conf.CacheDir, "ics"))
	}
	gen := dayview.New(norm, client, fetcher, sources, conf.Width, conf.Height)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		if err := runOnce(ctx, gen, norm, flags); err != nil {
			appLog.Error("single-shot render failed", err)
			os.Exit(1)
		}
		return
	}

	server := web.NewServer(conf, gen, norm)

	// Periodic preview refresh keeps /preview.png warm for slow clients.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.RefreshCron, func() {
		refreshCtx, refreshCancel := context.WithTimeout(ctx, time.Minute)
		defer refreshCancel()
		if err := server.RenderPreview(refreshCtx); err != nil {
			appLog.Error("scheduled preview render failed", err)
			return
		}
		appLog.Info("preview rendered", "path", web.PreviewPath(conf.CacheDir))
	}); err != nil {
		appLog.Error("invalid refresh cron spec", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("http shutdown failed", err)
		}
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}

	appLog.Info("dayview exiting")
}

// runOnce renders one date to a file and exits.
func runOnce(ctx context.Context, gen *dayview.Generator, norm *timeutil.Normalizer, flags flagConfig) error {
	day := norm.Today()
	if flags.date != "" {
		parsed, err := norm.ParseDate(flags.date)
		if err != nil {
			return err
		}
		day = parsed
	}

	data, report, err := gen.Generate(ctx, day, 0, 0)
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		out = "day-view-" + day.Format("2006-01-02") + ".png"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	appLog.Info("day view written",
		"path", out,
		"date", day.Format("2006-01-02"),
		"drawn", report.Drawn,
		"skipped", report.Skipped,
	)
	return nil
}

func icsSources(conf *config.Config) []ics.Source {
	sources := make([]ics.Source, 0, len(conf.ICS))
	for _, src := range conf.ICS {
		if src.URL == "" {
			continue
		}
		id := src.ID
		if id == "" {
			if src.Name != "" {
				id = src.Name
			} else {
				id = src.URL
			}
		}
		sources = append(sources, ics.Source{
			ID:    id,
			URL:   src.URL,
			Name:  src.Name,
			Color: src.Color,
		})
	}
	return sources
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/dayview/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.date, "date", "", "Date to render in once mode (YYYY-MM-DD, default today)")
	flag.StringVar(&cfg.out, "out", "", "Output file in once mode (default day-view-<date>.png)")
	flag.BoolVar(&cfg.once, "once", false, "Render a single day view to a file and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
