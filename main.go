package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ams-law/goldsite/config"
	"github.com/ams-law/goldsite/contact"
	"github.com/ams-law/goldsite/site"
	"github.com/ams-law/goldsite/stream"
	"github.com/ams-law/goldsite/systems"
	"github.com/ams-law/goldsite/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	serve := flag.Bool("serve", false, "Run the site server (contact relay, ripple stream, static files)")
	addr := flag.String("addr", "", "Listen address for -serve (empty = use config)")
	staticDir := flag.String("static-dir", "", "Static files directory for -serve (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N frames (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Frames per update call (higher = faster headless runs)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *serve {
		if err := runServer(cfg, *addr, *staticDir); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := viewer.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		v := viewer.NewViewer(opts)
		defer v.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"stats_window", *statsWindow,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for {
			v.UpdateHeadless()

			if *maxTicks > 0 && int(v.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "frame", v.Tick())
				return
			}
		}
	}

	// Graphical mode
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), viewer.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := viewer.NewViewer(opts)
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxTicks > 0 && int(v.Tick()) >= *maxTicks {
			break
		}
	}
}

// runServer serves the contact relay, the ripple stream, and static files
// until SIGINT or SIGTERM.
func runServer(cfg *config.Config, addr, staticDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr == "" {
		addr = cfg.Server.Addr
	}
	if staticDir == "" {
		staticDir = cfg.Server.StaticDir
	}

	mailer := contact.NewResendMailer(cfg.Contact)
	if mailer.APIKey == "" {
		slog.Warn("mail API key not set, contact submissions will fail", "env", cfg.Contact.APIKeyEnv)
	}

	hub := stream.NewHub(cfg.Stream, systems.DefaultRippleParams(), systems.DefaultImpulseParams())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	handler := site.NewRouter(site.Deps{
		Contact:   contact.NewHandler(mailer, cfg.Contact),
		Stream:    hub,
		StaticDir: staticDir,
	})

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSec * float64(time.Second))
	err := site.Serve(ctx, addr, handler, shutdownTimeout)

	// Stop the hub even when the listener failed
	stop()
	<-hubDone
	return err
}
