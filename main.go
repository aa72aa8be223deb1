package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arclight/config"
	"github.com/pthm-cable/arclight/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to a .yaml or .toml config (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logJSON := flag.Bool("log-json", false, "Log JSON lines instead of human-readable output")
	debug := flag.Bool("debug", false, "Enable debug logging")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Ticks per update call (higher = faster headless runs)")
	watch := flag.Bool("watch", false, "Reload the config file when it changes")

	flag.Parse()

	slog.SetDefault(game.NewLogger(os.Stderr, game.LogOptions{
		JSON:   *logJSON,
		Debug:  *debug,
		Prefix: "arclight",
	}))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if !*headless {
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Arclight")
		defer rl.CloseWindow()
		rl.SetWindowState(rl.FlagWindowResizable)
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to build scene", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if *watch && *configPath != "" {
		w, err := config.Watch(*configPath, g.RequestReload)
		if err != nil {
			slog.Error("failed to watch config", "error", err)
			os.Exit(1)
		}
		defer w.Close()
	}

	if *headless {
		slog.Info("starting headless run",
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)
		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
