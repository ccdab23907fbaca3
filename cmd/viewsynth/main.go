// Command viewsynth drives the view-synthesis bridge from the command line
// using a file-backed scene. It stands in for the host application: real
// hosts embed the engine and supply their own scene and display adapters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"viewsynth/internal/config"
	"viewsynth/internal/engine"
	"viewsynth/internal/host/filescene"
	"viewsynth/internal/logging"
	"viewsynth/internal/telemetry"
)

func main() {
	logging.InitFromEnv()

	var (
		settingsPath = flag.String("settings", "viewsynth.yml", "settings file (YAML, VIEWSYNTH__ env vars override)")
		scenePath    = flag.String("scene", "scene.yml", "scene description file")
		sequence     = flag.Bool("sequence", false, "render the camera animation instead of a single view")
		outDir       = flag.String("out", "", "directory where the renderer persists images (blank = display only)")
		metricsPort  = flag.Int("metrics-port", 0, "serve prometheus metrics on this port (0 = off)")
	)
	flag.Parse()

	if err := run(*settingsPath, *scenePath, *outDir, *sequence, *metricsPort); err != nil {
		fmt.Fprintln(os.Stderr, "viewsynth:", err)
		os.Exit(1)
	}
}

func run(settingsPath, scenePath, outDir string, sequence bool, metricsPort int) error {
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	scene, err := filescene.Load(scenePath)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if metricsPort > 0 {
		telemetry.Expose(metricsPort)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	displayDir := outDir
	if displayDir == "" {
		displayDir = "."
	}
	e := engine.New(scene, &filescene.PNGDisplay{Dir: displayDir})
	if sequence {
		return e.RenderSequence(ctx, cfg, outDir)
	}
	return e.RenderView(ctx, cfg, outDir)
}
