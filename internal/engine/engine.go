// Package engine orchestrates one view-synthesis invocation: capture and
// correct camera poses, write the request file, run the external renderer,
// read back the result, clean up. The flow is linear and blocking; any
// failure jumps straight to cleanup.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"viewsynth/internal/command"
	"viewsynth/internal/config"
	"viewsynth/internal/exchange"
	"viewsynth/internal/host"
	"viewsynth/internal/logging"
	"viewsynth/internal/runner"
	"viewsynth/internal/telemetry"
	"viewsynth/internal/transform"
)

var (
	// ErrNoCamera reports that the scene has no selected camera.
	ErrNoCamera = errors.New("no camera selected")
	// ErrAnchorNotFound reports that the configured rotation anchor does
	// not exist in the scene.
	ErrAnchorNotFound = errors.New("rotation anchor not found")
	// ErrNoFrames reports a sequence invocation with an empty frame list.
	ErrNoFrames = errors.New("no animation frames")
)

// Engine composes the collaborators for render invocations. Zero fields are
// defaulted by New; tests may substitute any of them.
type Engine struct {
	Scene   host.Scene
	Display host.Display
	Run     runner.RunFunc
	Temp    exchange.Strategy
	Log     *slog.Logger
}

func New(scene host.Scene, display host.Display) *Engine {
	return &Engine{
		Scene:   scene,
		Display: display,
		Run:     runner.Run,
		Temp:    exchange.ForPlatform(runtime.GOOS),
		Log:     logging.L(),
	}
}

// RenderView renders the currently selected camera and hands the image to
// the display. A non-blank outputDir additionally asks the renderer to
// persist the image itself.
func (e *Engine) RenderView(ctx context.Context, cfg config.Settings, outputDir string) error {
	log := e.Log.With("invocation", uuid.NewString(), "mode", "view")
	log.Info("view synthesis for current camera: started")
	if err := e.renderView(ctx, log, cfg, outputDir); err != nil {
		telemetry.Invocations.WithLabelValues("view", "error").Inc()
		log.Error("view synthesis failed", "err", err)
		return err
	}
	telemetry.Invocations.WithLabelValues("view", "ok").Inc()
	log.Info("view synthesis for current camera: done")
	return nil
}

func (e *Engine) renderView(ctx context.Context, log *slog.Logger, cfg config.Settings, outputDir string) error {
	ch, argv, err := e.prepare(log, cfg, outputDir)
	if err != nil {
		return err
	}
	defer ch.Close()

	pose, shift, err := e.capturePose(cfg)
	if err != nil {
		return err
	}
	req := &transform.Request{Poses: []transform.Pose{pose}, CentroidShift: shift}
	if err := ch.WriteRequest(req); err != nil {
		return fmt.Errorf("request %q: %w", ch.RequestPath(), err)
	}

	if err := e.spawn(ctx, argv); err != nil {
		return err
	}

	resp, err := ch.ReadResponse()
	if err != nil {
		return fmt.Errorf("response %q: %w", ch.ResponsePath(), err)
	}
	resp.FlipRows()
	if err := e.Display.ShowImage(resp, pose.Label); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// RenderSequence renders every frame of the camera animation into a single
// request. The renderer persists the images itself via outputDir; the
// response is not displayed.
func (e *Engine) RenderSequence(ctx context.Context, cfg config.Settings, outputDir string) error {
	log := e.Log.With("invocation", uuid.NewString(), "mode", "sequence")
	log.Info("view synthesis for camera animation: started")
	if err := e.renderSequence(ctx, log, cfg, outputDir); err != nil {
		telemetry.Invocations.WithLabelValues("sequence", "error").Inc()
		log.Error("sequence synthesis failed", "err", err)
		return err
	}
	telemetry.Invocations.WithLabelValues("sequence", "ok").Inc()
	log.Info("view synthesis for camera animation: done")
	return nil
}

func (e *Engine) renderSequence(ctx context.Context, log *slog.Logger, cfg config.Settings, outputDir string) error {
	var indices []int
	if cfg.UseKeyframes {
		indices = e.Scene.CameraKeyframeIndices()
	} else {
		indices = e.Scene.AnimationFrameIndices()
	}
	if len(indices) == 0 {
		return ErrNoFrames
	}

	ch, argv, err := e.prepare(log, cfg, outputDir)
	if err != nil {
		return err
	}
	defer ch.Close()

	// One pose per frame, all packed into a single request. The shift seen
	// at the most recently captured frame applies to the whole batch.
	req := &transform.Request{Poses: make([]transform.Pose, 0, len(indices))}
	for _, idx := range indices {
		e.Scene.SeekToFrame(idx)
		pose, shift, err := e.capturePose(cfg)
		if err != nil {
			return fmt.Errorf("frame %d: %w", idx, err)
		}
		req.Poses = append(req.Poses, pose)
		req.CentroidShift = shift
	}
	if err := ch.WriteRequest(req); err != nil {
		return fmt.Errorf("request %q: %w", ch.RequestPath(), err)
	}

	if err := e.spawn(ctx, argv); err != nil {
		return err
	}
	telemetry.SequenceFrames.Observe(float64(len(indices)))
	return nil
}

// prepare opens the exchange channel and builds the renderer command. The
// argument vector is logged exactly once, here.
func (e *Engine) prepare(log *slog.Logger, cfg config.Settings, outputDir string) (*exchange.Channel, []string, error) {
	execEnv, err := cfg.Environment()
	if err != nil {
		return nil, nil, err
	}
	ch, err := exchange.Open(e.Temp)
	if err != nil {
		return nil, nil, err
	}
	argv, err := command.Build(execEnv, cfg.EnginePath, command.Params{
		Snapshot:        cfg.SnapshotPath,
		RequestFile:     ch.RequestPath(),
		ResponseFile:    ch.ResponsePath(),
		SamplesPerPixel: cfg.SamplesPerPixel,
		SearchPaths:     cfg.SearchPaths,
		OutputDir:       outputDir,
	})
	if err != nil {
		ch.Close()
		return nil, nil, err
	}
	log.Info("renderer command", "cmd", strings.Join(argv, " "))
	return ch, argv, nil
}

// capturePose reads the selected camera at the current frame and re-expresses
// it relative to the configured anchor.
func (e *Engine) capturePose(cfg config.Settings) (transform.Pose, *mgl64.Vec3, error) {
	cam, ok := e.Scene.SelectedCamera()
	if !ok {
		return transform.Pose{}, nil, ErrNoCamera
	}
	anchor, ok := e.Scene.ResolveObject(cfg.AnchorName)
	if !ok {
		return transform.Pose{}, nil, fmt.Errorf("%w: %q", ErrAnchorNotFound, cfg.AnchorName)
	}
	var shift *mgl64.Vec3
	if s, ok := anchor.CentroidShift(); ok {
		shift = &s
	}
	cam.World = transform.Correct(cam.World, anchor.WorldTransform(), shift)
	return cam, shift, nil
}

func (e *Engine) spawn(ctx context.Context, argv []string) error {
	start := time.Now()
	err := e.Run(ctx, argv)
	telemetry.ProcessDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	return nil
}
