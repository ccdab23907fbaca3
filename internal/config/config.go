// Package config holds the per-invocation settings for the view-synthesis
// bridge. Settings are loaded once and passed by value; the engine never
// mutates them.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"viewsynth/internal/command"
)

// Execution environment tags.
const (
	EnvConda  = "conda"
	EnvPython = "python"
	EnvDirect = "direct"
)

type Settings struct {
	ExecutionEnvironment string `koanf:"execution_environment"` // conda|python|direct
	CondaExe             string `koanf:"conda_exe"`
	CondaEnv             string `koanf:"conda_env"`
	PythonExe            string `koanf:"python_exe"`
	SearchPaths          string `koanf:"additional_system_paths"` // whitespace separated
	EnginePath           string `koanf:"engine_path"`             // renderer script or executable
	SnapshotPath         string `koanf:"snapshot_path"`           // trained model snapshot
	SamplesPerPixel      int    `koanf:"samples_per_pixel"`
	AnchorName           string `koanf:"rotation_anchor"`
	UseKeyframes         bool   `koanf:"use_camera_keyframes"`

	// Carried for parity with the renderer's settings surface; not part of
	// the argument-vector contract.
	RenderSolidBackground bool `koanf:"render_solid_background"`
	RenderSemanticColor   bool `koanf:"render_semantic_color"`
	CUDADevice            int  `koanf:"cuda_device"`
}

// Defaults returns the settings baseline applied before any file or env
// values.
func Defaults() Settings {
	return Settings{
		ExecutionEnvironment:  EnvConda,
		CondaExe:              "conda",
		CondaEnv:              "base",
		PythonExe:             "python",
		SamplesPerPixel:       1,
		AnchorName:            "OpenGL Point Cloud",
		UseKeyframes:          true,
		RenderSolidBackground: true,
	}
}

// Load merges a YAML file (if present) with env vars
// (prefix `VIEWSYNTH__`, delimiter `__`) over Defaults.
func Load(path string) (Settings, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}
	_ = k.Load(env.Provider("VIEWSYNTH__", "__", nil), nil)

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields every invocation needs.
func (s Settings) Validate() error {
	switch s.ExecutionEnvironment {
	case EnvConda, EnvPython, EnvDirect:
	default:
		return fmt.Errorf("unknown execution environment %q", s.ExecutionEnvironment)
	}
	if s.SamplesPerPixel < 1 {
		return fmt.Errorf("samples_per_pixel must be positive, got %d", s.SamplesPerPixel)
	}
	if s.AnchorName == "" {
		return errors.New("rotation_anchor must be set")
	}
	return nil
}

// Environment maps the tag onto a command environment variant.
func (s Settings) Environment() (command.Environment, error) {
	switch s.ExecutionEnvironment {
	case EnvConda:
		return command.Conda{Exe: s.CondaExe, Env: s.CondaEnv}, nil
	case EnvPython:
		return command.SystemInterpreter{Exe: s.PythonExe}, nil
	case EnvDirect:
		return command.Direct{}, nil
	default:
		return nil, fmt.Errorf("unknown execution environment %q", s.ExecutionEnvironment)
	}
}
