// Package command builds the argument vector that launches the external
// view-synthesis process. Flag names and their order are a versioned contract
// with the renderer and must not change without a renderer-side change.
package command

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrScriptNotFound reports that the configured renderer script or executable
// does not exist as a regular file.
var ErrScriptNotFound = errors.New("renderer script not found")

// Environment selects how the renderer invocation is wrapped.
type Environment interface {
	// wrap prefixes the script invocation for this environment.
	wrap(script string) []string
}

// Conda runs the script inside a named conda environment.
type Conda struct {
	Exe string // conda executable name or path
	Env string // environment name
}

// SystemInterpreter runs the script with a plain interpreter.
type SystemInterpreter struct {
	Exe string
}

// Direct executes the target itself, no interpreter prefix.
type Direct struct{}

func (c Conda) wrap(script string) []string {
	return []string{c.Exe, "run", "-n", c.Env, "python", script}
}

func (s SystemInterpreter) wrap(script string) []string {
	return []string{s.Exe, script}
}

func (Direct) wrap(script string) []string {
	return []string{script}
}

// Params are the named options passed to the renderer. String options that
// are blank (or whitespace only) are skipped entirely rather than emitted as
// empty arguments.
type Params struct {
	Snapshot        string // trained model snapshot
	RequestFile     string // camera request file the renderer reads
	ResponseFile    string // raw array file the renderer writes
	SamplesPerPixel int
	SearchPaths     string // extra system paths, whitespace separated
	OutputDir       string // where the renderer persists images itself
}

// Build validates the script path and assembles the full argument vector for
// the given environment. Construction is pure; the caller logs the result.
func Build(env Environment, script string, p Params) ([]string, error) {
	info, err := os.Stat(script)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrScriptNotFound, script)
	}

	argv := env.wrap(script)
	argv = appendOpt(argv, "--load_snapshot", p.Snapshot)
	argv = appendOpt(argv, "--temp_json_ifp", p.RequestFile)
	argv = appendOpt(argv, "--temp_array_ofp", p.ResponseFile)
	argv = append(argv, "--samples_per_pixel", strconv.Itoa(p.SamplesPerPixel))
	argv = appendOpt(argv, "--additional_system_dps", p.SearchPaths)
	argv = appendOpt(argv, "--additional_output_dp", p.OutputDir)
	return argv, nil
}

func appendOpt(argv []string, flag, value string) []string {
	if strings.TrimSpace(value) == "" {
		return argv
	}
	return append(argv, flag, value)
}
