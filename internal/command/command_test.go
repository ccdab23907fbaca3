package command

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeScript(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("# renderer entry\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return p
}

func TestBuild_SystemInterpreterMinimal(t *testing.T) {
	script := writeScript(t, "run.py")
	argv, err := Build(SystemInterpreter{Exe: "py"}, script, Params{
		Snapshot:        "s.msgpack",
		SamplesPerPixel: 4,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"py", script, "--load_snapshot", "s.msgpack", "--samples_per_pixel", "4"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv mismatch:\nwant %q\ngot  %q", want, argv)
	}
}

func TestBuild_FullParameterOrder(t *testing.T) {
	script := writeScript(t, "run.py")
	argv, err := Build(SystemInterpreter{Exe: "python"}, script, Params{
		Snapshot:        "snap.msgpack",
		RequestFile:     "/tmp/req.json",
		ResponseFile:    "/tmp/resp.npy",
		SamplesPerPixel: 2,
		SearchPaths:     "/opt/engine/build",
		OutputDir:       "/renders",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{
		"python", script,
		"--load_snapshot", "snap.msgpack",
		"--temp_json_ifp", "/tmp/req.json",
		"--temp_array_ofp", "/tmp/resp.npy",
		"--samples_per_pixel", "2",
		"--additional_system_dps", "/opt/engine/build",
		"--additional_output_dp", "/renders",
	}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv mismatch:\nwant %q\ngot  %q", want, argv)
	}
}

func TestBuild_BlankOptionalsDropped(t *testing.T) {
	script := writeScript(t, "run.py")
	argv, err := Build(SystemInterpreter{Exe: "python"}, script, Params{
		Snapshot:        "s.msgpack",
		SamplesPerPixel: 1,
		SearchPaths:     "   ", // whitespace only, must not appear
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, a := range argv {
		if a == "--additional_system_dps" || a == "--additional_output_dp" {
			t.Fatalf("blank optional emitted: %q", argv)
		}
	}
}

func TestBuild_CondaWrapsActivation(t *testing.T) {
	script := writeScript(t, "run.py")
	argv, err := Build(Conda{Exe: "conda", Env: "nerf"}, script, Params{SamplesPerPixel: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"conda", "run", "-n", "nerf", "python", script, "--samples_per_pixel", "1"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv mismatch:\nwant %q\ngot  %q", want, argv)
	}
}

func TestBuild_DirectNoPrefix(t *testing.T) {
	script := writeScript(t, "renderer")
	argv, err := Build(Direct{}, script, Params{SamplesPerPixel: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if argv[0] != script {
		t.Fatalf("direct mode should start with the executable, got %q", argv[0])
	}
}

func TestBuild_PathWithSpacesSurvives(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "with space")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	script := filepath.Join(dir, "run.py")
	if err := os.WriteFile(script, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	argv, err := Build(SystemInterpreter{Exe: "python"}, script, Params{SamplesPerPixel: 1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// argv elements are passed verbatim to the process, never shell-joined,
	// so the spaced path must remain a single token.
	if argv[1] != script {
		t.Fatalf("script path corrupted: %q", argv[1])
	}
}

func TestBuild_MissingScript(t *testing.T) {
	_, err := Build(Direct{}, filepath.Join(t.TempDir(), "nope.py"), Params{})
	if !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("want ErrScriptNotFound, got %v", err)
	}
}

func TestBuild_DirectoryIsNotAScript(t *testing.T) {
	_, err := Build(Direct{}, t.TempDir(), Params{})
	if !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("want ErrScriptNotFound for a directory, got %v", err)
	}
}
