// Package filescene is a headless host adapter: scene objects, the selected
// camera and its keyframes come from a YAML document, and displayed images
// are written out as PNG. It backs the command-line host and doubles as a
// realistic scene for integration-style tests.
package filescene

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"viewsynth/internal/host"
	"viewsynth/internal/transform"
)

type objectDoc struct {
	Name          string        `yaml:"name"`
	Transform     [4][4]float64 `yaml:"transform"`
	CentroidShift []float64     `yaml:"centroid_shift"` // optional, 3 components
}

type keyframeDoc struct {
	Frame     int           `yaml:"frame"`
	Transform [4][4]float64 `yaml:"transform"`
}

type cameraDoc struct {
	Name      string        `yaml:"name"`
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	FlX       float64       `yaml:"fl_x"`
	FlY       float64       `yaml:"fl_y"`
	Transform [4][4]float64 `yaml:"transform"`
	Keyframes []keyframeDoc `yaml:"keyframes"`
}

type sceneDoc struct {
	Objects         []objectDoc `yaml:"objects"`
	Camera          *cameraDoc  `yaml:"selected_camera"`
	AnimationFrames []int       `yaml:"animation_frames"`
}

// Scene implements host.Scene over a loaded scene document.
type Scene struct {
	doc   sceneDoc
	byKey map[int]mgl64.Mat4
	frame int
}

// Load parses a scene document from path.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc sceneDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse scene %q: %w", path, err)
	}
	for _, o := range doc.Objects {
		if n := len(o.CentroidShift); n != 0 && n != 3 {
			return nil, fmt.Errorf("object %q: centroid_shift needs 3 components, got %d", o.Name, n)
		}
	}
	s := &Scene{doc: doc, byKey: map[int]mgl64.Mat4{}}
	if doc.Camera != nil {
		for _, kf := range doc.Camera.Keyframes {
			s.byKey[kf.Frame] = mat4FromRows(kf.Transform)
		}
	}
	return s, nil
}

func (s *Scene) SelectedCamera() (transform.Pose, bool) {
	c := s.doc.Camera
	if c == nil || c.Name == "" {
		return transform.Pose{}, false
	}
	world := mat4FromRows(c.Transform)
	if w, ok := s.byKey[s.frame]; ok {
		world = w
	}
	return transform.Pose{
		Label:  c.Name,
		World:  world,
		Width:  c.Width,
		Height: c.Height,
		FocalX: c.FlX,
		FocalY: c.FlY,
	}, true
}

func (s *Scene) ResolveObject(name string) (host.Object, bool) {
	for _, o := range s.doc.Objects {
		if o.Name == name {
			return object{o}, true
		}
	}
	return nil, false
}

func (s *Scene) AnimationFrameIndices() []int { return s.doc.AnimationFrames }

func (s *Scene) CameraKeyframeIndices() []int {
	keys := make([]int, 0, len(s.byKey))
	for f := range s.byKey {
		keys = append(keys, f)
	}
	sort.Ints(keys)
	return keys
}

func (s *Scene) SeekToFrame(index int) { s.frame = index }

type object struct{ doc objectDoc }

func (o object) WorldTransform() mgl64.Mat4 { return mat4FromRows(o.doc.Transform) }

func (o object) CentroidShift() (mgl64.Vec3, bool) {
	if len(o.doc.CentroidShift) != 3 {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{o.doc.CentroidShift[0], o.doc.CentroidShift[1], o.doc.CentroidShift[2]}, true
}

// mat4FromRows converts a row-major document matrix. An omitted matrix (all
// zeros) means identity.
func mat4FromRows(rows [4][4]float64) mgl64.Mat4 {
	zero := true
	var m mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if rows[r][c] != 0 {
				zero = false
			}
			m.Set(r, c, rows[r][c])
		}
	}
	if zero {
		return mgl64.Ident4()
	}
	return m
}
