package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"

	"viewsynth/internal/transform"
)

// ErrSerialize reports that the request document could not be encoded.
var ErrSerialize = errors.New("request serialization failed")

// The request document is a wire format dictated by the renderer. Field
// names and the row-major transform layout must not change.
type requestDoc struct {
	RefCentroidShift *[3]float64 `json:"ref_centroid_shift,omitempty"`
	Cameras          []cameraDoc `json:"cameras"`
}

type cameraDoc struct {
	Label           string        `json:"label"`
	TransformMatrix [4][4]float64 `json:"transform_matrix"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	FlX             float64       `json:"fl_x"`
	FlY             float64       `json:"fl_y"`
}

// EncodeRequest writes r as the renderer's JSON request document.
func EncodeRequest(w io.Writer, r *transform.Request) error {
	doc := requestDoc{Cameras: make([]cameraDoc, 0, len(r.Poses))}
	if r.CentroidShift != nil {
		s := [3]float64{r.CentroidShift[0], r.CentroidShift[1], r.CentroidShift[2]}
		doc.RefCentroidShift = &s
	}
	for _, p := range r.Poses {
		doc.Cameras = append(doc.Cameras, cameraDoc{
			Label:           p.Label,
			TransformMatrix: matRows(p.World),
			Width:           p.Width,
			Height:          p.Height,
			FlX:             p.FocalX,
			FlY:             p.FocalY,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return nil
}

// DecodeRequest parses a request document the way the renderer's own loader
// does. Used to verify round trips.
func DecodeRequest(r io.Reader) (*transform.Request, error) {
	var doc requestDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	out := &transform.Request{Poses: make([]transform.Pose, 0, len(doc.Cameras))}
	if doc.RefCentroidShift != nil {
		s := mgl64.Vec3(*doc.RefCentroidShift)
		out.CentroidShift = &s
	}
	for _, c := range doc.Cameras {
		out.Poses = append(out.Poses, transform.Pose{
			Label:  c.Label,
			World:  matFromRows(c.TransformMatrix),
			Width:  c.Width,
			Height: c.Height,
			FocalX: c.FlX,
			FocalY: c.FlY,
		})
	}
	return out, nil
}

func matRows(m mgl64.Mat4) [4][4]float64 {
	var rows [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = m.At(r, c)
		}
	}
	return rows
}

func matFromRows(rows [4][4]float64) mgl64.Mat4 {
	var m mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, rows[r][c])
		}
	}
	return m
}
