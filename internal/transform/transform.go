// Package transform re-expresses camera poses in the external renderer's
// reference frame. The renderer expects poses relative to a designated anchor
// object; geometry may additionally have been recentered during import, in
// which case the recorded centroid shift must be undone before composing.
package transform

import "github.com/go-gl/mathgl/mgl64"

// Pose is a camera world transform captured at a single frame, together with
// the intrinsics the renderer wants alongside it.
type Pose struct {
	Label  string
	World  mgl64.Mat4
	Width  int
	Height int
	FocalX float64
	FocalY float64
}

// Request is the payload for one renderer invocation: one pose per involved
// frame plus the resolved centroid shift, if any was recorded on the anchor.
type Request struct {
	Poses         []Pose
	CentroidShift *mgl64.Vec3
}

// Correct returns the camera pose relative to the anchor:
//
//	corrected = inverse(anchor) * camera
//
// When a centroid shift is present, its components are added to the
// translation column of the inverted anchor transform before composition,
// so the result is expressed in the original, pre-shift coordinate system.
func Correct(camera, anchor mgl64.Mat4, shift *mgl64.Vec3) mgl64.Mat4 {
	inv := anchor.Inv()
	if shift != nil {
		inv.Set(0, 3, inv.At(0, 3)+shift[0])
		inv.Set(1, 3, inv.At(1, 3)+shift[1])
		inv.Set(2, 3, inv.At(2, 3)+shift[2])
	}
	return inv.Mul4(camera)
}
