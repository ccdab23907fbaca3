// Package host declares the narrow interfaces through which the core talks
// to the surrounding application: scene-object lookup, the animation
// timeline, and image display. Adapters live outside the core.
package host

import (
	"github.com/go-gl/mathgl/mgl64"

	"viewsynth/internal/exchange"
	"viewsynth/internal/transform"
)

// Object is a resolvable scene object.
type Object interface {
	// WorldTransform returns the object's current 4x4 world transform.
	WorldTransform() mgl64.Mat4
	// CentroidShift returns the translation recorded on the object at
	// import time, if any.
	CentroidShift() (mgl64.Vec3, bool)
}

// Scene resolves objects and drives the timeline. Transforms returned after
// SeekToFrame reflect the sought frame.
type Scene interface {
	SelectedCamera() (transform.Pose, bool)
	ResolveObject(name string) (Object, bool)
	AnimationFrameIndices() []int
	CameraKeyframeIndices() []int
	SeekToFrame(index int)
}

// Display receives the rendered image. Ownership of the response transfers
// to the display on a successful call.
type Display interface {
	ShowImage(img *exchange.Response, target string) error
}
