package transform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func matsClose(t *testing.T, want, got mgl64.Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		if math.Abs(want[i]-got[i]) > tol {
			t.Fatalf("matrices differ at element %d: want %v got %v", i, want, got)
		}
	}
}

func TestCorrect_NoShiftIsAnchorInverseTimesCamera(t *testing.T) {
	anchor := mgl64.HomogRotate3DZ(0.7).Mul4(mgl64.Translate3D(2, -1, 4))
	camera := mgl64.Translate3D(-3, 5, 1).Mul4(mgl64.HomogRotate3DX(-0.2))

	got := Correct(camera, anchor, nil)
	want := anchor.Inv().Mul4(camera)
	matsClose(t, want, got)
}

func TestCorrect_ShiftAddsToInverseTranslationColumn(t *testing.T) {
	// anchor = identity translated by (1,2,3), shift = (0.5,0,0),
	// camera = identity. inverse(anchor) has translation (-1,-2,-3);
	// the shift bumps x to -0.5.
	anchor := mgl64.Translate3D(1, 2, 3)
	camera := mgl64.Ident4()
	shift := mgl64.Vec3{0.5, 0, 0}

	got := Correct(camera, anchor, &shift)
	wantT := mgl64.Vec3{-0.5, -2, -3}
	for r := 0; r < 3; r++ {
		if math.Abs(got.At(r, 3)-wantT[r]) > tol {
			t.Fatalf("translation row %d: want %v got %v", r, wantT[r], got.At(r, 3))
		}
	}
}

func TestCorrect_ShiftEffectMatchesManualAdjustment(t *testing.T) {
	anchor := mgl64.HomogRotate3DY(1.3).Mul4(mgl64.Translate3D(0.4, -2.2, 7))
	camera := mgl64.Translate3D(1, 1, 1)
	shift := mgl64.Vec3{0.25, -0.5, 3}

	inv := anchor.Inv()
	inv.Set(0, 3, inv.At(0, 3)+shift[0])
	inv.Set(1, 3, inv.At(1, 3)+shift[1])
	inv.Set(2, 3, inv.At(2, 3)+shift[2])
	want := inv.Mul4(camera)

	matsClose(t, want, Correct(camera, anchor, &shift))
}

func TestCorrect_Reproducible(t *testing.T) {
	anchor := mgl64.HomogRotate3DX(0.9)
	camera := mgl64.Translate3D(8, 0, -4)
	shift := mgl64.Vec3{1, 2, 3}

	a := Correct(camera, anchor, &shift)
	b := Correct(camera, anchor, &shift)
	if a != b {
		t.Fatal("identical inputs produced different results")
	}
}
