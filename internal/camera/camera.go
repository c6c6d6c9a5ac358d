// Package camera builds view matrices from an eye position and basis.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/mathutil"
)

// Camera is an eye position with an orthonormal basis. Front points into
// the scene; the view matrix looks down -Z.
type Camera struct {
	Eye   mgl32.Vec3
	Front mgl32.Vec3
	Right mgl32.Vec3
	Up    mgl32.Vec3
}

// LookAt places a camera at eye facing target. worldUp must not be parallel
// to the viewing direction.
func LookAt(eye, target, worldUp mgl32.Vec3) Camera {
	front := mathutil.SafeNormalize(target.Sub(eye))
	right := mathutil.SafeNormalize(front.Cross(worldUp))
	return Camera{
		Eye:   eye,
		Front: front,
		Right: right,
		Up:    right.Cross(front),
	}
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl32.Mat4 {
	return mathutil.ViewMatrix(c.Eye, c.Front, c.Right, c.Up)
}

// Orbit rotates the eye around the vertical axis through target and turns
// the camera to face target again.
func (c Camera) Orbit(target mgl32.Vec3, deg float32) Camera {
	offset := c.Eye.Sub(target)
	rotated := mathutil.RotY(deg).Mul4x1(offset.Vec4(0)).Vec3()
	return LookAt(target.Add(rotated), target, mgl32.Vec3{0, 1, 0})
}

// FitDistance returns how far from an object the camera must sit for a
// half extent to fill the vertical field of view.
func FitDistance(halfExtent, fovy float32) float32 {
	if halfExtent < 0.001 {
		halfExtent = 0.001
	}
	half := float64(mgl32.DegToRad(fovy / 2))
	return halfExtent / float32(math.Tan(half))
}
