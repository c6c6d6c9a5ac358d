package mathutil

import "github.com/go-gl/mathgl/mgl32"

// RotX returns a homogeneous rotation around the X axis. Angle in degrees.
func RotX(deg float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(deg))
}

// RotY returns a homogeneous rotation around the Y axis.
func RotY(deg float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(deg))
}

// RotZ returns a homogeneous rotation around the Z axis.
func RotZ(deg float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(deg))
}

// RotateAxis rotates around an arbitrary axis; the axis is normalized first.
func RotateAxis(deg float32, axis mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3D(mgl32.DegToRad(deg), SafeNormalize(axis))
}
