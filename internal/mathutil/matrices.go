package mathutil

import "github.com/go-gl/mathgl/mgl32"

// Matrices are mgl32 column-major 4×4 matrices applied to column vectors
// (M * v). Translation lives in column 3, which is the last row of the
// underlying storage (elements 12..14).

// Viewport maps normalized device coordinates to logical screen space
// (origin at the render target center, y up). x and y are scaled by half
// the viewport size and offset by (ox, oy); z passes through.
func Viewport(ox, oy, width, height int) mgl32.Mat4 {
	m := mgl32.Ident4()
	m[0] = float32(width) / 2
	m[5] = float32(height) / 2
	m[12] = float32(ox)
	m[13] = float32(oy)
	return m
}

// ViewMatrix builds the world-to-camera transform
//
//	[  right  , -right·eye ]
//	[   up    ,   -up·eye  ]
//	[ -front  ,  front·eye ]
//	[ 0  0  0 ,      1     ]
//
// front, right and up must be orthonormal.
func ViewMatrix(eye, front, right, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4FromRows(
		mgl32.Vec4{right[0], right[1], right[2], -right.Dot(eye)},
		mgl32.Vec4{up[0], up[1], up[2], -up.Dot(eye)},
		mgl32.Vec4{-front[0], -front[1], -front[2], front.Dot(eye)},
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// Perspective is a right-handed projection mapping the near/far planes to
// z = -1/+1 after the divide. fovy is in degrees.
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far)
}
