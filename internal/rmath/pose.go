package rmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid transform: a translation followed by a rotation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity returns the transform that leaves every point in place.
func Identity() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// Translation returns a pure translation.
func Translation(v mgl64.Vec3) Pose {
	return Pose{Position: v, Rotation: mgl64.QuatIdent()}
}

// FromXYZRPY builds a pose from a position and roll/pitch/yaw angles in
// radians. The angles are applied about the fixed X, Y and Z axes in that
// order, which is q = Rz(yaw) * Ry(pitch) * Rx(roll).
func FromXYZRPY(xyz, rpy [3]float64) Pose {
	q := mgl64.QuatRotate(rpy[2], mgl64.Vec3{0, 0, 1}).
		Mul(mgl64.QuatRotate(rpy[1], mgl64.Vec3{0, 1, 0})).
		Mul(mgl64.QuatRotate(rpy[0], mgl64.Vec3{1, 0, 0}))
	return Pose{Position: mgl64.Vec3(xyz), Rotation: q.Normalize()}
}

// Compose returns p * child: child expressed in p's frame.
func (p Pose) Compose(child Pose) Pose {
	return Pose{
		Position: p.Position.Add(p.rotation().Rotate(child.Position)),
		Rotation: p.rotation().Mul(child.rotation()).Normalize(),
	}
}

// Inverse returns the transform that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.rotation().Inverse()
	return Pose{
		Position: inv.Rotate(p.Position.Mul(-1)),
		Rotation: inv,
	}
}

// Apply transforms a point.
func (p Pose) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.rotation().Rotate(v))
}

// Yaw returns the rotation about the Z axis in radians.
func (p Pose) Yaw() float64 {
	q := p.rotation()
	x, y, z := q.V[0], q.V[1], q.V[2]
	return math.Atan2(2*(q.W*z+x*y), 1-2*(y*y+z*z))
}

// ApproxEqual reports whether both poses describe the same transform.
func (p Pose) ApproxEqual(o Pose) bool {
	if !near(p.Position, o.Position) {
		return false
	}
	a, b := p.rotation(), o.rotation()
	// q and -q encode the same rotation
	return nearQuat(a, b) || nearQuat(a, b.Scale(-1))
}

// tolerance is absolute; relative comparisons reject float noise around 0.
const tolerance = 1e-9

func near(a, b mgl64.Vec3) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func nearQuat(a, b mgl64.Quat) bool {
	return math.Abs(a.W-b.W) <= tolerance && near(a.V, b.V)
}

// rotation treats the zero quaternion as identity so a zero Pose is usable.
func (p Pose) rotation() mgl64.Quat {
	if p.Rotation.W == 0 && p.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return p.Rotation
}
