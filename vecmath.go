package kinematic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon is the squared length under which vectors count as zero
const epsilon = 1e-12

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	worldForward = mgl64.Vec3{0, 0, 1}
)

// upFrame is the shortest rotation taking world up onto up
func upFrame(up mgl64.Vec3) mgl64.Quat {
	return fromTo(worldUp, up)
}

// fromTo is the shortest rotation taking direction from onto direction to
func fromTo(from, to mgl64.Vec3) mgl64.Quat {
	if from.Sub(to).LenSqr() < epsilon {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to).Normalize()
}

// projectOnPlane removes the component of v along the unit normal
func projectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// moveTowards steps current toward target by at most maxDelta, landing on
// target exactly once within reach.
func moveTowards(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	delta := target.Sub(current)
	distance := delta.Len()
	if distance <= maxDelta || distance*distance < epsilon {
		return target
	}
	return current.Add(delta.Mul(maxDelta / distance))
}

// slopeAngle is the angle in degrees between a surface normal and up
func slopeAngle(normal, up mgl64.Vec3) float64 {
	if normal.LenSqr() < epsilon {
		return 90
	}
	return mgl64.RadToDeg(math.Acos(mgl64.Clamp(normal.Normalize().Dot(up), -1, 1)))
}

// lookRotation builds the rotation facing forward, flattened onto the plane
// of up, with local Y along up. It fails when forward is parallel to up.
func lookRotation(forward, up mgl64.Vec3) (mgl64.Quat, bool) {
	forward = projectOnPlane(forward, up)
	if forward.LenSqr() < epsilon {
		return mgl64.QuatIdent(), false
	}
	forward = forward.Normalize()
	right := up.Cross(forward)

	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(right, up, forward).Mat4()).Normalize(), true
}

// rotateTowards turns from toward to along the shortest arc by at most
// maxDegrees, returning to once within reach.
func rotateTowards(from, to mgl64.Quat, maxDegrees float64) mgl64.Quat {
	delta := to.Mul(from.Inverse()).Normalize()
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}

	axisLength := delta.V.Len()
	angle := 2 * math.Atan2(axisLength, delta.W)
	step := mgl64.DegToRad(maxDegrees)
	if angle <= step || axisLength*axisLength < epsilon*epsilon {
		return to.Normalize()
	}

	return mgl64.QuatRotate(step, delta.V.Mul(1/axisLength)).Mul(from).Normalize()
}
