package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

// minSmoothTime keeps SmoothDamp away from a zero spring period.
const minSmoothTime = 0.0001

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	return Clamp(t-math.Floor(t/length)*length, 0, length)
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(angle float64) float64 {
	a := Repeat(angle, 360)
	if a >= 360 {
		return 0
	}
	return a
}

// DeltaAngle returns the shortest signed difference from current to target,
// in degrees, within (-180, 180].
func DeltaAngle(current, target float64) float64 {
	delta := Repeat(target-current, 360)
	if delta > 180 {
		delta -= 360
	}
	return delta
}

// SmoothDamp moves current toward target with a critically damped spring.
// velocity carries the spring state between calls. The result never passes
// target.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, maxSpeed, dt float64) float64 {
	if velocity == nil || dt <= 0 {
		return current
	}
	smoothTime = math.Max(minSmoothTime, smoothTime)
	omega := 2 / smoothTime

	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	goal := target

	maxChange := maxSpeed * smoothTime
	change = Clamp(change, -maxChange, maxChange)
	target = current - change

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (goal-current > 0) == (out > goal) {
		out = goal
		*velocity = (out - goal) / dt
	}
	return out
}

// SmoothDampAngle is SmoothDamp for angles in degrees, taking the shortest arc.
func SmoothDampAngle(current, target float64, velocity *float64, smoothTime, maxSpeed, dt float64) float64 {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, maxSpeed, dt)
}
