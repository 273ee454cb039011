package locomotion

import "github.com/go-gl/mathgl/mgl64"

// GroundSampler answers sphere overlap queries against level geometry.
type GroundSampler interface {
	OverlapSphere(center mgl64.Vec3, radius float64, mask LayerMask) bool
}

// GroundSamplerFunc adapts a function to GroundSampler.
type GroundSamplerFunc func(center mgl64.Vec3, radius float64, mask LayerMask) bool

func (f GroundSamplerFunc) OverlapSphere(center mgl64.Vec3, radius float64, mask LayerMask) bool {
	return f(center, radius, mask)
}

// Anchor is a world-space point, such as a character's feet.
type Anchor interface {
	Position() mgl64.Vec3
}

type offsetAnchor struct {
	base   Anchor
	offset mgl64.Vec3
}

func (a offsetAnchor) Position() mgl64.Vec3 {
	return a.base.Position().Add(a.offset)
}

// OffsetAnchor follows base at a fixed world-space offset.
func OffsetAnchor(base Anchor, offset mgl64.Vec3) Anchor {
	return offsetAnchor{base: base, offset: offset}
}

// SampleGround runs the overlap test at the anchor.
func SampleGround(g GroundSampler, anchor Anchor, radius float64, mask LayerMask) bool {
	return g.OverlapSphere(anchor.Position(), radius, mask)
}
