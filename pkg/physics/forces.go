package physics

import "math"

// Spring describes one link-force constraint between two particles.
type Spring struct {
	Source, Target Particle
	// Strength scales the restoring force; 1 is the neutral default.
	Strength float64
}

// Link returns a spring force pulling every connected pair toward the target
// distance, scaled per spring by its strength.
func Link(springs []Spring, distance float64) Force {
	return func(bodies []*Body, alpha float64) {
		idx := bodyIndex(bodies)
		for _, sp := range springs {
			src, ok := idx[sp.Source]
			if !ok {
				continue
			}
			dst, ok := idx[sp.Target]
			if !ok {
				continue
			}
			sx, sy := src.Particle.Pos()
			tx, ty := dst.Particle.Pos()
			dx, dy := tx-sx, ty-sy
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				continue
			}
			k := sp.Strength
			if k == 0 {
				k = 1
			}
			f := k * (dist - distance) / dist * alpha
			fx, fy := f*dx, f*dy
			src.VX += fx
			src.VY += fy
			dst.VX -= fx
			dst.VY -= fy
		}
	}
}

// ManyBody returns a pairwise repulsion with the same charge on every body.
// The push falls off with squared distance but the charge itself never
// decays, so well-separated clusters keep drifting apart slowly instead of
// freezing in place.
func ManyBody(charge float64) Force {
	return func(bodies []*Body, alpha float64) {
		for i := range bodies {
			xi, yi := bodies[i].Particle.Pos()
			for j := i + 1; j < len(bodies); j++ {
				xj, yj := bodies[j].Particle.Pos()
				dx, dy := xj-xi, yj-yi
				dist2 := dx*dx + dy*dy + 0.01
				f := charge / dist2 * alpha
				invDist := 1 / math.Sqrt(dist2)
				fx, fy := f*dx*invDist, f*dy*invDist
				bodies[i].VX -= fx
				bodies[i].VY -= fy
				bodies[j].VX += fx
				bodies[j].VY += fy
			}
		}
	}
}

// Center returns a weak pull toward a fixed point, keeping the cloud from
// drifting off canvas.
func Center(cx, cy, strength float64) Force {
	return func(bodies []*Body, alpha float64) {
		for _, b := range bodies {
			x, y := b.Particle.Pos()
			b.VX -= (x - cx) * strength * alpha
			b.VY -= (y - cy) * strength * alpha
		}
	}
}

// PositionX returns an axis force nudging each particle toward a per-particle
// horizontal target. Particles for which target reports no value are left
// alone. This is a soft constraint: with a small strength the solver may
// still trade target accuracy against overlap removal.
func PositionX(strength float64, target func(Particle) (float64, bool)) Force {
	return func(bodies []*Body, alpha float64) {
		for _, b := range bodies {
			tx, ok := target(b.Particle)
			if !ok {
				continue
			}
			x, _ := b.Particle.Pos()
			b.VX += (tx - x) * strength * alpha
		}
	}
}

// PositionY is the vertical counterpart of PositionX.
func PositionY(strength float64, target func(Particle) (float64, bool)) Force {
	return func(bodies []*Body, alpha float64) {
		for _, b := range bodies {
			ty, ok := target(b.Particle)
			if !ok {
				continue
			}
			_, y := b.Particle.Pos()
			b.VY += (ty - y) * strength * alpha
		}
	}
}

func bodyIndex(bodies []*Body) map[Particle]*Body {
	idx := make(map[Particle]*Body, len(bodies))
	for _, b := range bodies {
		idx[b.Particle] = b
	}
	return idx
}
