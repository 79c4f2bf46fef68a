// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction converts azimuth/elevation angles in degrees to a unit vector
// pointing towards the light. Azimuth rotates around Y starting at +Z,
// elevation is measured from the horizon.
func Direction(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}
