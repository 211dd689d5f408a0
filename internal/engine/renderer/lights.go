package renderer

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/lighting"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/shadow"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// spotUniform is the shader-side form of a spotlight.
type spotUniform struct {
	Position    math.Vec3
	Direction   math.Vec3
	Color       [3]float32
	Intensity   float32
	Distance    float32
	Decay       float32
	ConeCos     float32
	PenumbraCos float32
	Shadow      int32 // shadow map index, -1 for none
}

type dirUniform struct {
	Direction math.Vec3
	Color     [3]float32
	Intensity float32
}

// packLights converts the scene's lights to uniforms, dropping any beyond the
// shader array sizes.
func packLights(set *lighting.Set, slots []shadow.Slot) ([]spotUniform, []dirUniform) {
	spots := make([]spotUniform, 0, min(len(set.Spots), lighting.MaxSpotLights))
	for _, l := range set.Spots {
		if len(spots) == lighting.MaxSpotLights {
			break
		}
		outer, inner := l.ConeCos()
		spots = append(spots, spotUniform{
			Position:    l.Position,
			Direction:   l.Direction(),
			Color:       l.Color,
			Intensity:   l.Intensity,
			Distance:    l.Distance,
			Decay:       l.Decay,
			ConeCos:     outer,
			PenumbraCos: inner,
			Shadow:      int32(shadow.SpotIndex(slots, l)),
		})
	}

	dirs := make([]dirUniform, 0, min(len(set.Directionals), lighting.MaxDirectionalLights))
	for _, l := range set.Directionals {
		if len(dirs) == lighting.MaxDirectionalLights {
			break
		}
		dirs = append(dirs, dirUniform{
			Direction: l.Direction(),
			Color:     l.Color,
			Intensity: l.Intensity,
		})
	}
	return spots, dirs
}
