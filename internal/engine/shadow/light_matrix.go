package shadow

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/lighting"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Slot is one shadow-casting spotlight bound to a depth map.
type Slot struct {
	Index  int // depth map and sampler index
	Light  *lighting.SpotLight
	Matrix math.Mat4 // world -> light clip space
}

// Assign returns a slot for each shadow caster in set, in insertion order,
// capped at lighting.MaxShadowCasters.
func Assign(set *lighting.Set) []Slot {
	casters := set.ShadowCasters()
	slots := make([]Slot, len(casters))
	for i, l := range casters {
		slots[i] = Slot{
			Index:  i,
			Light:  l,
			Matrix: l.ViewProjection(),
		}
	}
	return slots
}

// SpotIndex returns the slot index of the shadow map for the spotlight at
// index i in spots, or -1 when it renders no shadows.
func SpotIndex(slots []Slot, spot *lighting.SpotLight) int {
	for _, s := range slots {
		if s.Light == spot {
			return s.Index
		}
	}
	return -1
}

// mapResolution picks the depth map size for a light, falling back to the
// default for unset sizes.
func mapResolution(l *lighting.SpotLight) int32 {
	if l.Shadow.MapSize <= 0 {
		return DefaultResolution
	}
	return l.Shadow.MapSize
}
