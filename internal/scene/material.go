package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// ShadingKind is the lighting model of a material.
type ShadingKind int

const (
	ShadingStandard ShadingKind = iota // metallic-roughness PBR
	ShadingBasic                       // unlit
	ShadingLambert
	ShadingPhong
	ShadingCustom // no base color parameter
)

func (k ShadingKind) String() string {
	switch k {
	case ShadingStandard:
		return "standard"
	case ShadingBasic:
		return "basic"
	case ShadingLambert:
		return "lambert"
	case ShadingPhong:
		return "phong"
	default:
		return "custom"
	}
}

// Material is shared by every primitive that references it.
// Color is the base color factor in linear RGB plus alpha.
type Material struct {
	Name  string
	Index int // source material index, -1 when synthesized
	Kind  ShadingKind
	Color mgl32.Vec4
}

// NewMaterial creates a white material of the given kind.
func NewMaterial(name string, kind ShadingKind) *Material {
	return &Material{Name: name, Index: -1, Kind: kind, Color: mgl32.Vec4{1, 1, 1, 1}}
}

// Colorable reports whether the material exposes a base color that can be rewritten.
func (m *Material) Colorable() bool {
	switch m.Kind {
	case ShadingStandard, ShadingBasic, ShadingLambert, ShadingPhong:
		return true
	}
	return false
}

// ColorHex returns the base color as a lowercase sRGB "#rrggbb" string.
func (m *Material) ColorHex() string {
	c := colorful.LinearRgb(float64(m.Color[0]), float64(m.Color[1]), float64(m.Color[2]))
	return c.Clamped().Hex()
}

// SetHex sets the base color from an sRGB "#rgb" or "#rrggbb" string.
// Alpha is left untouched.
func (m *Material) SetHex(hex string) error {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return err
	}
	m.Color = mgl32.Vec4{r, g, b, m.Color[3]}
	return nil
}

// ParseHex converts an sRGB hex color to linear RGB components.
func ParseHex(hex string) (r, g, b float32, err error) {
	if len(hex) != 4 && len(hex) != 7 {
		return 0, 0, 0, fmt.Errorf("color %q: want #rgb or #rrggbb", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("color %q: %w", hex, err)
	}
	lr, lg, lb := c.LinearRgb()
	return float32(lr), float32(lg), float32(lb), nil
}

// NormalizeHex returns hex in lowercase "#rrggbb" form.
func NormalizeHex(hex string) (string, error) {
	if _, _, _, err := ParseHex(hex); err != nil {
		return "", err
	}
	c, _ := colorful.Hex(hex)
	return c.Hex(), nil
}
