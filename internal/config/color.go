package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// HexColor is a colour written as "#rrggbb" (or "#rgb") in YAML.
type HexColor struct {
	colorful.Color
}

// ParseHex parses a hex colour string.
func ParseHex(s string) (HexColor, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return HexColor{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return HexColor{c}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) HexColor {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGB returns the colour as float32 channels in [0,1].
func (c HexColor) RGB() [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c HexColor) MarshalYAML() (any, error) {
	return c.Hex(), nil
}
