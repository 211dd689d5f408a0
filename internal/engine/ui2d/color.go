package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay theme: dark translucent panels with the exhibit's red accent.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}

	ColorBackdrop     = Color{0, 0, 0, 0.55}
	ColorPanelBg      = Color{0.05, 0.05, 0.06, 0.92}
	ColorPanelBorder  = Color{0.35, 0.08, 0.08, 1}
	ColorButtonNormal = Color{0.12, 0.12, 0.14, 1}
	ColorButtonHover  = ColorButtonNormal.Lighten(0.15)
	ColorButtonActive = ColorRed.Darken(0.4)
	ColorText         = Color{0.92, 0.92, 0.92, 1}
	ColorTextDim      = ColorText.Darken(0.4)
	ColorAccent       = RGB(0xe0, 0x30, 0x30)
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xff)
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Darken returns a darker version of the color.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}
