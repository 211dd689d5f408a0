// Package postprocess renders the scene into an HDR target and runs it
// through a chain of full-screen passes: bloom, then tonemapped output to the
// window.
package postprocess

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/framebuffer"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
)

// Target is an offscreen colour buffer.
type Target interface {
	FBO() uint32
	ColorTexture() uint32
	Resize(width, height int32)
	Destroy()
}

// Frame is the state handed from pass to pass within one Render.
type Frame struct {
	Scene  *scene.Scene
	Camera *camera.Perspective
	HDR    Target // scene colour in linear HDR
	Bloom  uint32 // blurred highlights texture, 0 when no bloom ran
	Width  int32
	Height int32
}

// Pass is one stage of the chain.
type Pass interface {
	Render(f *Frame)
	Resize(width, height int32)
	Destroy()
}

// Composer runs its passes in order. It is the only writer to the window's
// framebuffer; the last pass must draw there.
type Composer struct {
	passes  []Pass
	enabled []bool
	hdr     Target
	width   int32
	height  int32
	log     *zap.Logger
}

// NewComposer allocates the HDR scene target.
func NewComposer(width, height int) (*Composer, error) {
	hdr, err := framebuffer.NewWithOptions(int32(width), int32(height), framebuffer.Options{
		Format: framebuffer.HDR,
		Depth:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("hdr target: %w", err)
	}
	return newComposer(hdr, width, height), nil
}

func newComposer(hdr Target, width, height int) *Composer {
	return &Composer{
		hdr:    hdr,
		width:  int32(width),
		height: int32(height),
		log:    logger.Named("postprocess"),
	}
}

// AddPass appends p to the chain.
func (c *Composer) AddPass(p Pass) {
	c.passes = append(c.passes, p)
	c.enabled = append(c.enabled, true)
}

// SetEnabled turns a pass on or off without removing it.
func (c *Composer) SetEnabled(p Pass, on bool) {
	for i, q := range c.passes {
		if q == p {
			c.enabled[i] = on
		}
	}
}

// Passes returns the chain.
func (c *Composer) Passes() []Pass {
	return c.passes
}

// Render draws one frame through every enabled pass.
func (c *Composer) Render(s *scene.Scene, cam *camera.Perspective) {
	f := &Frame{
		Scene:  s,
		Camera: cam,
		HDR:    c.hdr,
		Width:  c.width,
		Height: c.height,
	}
	for i, p := range c.passes {
		if c.enabled[i] {
			p.Render(f)
		}
	}
}

// Resize reallocates every target for a new window size.
func (c *Composer) Resize(width, height int) {
	c.width, c.height = int32(max(width, 1)), int32(max(height, 1))
	c.hdr.Resize(c.width, c.height)
	for _, p := range c.passes {
		p.Resize(c.width, c.height)
	}
	c.log.Debug("composer resized", zap.Int("width", width), zap.Int("height", height))
}

// Destroy releases the chain and the HDR target.
func (c *Composer) Destroy() {
	for _, p := range c.passes {
		p.Destroy()
	}
	c.hdr.Destroy()
}
