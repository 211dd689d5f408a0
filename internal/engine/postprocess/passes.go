package postprocess

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/framebuffer"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/shader"
)

// SceneRenderer draws a scene into a framebuffer object.
type SceneRenderer interface {
	Render(s *scene.Scene, cam *camera.Perspective, target uint32)
	Resize(width, height int)
}

// RenderPass draws the scene into the frame's HDR target.
type RenderPass struct {
	Renderer SceneRenderer
}

// NewRenderPass wraps r.
func NewRenderPass(r SceneRenderer) *RenderPass {
	return &RenderPass{Renderer: r}
}

// Render implements Pass.
func (p *RenderPass) Render(f *Frame) {
	p.Renderer.Render(f.Scene, f.Camera, f.HDR.FBO())
}

// Resize implements Pass.
func (p *RenderPass) Resize(width, height int32) {
	p.Renderer.Resize(int(width), int(height))
}

// Destroy implements Pass. The renderer is owned by the caller.
func (p *RenderPass) Destroy() {}

// blurTaps is the one-sided tap count of the separable Gaussian.
const blurTaps = 5

// blurPairs is the number of horizontal+vertical blur iterations.
const blurPairs = 4

// BloomPass extracts pixels brighter than Threshold, blurs them at half
// resolution, and leaves the result in Frame.Bloom for the output pass to add
// Strength times.
type BloomPass struct {
	Strength  float32
	Radius    float32 // 0..1, widens the blur
	Threshold float32 // luminance cut-off

	bright  *shader.Program
	blur    *shader.Program
	quad    *quad
	targets [2]*framebuffer.Framebuffer
	weights []float32
}

// NewBloomPass compiles the bloom shaders and allocates half-size targets.
func NewBloomPass(width, height int, strength, radius, threshold float32) (*BloomPass, error) {
	p := &BloomPass{
		Strength:  strength,
		Radius:    radius,
		Threshold: threshold,
		quad:      newQuad(),
		weights:   gaussianWeights(blurTaps, 2),
	}
	var err error
	if p.bright, err = shader.NewProgram(shader.Preprocess(quadVertSrc, nil), shader.Preprocess(brightFragSrc, nil)); err != nil {
		return nil, fmt.Errorf("bright-pass shader: %w", err)
	}
	defines := map[string]string{"TAPS": fmt.Sprint(blurTaps)}
	if p.blur, err = shader.NewProgram(shader.Preprocess(quadVertSrc, nil), shader.Preprocess(blurFragSrc, defines)); err != nil {
		p.bright.Delete()
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	w, h := bloomSize(int32(width), int32(height))
	for i := range p.targets {
		p.targets[i], err = framebuffer.NewWithOptions(w, h, framebuffer.Options{Format: framebuffer.HDR})
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("bloom target: %w", err)
		}
	}
	return p, nil
}

// Render implements Pass.
func (p *BloomPass) Render(f *Frame) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	p.targets[0].Bind()
	p.bright.Use()
	p.bright.SetInt("uSource", 0)
	p.bright.SetFloat("uThreshold", p.Threshold)
	bindTexture(0, f.HDR.ColorTexture())
	p.quad.draw()

	w, h := p.targets[0].Size()
	step := blurSpread(p.Radius)
	p.blur.Use()
	p.blur.SetInt("uSource", 0)
	for i := 0; i < blurTaps; i++ {
		p.blur.SetFloat(fmt.Sprintf("uWeights[%d]", i), p.weights[i])
	}
	for i := 0; i < blurPairs; i++ {
		// horizontal: 0 -> 1, vertical: 1 -> 0
		p.targets[1].Bind()
		p.blur.SetVec2("uTexelDir", step/float32(w), 0)
		bindTexture(0, p.targets[0].ColorTexture())
		p.quad.draw()

		p.targets[0].Bind()
		p.blur.SetVec2("uTexelDir", 0, step/float32(h))
		bindTexture(0, p.targets[1].ColorTexture())
		p.quad.draw()
	}

	f.Bloom = p.targets[0].ColorTexture()
}

// Resize implements Pass.
func (p *BloomPass) Resize(width, height int32) {
	w, h := bloomSize(width, height)
	for _, t := range p.targets {
		t.Resize(w, h)
	}
}

// Destroy implements Pass.
func (p *BloomPass) Destroy() {
	for i, t := range p.targets {
		if t != nil {
			t.Destroy()
			p.targets[i] = nil
		}
	}
	if p.bright != nil {
		p.bright.Delete()
	}
	if p.blur != nil {
		p.blur.Delete()
	}
	p.quad.destroy()
}

// OutputPass adds bloom to the HDR scene, applies exposure and Reinhard
// tonemapping, encodes sRGB and writes to the window framebuffer.
type OutputPass struct {
	Exposure      float32
	BloomStrength func() float32

	prog *shader.Program
	quad *quad
}

// NewOutputPass compiles the tonemap shader. bloom may be nil.
func NewOutputPass(bloom *BloomPass) (*OutputPass, error) {
	prog, err := shader.NewProgram(shader.Preprocess(quadVertSrc, nil), shader.Preprocess(outputFragSrc, nil))
	if err != nil {
		return nil, fmt.Errorf("output shader: %w", err)
	}
	p := &OutputPass{Exposure: 1, prog: prog, quad: newQuad()}
	if bloom != nil {
		p.BloomStrength = func() float32 { return bloom.Strength }
	}
	return p, nil
}

// Render implements Pass.
func (p *OutputPass) Render(f *Frame) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, f.Width, f.Height)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	p.prog.Use()
	p.prog.SetInt("uScene", 0)
	p.prog.SetInt("uBloom", 1)
	p.prog.SetFloat("uExposure", p.Exposure)
	bindTexture(0, f.HDR.ColorTexture())
	strength := float32(0)
	if f.Bloom != 0 && p.BloomStrength != nil {
		strength = p.BloomStrength()
		bindTexture(1, f.Bloom)
	}
	p.prog.SetFloat("uBloomStrength", strength)
	p.quad.draw()

	gl.Enable(gl.DEPTH_TEST)
}

// Resize implements Pass.
func (p *OutputPass) Resize(width, height int32) {}

// Destroy implements Pass.
func (p *OutputPass) Destroy() {
	p.prog.Delete()
	p.quad.destroy()
}

// gaussianWeights returns the one-sided weights of a normalised Gaussian:
// w[0] is the centre tap and w[0] + 2*sum(w[1:]) == 1.
func gaussianWeights(taps int, sigma float32) []float32 {
	w := make([]float32, taps)
	var sum float32
	for i := range w {
		x := float32(i)
		w[i] = math32.Exp(-(x * x) / (2 * sigma * sigma))
		if i == 0 {
			sum += w[i]
		} else {
			sum += 2 * w[i]
		}
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// blurSpread maps the bloom radius to a tap spacing in texels.
func blurSpread(radius float32) float32 {
	return 1 + 3*max(0, min(radius, 1))
}

// bloomSize returns the half-resolution bloom target size.
func bloomSize(width, height int32) (int32, int32) {
	return max(width/2, 1), max(height/2, 1)
}

func bindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}
