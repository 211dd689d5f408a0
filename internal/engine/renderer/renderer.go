// Package renderer draws a scene graph with spotlights, directional fills,
// fog, emissive materials and spotlight shadow maps.
package renderer

import (
	"fmt"
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/lighting"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/shader"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/shadow"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// shadowUnit is the first texture unit holding shadow maps; unit 0 is the
// material's colour map.
const shadowUnit = 1

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	prog  *shader.Program
	depth *shader.Program

	meshes   map[*scene.Geometry]*gpuMesh
	textures map[*scene.Texture]uint32
	shadows  shadow.Pool

	drawCalls int
	log       *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		meshes:   make(map[*scene.Geometry]*gpuMesh),
		textures: make(map[*scene.Texture]uint32),
		log:      logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	defines := map[string]string{
		"MAX_SPOT_LIGHTS": strconv.Itoa(lighting.MaxSpotLights),
		"MAX_DIR_LIGHTS":  strconv.Itoa(lighting.MaxDirectionalLights),
		"MAX_SHADOWS":     strconv.Itoa(lighting.MaxShadowCasters),
	}
	var err error
	r.prog, err = shader.NewProgram(shader.Preprocess(meshVertSrc, defines), shader.Preprocess(meshFragSrc, defines))
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.depth, err = shader.NewProgram(shader.Preprocess(depthVertSrc, nil), shader.Preprocess(depthFragSrc, nil))
	if err != nil {
		r.prog.Delete()
		return nil, fmt.Errorf("depth shader: %w", err)
	}

	r.prog.Use()
	r.prog.SetInt("uMap", 0)
	for i := 0; i < lighting.MaxShadowCasters; i++ {
		r.prog.SetInt(fmt.Sprintf("uShadowMaps[%d]", i), int32(shadowUnit+i))
	}

	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.meshes {
		m.destroy()
	}
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t)
	}
	r.shadows.Destroy()
	r.prog.Delete()
	r.depth.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// DrawCalls returns the number of meshes drawn by the last Render.
func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

// Render draws s as seen by cam into the framebuffer target.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective, target uint32) {
	opaque, transparent := collect(s, cam.Position)
	slots := shadow.Assign(&s.Lights)

	gl.BindFramebuffer(gl.FRAMEBUFFER, target)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	r.renderShadows(slots, opaque, target)

	bg := s.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	r.prog.Use()
	r.prog.SetMat4("uViewProj", cam.ViewProjection())
	r.prog.SetVec3("uCameraPos", cam.Position)
	r.uploadLights(&s.Lights, slots)
	if s.Fog != nil {
		r.prog.SetInt("uFog", 1)
		r.prog.SetColor("uFogColor", s.Fog.Color.Array())
		r.prog.SetFloat("uFogDensity", s.Fog.Density)
	} else {
		r.prog.SetInt("uFog", 0)
	}

	r.drawCalls = 0
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, it := range opaque {
		r.drawItem(it)
	}

	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, it := range transparent {
			r.drawItem(it)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.Disable(gl.CULL_FACE)
	gl.BindVertexArray(0)
}

func (r *Renderer) uploadLights(set *lighting.Set, slots []shadow.Slot) {
	spots, dirs := packLights(set, slots)
	p := r.prog
	p.SetColor("uAmbient", set.Ambient)
	p.SetInt("uSpotCount", int32(len(spots)))
	for i, s := range spots {
		prefix := fmt.Sprintf("uSpots[%d].", i)
		p.SetVec3(prefix+"position", s.Position)
		p.SetVec3(prefix+"direction", s.Direction)
		p.SetColor(prefix+"color", s.Color)
		p.SetFloat(prefix+"intensity", s.Intensity)
		p.SetFloat(prefix+"distance", s.Distance)
		p.SetFloat(prefix+"decay", s.Decay)
		p.SetFloat(prefix+"coneCos", s.ConeCos)
		p.SetFloat(prefix+"penumbraCos", s.PenumbraCos)
		p.SetInt(prefix+"shadow", s.Shadow)
	}
	p.SetInt("uDirCount", int32(len(dirs)))
	for i, d := range dirs {
		prefix := fmt.Sprintf("uDirs[%d].", i)
		p.SetVec3(prefix+"direction", d.Direction)
		p.SetColor(prefix+"color", d.Color)
		p.SetFloat(prefix+"intensity", d.Intensity)
	}

	p.SetInt("uShadowCount", int32(len(slots)))
	for _, s := range slots {
		p.SetMat4(fmt.Sprintf("uShadowMatrix[%d]", s.Index), s.Matrix)
		if m, err := r.shadows.Get(s); err == nil {
			m.BindTexture(gl.TEXTURE0 + uint32(shadowUnit+s.Index))
		}
	}
}

func (r *Renderer) renderShadows(slots []shadow.Slot, opaque []item, target uint32) {
	if len(slots) == 0 {
		return
	}
	shadowed := casters(opaque)
	r.depth.Use()
	for _, s := range slots {
		m, err := r.shadows.Get(s)
		if err != nil {
			r.log.Warn("shadow map unavailable", zap.Int("slot", s.Index), zap.Error(err))
			continue
		}
		m.Bind()
		r.depth.SetMat4("uLightMatrix", s.Matrix)
		for _, it := range shadowed {
			r.depth.SetMat4("uModel", it.world)
			r.mesh(it.node.Mesh.Geometry).draw()
		}
		m.Unbind(target)
	}
}

func (r *Renderer) drawItem(it item) {
	mat := it.node.Mesh.Material
	p := r.prog

	p.SetMat4("uModel", it.world)
	p.SetMat4("uNormalMatrix", it.world.NormalMatrix())
	p.SetColor("uColor", mat.Color.Array())
	em := mat.Emissive
	k := mat.EmissiveIntensity
	p.SetColor("uEmissive", [3]float32{em.R * k, em.G * k, em.B * k})
	p.SetFloat("uMetalness", mat.Metalness)
	p.SetFloat("uRoughness", mat.Roughness)
	p.SetFloat("uOpacity", mat.Opacity)
	p.SetInt("uReceiveShadow", boolInt(it.node.ReceiveShadow))

	if mat.Map != nil && mat.Map.Image != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture(mat.Map))
		p.SetInt("uHasMap", 1)
	} else {
		p.SetInt("uHasMap", 0)
	}

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	r.mesh(it.node.Mesh.Geometry).draw()
	r.drawCalls++
}

func (r *Renderer) mesh(g *scene.Geometry) *gpuMesh {
	m, ok := r.meshes[g]
	if !ok {
		m = uploadMesh(g)
		r.meshes[g] = m
	}
	return m
}

func (r *Renderer) texture(t *scene.Texture) uint32 {
	id, ok := r.textures[t]
	if !ok {
		id = uploadTexture(t.Image)
		r.textures[t] = id
	}
	return id
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
