// Package exhibit wires the warehouse exhibit together and runs it on the
// SDL main loop.
package exhibit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/assets"
	"github.com/Faultbox/warehouse-exhibit/internal/config"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/audio"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/debug"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/gltfload"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/loop"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/postprocess"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/renderer"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/ui2d"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/window"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/animate"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/assembly"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/camctl"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/host"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/interact"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/lights"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/modal"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/pointer"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
	"github.com/Faultbox/warehouse-exhibit/internal/overlay"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// App is the running exhibit.
type App struct {
	cfg *config.Config

	window   *window.Window
	input    *input.Input
	renderer *renderer.Renderer
	composer *postprocess.Composer
	ui       *ui2d.Renderer
	overlay  *ui2d.Context

	loop     *loop.Loop
	scene    *scene.Scene
	camera   *camera.Perspective
	host     *host.Host
	lights   *lights.Controller
	anim     *animate.Animator
	registry *interact.Registry
	modal    *modal.Controller
	pointer  *pointer.Service
	camctl   *camctl.Controller
	assets   *assets.Manager
	assembly *assembly.Assembly

	audio *audio.Manager
	music *audio.Starter
	shots *debug.Screenshots

	router         *router
	wantScreenshot bool
	log            *zap.Logger
}

// New opens the window and builds every exhibit component. Artifacts start
// loading when Run is called.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		input: input.New(),
		loop:  loop.New(),
		log:   logger.Named("exhibit"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.GetSize()
	dw, dh := a.window.DrawableSize()

	// renderer after window, the GL context must exist
	a.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := a.buildComposer(dw, dh); err != nil {
		a.Close()
		return nil, err
	}

	a.ui, err = ui2d.New(width, height)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create overlay renderer: %w", err)
	}
	a.ui.SetViewport(dw, dh)
	a.overlay = ui2d.NewContext(a.ui, a.ui.Font(), width, height)

	a.buildScene(width, height)
	a.buildInteraction(width, height)

	if cfg.Audio.Enabled {
		a.audio = audio.New()
		a.audio.SetVolume(float64(cfg.Audio.Volume))
		a.music = audio.NewStarter(a.startMusic)
	}
	a.shots = debug.NewScreenshots("screenshots", "exhibit")

	a.router = &router{
		ui:           a.overlay.Input(),
		overlay:      a.overlay,
		pointer:      a.pointer,
		camera:       a.camctl,
		modal:        a.modal,
		onResize:     a.resize,
		onScreenshot: func() { a.wantScreenshot = true },
		onFirstClick: a.firstClick,
	}

	a.log.Info("exhibit initialized",
		zap.Int("lights", len(cfg.Lights)),
		zap.Int("artifacts", len(cfg.Artifacts)),
		zap.Bool("bloom", cfg.Bloom.Enabled),
		zap.Bool("audio", cfg.Audio.Enabled))
	return a, nil
}

// buildComposer sets up render, optional bloom and output passes.
func (a *App) buildComposer(width, height int) error {
	var err error
	a.composer, err = postprocess.NewComposer(width, height)
	if err != nil {
		return fmt.Errorf("failed to create composer: %w", err)
	}
	a.composer.AddPass(postprocess.NewRenderPass(a.renderer))

	var bloom *postprocess.BloomPass
	if a.cfg.Bloom.Enabled {
		b := a.cfg.Bloom
		bloom, err = postprocess.NewBloomPass(width, height, b.Strength, b.Radius, b.Threshold)
		if err != nil {
			return fmt.Errorf("failed to create bloom pass: %w", err)
		}
		a.composer.AddPass(bloom)
	}

	out, err := postprocess.NewOutputPass(bloom)
	if err != nil {
		return fmt.Errorf("failed to create output pass: %w", err)
	}
	a.composer.AddPass(out)
	return nil
}

// buildScene creates the scene, camera, controls, lights and the host.
func (a *App) buildScene(width, height int) {
	cfg := a.cfg

	a.scene = scene.New()
	fog := scene.ColorFrom(cfg.Fog.Color.Color)
	a.scene.Fog = &scene.Fog{Color: fog, Density: cfg.Fog.Density}
	a.scene.Background = fog

	a.camera = camera.NewPerspective(cfg.Camera.FOV, float32(width)/float32(height), cfg.Camera.Near, cfg.Camera.Far)
	a.camera.Position = math.Vec3FromArray(cfg.Camera.Position)

	fly := camera.NewFlyControls(a.camera)
	fly.MovementSpeed = cfg.Controls.MovementSpeed
	fly.RollSpeed = cfg.Controls.RollSpeed
	fly.DragToLook = cfg.Controls.DragToLook
	a.camctl = camctl.New(fly, a.camera)
	a.camctl.EdgeMargin = cfg.EdgePan.Margin
	a.camctl.PanSpeed = cfg.EdgePan.Speed
	a.camctl.SetViewport(width, height)

	a.lights = lights.New(&a.scene.Lights)
	for _, l := range cfg.Lights {
		a.lights.CreateSpotlight(l)
	}

	a.anim = animate.New()
	a.anim.Factor = cfg.Hover.Factor
	a.anim.Rate = cfg.Hover.Rate
	if cfg.Hover.Easing == config.EasingTime {
		a.anim.Easing = animate.EaseTime
	}

	a.host = host.New(a.scene, a.camera, host.Options{
		Scheduler: a.loop,
		Composer:  a.composer,
		Lights:    a.lights,
		Animator:  a.anim,
	})
	a.host.SetControls(a.camctl)
}

// buildInteraction creates the overlay, modal, registry, pointer service and
// the artifact assembly.
func (a *App) buildInteraction(width, height int) {
	cfg := a.cfg
	a.assets = assets.NewManager(cfg.Assets.Root)

	a.modal = modal.New(a.loadOverlay(cfg.Overlay.Document), a.loop)
	if cfg.Overlay.Transition > 0 {
		a.modal.SetTransition(cfg.Overlay.Transition)
	}

	a.registry = interact.NewRegistry(a.anim, a.modal)
	a.pointer = pointer.New(a.scene, a.camera, pointer.Rect{Width: float32(width), Height: float32(height)}, pointer.Handlers{
		OnClick:      a.registry.Click,
		OnHoverEnter: a.registry.HoverEnter,
		OnHoverExit:  a.registry.HoverExit,
	})

	a.assembly = assembly.New(a.scene, a.anim, a.registry, a.loadModel, a.loop)
	a.assembly.Concurrency = cfg.Assets.Concurrency
}

// loadOverlay parses the overlay templates. A missing document leaves the
// modal inert; clicks still scale artifacts.
func (a *App) loadOverlay(url string) *overlay.Document {
	data, err := a.assets.Load(url)
	if err != nil {
		a.log.Warn("overlay document unavailable", zap.String("url", url), zap.Error(err))
		return nil
	}
	doc, err := overlay.Parse(bytes.NewReader(data))
	if err != nil {
		a.log.Warn("overlay document unreadable", zap.String("url", url), zap.Error(err))
		return nil
	}
	return doc
}

func (a *App) loadModel(ctx context.Context, url string) (*scene.Node, error) {
	return gltfload.Load(ctx, a.assets, url)
}

// Run drives the frame loop until the window closes, Escape is pressed with
// no modal open, or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.assembly.Start(ctx, a.cfg.Artifacts)
	if err := a.host.Start(); err != nil {
		return fmt.Errorf("starting host: %w", err)
	}
	a.log.Info("starting frame loop")

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	for !a.router.quit && ctx.Err() == nil {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Input
		a.input.Reset()
		if a.window.PollEvents(a.input) {
			a.router.quit = true
		}
		for _, e := range a.input.Events() {
			a.router.dispatch(e)
		}

		// 2. Posted attaches, then the host tick renders the scene
		a.loop.RunFrame()
		a.modal.Update(dt)

		// 3. Overlay on top of the composed frame
		a.drawOverlay()

		if a.wantScreenshot {
			a.wantScreenshot = false
			a.screenshot()
		}

		// 4. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("draw_calls", a.renderer.DrawCalls()),
				zap.Int("attached", a.assembly.Attached()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	a.host.Stop()
	a.pointer.Dispose()
	cancel()
	a.assembly.Wait()
	return nil
}

func (a *App) drawOverlay() {
	a.overlay.Begin()
	a.ui.Begin()
	if a.overlay.Modal(modalView(a.modal.View())) {
		a.modal.Hide()
	}
	a.ui.End()
	a.overlay.End()
}

// resize handles a window resize given in window coordinates.
func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	dw, dh := a.window.DrawableSize()
	a.host.Resize(dw, dh)
	a.camctl.SetViewport(width, height)
	a.ui.Resize(width, height)
	a.ui.SetViewport(dw, dh)
	a.overlay.Resize(width, height)
	a.log.Debug("resized",
		zap.Int("width", width), zap.Int("height", height),
		zap.Int("drawable_width", dw), zap.Int("drawable_height", dh))
}

func (a *App) firstClick() {
	if a.music == nil {
		return
	}
	if err := a.music.Trigger(); err != nil {
		a.log.Warn("ambient track failed", zap.Error(err))
	}
}

func (a *App) startMusic() error {
	data, err := a.assets.Load(a.cfg.Audio.Track)
	if err != nil {
		return err
	}
	if err := a.audio.Init(); err != nil {
		return err
	}
	return a.audio.PlayLoop(data, a.cfg.Audio.Track, a.cfg.Audio.StartOffset)
}

// screenshot reads the default framebuffer back and saves it.
func (a *App) screenshot() {
	w, h := a.window.DrawableSize()
	pixels := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if _, err := a.shots.Save(pixels, w, h); err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
	}
}

// Close releases every resource in reverse order of creation.
func (a *App) Close() {
	a.log.Info("closing exhibit")

	if a.audio != nil {
		a.audio.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.ui != nil {
		a.ui.Close()
	}
	if a.composer != nil {
		a.composer.Destroy()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
