// Package assembly loads the configured artifacts in the background and
// attaches them to the scene on the main loop.
package assembly

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/warehouse-exhibit/internal/config"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/animate"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/interact"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// LoadFunc fetches and decodes the asset at url.
type LoadFunc func(ctx context.Context, url string) (*scene.Node, error)

// Poster runs a task on the main loop. It must be safe to call from any
// goroutine.
type Poster interface {
	Post(task func())
}

// Assembly places artifacts into a scene.
type Assembly struct {
	scene    *scene.Scene
	anim     *animate.Animator
	registry *interact.Registry
	load     LoadFunc
	post     Poster

	// Concurrency caps simultaneous loads; zero or less means unlimited.
	Concurrency int
	// OnAttach, when set, is called on the main loop after each artifact
	// joins the scene.
	OnAttach func(cfg config.ArtifactConfig, n *scene.Node)

	group    singleflight.Group
	eg       *errgroup.Group
	attached atomic.Int32
	failed   atomic.Int32
	log      *zap.Logger
}

// New creates an assembly that loads through load and attaches via post.
func New(s *scene.Scene, anim *animate.Animator, reg *interact.Registry, load LoadFunc, post Poster) *Assembly {
	return &Assembly{
		scene:    s,
		anim:     anim,
		registry: reg,
		load:     load,
		post:     post,
		eg:       new(errgroup.Group),
		log:      logger.Named("assembly"),
	}
}

// Start begins loading every artifact. It returns at once; each artifact is
// attached by a task posted to the main loop when its load completes. A
// failed load is logged and the artifact dropped.
func (a *Assembly) Start(ctx context.Context, artifacts []config.ArtifactConfig) {
	if a.Concurrency > 0 {
		a.eg.SetLimit(a.Concurrency)
	}
	for _, cfg := range artifacts {
		a.eg.Go(func() error {
			n, err := a.build(ctx, cfg)
			if err != nil {
				a.failed.Add(1)
				a.log.Error("model load failed",
					zap.String("name", cfg.Name),
					zap.String("url", cfg.URL),
					zap.Error(err))
				return nil
			}
			a.post.Post(func() {
				a.Attach(cfg, n)
			})
			return nil
		})
	}
}

// Wait blocks until every started load has finished. Attach tasks may still
// be pending on the main loop.
func (a *Assembly) Wait() {
	_ = a.eg.Wait()
}

// Attached returns the number of artifacts added to the scene.
func (a *Assembly) Attached() int {
	return int(a.attached.Load())
}

// Failed returns the number of artifacts dropped by load errors.
func (a *Assembly) Failed() int {
	return int(a.failed.Load())
}

// build returns a private copy of the artifact's subtree.
func (a *Assembly) build(ctx context.Context, cfg config.ArtifactConfig) (*scene.Node, error) {
	if cfg.Shape == config.ShapeSphere {
		r := cfg.Radius
		if r <= 0 {
			r = 1
		}
		return scene.NewMeshNode(cfg.Name, scene.NewSphere(r, 64, 64), scene.NewMaterial()), nil
	}
	if cfg.Shape != "" {
		return nil, fmt.Errorf("unknown shape %q", cfg.Shape)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("artifact %q has neither url nor shape", cfg.Name)
	}

	v, err, _ := a.group.Do(cfg.URL, func() (any, error) {
		return a.load(ctx, cfg.URL)
	})
	if err != nil {
		return nil, err
	}
	n := v.(*scene.Node).Clone()
	if cfg.Name != "" {
		n.Name = cfg.Name
	}
	return n, nil
}

// Attach places n according to cfg and adds it to the scene. It must run on
// the main loop.
func (a *Assembly) Attach(cfg config.ArtifactConfig, n *scene.Node) *scene.Node {
	n.Position = math.Vec3FromArray(cfg.Position)
	n.SetRotationXYZ(cfg.Rotation[0], cfg.Rotation[1], cfg.Rotation[2])
	if cfg.Scale != 0 {
		n.SetScalar(cfg.Scale)
	}

	n.TraverseMeshes(func(m *scene.Node) {
		if cfg.Material != nil {
			m.Mesh.Material = overrideMaterial(m.Mesh.Material, cfg.Material)
		}
		if cfg.Shadows {
			m.CastShadow = true
			m.ReceiveShadow = true
		}
	})

	if cfg.RotationAxis != nil {
		a.anim.SetRotation(n, math.Vec3FromArray(*cfg.RotationAxis), cfg.RotationSpeed)
	}

	if cfg.Interactive {
		opts := interact.Options{
			ModalID:    cfg.ModalID,
			BaseScale:  cfg.Scales[0],
			HoverScale: cfg.Scales[1],
			ClickScale: cfg.Scales[2],
		}
		if cfg.HoverEmissive != nil {
			c := scene.ColorFrom(cfg.HoverEmissive.Color)
			opts.HoverEmissive = &c
			opts.HoverIntensity = cfg.HoverGlow
		}
		a.registry.ApplyInteractionRecursively(n, opts)
	}

	a.scene.Add(n)
	a.attached.Add(1)
	a.log.Info("artifact attached",
		zap.String("name", n.Name),
		zap.Bool("interactive", cfg.Interactive))
	if a.OnAttach != nil {
		a.OnAttach(cfg, n)
	}
	return n
}

// overrideMaterial returns a per-mesh material for mc. Replace builds a new
// material from mc; tint clones orig and sets only its colour.
func overrideMaterial(orig *scene.Material, mc *config.MaterialConfig) *scene.Material {
	if mc.Mode == config.MaterialTint {
		m := orig.Clone()
		if m == nil {
			m = scene.NewMaterial()
		}
		m.Color = scene.ColorFrom(mc.Color.Color)
		return m
	}
	m := scene.NewMaterial()
	m.Color = scene.ColorFrom(mc.Color.Color)
	m.Emissive = scene.ColorFrom(mc.Emissive.Color)
	m.EmissiveIntensity = mc.EmissiveIntensity
	m.Metalness = mc.Metalness
	m.Roughness = mc.Roughness
	m.Clearcoat = mc.Clearcoat
	return m
}
