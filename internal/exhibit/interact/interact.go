// Package interact attaches hover and click behaviour to scene objects.
//
// Records live in a registry keyed by node ID rather than on the nodes.
// Pointer events arrive for whatever mesh fragment the ray hit; the registry
// resolves the fragment to its nearest ancestor carrying a record and counts
// hovered fragments per record, so an object enters hover on its first
// fragment and leaves on its last.
package interact

import (
	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
)

// ScaleTargets receives the scale an object should ease toward.
type ScaleTargets interface {
	SetTargetScale(n *scene.Node, s float32)
	TargetScale(n *scene.Node) (float32, bool)
}

// ModalOpener shows the overlay bound to a template for a subject.
type ModalOpener interface {
	Open(subject *scene.Node, templateID string)
}

// Options configures one interactable object.
type Options struct {
	ModalID    string
	BaseScale  float32
	HoverScale float32
	ClickScale float32

	// Emissive applied to every mesh while hovered. The zero value means
	// white at intensity 1.
	HoverEmissive  *scene.Color
	HoverIntensity float32
}

// DefaultOptions returns the standard (1, 1.5, 1.9) scale triplet.
func DefaultOptions(modalID string) Options {
	return Options{
		ModalID:    modalID,
		BaseScale:  1,
		HoverScale: 1.5,
		ClickScale: 1.9,
	}
}

// EmissiveSnapshot is a copy of a mesh material's emissive state.
type EmissiveSnapshot struct {
	Color     scene.Color
	Intensity float32
}

type meshSnapshot struct {
	mesh *scene.Node
	orig EmissiveSnapshot
}

// Record is the interaction state of one object.
type Record struct {
	Node *scene.Node
	Options

	snapshots []meshSnapshot
	hovers    int
	registry  *Registry
}

// OriginalEmissive returns the emissive captured for mesh at attachment.
func (r *Record) OriginalEmissive(mesh *scene.Node) (EmissiveSnapshot, bool) {
	for _, s := range r.snapshots {
		if s.mesh == mesh {
			return s.orig, true
		}
	}
	return EmissiveSnapshot{}, false
}

// Meshes returns the meshes whose emissive the record controls.
func (r *Record) Meshes() []*scene.Node {
	out := make([]*scene.Node, len(r.snapshots))
	for i, s := range r.snapshots {
		out[i] = s.mesh
	}
	return out
}

// Hovered reports whether any fragment of the object is under the cursor.
func (r *Record) Hovered() bool {
	return r.hovers > 0
}

// TargetScale returns the scale the object is easing toward.
func (r *Record) TargetScale() float32 {
	s, _ := r.registry.scales.TargetScale(r.Node)
	return s
}

// HoverEnter grows the object and lights its meshes.
func (r *Record) HoverEnter() {
	r.registry.scales.SetTargetScale(r.Node, r.HoverScale)

	color := scene.White
	intensity := float32(1)
	if r.HoverEmissive != nil {
		color = *r.HoverEmissive
		intensity = r.HoverIntensity
	}
	for _, s := range r.snapshots {
		m := s.mesh.Mesh.Material
		m.Emissive = color
		m.EmissiveIntensity = intensity
	}
}

// HoverExit returns the object to its base scale and restores the captured
// emissive of every mesh.
func (r *Record) HoverExit() {
	r.registry.scales.SetTargetScale(r.Node, r.BaseScale)
	for _, s := range r.snapshots {
		m := s.mesh.Mesh.Material
		m.Emissive = s.orig.Color
		m.EmissiveIntensity = s.orig.Intensity
	}
}

// Click opens the object's overlay and grows it to its click scale.
func (r *Record) Click() {
	if r.registry.modal != nil && r.ModalID != "" {
		r.registry.modal.Open(r.Node, r.ModalID)
	}
	r.registry.scales.SetTargetScale(r.Node, r.ClickScale)
}

// Registry maps nodes to their interaction records.
type Registry struct {
	scales  ScaleTargets
	modal   ModalOpener
	records map[scene.NodeID]*Record
	log     *zap.Logger
}

// NewRegistry creates a registry writing scale targets to scales and opening
// overlays through modal. modal may be nil.
func NewRegistry(scales ScaleTargets, modal ModalOpener) *Registry {
	return &Registry{
		scales:  scales,
		modal:   modal,
		records: make(map[scene.NodeID]*Record),
		log:     logger.Named("interact"),
	}
}

// SetModal replaces the overlay opener.
func (g *Registry) SetModal(modal ModalOpener) {
	g.modal = modal
}

// MakeInteractable attaches a record to n: its scale and scale target are
// set to the base scale and every mesh in its subtree has its emissive
// snapshotted. Attaching twice replaces the earlier record.
func (g *Registry) MakeInteractable(n *scene.Node, opts Options) *Record {
	rec := &Record{
		Node:     n,
		Options:  opts,
		registry: g,
	}
	n.TraverseMeshes(func(m *scene.Node) {
		if m.Mesh.Material == nil {
			m.Mesh.Material = scene.NewMaterial()
		}
		mat := m.Mesh.Material
		rec.snapshots = append(rec.snapshots, meshSnapshot{
			mesh: m,
			orig: EmissiveSnapshot{Color: mat.Emissive, Intensity: mat.EmissiveIntensity},
		})
	})

	n.SetScalar(opts.BaseScale)
	g.scales.SetTargetScale(n, opts.BaseScale)
	g.records[n.ID] = rec

	g.log.Debug("interactable attached",
		zap.String("name", n.Name),
		zap.String("modal", opts.ModalID),
		zap.Int("meshes", len(rec.snapshots)),
	)
	return rec
}

// ApplyInteractionRecursively makes root interactable so that a hit on any
// mesh beneath it drives root's behaviour.
func (g *Registry) ApplyInteractionRecursively(root *scene.Node, opts Options) *Record {
	return g.MakeInteractable(root, opts)
}

// Lookup returns the record attached directly to n.
func (g *Registry) Lookup(n *scene.Node) (*Record, bool) {
	rec, ok := g.records[n.ID]
	return rec, ok
}

// Resolve returns the record of n or of its nearest ancestor that has one.
func (g *Registry) Resolve(n *scene.Node) *Record {
	for p := n; p != nil; p = p.Parent() {
		if rec, ok := g.records[p.ID]; ok {
			return rec
		}
	}
	return nil
}

// Len returns the number of records.
func (g *Registry) Len() int {
	return len(g.records)
}

// HoverEnter handles a fragment entering the hover set.
func (g *Registry) HoverEnter(n *scene.Node) {
	rec := g.Resolve(n)
	if rec == nil {
		return
	}
	rec.hovers++
	if rec.hovers == 1 {
		rec.HoverEnter()
	}
}

// HoverExit handles a fragment leaving the hover set.
func (g *Registry) HoverExit(n *scene.Node) {
	rec := g.Resolve(n)
	if rec == nil || rec.hovers == 0 {
		return
	}
	rec.hovers--
	if rec.hovers == 0 {
		rec.HoverExit()
	}
}

// Click handles a click on a fragment.
func (g *Registry) Click(n *scene.Node) {
	if rec := g.Resolve(n); rec != nil {
		rec.Click()
	}
}
