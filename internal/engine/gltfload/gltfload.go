// Package gltfload imports glTF 2.0 assets (JSON .gltf or binary .glb) into
// scene nodes.
package gltfload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"net/url"
	"path"

	"github.com/h2non/filetype"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/assets"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/texture"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// ErrUnsupportedFormat is returned for data that is neither glTF JSON nor GLB.
var ErrUnsupportedFormat = errors.New("gltfload: unsupported format")

// Source provides asset bytes by URL and, as an fs.FS, the files a glTF
// document references.
type Source interface {
	fs.FS
	Load(url string) ([]byte, error)
}

// AttrURL is the node attribute holding the URL a loaded root came from.
const AttrURL = "url"

// Load reads url from src and builds a node tree for its default scene. The
// returned root is a group node named after the file.
func Load(ctx context.Context, src Source, rawURL string) (*scene.Node, error) {
	p, err := assets.Clean(rawURL)
	if err != nil {
		return nil, err
	}
	data, err := src.Load(p)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rawURL, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := fs.Sub(src, path.Dir(p))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rawURL, err)
	}
	root, err := Decode(ctx, data, dir)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	root.Name = path.Base(p)
	root.SetAttr(AttrURL, rawURL)
	return root, nil
}

// Decode builds a node tree from glTF data. External buffers and images are
// read from fsys; a nil fsys only allows embedded resources.
func Decode(ctx context.Context, data []byte, fsys fs.FS) (*scene.Node, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}

	var dec *gltf.Decoder
	if fsys != nil {
		dec = gltf.NewDecoderFS(bytes.NewReader(data), fsys)
	} else {
		dec = gltf.NewDecoder(bytes.NewReader(data))
	}
	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &builder{doc: doc, fsys: fsys, log: logger.Named("gltf")}
	return b.build(ctx)
}

type builder struct {
	doc  *gltf.Document
	fsys fs.FS
	log  *zap.Logger

	textures  []*scene.Texture
	materials []*scene.Material
}

func (b *builder) build(ctx context.Context) (*scene.Node, error) {
	doc := b.doc

	b.textures = make([]*scene.Texture, len(doc.Textures))
	for i, t := range doc.Textures {
		if t.Source == nil || *t.Source >= len(doc.Images) {
			continue
		}
		img, err := b.image(doc.Images[*t.Source])
		if err != nil {
			b.log.Warn("texture skipped", zap.Int("texture", i), zap.Error(err))
			continue
		}
		b.textures[i] = &scene.Texture{Image: img}
	}

	b.materials = make([]*scene.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		b.materials[i] = b.material(m)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meshes := make([][]*scene.Mesh, len(doc.Meshes))
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			mesh, err := b.primitive(prim)
			if err != nil {
				b.log.Warn("primitive skipped",
					zap.String("mesh", m.Name), zap.Int("primitive", pi), zap.Error(err))
				continue
			}
			meshes[mi] = append(meshes[mi], mesh)
		}
	}

	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := scene.NewNode(name)
		applyTransform(n, gn)

		if gn.Mesh != nil && *gn.Mesh < len(meshes) {
			prims := meshes[*gn.Mesh]
			switch len(prims) {
			case 0:
			case 1:
				n.Mesh = prims[0]
			default:
				for pi, p := range prims {
					child := scene.NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Mesh = p
					n.Add(child)
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) && c != i && !hasParent[c] {
				nodes[i].Add(nodes[c])
				hasParent[c] = true
			}
		}
	}

	root := scene.NewNode("scene")
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx < len(nodes) {
				root.Add(nodes[idx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				root.Add(n)
			}
		}
	}
	return root, nil
}

func applyTransform(n *scene.Node, gn *gltf.Node) {
	if m := gn.MatrixOrDefault(); m != identity {
		var mat math.Mat4
		for i, v := range m {
			mat[i] = float32(v)
		}
		n.Position, n.Rotation, n.Scale = mat.Decompose()
		return
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	n.Position = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
	n.Rotation = math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
	n.Scale = math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}
}

var identity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func (b *builder) material(gm *gltf.Material) *scene.Material {
	mat := scene.NewMaterial()
	mat.Name = gm.Name
	mat.DoubleSided = gm.DoubleSided
	mat.Emissive = scene.Color{
		R: float32(gm.EmissiveFactor[0]),
		G: float32(gm.EmissiveFactor[1]),
		B: float32(gm.EmissiveFactor[2]),
	}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		c := pbr.BaseColorFactorOrDefault()
		mat.Color = scene.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}
		mat.Opacity = float32(c[3])
		mat.Metalness = float32(pbr.MetallicFactorOrDefault())
		mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
		if tex := pbr.BaseColorTexture; tex != nil && tex.Index < len(b.textures) {
			mat.Map = b.textures[tex.Index]
		}
	}
	return mat
}

func (b *builder) primitive(prim *gltf.Primitive) (*scene.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("mode %v not supported", prim.Mode)
	}
	doc := b.doc
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok || posIdx >= len(doc.Accessors) {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	g := &scene.Geometry{Positions: make([]math.Vec3, len(positions))}
	for i, p := range positions {
		g.Positions[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok && idx < len(doc.Accessors) {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err == nil && len(normals) == len(positions) {
			g.Normals = make([]math.Vec3, len(normals))
			for i, n := range normals {
				g.Normals[i] = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
			}
		}
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok && idx < len(doc.Accessors) {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err == nil && len(uvs) == len(positions) {
			g.UVs = make([]math.Vec2, len(uvs))
			for i, uv := range uvs {
				g.UVs[i] = math.Vec2{X: uv[0], Y: uv[1]}
			}
		}
	}
	if prim.Indices != nil && *prim.Indices < len(doc.Accessors) {
		g.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}
	if g.Normals == nil {
		g.ComputeNormals()
	}

	mat := scene.NewMaterial()
	if prim.Material != nil && *prim.Material < len(b.materials) {
		mat = b.materials[*prim.Material]
	}
	return &scene.Mesh{Geometry: g, Material: mat}, nil
}

func (b *builder) image(img *gltf.Image) (image.Image, error) {
	var raw []byte
	var err error
	switch {
	case img.BufferView != nil:
		if *img.BufferView >= len(b.doc.BufferViews) {
			return nil, errors.New("buffer view out of range")
		}
		raw, err = modeler.ReadBufferView(b.doc, b.doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		raw, err = img.MarshalData()
	case img.URI != "":
		if b.fsys == nil {
			return nil, fmt.Errorf("external image %q without a file system", img.URI)
		}
		name, uerr := url.PathUnescape(img.URI)
		if uerr != nil {
			name = img.URI
		}
		raw, err = fs.ReadFile(b.fsys, name)
	default:
		return nil, errors.New("image has no data")
	}
	if err != nil {
		return nil, err
	}
	hint := img.MimeType
	if hint == "" {
		hint = img.URI
	}
	return texture.Decode(raw, hint)
}

// Format is the container of a glTF asset.
type Format int

// Recognised containers.
const (
	FormatJSON Format = iota
	FormatGLB
)

var glbType = filetype.NewType("glb", "model/gltf-binary")

func init() {
	filetype.AddMatcher(glbType, func(buf []byte) bool {
		return len(buf) >= 4 && string(buf[:4]) == "glTF"
	})
}

// Sniff classifies data by its leading bytes.
func Sniff(data []byte) (Format, error) {
	if filetype.Is(data, glbType.Extension) {
		return FormatGLB, nil
	}
	if kind, _ := filetype.Match(data); kind != filetype.Unknown {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
	if trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff"); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON, nil
	}
	return 0, ErrUnsupportedFormat
}
