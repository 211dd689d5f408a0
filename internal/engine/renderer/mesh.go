package renderer

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/texture"
)

const vertexStride = 8 // position, normal, uv

// gpuMesh is a geometry uploaded to the GPU.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

// interleave packs a geometry into position/normal/uv vertices.
func interleave(g *scene.Geometry) []float32 {
	out := make([]float32, 0, len(g.Positions)*vertexStride)
	for i, p := range g.Positions {
		out = append(out, p.X, p.Y, p.Z)
		if i < len(g.Normals) {
			n := g.Normals[i]
			out = append(out, n.X, n.Y, n.Z)
		} else {
			out = append(out, 0, 1, 0)
		}
		if i < len(g.UVs) {
			out = append(out, g.UVs[i].X, g.UVs[i].Y)
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

func uploadMesh(g *scene.Geometry) *gpuMesh {
	m := &gpuMesh{}
	vertices := interleave(g)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	if len(g.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)
		m.count = int32(len(g.Indices))
		m.indexed = true
	} else {
		m.count = int32(len(g.Positions))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

func (m *gpuMesh) draw() {
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	}
}

func (m *gpuMesh) destroy() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// uploadTexture converts img to RGBA and uploads it with mipmaps.
func uploadTexture(img image.Image) uint32 {
	rgba := texture.ToRGBA(img)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return tex
}
