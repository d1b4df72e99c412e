package render

import (
	"encoding/binary"
	"math"

	matcha "github.com/helgev-traP/matcha"
)

// Vertex modes selecting the fragment path in the quad shader.
const (
	// modeColor fills with the vertex color.
	modeColor = 0
	// modeTexture samples an RGBA atlas region, multiplied by the
	// vertex color.
	modeTexture = 1
	// modeGlyph uses the R8 atlas sample as an alpha mask over the
	// vertex color.
	modeGlyph = 2
)

// Vertex is the interleaved vertex layout of the quad pipeline. The
// field order must match the vertex inputs in quad.wgsl.
type Vertex struct {
	// Pos is the position in window pixels.
	Pos [2]float32

	// UV is the normalized atlas coordinate, unused in color mode.
	UV [2]float32

	// Color is straight-alpha RGBA.
	Color [4]float32

	// ModeLayer packs the fragment mode and the atlas array layer.
	ModeLayer [2]float32
}

// vertexStride is the byte size of one Vertex.
const vertexStride = 10 * 4

// Batch is a contiguous index range drawn with one atlas binding.
// AtlasID zero means no atlas; a 1x1 white fallback is bound.
type Batch struct {
	AtlasID    uint64
	FirstIndex uint32
	IndexCount uint32
}

// Mesh is the tessellated geometry of one frame.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Batches  []Batch
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int { return len(m.Indices) }

// VertexBytes serializes the vertices little-endian for buffer upload.
func (m *Mesh) VertexBytes() []byte {
	out := make([]byte, 0, len(m.Vertices)*vertexStride)
	var buf [4]byte
	put := func(f float32) {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		out = append(out, buf[:]...)
	}
	for _, v := range m.Vertices {
		put(v.Pos[0])
		put(v.Pos[1])
		put(v.UV[0])
		put(v.UV[1])
		put(v.Color[0])
		put(v.Color[1])
		put(v.Color[2])
		put(v.Color[3])
		put(v.ModeLayer[0])
		put(v.ModeLayer[1])
	}
	return out
}

// IndexBytes serializes the indices little-endian for buffer upload.
func (m *Mesh) IndexBytes() []byte {
	out := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}

// BuildMesh tessellates a command list into one mesh. Each quad
// becomes 4 vertices and 6 indices. Consecutive commands sharing an
// atlas merge into one batch; color-only commands join whatever batch
// is open.
func BuildMesh(commands []Command) *Mesh {
	m := &Mesh{}
	for _, c := range commands {
		switch cmd := c.(type) {
		case ColoredQuad:
			m.ensureBatch(0)
			m.appendQuad(cmd.Transform, cmd.Size.W, cmd.Size.H, 0, 0, 1, 1, cmd.Color, modeColor, 0)
		case TexturedQuad:
			m.ensureBatch(cmd.Region.AtlasID())
			u0, v0, u1, v1 := cmd.Region.UV()
			m.appendQuad(cmd.Transform, cmd.Size.W, cmd.Size.H, u0, v0, u1, v1, cmd.Tint, modeTexture, cmd.Region.Layer())
		case GlyphBatch:
			for _, g := range cmd.Glyphs {
				m.ensureBatch(g.Region.AtlasID())
				u0, v0, u1, v1 := g.Region.UV()
				tf := cmd.Transform.Mul(matcha.Translate(g.X, g.Y))
				m.appendQuad(tf, g.W, g.H, u0, v0, u1, v1, cmd.Color, modeGlyph, g.Region.Layer())
			}
		}
	}
	return m
}

// ensureBatch opens or continues a batch compatible with the given
// atlas. A zero atlas joins any open batch; an open zero batch is
// claimed by the first textured command.
func (m *Mesh) ensureBatch(atlasID uint64) {
	if len(m.Batches) > 0 {
		cur := &m.Batches[len(m.Batches)-1]
		if atlasID == 0 || cur.AtlasID == atlasID {
			return
		}
		if cur.AtlasID == 0 {
			cur.AtlasID = atlasID
			return
		}
	}
	m.Batches = append(m.Batches, Batch{
		AtlasID:    atlasID,
		FirstIndex: uint32(len(m.Indices)),
	})
}

// appendQuad emits the 4 corners of a w×h rectangle under an affine
// transform, plus 6 indices.
func (m *Mesh) appendQuad(tf matcha.Affine, w, h, u0, v0, u1, v1 float64, color matcha.Color, mode int, layer int) {
	base := uint32(len(m.Vertices))
	col := [4]float32{float32(color.R), float32(color.G), float32(color.B), float32(color.A)}
	ml := [2]float32{float32(mode), float32(layer)}

	corners := [4]matcha.Vec2{
		tf.Apply(matcha.V2(0, 0)),
		tf.Apply(matcha.V2(w, 0)),
		tf.Apply(matcha.V2(0, h)),
		tf.Apply(matcha.V2(w, h)),
	}
	uvs := [4][2]float32{
		{float32(u0), float32(v0)},
		{float32(u1), float32(v0)},
		{float32(u0), float32(v1)},
		{float32(u1), float32(v1)},
	}
	for i := 0; i < 4; i++ {
		m.Vertices = append(m.Vertices, Vertex{
			Pos:       [2]float32{float32(corners[i].X), float32(corners[i].Y)},
			UV:        uvs[i],
			Color:     col,
			ModeLayer: ml,
		})
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+1, base+3,
	)
	m.Batches[len(m.Batches)-1].IndexCount += 6
}
