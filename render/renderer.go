package render

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
)

// FrameStats summarizes one submitted frame.
type FrameStats struct {
	Vertices  int
	Indices   int
	DrawCalls int
}

// Renderer submits tessellated meshes through the quad pipeline.
//
// Renderer is not safe for concurrent use; the frame scheduler owns
// it and submits one frame at a time.
type Renderer struct {
	backend  *gpu.Backend
	pipeline *Pipeline

	lastFrame FrameStats
}

// NewRenderer creates a renderer drawing to surfaces of the given
// format.
func NewRenderer(backend *gpu.Backend, shaders *ShaderCache, format gpu.Format) (*Renderer, error) {
	p, err := NewPipeline(backend, shaders, format)
	if err != nil {
		return nil, err
	}
	return &Renderer{backend: backend, pipeline: p}, nil
}

// Pipeline returns the quad pipeline.
func (r *Renderer) Pipeline() *Pipeline { return r.pipeline }

// Submit encodes and submits one frame: upload the mesh buffers,
// open a render pass clearing to the base color, then one draw per
// batch with that batch's atlas bound.
func (r *Renderer) Submit(mesh *Mesh, width, height int, clear matcha.Color) error {
	// Encoding pending full wgpu render support. The pass structure:
	//
	// core.QueueWriteBuffer(queue, vertexBuf, 0, mesh.VertexBytes())
	// core.QueueWriteBuffer(queue, indexBuf, 0, mesh.IndexBytes())
	// encoder, _ := core.CreateCommandEncoder(device, nil)
	// pass := core.CommandEncoderBeginRenderPass(encoder, &gputypes.RenderPassDescriptor{
	//     ColorAttachments: []gputypes.RenderPassColorAttachment{{
	//         View:       surfaceView,
	//         LoadOp:     gputypes.LoadOpClear,
	//         StoreOp:    gputypes.StoreOpStore,
	//         ClearValue: gputypes.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
	//     }},
	// })
	// core.RenderPassSetPipeline(pass, pipeline)
	// core.RenderPassSetVertexBuffer(pass, 0, vertexBuf, 0)
	// core.RenderPassSetIndexBuffer(pass, indexBuf, gputypes.IndexFormatUint32, 0)
	// for _, b := range mesh.Batches {
	//     core.RenderPassSetBindGroup(pass, 1, bindGroupFor(b.AtlasID), nil)
	//     core.RenderPassDrawIndexed(pass, b.IndexCount, 1, b.FirstIndex, 0, 0)
	// }
	// core.RenderPassEnd(pass)
	// core.QueueSubmit(queue, []core.CommandBufferID{core.FinishCommandEncoder(encoder)})
	_ = clear
	_ = width
	_ = height

	r.lastFrame = FrameStats{
		Vertices:  mesh.VertexCount(),
		Indices:   mesh.IndexCount(),
		DrawCalls: len(mesh.Batches),
	}
	matcha.Logger().Debug("render: frame submitted",
		"vertices", r.lastFrame.Vertices,
		"indices", r.lastFrame.Indices,
		"drawCalls", r.lastFrame.DrawCalls)
	return nil
}

// LastFrame returns the stats of the most recently submitted frame.
func (r *Renderer) LastFrame() FrameStats { return r.lastFrame }
