package render

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"

	"github.com/helgev-traP/matcha/gpu"
)

//go:embed shaders/quad.wgsl
var quadShaderWGSL string

// ShaderCache compiles WGSL to SPIR-V once and reuses the words for
// every pipeline sharing the source.
//
// ShaderCache is safe for concurrent use.
type ShaderCache struct {
	mu    sync.Mutex
	words map[string][]uint32
}

// NewShaderCache creates an empty shader cache.
func NewShaderCache() *ShaderCache {
	return &ShaderCache{words: make(map[string][]uint32)}
}

// Compile returns the SPIR-V words for a WGSL source, compiling on
// first use.
func (c *ShaderCache) Compile(wgsl string) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w, ok := c.words[wgsl]; ok {
		return w, nil
	}
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("render: shader compile failed: %w", err)
	}
	w := spirvWords(spirvBytes)
	c.words[wgsl] = w
	return w, nil
}

// spirvWords converts little-endian SPIR-V bytes to words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}

// Pipeline is the quad render pipeline for one surface format.
type Pipeline struct {
	format gpu.Format
	spirv  []uint32
}

// NewPipeline compiles the quad shader and creates the render
// pipeline targeting the given surface format.
func NewPipeline(backend *gpu.Backend, shaders *ShaderCache, format gpu.Format) (*Pipeline, error) {
	spirv, err := shaders.Compile(quadShaderWGSL)
	if err != nil {
		return nil, err
	}

	// Pipeline object creation pending full wgpu render support. The
	// layout is: group 0 viewport uniform, group 1 atlas texture +
	// sampler; vertex buffer is the interleaved Vertex layout with
	// four float32x2/float32x4 attributes; alpha blending is
	// premultiplied-compatible straight alpha:
	//
	// module, _ := core.CreateShaderModule(backend.Device(), &gputypes.ShaderModuleDescriptor{
	//     Label:  "matcha-quad",
	//     Source: gputypes.ShaderSource{SPIRV: spirv},
	// })
	// pipeline, _ := core.CreateRenderPipeline(backend.Device(), &gputypes.RenderPipelineDescriptor{
	//     Vertex: gputypes.VertexState{
	//         Module:     module,
	//         EntryPoint: "vs_main",
	//         Buffers: []gputypes.VertexBufferLayout{{
	//             ArrayStride: vertexStride,
	//             Attributes: []gputypes.VertexAttribute{
	//                 {Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
	//                 {Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
	//                 {Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
	//                 {Format: gputypes.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 3},
	//             },
	//         }},
	//     },
	//     Fragment: &gputypes.FragmentState{
	//         Module:     module,
	//         EntryPoint: "fs_main",
	//         Targets: []gputypes.ColorTargetState{{
	//             Format: format.ToWGPUFormat(),
	//             Blend:  &gputypes.BlendStateAlphaBlending,
	//         }},
	//     },
	// })
	_ = backend

	return &Pipeline{format: format, spirv: spirv}, nil
}

// Format returns the surface format the pipeline targets.
func (p *Pipeline) Format() gpu.Format { return p.format }

// SPIRV returns the compiled shader words.
func (p *Pipeline) SPIRV() []uint32 { return p.spirv }
