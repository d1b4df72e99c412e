package render

import (
	"strings"
	"testing"

	"github.com/helgev-traP/matcha/gpu"
)

// spirvMagic is the SPIR-V magic number in word 0.
const spirvMagic = 0x07230203

func TestShaderCacheCompilesQuadShader(t *testing.T) {
	c := NewShaderCache()

	words, err := c.Compile(quadShaderWGSL)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("empty SPIR-V output")
	}
	if words[0] != spirvMagic {
		t.Errorf("SPIR-V magic = %#x, want %#x", words[0], spirvMagic)
	}

	// The second compile returns the cached words.
	again, err := c.Compile(quadShaderWGSL)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if &words[0] != &again[0] {
		t.Error("second compile did not reuse the cached words")
	}
}

func TestShaderCacheRejectsBadWGSL(t *testing.T) {
	c := NewShaderCache()
	if _, err := c.Compile("@vertex fn broken("); err == nil {
		t.Fatal("compiling invalid WGSL succeeded")
	}
}

func TestQuadShaderEntryPoints(t *testing.T) {
	for _, entry := range []string{"vs_main", "fs_main"} {
		if !strings.Contains(quadShaderWGSL, entry) {
			t.Errorf("quad shader missing entry point %s", entry)
		}
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer(nil, NewShaderCache(), gpu.FormatBGRA8)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r.Pipeline().Format() != gpu.FormatBGRA8 {
		t.Errorf("pipeline format = %v, want BGRA8", r.Pipeline().Format())
	}
	if len(r.Pipeline().SPIRV()) == 0 {
		t.Error("pipeline has no compiled shader")
	}
}
