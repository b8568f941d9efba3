package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	src, err := Load(Params{WorkgroupDim: 8, Format: wgpu.TextureFormatRGBA8Unorm})
	require.NoError(t, err)

	assert.Contains(t, src.Compute, "@compute @workgroup_size(8, 8, 1)")
	assert.Contains(t, src.Compute, "var frame: texture_storage_2d<rgba8unorm, write>;")
	assert.Contains(t, src.Compute, "struct SizeUniform")
	assert.Contains(t, src.Compute, "fn "+ComputeEntryPoint)
	assert.NotContains(t, src.Compute, annotationPrefix)

	assert.Contains(t, src.Render, "fn "+VertexEntryPoint)
	assert.Contains(t, src.Render, "fn "+FragmentEntryPoint)
	assert.NotContains(t, src.Render, annotationPrefix)
}

func TestLoadFormats(t *testing.T) {
	src, err := Load(Params{WorkgroupDim: 16, Format: wgpu.TextureFormatRGBA16Float})
	require.NoError(t, err)
	assert.Contains(t, src.Compute, "texture_storage_2d<rgba16float, write>")

	_, err = Load(Params{WorkgroupDim: 16, Format: wgpu.TextureFormatDepth24Plus})
	assert.Error(t, err)

	_, err = Load(Params{WorkgroupDim: 0, Format: wgpu.TextureFormatRGBA8Unorm})
	assert.Error(t, err)
}

func TestProcessErrors(t *testing.T) {
	pp, err := NewPreProcessor(Params{WorkgroupDim: 4, Format: wgpu.TextureFormatRGBA8Unorm})
	require.NoError(t, err)

	_, err = pp.Process("//@oxy:include camera")
	assert.ErrorContains(t, err, "unknown struct")

	_, err = pp.Process("//@oxy:storage 1 frame")
	assert.ErrorContains(t, err, "expects 3 arguments")

	_, err = pp.Process("//@oxy:storage x 0 frame")
	assert.ErrorContains(t, err, "invalid group/binding")

	_, err = pp.Process("//@oxy:bogus")
	assert.ErrorContains(t, err, "unknown annotation")

	out, err := pp.Process("// plain comment\nfn f() {}")
	require.NoError(t, err)
	assert.Equal(t, "// plain comment\nfn f() {}", out)
}

func TestProcessIndentedAnnotation(t *testing.T) {
	pp, err := NewPreProcessor(Params{WorkgroupDim: 2, Format: wgpu.TextureFormatRGBA8Unorm})
	require.NoError(t, err)

	out, err := pp.Process("    //@oxy:workgroup\nfn main_cs() {}")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@compute @workgroup_size(2, 2, 1)"))
}

func TestValidateRejectsBrokenSource(t *testing.T) {
	assert.Error(t, Validate("broken", "fn main( {"))
	assert.NoError(t, Validate("empty fn", "fn f() {}"))
}
