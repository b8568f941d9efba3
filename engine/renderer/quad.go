package renderer

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// quadVertices are the four clip-space extrema covering the viewport.
var quadVertices = [4][2]float32{
	{-1, -1},
	{1, -1},
	{1, 1},
	{-1, 1},
}

// quadIndices draw the quad as two counter-clockwise triangles.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// quadVertexLayout describes one vec2<f32> position per vertex at shader location 0.
var quadVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 8,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{
			Format:         wgpu.VertexFormatFloat32x2,
			Offset:         0,
			ShaderLocation: 0,
		},
	},
}

func quadVertexBytes() []byte {
	buf := make([]byte, 0, len(quadVertices)*8)
	for _, v := range quadVertices {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v[1]))
	}
	return buf
}

func quadIndexBytes() []byte {
	buf := make([]byte, 0, len(quadIndices)*4)
	for _, i := range quadIndices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}
