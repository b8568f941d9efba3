package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeUniformBytes(t *testing.T) {
	data := sizeUniformBytes(common.Size{Width: 640, Height: 480}, 7)
	require.Len(t, data, sizeUniformSize)

	assert.Equal(t, uint32(640), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(480), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[tickOffset:tickOffset+4]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[12:16]))
}

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		name string
		size common.Size
		dim  uint32
		x, y uint32
	}{
		{"exact", common.Size{Width: 256, Height: 256}, 16, 16, 16},
		{"remainder dropped", common.Size{Width: 100, Height: 50}, 16, 6, 3},
		{"partial row dropped", common.Size{Width: 1280, Height: 721}, 16, 80, 45},
		{"smaller than one group", common.Size{Width: 3, Height: 5}, 8, 0, 0},
		{"gcd tile", common.Size{Width: 1920, Height: 1080}, 8, 240, 135},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := dispatchSize(tt.size, tt.dim)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
			assert.LessOrEqual(t, x*tt.dim, tt.size.Width, "no group starts past the edge")
			assert.LessOrEqual(t, y*tt.dim, tt.size.Height, "no group starts past the edge")
		})
	}
}

func TestQuadGeometry(t *testing.T) {
	vertices := quadVertexBytes()
	require.Len(t, vertices, len(quadVertices)*int(quadVertexLayout.ArrayStride))

	for i, v := range quadVertices {
		x := math.Float32frombits(binary.LittleEndian.Uint32(vertices[i*8:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(vertices[i*8+4:]))
		assert.Equal(t, v[0], x)
		assert.Equal(t, v[1], y)
		assert.Equal(t, float32(1), float32(math.Abs(float64(x))), "vertices sit on the clip-space extrema")
		assert.Equal(t, float32(1), float32(math.Abs(float64(y))))
	}

	indices := quadIndexBytes()
	require.Len(t, indices, len(quadIndices)*4)
	for i, want := range quadIndices {
		assert.Equal(t, want, binary.LittleEndian.Uint32(indices[i*4:]))
		assert.Less(t, want, uint32(len(quadVertices)))
	}
}

func TestQuadWindingIsCounterClockwise(t *testing.T) {
	for tri := 0; tri < len(quadIndices); tri += 3 {
		a := quadVertices[quadIndices[tri]]
		b := quadVertices[quadIndices[tri+1]]
		c := quadVertices[quadIndices[tri+2]]
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		assert.Positive(t, cross, "triangle %d must survive back-face culling", tri/3)
	}
}

func TestSurfaceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		lost bool
	}{
		{"lost", errors.New("Surface Lost"), true},
		{"outdated", errors.New("surface texture is outdated"), true},
		{"timeout", errors.New("timeout"), false},
		{"out of memory", errors.New("out of memory"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := surfaceError(tt.err)
			assert.Equal(t, tt.lost, errors.Is(err, loop.ErrSurfaceLost))
			assert.ErrorContains(t, err, tt.err.Error())
		})
	}
}

func TestBuildPackageRejectsEmptySize(t *testing.T) {
	pkg, err := BuildPackage(nil, PackageDescriptor{Size: common.Size{Width: 0, Height: 10}})
	assert.Nil(t, pkg)
	assert.Error(t, err)
}

func TestPackageReleaseOrder(t *testing.T) {
	var order []int
	p := &Package{}
	for i := range 3 {
		p.own(releaseFunc(func() { order = append(order, i) }))
	}

	p.Release()
	assert.Equal(t, []int{2, 1, 0}, order)
	assert.Empty(t, p.owned)

	p.Release()
	assert.Len(t, order, 3, "a second release is a no-op")
}

type releaseFunc func()

func (f releaseFunc) Release() { f() }
