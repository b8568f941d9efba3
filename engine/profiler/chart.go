package profiler

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
)

const chartMargin = 24.0

// drawChart plots samples as a polyline over sample index, scaled to the largest sample.
func drawChart(samples []float32, width, height int) (*gg.Context, error) {
	if width <= 2*chartMargin || height <= 2*chartMargin {
		return nil, fmt.Errorf("chart size %dx%d too small", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.White)

	left, bottom := chartMargin, float64(height)-chartMargin
	right, top := float64(width)-chartMargin, chartMargin

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(left, top, left, bottom)
	dc.DrawLine(left, bottom, right, bottom)
	if err := dc.Stroke(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("failed to stroke chart axes: %w", err)
	}

	if len(samples) < 2 {
		return dc, nil
	}

	var peak float32
	for _, s := range samples {
		peak = max(peak, s)
	}
	if peak <= 0 {
		peak = 1
	}

	stepX := (right - left) / float64(len(samples)-1)
	scaleY := (bottom - top) / float64(peak)

	dc.SetRGB(0.1, 0.2, 0.8)
	dc.SetLineWidth(1.5)
	dc.MoveTo(left, bottom-float64(samples[0])*scaleY)
	for i, s := range samples[1:] {
		dc.LineTo(left+float64(i+1)*stepX, bottom-float64(s)*scaleY)
	}
	if err := dc.Stroke(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("failed to stroke latency series: %w", err)
	}
	return dc, nil
}

// WriteChart encodes a latency chart as PNG.
//
// Parameters:
//   - w: destination for the PNG bytes
//   - samples: latencies in milliseconds, oldest first
//   - width: image width in pixels
//   - height: image height in pixels
//
// Returns:
//   - error: error if drawing or encoding fails
func WriteChart(w io.Writer, samples []float32, width, height int) error {
	dc, err := drawChart(samples, width, height)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SaveChart writes a latency chart to a PNG file.
//
// Parameters:
//   - path: output file path
//   - samples: latencies in milliseconds, oldest first
//   - width: image width in pixels
//   - height: image height in pixels
//
// Returns:
//   - error: error if drawing or writing fails
func SaveChart(path string, samples []float32, width, height int) error {
	dc, err := drawChart(samples, width, height)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save chart to %s: %w", path, err)
	}
	return nil
}
