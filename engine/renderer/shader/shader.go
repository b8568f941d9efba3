// Package shader holds the compute and render programs and prepares them for a configuration.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga/wgsl"
)

// SizeUniformSource is the WGSL definition of the uniform shared by both programs.
// Matches the 16-byte layout written by the renderer: width, height, tick, padding.
//
//go:embed assets/size.wgsl
var SizeUniformSource string

//go:embed assets/compute.wgsl
var computeSource string

//go:embed assets/render.wgsl
var renderSource string

const (
	// ComputeEntryPoint is the compute program entry point.
	ComputeEntryPoint = "main_cs"

	// VertexEntryPoint is the render program vertex entry point.
	VertexEntryPoint = "vs_main"

	// FragmentEntryPoint is the render program fragment entry point.
	FragmentEntryPoint = "fs_main"
)

// Sources is the processed shader text for one configuration.
type Sources struct {
	Compute string
	Render  string
}

// Load processes the embedded programs for params and validates the result.
//
// Parameters:
//   - params: workgroup size and storage format
//
// Returns:
//   - Sources: WGSL ready for shader module creation
//   - error: error if processing or validation fails
func Load(params Params) (Sources, error) {
	pp, err := NewPreProcessor(params)
	if err != nil {
		return Sources{}, err
	}

	compute, err := pp.Process(computeSource)
	if err != nil {
		return Sources{}, fmt.Errorf("compute shader: %w", err)
	}
	render, err := pp.Process(renderSource)
	if err != nil {
		return Sources{}, fmt.Errorf("render shader: %w", err)
	}

	if err := Validate("compute", compute); err != nil {
		return Sources{}, err
	}
	if err := Validate("render", render); err != nil {
		return Sources{}, err
	}
	return Sources{Compute: compute, Render: render}, nil
}

// Validate runs the WGSL front end over source so syntax errors surface before the driver sees them.
//
// Parameters:
//   - name: label used in the error
//   - source: WGSL text
//
// Returns:
//   - error: the tokenizer or parser error, if any
func Validate(name, source string) error {
	tokens, err := wgsl.NewLexer(source).Tokenize()
	if err != nil {
		return fmt.Errorf("%s shader: tokenize: %w", name, err)
	}
	if _, err := wgsl.NewParser(tokens).Parse(); err != nil {
		return fmt.Errorf("%s shader: parse: %w", name, err)
	}
	return nil
}
