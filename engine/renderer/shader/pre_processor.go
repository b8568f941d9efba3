// pre_processor.go implements the WGSL shader pre-processor. It scans shader source
// line by line for //@oxy: annotations and replaces each with generated WGSL, so the
// workgroup size and the storage texture format follow the launch configuration.
package shader

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Params are the configuration values baked into processed shader text.
type Params struct {
	// WorkgroupDim is the square workgroup edge.
	WorkgroupDim uint32

	// Format is the storage texture format.
	Format wgpu.TextureFormat
}

// PreProcessor replaces //@oxy: annotations in WGSL source with generated declarations.
type PreProcessor interface {
	// Process returns source with every annotation line replaced.
	//
	// Parameters:
	//   - source: raw WGSL shader source containing annotations
	//
	// Returns:
	//   - string: the processed WGSL
	//   - error: error if an annotation is malformed or references an unknown struct
	Process(source string) (string, error)
}

type preProcessor struct {
	params         Params
	storageFormat  string
	structRegistry map[string]string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor for params.
//
// Parameters:
//   - params: workgroup size and storage format
//
// Returns:
//   - PreProcessor: the pre-processor
//   - error: error if the workgroup size is zero or the format has no WGSL storage equivalent
func NewPreProcessor(params Params) (PreProcessor, error) {
	if params.WorkgroupDim == 0 {
		return nil, fmt.Errorf("workgroup dimension must be positive")
	}
	format, err := StorageFormat(params.Format)
	if err != nil {
		return nil, err
	}
	return &preProcessor{
		params:        params,
		storageFormat: format,
		structRegistry: map[string]string{
			"size": SizeUniformSource,
		},
	}, nil
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		a, ok, err := parseAnnotation(strings.TrimSpace(line), i+1)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			src, found := p.structRegistry[a.Args[0]]
			if !found {
				return "", fmt.Errorf("line %d: unknown struct %q", a.Line, a.Args[0])
			}
			lines[i] = strings.TrimRight(src, "\n")
		case AnnotationTypeWorkgroup:
			lines[i] = fmt.Sprintf("@compute @workgroup_size(%d, %d, 1)", p.params.WorkgroupDim, p.params.WorkgroupDim)
		case AnnotationTypeStorage:
			lines[i] = fmt.Sprintf("@group(%s) @binding(%s) var %s: texture_storage_2d<%s, write>;",
				a.Args[0], a.Args[1], a.Args[2], p.storageFormat)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// StorageFormat returns the WGSL texel format name for a storage-capable texture format.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - string: the WGSL texel format
//   - error: error if the format cannot back a write-only float storage texture
func StorageFormat(format wgpu.TextureFormat) (string, error) {
	switch format {
	case wgpu.TextureFormatRGBA8Unorm:
		return "rgba8unorm", nil
	case wgpu.TextureFormatRGBA8Snorm:
		return "rgba8snorm", nil
	case wgpu.TextureFormatRGBA16Float:
		return "rgba16float", nil
	case wgpu.TextureFormatRGBA32Float:
		return "rgba32float", nil
	}
	return "", fmt.Errorf("texture format %v is not a supported storage format", format)
}
