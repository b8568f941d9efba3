// annotations.go defines the single-line WGSL comment annotations understood by the
// pre-processor. Each annotation occupies a whole line of the form //@oxy:<type> <args...>
// and is replaced in place by generated WGSL.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered struct definition.
	//
	// Syntax: //@oxy:include <struct>
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeWorkgroup emits the compute stage attribute with the configured
	// square workgroup size.
	//
	// Syntax: //@oxy:workgroup
	AnnotationTypeWorkgroup AnnotationType = "workgroup"

	// AnnotationTypeStorage declares a write-only 2D storage texture in the configured format.
	//
	// Syntax: //@oxy:storage <group> <binding> <var_name>
	AnnotationTypeStorage AnnotationType = "storage"
)

// Annotation is one parsed annotation line.
type Annotation struct {
	Type AnnotationType
	Args []string
	Line int
}

// parseAnnotation parses a trimmed source line. ok is false for lines that are not annotations.
func parseAnnotation(line string, lineNo int) (a Annotation, ok bool, err error) {
	rest, found := strings.CutPrefix(line, "//")
	if !found {
		return Annotation{}, false, nil
	}
	rest, found = strings.CutPrefix(strings.TrimSpace(rest), annotationPrefix)
	if !found {
		return Annotation{}, false, nil
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Annotation{}, true, fmt.Errorf("line %d: empty annotation", lineNo)
	}
	a = Annotation{Type: AnnotationType(fields[0]), Args: fields[1:], Line: lineNo}

	want := map[AnnotationType]int{
		AnnotationTypeInclude:   1,
		AnnotationTypeWorkgroup: 0,
		AnnotationTypeStorage:   3,
	}
	n, known := want[a.Type]
	if !known {
		return a, true, fmt.Errorf("line %d: unknown annotation %q", lineNo, a.Type)
	}
	if len(a.Args) != n {
		return a, true, fmt.Errorf("line %d: %s expects %d arguments, got %d", lineNo, a.Type, n, len(a.Args))
	}
	if a.Type == AnnotationTypeStorage {
		for _, idx := range a.Args[:2] {
			if _, err := strconv.ParseUint(idx, 10, 32); err != nil {
				return a, true, fmt.Errorf("line %d: invalid group/binding %q", lineNo, idx)
			}
		}
	}
	return a, true, nil
}
