package shape

import "github.com/wippyai/interop"

// Projector projects foreign values onto shapes. Views and callable adapters
// are handed one so that elements, member values and call results follow the
// same rules as top-level projections.
type Projector interface {
	Project(v interop.Value, s Shape) (any, error)
	// MaxDepth bounds recursion through nested foreign values.
	MaxDepth() int
}
