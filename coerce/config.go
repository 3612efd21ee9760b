package coerce

import "go.uber.org/zap"

// DefaultMaxDepth bounds recursion through nested foreign values when no
// depth is configured.
const DefaultMaxDepth = 10

// Config holds engine configuration.
type Config struct {
	// Logger receives debug records for failed projections.
	// nil means the package logger.
	Logger *zap.Logger

	// MaxDepth bounds materialization, structural equality, hashing and
	// diagnostic rendering of nested values. 0 means DefaultMaxDepth.
	MaxDepth int
}
