package clustergcn

import "errors"

// Errors returned by the generator and its sequences. They are always wrapped
// with context, so match them with errors.Is.
var (
	// ErrInvalidType reports an argument of the wrong kind (nil graph, missing cluster spec).
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidValue reports an out-of-range parameter (lam, q, cluster count, target rows).
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidConfig reports parameters that are individually valid but inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnsupported reports a graph the generator cannot handle, e.g. several node types.
	ErrUnsupported = errors.New("unsupported graph")
	// ErrMissingFeatures reports a graph that failed its ML readiness check.
	ErrMissingFeatures = errors.New("graph is not ready for machine learning")
	// ErrUnknownNode reports a node id that is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownTarget reports a target node missing from the target lookup.
	ErrUnknownTarget = errors.New("unknown target node")
	// ErrIndexOutOfRange reports a batch index outside [0, Len()).
	ErrIndexOutOfRange = errors.New("batch index out of range")
)
