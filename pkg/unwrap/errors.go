package unwrap

import "errors"

var (
	// ErrNilArray indicates a required input or output array was nil.
	ErrNilArray = errors.New("unwrap: nil array")
	// ErrShapeMismatch indicates two arrays required to share a shape
	// differ. The wrapped message names the mismatched pair.
	ErrShapeMismatch = errors.New("unwrap: shape mismatch")
	// ErrBadLooks indicates an effective number of looks < 1.
	ErrBadLooks = errors.New("unwrap: effective number of looks must be >= 1")
	// ErrBadDownsample indicates a downsample factor < 1.
	ErrBadDownsample = errors.New("unwrap: downsample factor must be >= 1")
	// ErrNoBackend indicates the orchestrator was given no Unwrapper.
	ErrNoBackend = errors.New("unwrap: no unwrap backend configured")
)
