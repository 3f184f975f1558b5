package tiling

import "errors"

var (
	// ErrSizeMismatch indicates that shape, ntiles and snapTo sequences do
	// not all have the same length.
	ErrSizeMismatch = errors.New("tiling: size mismatch")
	// ErrBadAxisLength indicates an array axis length < 1.
	ErrBadAxisLength = errors.New("tiling: array axis lengths must be >= 1")
	// ErrBadTileCount indicates a per-axis tile count < 1.
	ErrBadTileCount = errors.New("tiling: number of tiles must be >= 1")
	// ErrBadSnap indicates a snap-to granularity < 1.
	ErrBadSnap = errors.New("tiling: snap-to lengths must be >= 1")
	// ErrBadOverhang indicates an overhang fraction outside [0, 1].
	ErrBadOverhang = errors.New("tiling: overhang must be between 0 and 1")
)
