// Package unwrap provides the multi-resolution tiled phase-unwrapping
// orchestrator and the capability contract that concrete two-dimensional
// unwrapping algorithms plug into.
//
// The orchestrator partitions a full-extent interferogram into overlapping
// tiles, unwraps every tile independently through an Unwrapper backend
// (optionally seeding each tile with a cheap coarse-resolution estimate),
// and stitches the per-tile results into one globally consistent
// unwrapped-phase raster with connected-component labels.
package unwrap

import "phaseunwrap/pkg/raster"

// TileOptions carries the optional per-tile inputs of an unwrap invocation.
// Any field may be nil; a non-nil field has the same shape as the
// interferogram tile.
type TileOptions struct {
	// Power is the average intensity of the two SLC images, linear units.
	Power *raster.Float

	// Mask marks valid pixels. A nil mask means every pixel is valid.
	Mask *raster.Mask

	// Estimate is an initial estimate of the unwrapped phase, in radians.
	// The coarse seeding pass supplies it to the full-resolution pass.
	Estimate *raster.Float
}

// Unwrapper is the capability contract for two-dimensional phase
// unwrapping algorithms. Implementations receive one interferogram tile
// together with its coherence and auxiliary rasters and return the
// unwrapped phase (radians) and connected-component labels for that tile,
// both with the tile's shape. Label 0 marks pixels excluded from every
// component.
//
// Implementations must be safe for concurrent use: the orchestrator invokes
// Unwrap from multiple worker goroutines at once. They should also be
// deterministic for identical inputs, so repeated orchestrations produce
// identical outputs.
type Unwrapper interface {
	Unwrap(igram *raster.Complex, coherence *raster.Float, nlooks float64, opts TileOptions) (*raster.Float, *raster.Labels, error)
}
