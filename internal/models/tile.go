// Package models holds the plain data records passed between the parallel
// tile-unwrap phase and the sequential stitch phase.
package models

import (
	"phaseunwrap/pkg/raster"
	"phaseunwrap/pkg/tiling"
)

// TileJob identifies one tile of the layout to be unwrapped.
type TileJob struct {
	// Index is the row-major tile index, which also fixes the stitch order.
	Index int

	// Row and Col are the tile's grid coordinates.
	Row, Col int

	// Extent is the tile's overlapping extent within the full array.
	Extent tiling.Extent
}

// TileResult carries one tile's unwrapped output back to the stitcher.
// Phase and Labels cover exactly the job's extent at full resolution.
type TileResult struct {
	Job TileJob

	Phase  *raster.Float
	Labels *raster.Labels

	// Err is the backend failure for this tile, if any. A non-nil Err
	// aborts the whole orchestration.
	Err error
}
