// Package tiling computes the tile geometry used by the multi-resolution
// unwrapping orchestrator: per-axis tile lengths for an N-dimensional array,
// and overlapping 2-D tile extents with controlled overhang.
//
// The exact semantics of where to place the tiles follow a simple rule: the
// array is first partitioned into equal non-overlapping core extents (the
// last tile along an axis may be shorter), and each extent is then enlarged
// by a fraction of the tile length on both sides. The enlargement is always
// clipped to the array bounds, so no tile ever reaches outside the array.
package tiling

import (
	"fmt"
	"math"
)

// TileDims computes the per-axis tile length for partitioning an array of
// the given shape into ntiles tiles per axis.
//
// The raw tile length for axis i is ceil(shape[i] / ntiles[i]). When snapTo
// is non-nil, each raw length is rounded up to the next multiple of
// snapTo[i]. The last tile along an axis may end up shorter than the
// returned length so that the tiles never exceed the full extent.
//
// TileDims is pure and deterministic; it performs no allocation beyond the
// returned slice.
func TileDims(shape, ntiles []int, snapTo []int) ([]int, error) {
	if len(shape) != len(ntiles) {
		return nil, fmt.Errorf("%w: shape and ntiles must have same length (%d vs %d)",
			ErrSizeMismatch, len(shape), len(ntiles))
	}
	if snapTo != nil && len(shape) != len(snapTo) {
		return nil, fmt.Errorf("%w: shape and snapTo must have same length (%d vs %d)",
			ErrSizeMismatch, len(shape), len(snapTo))
	}
	for _, n := range shape {
		if n < 1 {
			return nil, fmt.Errorf("%w: got shape %v", ErrBadAxisLength, shape)
		}
	}
	for _, n := range ntiles {
		if n < 1 {
			return nil, fmt.Errorf("%w: got ntiles %v", ErrBadTileCount, ntiles)
		}
	}
	if snapTo != nil {
		for _, n := range snapTo {
			if n < 1 {
				return nil, fmt.Errorf("%w: got snapTo %v", ErrBadSnap, snapTo)
			}
		}
	}

	dims := make([]int, len(shape))
	for i := range shape {
		d := ceilDiv(shape[i], ntiles[i])
		if snapTo != nil {
			d = ceilDiv(d, snapTo[i]) * snapTo[i]
		}
		dims[i] = d
	}
	return dims, nil
}

// Extent is a contiguous rectangular sub-region of a 2-D array, described
// by its top-left corner and its size. An Extent with zero rows or columns
// is empty.
type Extent struct {
	Row, Col         int
	NumRows, NumCols int
}

// EndRow returns the exclusive end row of the extent.
func (e Extent) EndRow() int { return e.Row + e.NumRows }

// EndCol returns the exclusive end column of the extent.
func (e Extent) EndCol() int { return e.Col + e.NumCols }

// Empty reports whether the extent covers no pixels.
func (e Extent) Empty() bool { return e.NumRows <= 0 || e.NumCols <= 0 }

// Area returns the number of pixels covered by the extent.
func (e Extent) Area() int {
	if e.Empty() {
		return 0
	}
	return e.NumRows * e.NumCols
}

// Intersect returns the overlap of two extents and whether it is non-empty.
func (e Extent) Intersect(o Extent) (Extent, bool) {
	r0 := max(e.Row, o.Row)
	c0 := max(e.Col, o.Col)
	r1 := min(e.EndRow(), o.EndRow())
	c1 := min(e.EndCol(), o.EndCol())
	if r1 <= r0 || c1 <= c0 {
		return Extent{}, false
	}
	return Extent{Row: r0, Col: c0, NumRows: r1 - r0, NumCols: c1 - c0}, true
}

// LayoutParams configures an overlapping 2-D tile layout.
type LayoutParams struct {
	// Rows and Cols are the dimensions of the full array being tiled.
	Rows, Cols int

	// TilesDown and TilesAcross are the tile counts along the row and
	// column axes.
	TilesDown, TilesAcross int

	// Overhang is the fraction of the tile length shared between adjacent
	// tiles, in [0, 1]. Each tile extends by half that fraction on each
	// side (clipped at the array boundary), so the overlap between two
	// interior neighbors totals Overhang tile lengths.
	Overhang float64

	// SnapRows and SnapCols optionally round the tile lengths up to a
	// multiple of the given granularity. Zero disables snapping for that
	// axis.
	SnapRows, SnapCols int
}

// Layout describes how a 2-D array is split into an overlapping tile grid.
// Tiles are identified either by (i, j) grid coordinates or by a row-major
// index in [0, NumTiles).
type Layout struct {
	params LayoutParams

	tileRows, tileCols int
	padRows, padCols   int
}

// NewLayout validates the parameters and computes the tile geometry.
func NewLayout(params LayoutParams) (*Layout, error) {
	if params.Overhang < 0 || params.Overhang > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrBadOverhang, params.Overhang)
	}
	var snap []int
	if params.SnapRows > 0 || params.SnapCols > 0 {
		sr, sc := params.SnapRows, params.SnapCols
		if sr == 0 {
			sr = 1
		}
		if sc == 0 {
			sc = 1
		}
		snap = []int{sr, sc}
	}
	dims, err := TileDims(
		[]int{params.Rows, params.Cols},
		[]int{params.TilesDown, params.TilesAcross},
		snap,
	)
	if err != nil {
		return nil, err
	}
	l := &Layout{
		params:   params,
		tileRows: dims[0],
		tileCols: dims[1],
	}
	l.padRows = int(math.Round(0.5 * params.Overhang * float64(l.tileRows)))
	l.padCols = int(math.Round(0.5 * params.Overhang * float64(l.tileCols)))
	return l, nil
}

// GridDims returns the number of tiles along each axis.
func (l *Layout) GridDims() (down, across int) {
	return l.params.TilesDown, l.params.TilesAcross
}

// NumTiles returns the total number of tiles in the grid.
func (l *Layout) NumTiles() int {
	return l.params.TilesDown * l.params.TilesAcross
}

// TileDims returns the nominal (unclipped) tile size.
func (l *Layout) TileDims() (rows, cols int) {
	return l.tileRows, l.tileCols
}

// Index returns the row-major index of tile (i, j).
func (l *Layout) Index(i, j int) int {
	return i*l.params.TilesAcross + j
}

// Coords splits a row-major tile index into its (i, j) grid coordinates.
func (l *Layout) Coords(index int) (i, j int) {
	return index / l.params.TilesAcross, index % l.params.TilesAcross
}

// CoreExtent returns the non-overlapping partition piece of tile (i, j),
// clipped to the array bounds. Tiles whose start lies past the array end
// (possible when snapping inflates the tile length) come back empty.
func (l *Layout) CoreExtent(i, j int) Extent {
	return clip(Extent{
		Row:     i * l.tileRows,
		Col:     j * l.tileCols,
		NumRows: l.tileRows,
		NumCols: l.tileCols,
	}, l.params.Rows, l.params.Cols)
}

// Extent returns the overlapping extent of tile (i, j): the core extent
// enlarged by the overhang padding on every side, clipped to the array
// bounds. An empty core extent stays empty.
func (l *Layout) Extent(i, j int) Extent {
	core := l.CoreExtent(i, j)
	if core.Empty() {
		return core
	}
	return clip(Extent{
		Row:     core.Row - l.padRows,
		Col:     core.Col - l.padCols,
		NumRows: core.NumRows + 2*l.padRows,
		NumCols: core.NumCols + 2*l.padCols,
	}, l.params.Rows, l.params.Cols)
}

func clip(e Extent, rows, cols int) Extent {
	r0 := max(e.Row, 0)
	c0 := max(e.Col, 0)
	r1 := min(e.EndRow(), rows)
	c1 := min(e.EndCol(), cols)
	if r1 < r0 {
		r1 = r0
	}
	if c1 < c0 {
		c1 = c0
	}
	return Extent{Row: r0, Col: c0, NumRows: r1 - r0, NumCols: c1 - c0}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
