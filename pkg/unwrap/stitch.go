package unwrap

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"phaseunwrap/internal/models"
	"phaseunwrap/pkg/raster"
)

const twoPi = 2 * math.Pi

// stitch merges buffered per-tile results into the caller-owned output
// arrays, strictly in row-major tile order.
//
// The first tile is copied verbatim. Every subsequent tile is shifted by a
// whole number of 2-pi cycles before being written: the shift is the mean
// difference between the already-written phase and the tile's phase over
// valid (nonzero-label) overlap pixels, rounded to the nearest multiple of
// 2-pi. Pixels covered by more than one tile are written once, by the
// first tile that reaches them, which keeps each pixel's connected-component
// identity tied to exactly one tile.
//
// Labels are tile-local: two physically connected regions that span a tile
// boundary may carry different nonzero labels. Consumers that only need a
// valid/invalid mask (label != 0) are unaffected.
func (m *Multiscale) stitch(
	unwrapped *raster.Float,
	conncomp *raster.Labels,
	results []models.TileResult,
) {
	written := raster.NewMask(unwrapped.Rows, unwrapped.Cols)

	for _, res := range results {
		offset := tileOffset(unwrapped, conncomp, written, res)
		if offset != 0 {
			floats.AddConst(offset, res.Phase.Data)
		}
		m.log.WithFields(logrus.Fields{
			"tile":   res.Job.Index,
			"cycles": int(math.Round(offset / twoPi)),
		}).Debug("placing tile")

		e := res.Job.Extent
		for r := 0; r < e.NumRows; r++ {
			for c := 0; c < e.NumCols; c++ {
				gr, gc := e.Row+r, e.Col+c
				if written.At(gr, gc) {
					continue
				}
				unwrapped.Set(gr, gc, res.Phase.At(r, c))
				conncomp.Set(gr, gc, res.Labels.At(r, c))
				written.Set(gr, gc, true)
			}
		}
	}
}

// tileOffset estimates the 2-pi-cycle phase shift aligning a tile with the
// phase already written to the output. Pixels count toward the estimate
// only when they were written by an earlier tile and carry a nonzero label
// on both sides. A tile with no such overlap is placed unshifted.
func tileOffset(
	unwrapped *raster.Float,
	conncomp *raster.Labels,
	written *raster.Mask,
	res models.TileResult,
) float64 {
	e := res.Job.Extent
	var diffs []float64
	for r := 0; r < e.NumRows; r++ {
		for c := 0; c < e.NumCols; c++ {
			gr, gc := e.Row+r, e.Col+c
			if !written.At(gr, gc) {
				continue
			}
			if res.Labels.At(r, c) == 0 || conncomp.At(gr, gc) == 0 {
				continue
			}
			diffs = append(diffs, unwrapped.At(gr, gc)-res.Phase.At(r, c))
		}
	}
	if len(diffs) == 0 {
		return 0
	}
	return twoPi * math.Round(stat.Mean(diffs, nil)/twoPi)
}
