package unwrap

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"phaseunwrap/internal/models"
	"phaseunwrap/pkg/raster"
	"phaseunwrap/pkg/resample"
)

// unwrapTile produces the full-resolution unwrapped phase and labels for
// one tile extent.
//
// With a (1, 1) downsample factor the backend runs once at full resolution
// with no initial estimate. Otherwise the tile is multilooked first, the
// backend unwraps the decimated tile to obtain a cheap global phase
// estimate, and that estimate is upsampled to seed a second, full-resolution
// backend invocation.
func (m *Multiscale) unwrapTile(
	job models.TileJob,
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
) (*raster.Float, *raster.Labels, error) {
	p := m.params
	e := job.Extent

	m.log.WithFields(logrus.Fields{
		"tile": fmt.Sprintf("(%d, %d)", job.Row, job.Col),
		"rows": e.NumRows,
		"cols": e.NumCols,
	}).Debug("unwrapping tile")

	tileIgram := igram.Extract(e.Row, e.Col, e.NumRows, e.NumCols)
	tileCoh := coherence.Extract(e.Row, e.Col, e.NumRows, e.NumCols)

	var tilePower *raster.Float
	if p.Power != nil {
		tilePower = p.Power.Extract(e.Row, e.Col, e.NumRows, e.NumCols)
	}
	var tileMask *raster.Mask
	if p.Mask != nil {
		tileMask = p.Mask.Extract(e.Row, e.Col, e.NumRows, e.NumCols)
	}

	fr, fc := p.DownsampleRows, p.DownsampleCols
	if fr == 1 && fc == 1 {
		phase, labels, err := p.Backend.Unwrap(tileIgram, tileCoh, nlooks, TileOptions{
			Power: tilePower,
			Mask:  tileMask,
		})
		if err != nil {
			return nil, nil, err
		}
		return phase, labels, nil
	}

	// Coarse pass: unwrap the multilooked tile with no initial estimate.
	// The effective number of looks grows by the number of samples
	// averaged into each low-resolution pixel.
	coarseOpts := TileOptions{}
	if tilePower != nil {
		coarseOpts.Power = resample.MultilookFloat(tilePower, fr, fc)
	}
	if tileMask != nil {
		coarseOpts.Mask = resample.MultilookMask(tileMask, fr, fc)
	}
	coarsePhase, _, err := p.Backend.Unwrap(
		resample.MultilookComplex(tileIgram, fr, fc),
		resample.MultilookFloat(tileCoh, fr, fc),
		nlooks*resample.Looks(fr, fc),
		coarseOpts,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("coarse pass: %w", err)
	}

	// Fine pass: unwrap at full resolution, seeded by the upsampled
	// coarse estimate.
	estimate := resample.UpsampleNearest(coarsePhase, fr, fc, e.NumRows, e.NumCols)
	phase, labels, err := p.Backend.Unwrap(tileIgram, tileCoh, nlooks, TileOptions{
		Power:    tilePower,
		Mask:     tileMask,
		Estimate: estimate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fine pass: %w", err)
	}
	return phase, labels, nil
}
