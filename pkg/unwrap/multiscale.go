package unwrap

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"phaseunwrap/internal/models"
	"phaseunwrap/pkg/raster"
	"phaseunwrap/pkg/tiling"
)

// Params holds the multi-resolution unwrapping configuration.
type Params struct {
	// Backend is the pluggable unwrapping algorithm invoked per tile.
	Backend Unwrapper

	// DownsampleRows and DownsampleCols are the per-axis decimation
	// factors of the coarse seeding pass. (1, 1) disables the coarse pass
	// and each tile is unwrapped once at full resolution.
	DownsampleRows, DownsampleCols int

	// TilesDown and TilesAcross are the per-axis tile counts. (1, 1)
	// degenerates to a single full-extent tile with no stitching.
	TilesDown, TilesAcross int

	// Overhang is the fraction of the tile length shared between adjacent
	// tiles, in [0, 1]. The overlap is where relative phase offsets
	// between tiles are estimated.
	Overhang float64

	// SnapRows and SnapCols optionally snap the tile lengths up to a
	// multiple of the given granularity. When zero, tile lengths snap to
	// the downsample factor so every tile's coarse grid divides evenly.
	SnapRows, SnapCols int

	// Power is an optional full-extent average-intensity raster forwarded
	// to the backend, same shape as the interferogram.
	Power *raster.Float

	// Mask is an optional full-extent valid-pixel mask, same shape as the
	// interferogram.
	Mask *raster.Mask

	// Workers bounds the number of tiles unwrapped concurrently.
	// Zero or negative means runtime.NumCPU().
	Workers int

	// Logger receives progress output. Nil means the standard logger.
	Logger *logrus.Logger
}

// Multiscale orchestrates tiled multi-resolution phase unwrapping.
// Construct it once with NewMultiscale and call Unwrap per scene; the
// orchestrator keeps no state between calls.
type Multiscale struct {
	params *Params
	log    *logrus.Entry
}

// NewMultiscale creates an orchestrator with the provided parameters.
func NewMultiscale(params *Params) *Multiscale {
	logger := params.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Multiscale{
		params: params,
		log:    logger.WithField("component", "multiscale"),
	}
}

// Unwrap unwraps the full-extent interferogram into the caller-owned
// unwrapped and conncomp arrays.
//
// All four arrays must share the interferogram's shape; coherence values
// are normalized sample correlation coefficients in [0, 1]; nlooks is the
// effective number of looks of the coherence estimate. The outputs are
// written in place and never reallocated.
//
// Every precondition is checked before any tile work is dispatched; a
// validation failure leaves the outputs untouched. A backend failure on
// any tile aborts the orchestration and leaves the outputs in an
// unspecified state.
func (m *Multiscale) Unwrap(
	unwrapped *raster.Float,
	conncomp *raster.Labels,
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
) error {
	if err := m.validate(unwrapped, conncomp, igram, coherence, nlooks); err != nil {
		return err
	}

	layout, err := tiling.NewLayout(m.layoutParams(igram.Rows, igram.Cols))
	if err != nil {
		return err
	}

	jobs := m.collectJobs(layout)
	m.log.WithFields(logrus.Fields{
		"rows":  igram.Rows,
		"cols":  igram.Cols,
		"tiles": len(jobs),
	}).Info("starting multiscale unwrap")

	results, err := m.unwrapTiles(jobs, igram, coherence, nlooks)
	if err != nil {
		return err
	}

	m.stitch(unwrapped, conncomp, results)
	m.log.Info("multiscale unwrap complete")
	return nil
}

func (m *Multiscale) validate(
	unwrapped *raster.Float,
	conncomp *raster.Labels,
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
) error {
	p := m.params
	if p.Backend == nil {
		return ErrNoBackend
	}
	if igram == nil || coherence == nil || unwrapped == nil || conncomp == nil {
		return fmt.Errorf("%w: igram, coherence, unwrapped and conncomp are required", ErrNilArray)
	}
	if igram.Rows != unwrapped.Rows || igram.Cols != unwrapped.Cols {
		return fmt.Errorf("%w: igram and unwrapped must have the same shape (%dx%d vs %dx%d)",
			ErrShapeMismatch, igram.Rows, igram.Cols, unwrapped.Rows, unwrapped.Cols)
	}
	if unwrapped.Rows != conncomp.Rows || unwrapped.Cols != conncomp.Cols {
		return fmt.Errorf("%w: unwrapped and conncomp must have the same shape (%dx%d vs %dx%d)",
			ErrShapeMismatch, unwrapped.Rows, unwrapped.Cols, conncomp.Rows, conncomp.Cols)
	}
	if igram.Rows != coherence.Rows || igram.Cols != coherence.Cols {
		return fmt.Errorf("%w: igram and coherence must have the same shape (%dx%d vs %dx%d)",
			ErrShapeMismatch, igram.Rows, igram.Cols, coherence.Rows, coherence.Cols)
	}
	if p.Power != nil && (igram.Rows != p.Power.Rows || igram.Cols != p.Power.Cols) {
		return fmt.Errorf("%w: igram and power must have the same shape (%dx%d vs %dx%d)",
			ErrShapeMismatch, igram.Rows, igram.Cols, p.Power.Rows, p.Power.Cols)
	}
	if p.Mask != nil && (igram.Rows != p.Mask.Rows || igram.Cols != p.Mask.Cols) {
		return fmt.Errorf("%w: igram and mask must have the same shape (%dx%d vs %dx%d)",
			ErrShapeMismatch, igram.Rows, igram.Cols, p.Mask.Rows, p.Mask.Cols)
	}
	if nlooks < 1 {
		return fmt.Errorf("%w: got %v", ErrBadLooks, nlooks)
	}
	if p.DownsampleRows < 1 || p.DownsampleCols < 1 {
		return fmt.Errorf("%w: got (%d, %d)", ErrBadDownsample, p.DownsampleRows, p.DownsampleCols)
	}
	if p.TilesDown < 1 || p.TilesAcross < 1 {
		return fmt.Errorf("%w: got (%d, %d)", tiling.ErrBadTileCount, p.TilesDown, p.TilesAcross)
	}
	if p.Overhang < 0 || p.Overhang > 1 {
		return fmt.Errorf("%w: got %v", tiling.ErrBadOverhang, p.Overhang)
	}
	return nil
}

func (m *Multiscale) layoutParams(rows, cols int) tiling.LayoutParams {
	p := m.params
	snapRows, snapCols := p.SnapRows, p.SnapCols
	if snapRows == 0 && snapCols == 0 {
		// Snap tile lengths to the downsample factor so each tile's
		// coarse grid divides evenly.
		snapRows, snapCols = p.DownsampleRows, p.DownsampleCols
	}
	return tiling.LayoutParams{
		Rows:        rows,
		Cols:        cols,
		TilesDown:   p.TilesDown,
		TilesAcross: p.TilesAcross,
		Overhang:    p.Overhang,
		SnapRows:    snapRows,
		SnapCols:    snapCols,
	}
}

// collectJobs enumerates non-empty tile extents in row-major order.
// Snapping can leave trailing tiles empty; those are skipped.
func (m *Multiscale) collectJobs(layout *tiling.Layout) []models.TileJob {
	down, across := layout.GridDims()
	jobs := make([]models.TileJob, 0, layout.NumTiles())
	for i := 0; i < down; i++ {
		for j := 0; j < across; j++ {
			extent := layout.Extent(i, j)
			if extent.Empty() {
				continue
			}
			jobs = append(jobs, models.TileJob{
				Index:  layout.Index(i, j),
				Row:    i,
				Col:    j,
				Extent: extent,
			})
		}
	}
	return jobs
}

// unwrapTiles runs the per-tile unwrap across a bounded worker pool and
// buffers all results so the stitch phase can consume them strictly in
// job order. On the first failure no further jobs are handed out;
// in-flight tiles finish and are discarded.
func (m *Multiscale) unwrapTiles(
	jobs []models.TileJob,
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
) ([]models.TileResult, error) {
	workers := m.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]models.TileResult, len(jobs))
	jobCh := make(chan int)
	var failed atomic.Bool
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobCh {
				job := jobs[k]
				phase, labels, err := m.unwrapTile(job, igram, coherence, nlooks)
				if err != nil {
					failed.Store(true)
					err = fmt.Errorf("unwrap: tile (%d, %d): %w", job.Row, job.Col, err)
				}
				results[k] = models.TileResult{Job: job, Phase: phase, Labels: labels, Err: err}
			}
		}()
	}

	for k := range jobs {
		if failed.Load() {
			break
		}
		jobCh <- k
	}
	close(jobCh)
	wg.Wait()

	// Report the failure of the lowest-indexed failing tile so the error
	// is deterministic regardless of worker scheduling.
	for k := range results {
		if results[k].Err != nil {
			return nil, results[k].Err
		}
	}
	if failed.Load() {
		// Unreachable unless a worker recorded a failure without an
		// error value; keep the invariant explicit.
		return nil, fmt.Errorf("unwrap: tile processing failed")
	}
	return results, nil
}
