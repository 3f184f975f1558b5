package unwrap_test

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"sync"

	"phaseunwrap/pkg/raster"
	"phaseunwrap/pkg/unwrap"
)

const twoPi = 2 * math.Pi

// simulateTerrain builds a smooth absolute phase field: a diagonal linear
// ramp (so naive per-tile unwrapping would leave relative offsets between
// tiles) plus a few long-wavelength sinusoidal undulations. Deterministic
// for a given seed.
func simulateTerrain(rows, cols int, rampRadians float64, seed int64) *raster.Float {
	rng := rand.New(rand.NewSource(seed))

	type wave struct {
		amp, kr, kc, phase float64
	}
	waves := make([]wave, 3)
	for i := range waves {
		// Wavelengths of at least ~400 pixels keep the per-pixel phase
		// gradient small enough for coarse-pass seeding to stay within
		// half a cycle of the truth.
		wavelength := 400.0 + 200.0*rng.Float64()
		theta := twoPi * rng.Float64()
		waves[i] = wave{
			amp:   3.0 + 2.0*rng.Float64(),
			kr:    twoPi / wavelength * math.Sin(theta),
			kc:    twoPi / wavelength * math.Cos(theta),
			phase: twoPi * rng.Float64(),
		}
	}

	out := raster.NewFloat(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := rampRadians * (float64(r)/float64(rows) + float64(c)/float64(cols))
			for _, w := range waves {
				v += w.amp * math.Sin(w.kr*float64(r)+w.kc*float64(c)+w.phase)
			}
			out.Set(r, c, v)
		}
	}
	return out
}

// addPhaseNoise perturbs the phase field with bounded uniform noise.
func addPhaseNoise(phase *raster.Float, maxRadians float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range phase.Data {
		phase.Data[i] += maxRadians * (2*rng.Float64() - 1)
	}
}

// makeIgram forms the complex interferogram exp(i*phase).
func makeIgram(phase *raster.Float) *raster.Complex {
	out := raster.NewComplex(phase.Rows, phase.Cols)
	for i, p := range phase.Data {
		out.Data[i] = cmplx.Exp(complex(0, p))
	}
	return out
}

// onesFloat returns a grid filled with 1.0 (full coherence).
func onesFloat(rows, cols int) *raster.Float {
	g := raster.NewFloat(rows, cols)
	g.Fill(1)
	return g
}

// refUnwrapper is the deterministic reference backend used by the
// orchestrator tests. Without an initial estimate it unwraps by gradient
// integration (first down the first column, then along each row), which is
// exact whenever the underlying phase varies by less than half a cycle
// between adjacent pixels. With an estimate it snaps the wrapped phase to
// the nearest cycle of the estimate, which is how a seeded solver consumes
// the coarse pass. Pixels whose coherence falls below the threshold (or
// that are masked out) get label 0; everything else joins component 1.
type refUnwrapper struct {
	threshold float64
}

func (u refUnwrapper) Unwrap(
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
	opts unwrap.TileOptions,
) (*raster.Float, *raster.Labels, error) {
	rows, cols := igram.Rows, igram.Cols

	wrapped := raster.NewFloat(rows, cols)
	for i, v := range igram.Data {
		wrapped.Data[i] = cmplx.Phase(v)
	}

	phase := raster.NewFloat(rows, cols)
	if opts.Estimate != nil {
		for i := range phase.Data {
			est := opts.Estimate.Data[i]
			w := wrapped.Data[i]
			phase.Data[i] = w + twoPi*math.Round((est-w)/twoPi)
		}
	} else {
		phase.Set(0, 0, wrapped.At(0, 0))
		for r := 1; r < rows; r++ {
			d := wrapToPi(wrapped.At(r, 0) - wrapped.At(r-1, 0))
			phase.Set(r, 0, phase.At(r-1, 0)+d)
		}
		for r := 0; r < rows; r++ {
			for c := 1; c < cols; c++ {
				d := wrapToPi(wrapped.At(r, c) - wrapped.At(r, c-1))
				phase.Set(r, c, phase.At(r, c-1)+d)
			}
		}
	}

	labels := raster.NewLabels(rows, cols)
	for i := range labels.Data {
		valid := coherence.Data[i] >= u.threshold
		if opts.Mask != nil && !opts.Mask.Data[i] {
			valid = false
		}
		if valid {
			labels.Data[i] = 1
		}
	}
	return phase, labels, nil
}

func wrapToPi(d float64) float64 {
	return d - twoPi*math.Round(d/twoPi)
}

// recordedCall captures the inputs of one backend invocation.
type recordedCall struct {
	rows, cols  int
	nlooks      float64
	hasPower    bool
	hasMask     bool
	hasEstimate bool
	maskRows    int
	maskCols    int
}

// recordingUnwrapper wraps another backend and records every invocation.
type recordingUnwrapper struct {
	inner unwrap.Unwrapper

	mu    sync.Mutex
	calls []recordedCall
}

func (u *recordingUnwrapper) Unwrap(
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
	opts unwrap.TileOptions,
) (*raster.Float, *raster.Labels, error) {
	call := recordedCall{
		rows:        igram.Rows,
		cols:        igram.Cols,
		nlooks:      nlooks,
		hasPower:    opts.Power != nil,
		hasMask:     opts.Mask != nil,
		hasEstimate: opts.Estimate != nil,
	}
	if opts.Mask != nil {
		call.maskRows = opts.Mask.Rows
		call.maskCols = opts.Mask.Cols
	}
	u.mu.Lock()
	u.calls = append(u.calls, call)
	u.mu.Unlock()
	return u.inner.Unwrap(igram, coherence, nlooks, opts)
}

var errBackendDown = errors.New("backend down")

// failingUnwrapper always fails.
type failingUnwrapper struct{}

func (failingUnwrapper) Unwrap(
	igram *raster.Complex,
	coherence *raster.Float,
	nlooks float64,
	opts unwrap.TileOptions,
) (*raster.Float, *raster.Labels, error) {
	return nil, nil, errBackendDown
}
