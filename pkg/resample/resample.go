// Package resample implements the decimation and upsampling used by the
// coarse seeding pass of multi-resolution unwrapping.
//
// Downsampling is a multilook operation: each low-resolution sample is the
// average of the factorRows x factorCols box of full-resolution samples it
// covers. Boxes at the bottom/right edges are clipped to the array bounds
// and averaged over the samples actually present, so inputs whose shape is
// not a multiple of the factor lose no data. Averaging complex interferogram
// samples this way is consistent with look-count scaling: the effective
// number of looks of the decimated data grows by the product of the factors.
package resample

import "phaseunwrap/pkg/raster"

// Looks returns the number of full-resolution samples combined into one
// low-resolution sample, i.e. the factor by which the effective number of
// looks grows after multilooking.
func Looks(factorRows, factorCols int) float64 {
	return float64(factorRows) * float64(factorCols)
}

// OutDim returns the decimated length of an axis of n samples under the
// given downsample factor.
func OutDim(n, factor int) int {
	return (n + factor - 1) / factor
}

// MultilookComplex decimates a complex grid by clipped box-averaging.
// The output has OutDim(Rows) x OutDim(Cols) samples.
func MultilookComplex(in *raster.Complex, factorRows, factorCols int) *raster.Complex {
	rows := OutDim(in.Rows, factorRows)
	cols := OutDim(in.Cols, factorCols)
	out := raster.NewComplex(rows, cols)
	for r := 0; r < rows; r++ {
		r0, r1 := boxBounds(r, factorRows, in.Rows)
		for c := 0; c < cols; c++ {
			c0, c1 := boxBounds(c, factorCols, in.Cols)
			var sum complex128
			for rr := r0; rr < r1; rr++ {
				for cc := c0; cc < c1; cc++ {
					sum += in.At(rr, cc)
				}
			}
			out.Set(r, c, sum/complex(float64((r1-r0)*(c1-c0)), 0))
		}
	}
	return out
}

// MultilookFloat decimates a real grid by clipped box-averaging.
func MultilookFloat(in *raster.Float, factorRows, factorCols int) *raster.Float {
	rows := OutDim(in.Rows, factorRows)
	cols := OutDim(in.Cols, factorCols)
	out := raster.NewFloat(rows, cols)
	for r := 0; r < rows; r++ {
		r0, r1 := boxBounds(r, factorRows, in.Rows)
		for c := 0; c < cols; c++ {
			c0, c1 := boxBounds(c, factorCols, in.Cols)
			sum := 0.0
			for rr := r0; rr < r1; rr++ {
				for cc := c0; cc < c1; cc++ {
					sum += in.At(rr, cc)
				}
			}
			out.Set(r, c, sum/float64((r1-r0)*(c1-c0)))
		}
	}
	return out
}

// MultilookMask decimates a valid-pixel mask by majority vote: a
// low-resolution pixel is valid when at least half of the full-resolution
// pixels in its box are valid.
func MultilookMask(in *raster.Mask, factorRows, factorCols int) *raster.Mask {
	rows := OutDim(in.Rows, factorRows)
	cols := OutDim(in.Cols, factorCols)
	out := raster.NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		r0, r1 := boxBounds(r, factorRows, in.Rows)
		for c := 0; c < cols; c++ {
			c0, c1 := boxBounds(c, factorCols, in.Cols)
			valid := 0
			for rr := r0; rr < r1; rr++ {
				for cc := c0; cc < c1; cc++ {
					if in.At(rr, cc) {
						valid++
					}
				}
			}
			out.Set(r, c, 2*valid >= (r1-r0)*(c1-c0))
		}
	}
	return out
}

// UpsampleNearest expands a real grid to rows x cols by nearest-neighbor
// replication under the given downsample factors: output pixel (r, c) takes
// the value of input pixel (r/factorRows, c/factorCols). The target shape
// must be the shape the input was decimated from (or any shape whose
// mapping stays within the input bounds after clamping).
func UpsampleNearest(in *raster.Float, factorRows, factorCols, rows, cols int) *raster.Float {
	out := raster.NewFloat(rows, cols)
	for r := 0; r < rows; r++ {
		sr := min(r/factorRows, in.Rows-1)
		for c := 0; c < cols; c++ {
			sc := min(c/factorCols, in.Cols-1)
			out.Set(r, c, in.At(sr, sc))
		}
	}
	return out
}

// boxBounds returns the clipped [start, end) range of full-resolution
// samples covered by low-resolution index i.
func boxBounds(i, factor, limit int) (int, int) {
	start := i * factor
	end := start + factor
	if end > limit {
		end = limit
	}
	return start, end
}
