// Package raster provides the dense 2-D array types shared by the tiled
// unwrapping pipeline: complex interferograms, real-valued phase and
// coherence grids, unsigned connected-component labels, and boolean
// valid-pixel masks.
//
// All grids store their samples in a flat row-major slice with explicit
// Rows/Cols dimensions, so a sub-region copy or a full-extent write is a
// plain index computation rather than a pointer-chasing structure. This
// mirrors how the rest of the pipeline addresses pixels: index = r*Cols + c.
package raster

// Complex is a dense 2-D grid of complex interferogram samples.
type Complex struct {
	// Data holds the samples in row-major order, length Rows*Cols.
	Data []complex128

	// Rows and Cols are the grid dimensions.
	Rows, Cols int
}

// Float is a dense 2-D grid of real-valued samples (phase, coherence, power).
type Float struct {
	Data []float64

	Rows, Cols int
}

// Labels is a dense 2-D grid of connected-component labels.
// Label 0 always means "not unwrapped / invalid".
type Labels struct {
	Data []uint32

	Rows, Cols int
}

// Mask is a dense 2-D grid of valid-pixel flags. True marks a valid pixel.
type Mask struct {
	Data []bool

	Rows, Cols int
}

// NewComplex allocates a zero-filled rows x cols complex grid.
func NewComplex(rows, cols int) *Complex {
	return &Complex{Data: make([]complex128, rows*cols), Rows: rows, Cols: cols}
}

// NewFloat allocates a zero-filled rows x cols real grid.
func NewFloat(rows, cols int) *Float {
	return &Float{Data: make([]float64, rows*cols), Rows: rows, Cols: cols}
}

// NewLabels allocates a zero-filled rows x cols label grid.
func NewLabels(rows, cols int) *Labels {
	return &Labels{Data: make([]uint32, rows*cols), Rows: rows, Cols: cols}
}

// NewMask allocates a rows x cols mask with every pixel invalid.
func NewMask(rows, cols int) *Mask {
	return &Mask{Data: make([]bool, rows*cols), Rows: rows, Cols: cols}
}

// At returns the sample at row r, column c.
func (g *Complex) At(r, c int) complex128 { return g.Data[r*g.Cols+c] }

// Set stores v at row r, column c.
func (g *Complex) Set(r, c int, v complex128) { g.Data[r*g.Cols+c] = v }

func (g *Float) At(r, c int) float64 { return g.Data[r*g.Cols+c] }

func (g *Float) Set(r, c int, v float64) { g.Data[r*g.Cols+c] = v }

func (g *Labels) At(r, c int) uint32 { return g.Data[r*g.Cols+c] }

func (g *Labels) Set(r, c int, v uint32) { g.Data[r*g.Cols+c] = v }

func (g *Mask) At(r, c int) bool { return g.Data[r*g.Cols+c] }

func (g *Mask) Set(r, c int, v bool) { g.Data[r*g.Cols+c] = v }

// Extract copies the nr x nc sub-grid whose top-left corner is (r0, c0)
// into a freshly allocated grid. The requested region must lie within the
// grid bounds; callers derive regions from clipped tile extents.
func (g *Complex) Extract(r0, c0, nr, nc int) *Complex {
	out := NewComplex(nr, nc)
	for r := 0; r < nr; r++ {
		copy(out.Data[r*nc:(r+1)*nc], g.Data[(r0+r)*g.Cols+c0:(r0+r)*g.Cols+c0+nc])
	}
	return out
}

func (g *Float) Extract(r0, c0, nr, nc int) *Float {
	out := NewFloat(nr, nc)
	for r := 0; r < nr; r++ {
		copy(out.Data[r*nc:(r+1)*nc], g.Data[(r0+r)*g.Cols+c0:(r0+r)*g.Cols+c0+nc])
	}
	return out
}

func (g *Labels) Extract(r0, c0, nr, nc int) *Labels {
	out := NewLabels(nr, nc)
	for r := 0; r < nr; r++ {
		copy(out.Data[r*nc:(r+1)*nc], g.Data[(r0+r)*g.Cols+c0:(r0+r)*g.Cols+c0+nc])
	}
	return out
}

func (g *Mask) Extract(r0, c0, nr, nc int) *Mask {
	out := NewMask(nr, nc)
	for r := 0; r < nr; r++ {
		copy(out.Data[r*nc:(r+1)*nc], g.Data[(r0+r)*g.Cols+c0:(r0+r)*g.Cols+c0+nc])
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Float) Clone() *Float {
	out := NewFloat(g.Rows, g.Cols)
	copy(out.Data, g.Data)
	return out
}

func (g *Labels) Clone() *Labels {
	out := NewLabels(g.Rows, g.Cols)
	copy(out.Data, g.Data)
	return out
}

// Fill sets every sample to v.
func (g *Float) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

func (g *Mask) Fill(v bool) {
	for i := range g.Data {
		g.Data[i] = v
	}
}
