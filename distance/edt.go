package distance

import (
	"math"
)

// Transform returns the Euclidean distance from every cell to the nearest
// background cell, in row-major order. Background cells get 0. If the grid
// has no background cell at all, every distance is +Inf.
//
// Behavior:
//  1. Seed f = 0 on background cells, +Inf on feature cells.
//  2. Squared 1D transform down each column.
//  3. Squared 1D transform along each row of the column result.
//  4. Square root.
//
// Time: O(W·H). Memory: O(W·H) plus O(max(W,H)) scratch.
func (g *Grid) Transform() []float64 {
	w, h := g.Width, g.Height
	sq := make([]float64, w*h)
	for i, feat := range g.Cells {
		if feat {
			sq[i] = math.Inf(1)
		}
	}

	n := w
	if h > n {
		n = h
	}
	s := newScratch(n)
	in := make([]float64, n)
	out := make([]float64, n)

	// Columns.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			in[y] = sq[g.index(x, y)]
		}
		s.transform1D(in[:h], out[:h])
		for y := 0; y < h; y++ {
			sq[g.index(x, y)] = out[y]
		}
	}
	// Rows.
	for y := 0; y < h; y++ {
		row := sq[y*w : (y+1)*w]
		copy(in[:w], row)
		s.transform1D(in[:w], row)
	}

	for i, v := range sq {
		sq[i] = math.Sqrt(v)
	}

	return sq
}

// scratch holds the lower-envelope buffers reused across 1D passes.
type scratch struct {
	v []int     // parabola roots
	z []float64 // boundaries between parabolas
}

func newScratch(n int) *scratch {
	return &scratch{v: make([]int, n), z: make([]float64, n+1)}
}

// transform1D computes d[q] = min_p ((q-p)² + f[p]) over finite f[p].
// If f has no finite sample, d is filled with +Inf.
func (s *scratch) transform1D(f, d []float64) {
	k := -1
	var b float64
	for q := range f {
		if math.IsInf(f[q], 1) {
			continue
		}
		for k >= 0 {
			p := s.v[k]
			b = ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
			if b > s.z[k] {
				break
			}
			k--
		}
		k++
		s.v[k] = q
		if k == 0 {
			s.z[k] = math.Inf(-1)
		} else {
			s.z[k] = b
		}
		s.z[k+1] = math.Inf(1)
	}

	if k < 0 {
		for q := range d {
			d[q] = math.Inf(1)
		}
		return
	}

	j := 0
	for q := range d {
		for s.z[j+1] < float64(q) {
			j++
		}
		p := s.v[j]
		d[q] = float64((q-p)*(q-p)) + f[p]
	}
}
