package batch

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// histBins is the number of histogram bins used for equalization.
const histBins = 256

// EqualizeHist returns img with its intensities mapped through their
// normalized cumulative histogram: 256 bins spanning [min, max], the CDF
// linearly interpolated at bin centres. Output lies in (0, 1]. A constant
// image maps to all ones.
// Complexity: O(H*W).
func EqualizeHist(img *mat.Dense) *mat.Dense {
	rows, cols := img.Dims()
	src := planeData(img)
	out := make([]float64, len(src))

	lo, hi := floats.Min(src), floats.Max(src)
	if hi == lo {
		for i := range out {
			out[i] = 1
		}
		return mat.NewDense(rows, cols, out)
	}

	width := (hi - lo) / histBins
	cdf := make([]float64, histBins)
	for _, v := range src {
		cdf[binOf(v, lo, width)]++
	}
	floats.CumSum(cdf, cdf)
	floats.Scale(1/cdf[histBins-1], cdf)

	first := lo + width/2
	last := lo + (histBins-0.5)*width
	for i, v := range src {
		switch {
		case v <= first:
			out[i] = cdf[0]
		case v >= last:
			out[i] = cdf[histBins-1]
		default:
			pos := (v - first) / width
			k := int(pos)
			f := pos - float64(k)
			out[i] = cdf[k]*(1-f) + cdf[k+1]*f
		}
	}

	return mat.NewDense(rows, cols, out)
}

func binOf(v, lo, width float64) int {
	k := int((v - lo) / width)
	if k >= histBins {
		k = histBins - 1
	}

	return k
}

// Standardize returns (img - mean) / std using population statistics.
// A zero standard deviation only centres the image.
// Complexity: O(H*W).
func Standardize(img *mat.Dense) *mat.Dense {
	rows, cols := img.Dims()
	out := planeData(img)
	mean, std := stat.PopMeanStdDev(out, nil)

	floats.AddConst(-mean, out)
	if std > 0 {
		floats.Scale(1/std, out)
	}

	return mat.NewDense(rows, cols, out)
}

// planeData copies the elements of m in row-major order.
func planeData(m *mat.Dense) []float64 {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		data = append(data, m.RawRowView(i)...)
	}

	return data
}
