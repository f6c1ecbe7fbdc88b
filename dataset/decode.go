package dataset

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/gonum/mat"
)

// decodePNG reads a PNG file into a plane of 8-bit gray values.
func decodePNG(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}

	return toPlane(img), nil
}

// toPlane converts any image to gray levels in [0,255].
func toPlane(img image.Image) *mat.Dense {
	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()
	data := make([]float64, rows*cols)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < rows; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			line := src.Pix[off : off+cols]
			for x, v := range line {
				data[y*cols+x] = float64(v)
			}
		}
	case *image.Gray16:
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				data[y*cols+x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
	default:
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
				data[y*cols+x] = float64(g.Y)
			}
		}
	}

	return mat.NewDense(rows, cols, data)
}
