// Package datasettest writes synthetic split directories for tests.
package datasettest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteSplit creates dir/split with n image/mask pairs of size×size pixels
// and returns the split directory. Image i is a gradient offset by i; mask i
// is a centred square whose side grows with i.
func WriteSplit(t testing.TB, root, split string, n, size int) string {
	t.Helper()
	dir := filepath.Join(root, split)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for i := 0; i < n; i++ {
		img := image.NewGray(image.Rect(0, 0, size, size))
		msk := image.NewGray(image.Rect(0, 0, size, size))
		half := 1 + (i % (size / 2))
		c := size / 2
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8((x + y + 3*i) % 256)})
				if y >= c-half && y < c+half && x >= c-half && x < c+half {
					msk.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
		WritePNG(t, filepath.Join(dir, fmt.Sprintf("image_%d.png", i)), img)
		WritePNG(t, filepath.Join(dir, fmt.Sprintf("mask_%d.png", i)), msk)
	}

	return dir
}

// WritePNG encodes img to path.
func WritePNG(t testing.TB, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
