// Package imgutil provides raster loading, saving, and Mat conversions
// shared by the pipeline stages.
package imgutil

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load reads an image file into a BGR Mat. OpenCV handles the common cases;
// formats its build lacks a codec for (notably some TIFF flavours) fall back
// to the Go decoders.
func Load(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	img, err := DecodeFile(path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("load image %s: %w", path, err)
	}
	return ToMat(img), nil
}

// DecodeFile decodes an image file using the registered Go decoders.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Save writes a Mat to disk; the format follows the file extension.
func Save(path string, mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("save image %s: empty image", path)
	}
	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("save image %s: encode failed", path)
	}
	return nil
}
