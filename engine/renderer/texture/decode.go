package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

const (
	checkerboardSize = 128
	checkerboardCell = 16
)

// Checkerboard returns the placeholder shown until a texture's real pixels arrive.
//
// Returns:
//   - common.TextureStagingData: a 128x128 RGBA checkerboard with 16 pixel cells
func Checkerboard() common.TextureStagingData {
	pix := make([]byte, checkerboardSize*checkerboardSize*4)
	for y := 0; y < checkerboardSize; y++ {
		for x := 0; x < checkerboardSize; x++ {
			v := byte(0xff)
			if (x/checkerboardCell+y/checkerboardCell)%2 == 1 {
				v = 0xcc
			}
			i := (y*checkerboardSize + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 0xff
		}
	}
	return common.TextureStagingData{Pixels: pix, Width: checkerboardSize, Height: checkerboardSize}
}

// decode turns an Encoded or File source into RGBA pixels.
func decode(src Source) (common.TextureStagingData, error) {
	var img image.Image
	var err error
	switch s := src.(type) {
	case Encoded:
		img, _, err = image.Decode(bytes.NewReader(s.Bytes))
		if err != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to decode embedded image: %w", err)
		}
	case File:
		file, openErr := os.Open(s.Path)
		if openErr != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", s.Path, openErr)
		}
		defer file.Close()
		img, _, err = image.Decode(file)
		if err != nil {
			return common.TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", s.Path, err)
		}
	default:
		return common.TextureStagingData{}, fmt.Errorf("texture: source %T is not decodable", src)
	}
	return toStaging(img), nil
}

func toStaging(img image.Image) common.TextureStagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
	return common.TextureStagingData{Pixels: rgba.Pix, Width: bounds.Dx(), Height: bounds.Dy()}
}

// toPowerOfTwo rescales data up to the next power of two in each dimension. Data that is
// already a power of two is returned unchanged.
func toPowerOfTwo(data common.TextureStagingData) common.TextureStagingData {
	if data.PowerOfTwo() {
		return data
	}
	src := &image.RGBA{
		Pix:    data.Pixels,
		Stride: data.Width * 4,
		Rect:   image.Rect(0, 0, data.Width, data.Height),
	}
	dst := image.NewRGBA(image.Rect(0, 0, common.NextPowerOfTwo(data.Width), common.NextPowerOfTwo(data.Height)))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return common.TextureStagingData{Pixels: dst.Pix, Width: dst.Rect.Dx(), Height: dst.Rect.Dy()}
}
