package images

import (
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-masktarget/common"
)

// CropResize crops an instance mask to a box and resizes the crop to a
// size×size target mask.
//
// The box is rounded half-to-even to whole pixels and clipped to the mask,
// so boxes touching or crossing the image border crop only the part that
// lies inside. A box with no pixel inside the mask produces an all-zero
// target. The crop is resized bilinearly and binarised: a target pixel is 1
// when its interpolated value is above threshold.
//
// Arguments:
//   - instance: Full-resolution binary instance mask.
//   - box: The proposal box, inclusive pixel coordinates.
//   - size: Side length of the target mask.
//   - threshold: Binarisation threshold in [0, 1].
//
// Returns:
//   - Mask: A size×size mask of 0/1 values.
//   - error: An error if size is not positive or the instance is malformed.
//
// @example
// target, err := CropResize(instance, proposal.Box, 28, 0.5)
func CropResize(instance Mask, box common.BoundingBox, size int, threshold float32) (Mask, error) {
	if size <= 0 {
		return Mask{}, errors.Errorf("invalid target mask size: %d", size)
	}
	if err := instance.Validate(); err != nil {
		return Mask{}, errors.Wrap(err, "instance")
	}

	target := NewMask(size, size)
	if instance.Width == 0 || instance.Height == 0 {
		return target, nil
	}

	x1 := max(roundPixel(box.X1), 0)
	y1 := max(roundPixel(box.Y1), 0)
	x2 := min(roundPixel(box.X2), instance.Width-1)
	y2 := min(roundPixel(box.Y2), instance.Height-1)
	if x2 < x1 || y2 < y1 {
		return target, nil
	}

	crop := cropGray(instance, x1, y1, x2, y2)
	resized := resize.Resize(uint(size), uint(size), crop, resize.Bilinear)

	bounds := resized.Bounds()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if grayAt(resized, bounds.Min.X+x, bounds.Min.Y+y) > threshold {
				target.Set(x, y, 1)
			}
		}
	}
	return target, nil
}

// cropGray copies the inclusive pixel rectangle of m into a fresh 8-bit image.
func cropGray(m Mask, x1, y1, x2, y2 int) *image.Gray {
	w := x2 - x1 + 1
	h := y2 - y1 + 1
	crop := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := m.Pix[(y1+y)*m.Width+x1 : (y1+y)*m.Width+x1+w]
		dst := crop.Pix[y*crop.Stride : y*crop.Stride+w]
		for x, v := range src {
			if v > 0.5 {
				dst[x] = 255
			}
		}
	}
	return crop
}

// grayAt returns the gray level of a pixel in [0, 1].
func grayAt(img image.Image, x, y int) float32 {
	if g, ok := img.(*image.Gray); ok {
		return float32(g.GrayAt(x, y).Y) / 255
	}
	return float32(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y) / 255
}

func roundPixel(v float32) int {
	return int(math.RoundToEven(float64(v)))
}
