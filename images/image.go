// Package images - instance mask definition.
package images

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// ErrInvalidMask is wrapped by every mask validation failure.
var ErrInvalidMask = errors.New("invalid mask")

// Mask is a single-channel float mask stored row-major.
//
// Instance masks hold 0 or 1 per pixel; resized targets keep the same
// convention after binarisation.
type Mask struct {
	// The width of the mask.
	Width int `json:"width" yaml:"width"`
	// The height of the mask.
	Height int `json:"height" yaml:"height"`
	// The pixel values, Height rows of Width values each.
	Pix []float32 `json:"-" yaml:"-"`
}

// NewMask allocates an all-zero width×height mask.
func NewMask(width, height int) Mask {
	return Mask{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}
}

// At returns the value at (x, y).
func (m Mask) At(x, y int) float32 {
	return m.Pix[y*m.Width+x]
}

// Set writes the value at (x, y).
func (m Mask) Set(x, y int, v float32) {
	m.Pix[y*m.Width+x] = v
}

// Fill sets every pixel inside the inclusive pixel rectangle to v. The
// rectangle is clipped to the mask.
func (m Mask) Fill(x1, y1, x2, y2 int, v float32) {
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, m.Width-1), min(y2, m.Height-1)
	for y := y1; y <= y2; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x := x1; x <= x2; x++ {
			row[x] = v
		}
	}
}

// Clone returns a deep copy of the mask.
func (m Mask) Clone() Mask {
	pix := make([]float32, len(m.Pix))
	copy(pix, m.Pix)
	return Mask{Width: m.Width, Height: m.Height, Pix: pix}
}

// Sum returns the sum of all pixel values, which for a binary mask is its
// foreground area.
func (m Mask) Sum() float32 {
	var sum float32
	for _, v := range m.Pix {
		sum += v
	}
	return sum
}

// Validate checks that the pixel buffer matches the dimensions.
func (m Mask) Validate() error {
	if m.Width < 0 || m.Height < 0 {
		return errors.Wrapf(ErrInvalidMask, "dimensions %dx%d", m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return errors.Wrapf(ErrInvalidMask, "%dx%d has %d pixels, expected %d", m.Width, m.Height, len(m.Pix), m.Width*m.Height)
	}
	return nil
}

// ToGray renders the mask as an 8-bit image, mapping [0, 1] to [0, 255].
func (m Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := m.At(x, y)
			switch {
			case v <= 0:
				img.Pix[y*img.Stride+x] = 0
			case v >= 1:
				img.Pix[y*img.Stride+x] = 255
			default:
				img.Pix[y*img.Stride+x] = uint8(v*255 + 0.5)
			}
		}
	}
	return img
}

// MaskFromImage builds a binary mask from any image: a pixel is foreground
// when its gray level is above threshold (in [0, 1]).
func MaskFromImage(img image.Image, threshold float32) Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			if float32(g.Y)/255 > threshold {
				m.Set(x, y, 1)
			}
		}
	}
	return m
}
