package images

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-masktarget/common"
)

func fullMask(width, height int) Mask {
	m := NewMask(width, height)
	m.Fill(0, 0, width-1, height-1, 1)
	return m
}

// TestCropResize_Shape verifies that every box, including boxes on or past
// the image border, yields a size×size target.
func TestCropResize_Shape(t *testing.T) {
	instance := fullMask(64, 48)
	tests := []struct {
		name string
		box  common.BoundingBox
		size int
	}{
		{"inside", common.BoundingBox{X1: 10, Y1: 10, X2: 30, Y2: 20}, 28},
		{"whole image", common.BoundingBox{X1: 0, Y1: 0, X2: 63, Y2: 47}, 28},
		{"touches right border", common.BoundingBox{X1: 40, Y1: 5, X2: 63, Y2: 20}, 14},
		{"crosses top-left corner", common.BoundingBox{X1: -12, Y1: -7, X2: 9, Y2: 9}, 28},
		{"crosses bottom-right corner", common.BoundingBox{X1: 50, Y1: 40, X2: 90, Y2: 70}, 28},
		{"larger than image", common.BoundingBox{X1: -100, Y1: -100, X2: 500, Y2: 500}, 56},
		{"single pixel", common.BoundingBox{X1: 5, Y1: 5, X2: 5, Y2: 5}, 28},
		{"entirely outside", common.BoundingBox{X1: 100, Y1: 100, X2: 140, Y2: 140}, 28},
		{"fractional", common.BoundingBox{X1: 0.5, Y1: 1.5, X2: 20.49, Y2: 30.51}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := CropResize(instance, tt.box, tt.size, 0.5)
			require.NoError(t, err)
			assert.Equal(t, tt.size, target.Width)
			assert.Equal(t, tt.size, target.Height)
			assert.Len(t, target.Pix, tt.size*tt.size)
			for _, v := range target.Pix {
				assert.True(t, v == 0 || v == 1, "target must be binary, got %v", v)
			}
		})
	}
}

func TestCropResize_FullInstanceStaysFull(t *testing.T) {
	instance := fullMask(32, 32)
	for _, box := range []common.BoundingBox{
		{X1: 0, Y1: 0, X2: 31, Y2: 31},
		{X1: 4, Y1: 8, X2: 12, Y2: 30},
		{X1: -5, Y1: -5, X2: 40, Y2: 40},
		{X1: 7, Y1: 7, X2: 7, Y2: 7},
	} {
		target, err := CropResize(instance, box, 28, 0.5)
		require.NoError(t, err)
		assert.Equal(t, float32(28*28), target.Sum(), "box %s", box)
	}
}

func TestCropResize_OutsideIsEmpty(t *testing.T) {
	instance := fullMask(32, 32)
	target, err := CropResize(instance, common.BoundingBox{X1: 40, Y1: 0, X2: 60, Y2: 20}, 28, 0.5)
	require.NoError(t, err)
	assert.Equal(t, float32(0), target.Sum())
}

func TestCropResize_KeepsLayout(t *testing.T) {
	// Left half of the instance is foreground.
	instance := NewMask(20, 20)
	instance.Fill(0, 0, 9, 19, 1)

	target, err := CropResize(instance, common.BoundingBox{X1: 0, Y1: 0, X2: 19, Y2: 19}, 10, 0.5)
	require.NoError(t, err)

	for y := 0; y < 10; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, float32(1), target.At(x, y), "(%d,%d)", x, y)
		}
		for x := 6; x < 10; x++ {
			assert.Equal(t, float32(0), target.At(x, y), "(%d,%d)", x, y)
		}
	}

	// Cropping only the right half sees no foreground.
	target, err = CropResize(instance, common.BoundingBox{X1: 10, Y1: 0, X2: 19, Y2: 19}, 10, 0.5)
	require.NoError(t, err)
	assert.Equal(t, float32(0), target.Sum())
}

func TestCropResize_Errors(t *testing.T) {
	instance := fullMask(8, 8)

	_, err := CropResize(instance, common.BoundingBox{X2: 4, Y2: 4}, 0, 0.5)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidMask))

	broken := Mask{Width: 8, Height: 8, Pix: make([]float32, 10)}
	_, err = CropResize(broken, common.BoundingBox{X2: 4, Y2: 4}, 28, 0.5)
	assert.True(t, errors.Is(err, ErrInvalidMask))
	assert.Contains(t, err.Error(), "instance: 8x8 has 10 pixels, expected 64")
}

func TestCropResize_EmptyInstance(t *testing.T) {
	target, err := CropResize(NewMask(0, 0), common.BoundingBox{X2: 4, Y2: 4}, 5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 5, target.Width)
	assert.Equal(t, float32(0), target.Sum())
}
