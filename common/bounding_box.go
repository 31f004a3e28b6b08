// Package common - box and proposal value types shared by the target builders.
package common

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// BoundingBox is an axis-aligned box in image pixel coordinates.
//
// Coordinates are inclusive: a box covering a whole W×H image is
// (0, 0, W-1, H-1).
type BoundingBox struct {
	X1, Y1, X2, Y2 float32
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%.2f, %.2f), (%.2f, %.2f)", b.X1, b.Y1, b.X2, b.Y2)
}

// Width returns x2-x1. This is the extent used by the small-box predicate,
// not the inclusive pixel count.
func (b BoundingBox) Width() float32 {
	return b.X2 - b.X1
}

// Height returns y2-y1.
func (b BoundingBox) Height() float32 {
	return b.Y2 - b.Y1
}

// PixelArea returns the inclusive pixel area, (w+1)*(h+1), or 0 for an
// inverted box.
func (b BoundingBox) PixelArea() float32 {
	w := b.Width() + 1
	h := b.Height() + 1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IsSmall reports whether the box is too small to train on.
//
// Arguments:
//   - minSize: The minimum width and height, in pixels.
//
// Returns:
//   - true if either the width or the height is below minSize.
//
// @example
// box := BoundingBox{X1: 10, Y1: 10, X2: 12, Y2: 40}
// box.IsSmall(5) // true, width is 2
func (b BoundingBox) IsSmall(minSize float32) bool {
	return b.Width() < minSize || b.Height() < minSize
}

// Clip limits the box to the pixel grid of a width×height image.
func (b BoundingBox) Clip(width, height int) BoundingBox {
	maxX := float32(width - 1)
	maxY := float32(height - 1)
	return BoundingBox{
		X1: math32.Max(0, math32.Min(b.X1, maxX)),
		Y1: math32.Max(0, math32.Min(b.Y1, maxY)),
		X2: math32.Max(0, math32.Min(b.X2, maxX)),
		Y2: math32.Max(0, math32.Min(b.Y2, maxY)),
	}
}

// ToRect converts the inclusive box to an exclusive image.Rectangle.
//
// Fractional coordinates are truncated, so (0.4, 0.4, 9.6, 9.6) becomes
// (0,0)-(10,10).
func (b BoundingBox) ToRect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2)+1, int(b.Y2)+1).Canon()
}

// Proposal is a candidate region produced upstream by the detector.
type Proposal struct {
	// ImageIndex is the position of the owning image within the batch.
	ImageIndex int `json:"image" yaml:"image"`
	// Box is the proposed region.
	Box BoundingBox `json:"box" yaml:"box"`
	// Score is the detector's confidence for the region.
	Score float32 `json:"score" yaml:"score"`
	// Label is the detector's class for the region.
	Label int `json:"label" yaml:"label"`
}

// ProposalColumns is the width of a proposal row: (image, x1, y1, x2, y2, score, label).
const ProposalColumns = 7

// Row flattens the proposal into its tensor row layout.
func (p Proposal) Row() [ProposalColumns]float32 {
	return [ProposalColumns]float32{
		float32(p.ImageIndex),
		p.Box.X1, p.Box.Y1, p.Box.X2, p.Box.Y2,
		p.Score,
		float32(p.Label),
	}
}

func (p Proposal) String() string {
	return fmt.Sprintf("Proposal image=%d label=%d (score %f): %s",
		p.ImageIndex, p.Label, p.Score, p.Box)
}

// Boxes extracts the boxes of a proposal list, preserving order.
func Boxes(proposals []Proposal) []BoundingBox {
	boxes := make([]BoundingBox, len(proposals))
	for i, p := range proposals {
		boxes[i] = p.Box
	}
	return boxes
}
