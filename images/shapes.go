// Package images - box overlap and instance-mask utilities.
package images

import (
	flatbush "github.com/bmharper/flatbush-go"
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/nvr-ai/go-masktarget/common"
)

// CalculateIoU returns the Intersection over Union of two boxes.
//
// Boxes use inclusive pixel coordinates, so a box from x=0 to x=9 is ten
// pixels wide and two boxes sharing an edge column overlap by one pixel:
//
//	iw = min(a.X2, b.X2) - max(a.X1, b.X1) + 1
//	ih = min(a.Y2, b.Y2) - max(a.Y1, b.Y1) + 1
//	IoU = iw*ih / (area(a) + area(b) - iw*ih)
//
// A non-positive iw or ih means the boxes are disjoint and the result is 0.
//
// Arguments:
//   - a: The first box.
//   - b: The second box.
//
// Returns:
//   - float32: A value in [0, 1].
//
// Example Usage:
// ```go
//
//	a := common.BoundingBox{X1: 0, Y1: 0, X2: 9, Y2: 9}
//	b := common.BoundingBox{X1: 5, Y1: 5, X2: 14, Y2: 14}
//	iou := CalculateIoU(a, b) // 25 / (100 + 100 - 25) = 0.142857
//
// ```
func CalculateIoU(a, b common.BoundingBox) float32 {
	iw := math32.Min(a.X2, b.X2) - math32.Max(a.X1, b.X1) + 1
	if iw <= 0 {
		return 0
	}
	ih := math32.Min(a.Y2, b.Y2) - math32.Max(a.Y1, b.Y1) + 1
	if ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := a.PixelArea() + b.PixelArea() - inter
	if union <= 0 {
		return 0
	}
	return math32.Min(1, inter/union)
}

// OverlapMatrix computes the IoU of every box in a against every box in b.
//
// The result has len(a) rows and len(b) columns. Candidate pairs are found
// with a spatial index over b, so pairs that cannot touch are never
// evaluated and stay exactly 0.
//
// Arguments:
//   - a: Row boxes, typically proposals.
//   - b: Column boxes, typically ground truth.
//
// Returns:
//   - *mat.Dense: The overlap matrix, or nil if either input is empty.
func OverlapMatrix(a, b []common.BoundingBox) *mat.Dense {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	overlap := mat.NewDense(len(a), len(b), nil)

	fb := flatbush.NewFlatbush[float32]()
	fb.Reserve(len(b))
	for _, box := range b {
		fb.Add(box.X1, box.Y1, box.X2, box.Y2)
	}
	fb.Finish()

	// With inclusive coordinates two boxes up to one pixel apart still
	// intersect, so the search window grows by one pixel on each side.
	nearby := []int{}
	for i, box := range a {
		nearby = fb.SearchFast(box.X1-1, box.Y1-1, box.X2+1, box.Y2+1, nearby[:0])
		for _, j := range nearby {
			overlap.Set(i, j, float64(CalculateIoU(box, b[j])))
		}
	}
	return overlap
}

// AssignOverlaps finds, for each row of the overlap matrix, the column with
// the largest overlap and that overlap value. Ties go to the lowest column.
//
// Arguments:
//   - overlap: A rows×cols overlap matrix as returned by OverlapMatrix.
//
// Returns:
//   - assign: Column index of the best match for each row.
//   - best: The overlap value at that column.
func AssignOverlaps(overlap *mat.Dense) (assign []int, best []float64) {
	if overlap == nil {
		return nil, nil
	}
	rows, _ := overlap.Dims()
	assign = make([]int, rows)
	best = make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := overlap.RawRowView(i)
		assign[i] = floats.MaxIdx(row)
		best[i] = row[assign[i]]
	}
	return assign, best
}
