package device

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Transfer moves flat row data into dense tensors on a device.
type Transfer struct {
	Device    Device
	Precision Precision
	engine    tensor.Engine
}

// NewTransfer resolves the engine for the device.
//
// Arguments:
//   - d: The target device.
//   - p: The floating point precision of float tensors.
//
// Returns:
//   - *Transfer: A transfer bound to the device engine.
//   - error: ErrUnsupportedDevice if the device cannot allocate.
func NewTransfer(d Device, p Precision) (*Transfer, error) {
	engine, err := d.Engine()
	if err != nil {
		return nil, err
	}
	if p == "" {
		p = PrecisionFP32
	}
	return &Transfer{Device: d, Precision: p, engine: engine}, nil
}

// Floats builds a float tensor of the given shape, converting to FP64 when
// the transfer precision asks for it.
func (t *Transfer) Floats(data []float32, shape ...int) (*tensor.Dense, error) {
	if err := checkShape(len(data), shape); err != nil {
		return nil, err
	}
	var backing interface{} = data
	if t.Precision == PrecisionFP64 {
		wide := make([]float64, len(data))
		for i, v := range data {
			wide[i] = float64(v)
		}
		backing = wide
	}
	return tensor.New(
		tensor.WithEngine(t.engine),
		tensor.WithShape(shape...),
		tensor.WithBacking(backing),
	), nil
}

// Int64s builds an int64 tensor of the given shape.
func (t *Transfer) Int64s(data []int64, shape ...int) (*tensor.Dense, error) {
	if err := checkShape(len(data), shape); err != nil {
		return nil, err
	}
	return tensor.New(
		tensor.WithEngine(t.engine),
		tensor.WithShape(shape...),
		tensor.WithBacking(data),
	), nil
}

// checkShape accepts zero-length dimensions, so an empty batch still
// transfers as a (0, ...) tensor.
func checkShape(n int, shape []int) error {
	size := 1
	for _, d := range shape {
		if d < 0 {
			return errors.Errorf("invalid tensor shape %v", shape)
		}
		size *= d
	}
	if len(shape) == 0 || size != n {
		return errors.Errorf("shape %v does not hold %d elements", shape, n)
	}
	return nil
}
