// Package device - This file provides the numeric precision of output tensors.
package device

import (
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Precision represents the floating point precision of proposal and mask tensors.
type Precision string

// Precision constants are the supported precisions for target tensors.
const (
	PrecisionFP32 Precision = "FP32"
	PrecisionFP64 Precision = "FP64"
)

// ParsePrecision resolves a configured precision; empty means FP32.
func ParsePrecision(name string) (Precision, error) {
	switch p := Precision(strings.ToUpper(strings.TrimSpace(name))); p {
	case "":
		return PrecisionFP32, nil
	case PrecisionFP32, PrecisionFP64:
		return p, nil
	default:
		return "", errors.Errorf("unsupported precision %q", name)
	}
}

// Dtype returns the tensor element type for the precision.
func (p Precision) Dtype() tensor.Dtype {
	if p == PrecisionFP64 {
		return tensor.Float64
	}
	return tensor.Float32
}
