// Package device - compute devices and the transfer of target rows into tensors.
package device

import (
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Device names the memory that output tensors are allocated on.
type Device string

const (
	// CPU allocates tensors in Go memory with the standard engine.
	CPU Device = "cpu"

	// CUDA allocates tensors on an NVIDIA GPU.
	CUDA Device = "cuda"
)

// ErrUnsupportedDevice is returned for devices this build cannot allocate on.
var ErrUnsupportedDevice = errors.New("unsupported device")

// Parse resolves a configured device name. An empty name means CPU, and
// "gpu" or an indexed form such as "cuda:0" means CUDA.
func Parse(name string) (Device, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "" || name == string(CPU):
		return CPU, nil
	case name == "gpu" || name == string(CUDA) || strings.HasPrefix(name, string(CUDA)+":"):
		return CUDA, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedDevice, "unknown device %q", name)
	}
}

// Engine returns the tensor engine that allocates on the device.
//
// Only the CPU engine is available; GPU engines need the CUDA build of
// gorgonia.
func (d Device) Engine() (tensor.Engine, error) {
	switch d {
	case CPU:
		return tensor.StdEng{}, nil
	case CUDA:
		return nil, errors.Wrapf(ErrUnsupportedDevice, "%s is not available in this build", d)
	default:
		return nil, errors.Wrapf(ErrUnsupportedDevice, "unknown device %q", string(d))
	}
}
