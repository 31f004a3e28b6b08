// Package config - configuration for mask target construction.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-masktarget/device"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid mask target config")

// Config holds the options consumed by the mask target builders.
type Config struct {
	// Device is the compute device output tensors are allocated on.
	Device string `json:"device" yaml:"device"`

	// Precision is the float precision of proposal and mask tensors.
	Precision string `json:"precision" yaml:"precision"`

	// MaskTrainMinSize drops proposals narrower or shorter than this, in pixels.
	MaskTrainMinSize float32 `json:"mask_train_min_size" yaml:"mask_train_min_size"`

	// MaskTrainFgThreshLow is the lowest IoU with a ground-truth box for a
	// proposal to count as foreground.
	MaskTrainFgThreshLow float32 `json:"mask_train_fg_thresh_low" yaml:"mask_train_fg_thresh_low"`

	// MaskTrainBatchSize is the number of targets sampled per image that has
	// any foreground proposal.
	MaskTrainBatchSize int `json:"mask_train_batch_size" yaml:"mask_train_batch_size"`

	// MaskSize is the side length of every target mask.
	MaskSize int `json:"mask_size" yaml:"mask_size"`

	// MaskThreshold binarises resized masks.
	MaskThreshold float32 `json:"mask_threshold" yaml:"mask_threshold"`

	// AddTruthBoxes appends each ground-truth box to the proposals of its
	// image before sampling.
	AddTruthBoxes bool `json:"add_truth_boxes" yaml:"add_truth_boxes"`

	// Seed makes sampling reproducible when non-zero.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the configuration used to train a 28×28 mask head.
//
// Returns:
//   - Config: Default configuration
//
// @example
// cfg := DefaultConfig()
// cfg.MaskTrainBatchSize = 32
func DefaultConfig() Config {
	return Config{
		Device:               string(device.CPU),
		Precision:            string(device.PrecisionFP32),
		MaskTrainMinSize:     5,
		MaskTrainFgThreshLow: 0.5,
		MaskTrainBatchSize:   64,
		MaskSize:             28,
		MaskThreshold:        0.5,
		AddTruthBoxes:        false,
		Seed:                 0,
	}
}

// Load reads a YAML file over the defaults and validates the result. Keys
// missing from the file keep their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and resolves the device and precision names.
func (c *Config) Validate() error {
	if _, err := device.Parse(c.Device); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if _, err := device.ParsePrecision(c.Precision); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if c.MaskTrainMinSize < 0 {
		return errors.Wrapf(ErrInvalidConfig, "mask_train_min_size must not be negative, got %v", c.MaskTrainMinSize)
	}
	if c.MaskTrainFgThreshLow < 0 || c.MaskTrainFgThreshLow > 1 {
		return errors.Wrapf(ErrInvalidConfig, "mask_train_fg_thresh_low must be in [0, 1], got %v", c.MaskTrainFgThreshLow)
	}
	if c.MaskTrainBatchSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "mask_train_batch_size must be positive, got %d", c.MaskTrainBatchSize)
	}
	if c.MaskSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "mask_size must be positive, got %d", c.MaskSize)
	}
	if c.MaskThreshold < 0 || c.MaskThreshold >= 1 {
		return errors.Wrapf(ErrInvalidConfig, "mask_threshold must be in [0, 1), got %v", c.MaskThreshold)
	}
	return nil
}

// ResolveDevice returns the parsed device and precision.
func (c *Config) ResolveDevice() (device.Device, device.Precision, error) {
	d, err := device.Parse(c.Device)
	if err != nil {
		return "", "", err
	}
	p, err := device.ParsePrecision(c.Precision)
	if err != nil {
		return "", "", err
	}
	return d, p, nil
}
