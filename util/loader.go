// Package util - batch fixture files for running the mask target builder
// outside a training loop.
package util

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-masktarget/common"
	"github.com/nvr-ai/go-masktarget/images"
	"github.com/nvr-ai/go-masktarget/target"
)

// TruthFile is one ground-truth entry of a fixture image.
type TruthFile struct {
	// Box is x1, y1, x2, y2 in inclusive pixel coordinates.
	Box [4]float32 `yaml:"box"`
	// Label is the class. 0 marks a padding entry.
	Label int `yaml:"label"`
	// Mask is a PNG instance mask, relative to the fixture file. When empty
	// the instance is the filled box.
	Mask string `yaml:"mask,omitempty"`
}

// ImageFile is one image of a fixture batch.
type ImageFile struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Truth  []TruthFile `yaml:"truth"`
}

// ProposalFile is one proposal of a fixture batch.
type ProposalFile struct {
	Image int        `yaml:"image"`
	Box   [4]float32 `yaml:"box"`
	Score float32    `yaml:"score"`
	Label int        `yaml:"label"`
}

// BatchFile is the on-disk layout of a fixture batch.
type BatchFile struct {
	Images    []ImageFile    `yaml:"images"`
	Proposals []ProposalFile `yaml:"proposals"`
}

// Batch is a decoded fixture, ready for the builder.
type Batch struct {
	Images    []target.Image
	Proposals []common.Proposal
	Truths    []target.GroundTruth
}

// LoadBatch reads a fixture batch and its instance masks.
//
// Arguments:
//   - path: Path to the YAML fixture.
//
// Returns:
//   - *Batch: The images, proposals and ground truth of the fixture.
//   - error: Error if the file or a mask cannot be read.
//
// @example
// batch, err := LoadBatch("testdata/batch.yaml")
func LoadBatch(path string) (*Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	var file BatchFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, errors.Wrapf(err, "decode fixture %s", path)
	}
	return file.Decode(filepath.Dir(path))
}

// Decode converts the file layout into builder inputs. Mask paths are
// resolved against dir.
func (f *BatchFile) Decode(dir string) (*Batch, error) {
	batch := &Batch{
		Images:    make([]target.Image, len(f.Images)),
		Proposals: make([]common.Proposal, len(f.Proposals)),
		Truths:    make([]target.GroundTruth, len(f.Images)),
	}

	for i, im := range f.Images {
		if im.Width <= 0 || im.Height <= 0 {
			return nil, errors.Errorf("image %d: invalid size %dx%d", i, im.Width, im.Height)
		}
		img := target.Image{Width: im.Width, Height: im.Height}
		batch.Images[i] = img

		truth := target.GroundTruth{
			Boxes:     make([]common.BoundingBox, len(im.Truth)),
			Labels:    make([]int, len(im.Truth)),
			Instances: make([]images.Mask, len(im.Truth)),
		}
		for j, t := range im.Truth {
			box := toBox(t.Box)
			truth.Boxes[j] = box
			truth.Labels[j] = t.Label
			if t.Mask == "" {
				m := images.NewMask(img.Width, img.Height)
				r := box.ToRect()
				m.Fill(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, 1)
				truth.Instances[j] = m
				continue
			}
			m, err := LoadMask(filepath.Join(dir, t.Mask))
			if err != nil {
				return nil, errors.Wrapf(err, "image %d truth %d", i, j)
			}
			if m.Width != img.Width || m.Height != img.Height {
				return nil, errors.Errorf("image %d truth %d: mask is %dx%d, image is %dx%d",
					i, j, m.Width, m.Height, img.Width, img.Height)
			}
			truth.Instances[j] = m
		}
		batch.Truths[i] = truth
	}

	for i, p := range f.Proposals {
		if p.Image < 0 || p.Image >= len(f.Images) {
			return nil, errors.Errorf("proposal %d: image %d out of range", i, p.Image)
		}
		batch.Proposals[i] = common.Proposal{
			ImageIndex: p.Image,
			Box:        toBox(p.Box),
			Score:      p.Score,
			Label:      p.Label,
		}
	}
	return batch, nil
}

// LoadMask decodes a PNG into a binary mask. Pixels brighter than half
// intensity are foreground.
func LoadMask(path string) (images.Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return images.Mask{}, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return images.Mask{}, errors.Wrapf(err, "decode %s", path)
	}
	return images.MaskFromImage(img, 0.5), nil
}

func toBox(v [4]float32) common.BoundingBox {
	return common.BoundingBox{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
}

// SaveMasks writes every target mask as a PNG into dir and returns the
// written paths in row order. Files are named by row, image and label.
func SaveMasks(dir string, t *target.Targets) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, t.Len())
	for i, m := range t.Masks {
		p := t.Proposals[i]
		path := filepath.Join(dir, fmt.Sprintf("target-%04d-image-%d-label-%d.png", i, p.ImageIndex, t.Labels[i]))
		if err := writePNG(path, m.ToGray()); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}
