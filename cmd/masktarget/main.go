package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"

	"github.com/nvr-ai/go-masktarget/config"
	"github.com/nvr-ai/go-masktarget/target"
	"github.com/nvr-ai/go-masktarget/util"
)

func check(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func main() {
	parser := argparse.NewParser("masktarget", "Build mask training targets for a batch of proposals")
	configFile := parser.String("c", "config", &argparse.Options{Help: "YAML config file, defaults are used when omitted", Required: false})
	input := parser.String("i", "input", &argparse.Options{Help: "Batch fixture YAML file", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Directory to write target masks to as PNG", Required: false})
	seed := parser.Int("", "seed", &argparse.Options{Help: "Sampling seed, 0 for random", Required: false, Default: 0})
	batchSize := parser.Int("b", "batchsize", &argparse.Options{Help: "Override mask_train_batch_size", Required: false, Default: 0})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		check(err)
		cfg = *loaded
	}
	if *seed != 0 {
		cfg.Seed = uint64(*seed)
	}
	if *batchSize != 0 {
		cfg.MaskTrainBatchSize = *batchSize
	}

	batch, err := util.LoadBatch(*input)
	check(err)
	logger.Infof("Loaded %v images and %v proposals from %v", len(batch.Images), len(batch.Proposals), *input)

	builder, err := target.NewBuilder(cfg, logger, nil)
	check(err)

	result, err := builder.MakeMaskTarget(batch.Images, batch.Proposals, batch.Truths)
	check(err)

	rows := result.Targets
	for i, p := range rows.Proposals {
		fmt.Printf("%4d  truth %-3d label %-3d foreground %4.0f  %v\n", i, rows.Assign[i], rows.Labels[i], rows.Masks[i].Sum(), p)
	}
	fmt.Printf("proposals %v, labels %v, masks %v\n", result.Proposals.Shape(), result.Labels.Shape(), result.Masks.Shape())

	if *output != "" {
		paths, err := util.SaveMasks(*output, rows)
		check(err)
		logger.Infof("Wrote %v masks to %v", len(paths), *output)
	}
}
