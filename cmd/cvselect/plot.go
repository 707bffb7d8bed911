package main

import (
	"log"
	"os"

	"github.com/btracey/cvselect/data"
	"github.com/btracey/cvselect/plots"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

func plotCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runPlot,
		UsageLine: "plot -train <file> -val <file> [options]",
		Short:     "plot a training and a validation curve",
		Long: `
plot draws the evolution of a metric on the training and validation sets.
Each file holds one value per line, sampled every -period epochs.

	$ cvselect plot -train train.csv -val val.csv -period 25 -metric IoU

The image is written to <dir>/evol_<metric>.
`,
		Flag: *flag.NewFlagSet("plot", flag.ExitOnError),
	}
	cmd.Flag.String("train", "", "training curve file")
	cmd.Flag.String("val", "", "validation curve file")
	cmd.Flag.Int("period", 25, "epochs between two values")
	cmd.Flag.Float64("step", 0, "epochs between two vertical markers; 0 draws none")
	cmd.Flag.String("metric", "IoU", "metric name")
	cmd.Flag.String("dir", ".", "output directory")
	cmd.Flag.String("format", "png", "image format")
	return cmd
}

func runPlot(cmd *commander.Command, args []string) error {
	get := func(name string) interface{} { return cmd.Flag.Lookup(name).Value.Get() }

	train, err := readColumn(get("train").(string))
	if err != nil {
		return err
	}
	val, err := readColumn(get("val").(string))
	if err != nil {
		return err
	}
	path, err := plots.TrainVal(train, val, &plots.Settings{
		Period: get("period").(int),
		Step:   get("step").(float64),
		Metric: get("metric").(string),
		Dir:    get("dir").(string),
		Format: get("format").(string),
	})
	if err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}

func readColumn(path string) ([]float64, error) {
	if path == "" {
		return nil, errors.New("cvselect: missing curve file")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cvselect: opening curve")
	}
	defer f.Close()
	return data.ReadColumn(f)
}
