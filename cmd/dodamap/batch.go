package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/doda/bitstream"
	"github.com/sarchlab/doda/mapper"
)

// batchManifest is the batch-compile manifest format: a flat list of
// (input json, output bitstream) pairs, in the teacher's YAML-struct-
// tag style (core.YAMLCoreProgram et al.).
type batchManifest struct {
	Jobs []batchJob `yaml:"jobs"`
}

type batchJob struct {
	JSON   string `yaml:"json"`
	Output string `yaml:"output"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Compile every job listed in a YAML manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", args[0], err)
	}

	var manifest batchManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parse manifest %s: %w", args[0], err)
	}

	var failed int
	for _, job := range manifest.Jobs {
		if err := runBatchJob(job); err != nil {
			fmt.Fprintf(os.Stderr, "job %s: %v\n", job.JSON, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stderr, "job %s -> %s: ok\n", job.JSON, job.Output)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d job(s) failed", failed, len(manifest.Jobs))
	}
	return nil
}

func runBatchJob(job batchJob) error {
	result, err := mapper.Compile(job.JSON)
	if err != nil {
		return err
	}

	f, err := os.Create(job.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	return bitstream.WriteText(f, result.Bitstream)
}
