package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dargueta/bitpress"
	"github.com/dargueta/bitpress/graphics"
	"github.com/dargueta/bitpress/progress"
	"github.com/dargueta/bitpress/report"
	"github.com/dargueta/bitpress/utilities/compression"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var codecFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "info",
		Aliases: []string{"i"},
		Usage:   "Also print coding statistics (average length, entropy, efficiency); not for decode",
	},
	&cli.StringFlag{
		Name:  "csv",
		Usage: "Write the evaluation to `FILE` as CSV (eval only)",
	},
	&cli.StringFlag{
		Name:  "histogram",
		Usage: "Write the symbol distribution to `FILE` as a PGM image; not for decode",
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write decoded files to `DIR` instead of next to the container",
	},
}

func main() {
	cli := cli.App{
		Name:  "bitpress",
		Usage: "Compress files with static Huffman or LZ78 coding",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "progress",
				Aliases: []string{"b"},
				Usage:   "Show a progress bar on stderr while encoding and decoding",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "huffman",
				Usage:     "Encode, decode, evaluate, or analyze a file with Huffman coding",
				Action:    runCodec,
				ArgsUsage: "OPERATION PATH",
				Flags:     codecFlags,
			},
			{
				Name:      "lz78",
				Usage:     "Encode, decode, evaluate, or analyze a file with LZ78 coding",
				Action:    runCodec,
				ArgsUsage: "OPERATION PATH",
				Flags:     codecFlags,
			},
			{
				Name:      "compare",
				Usage:     "Evaluate every codec on a file and print the results side by side",
				Action:    compareCodecs,
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "csv", Usage: "Write the results to `FILE` as CSV"},
				},
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func observerFor(context *cli.Context) bitpress.ProgressObserver {
	if context.Bool("progress") {
		return progress.NewBar(os.Stderr)
	}
	return nil
}

func runCodec(context *cli.Context) error {
	if context.NArg() != 2 {
		return bitpress.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("expected OPERATION and PATH, got %d arguments", context.NArg()))
	}
	operation := context.Args().Get(0)
	path := context.Args().Get(1)

	codec, err := compression.CodecByName(context.Command.Name, observerFor(context))
	if err != nil {
		return err
	}

	switch operation {
	case "encode":
		containerPath, size, err := compression.CompressFile(codec, path)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bytes)\n", containerPath, size)
	case "decode":
		err = checkDecodeFlags(context.Bool("info"), context.String("histogram"))
		if err != nil {
			return err
		}
		outputPath, size, err := compression.DecompressFile(codec, path, context.String("output"))
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outputPath, size)
		return nil
	case "eval":
		evaluation, err := compression.Evaluate(codec, path)
		if err != nil {
			return err
		}
		report.PrintEvaluation(os.Stdout, evaluation)
		if csvPath := context.String("csv"); csvPath != "" {
			err = writeCSV(csvPath, []report.Evaluation{evaluation})
			if err != nil {
				return err
			}
		}
	case "info":
		return analyze(context, codec, path)
	default:
		return bitpress.ErrUnknownOperation.WithMessage(
			fmt.Sprintf("%q is not one of encode, decode, eval, info", operation))
	}

	if context.Bool("info") || context.String("histogram") != "" {
		return analyze(context, codec, path)
	}
	return nil
}

// checkDecodeFlags rejects the analysis flags, which describe an uncompressed
// input and have nothing to work with when decoding.
func checkDecodeFlags(info bool, histogramPath string) error {
	if info {
		return bitpress.ErrInvalidArgument.WithMessage("--info can't be used with decode")
	}
	if histogramPath != "" {
		return bitpress.ErrInvalidArgument.WithMessage("--histogram can't be used with decode")
	}
	return nil
}

// analyze prints the coding statistics of `path` and writes the histogram image if
// one was requested.
func analyze(context *cli.Context, codec bitpress.Codec, path string) error {
	data, err := compression.ReadInput(path)
	if err != nil {
		return err
	}
	analysis, err := codec.Analyze(data)
	if err != nil {
		return err
	}
	report.PrintAnalysis(os.Stdout, analysis)

	if histogramPath := context.String("histogram"); histogramPath != "" {
		err = graphics.NewPgmHist(analysis.Histogram).Output(histogramPath)
		if err != nil {
			return fmt.Errorf("failed to write histogram %q: %w", histogramPath, err)
		}
	}
	return nil
}

func compareCodecs(context *cli.Context) error {
	if context.NArg() != 1 {
		return bitpress.ErrInvalidArgument.WithMessage("expected exactly one PATH")
	}
	path := context.Args().Get(0)

	data, err := compression.ReadInput(path)
	if err != nil {
		return err
	}

	// Progress bars from concurrent codecs would overwrite each other.
	codecs := compression.Codecs(nil)
	evaluations := make([]report.Evaluation, len(codecs))

	group := errgroup.Group{}
	for i, codec := range codecs {
		i, codec := i, codec
		group.Go(func() error {
			evaluation, err := compression.EvaluateBytes(codec, path, data)
			if err != nil {
				return fmt.Errorf("%s: %w", codec.Name(), err)
			}
			evaluations[i] = evaluation
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		return err
	}

	report.PrintComparison(os.Stdout, evaluations)
	if csvPath := context.String("csv"); csvPath != "" {
		return writeCSV(csvPath, evaluations)
	}
	return nil
}

func writeCSV(path string, evaluations []report.Evaluation) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	return report.WriteCSV(fp, evaluations)
}
