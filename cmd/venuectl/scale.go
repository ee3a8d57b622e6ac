package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/venues/internal/imaging"
)

var (
	scaleWidth  int
	scaleHeight int
	scaleFit    string
	scaleOutput string
)

var scaleCmd = &cobra.Command{
	Use:   "scale <image>",
	Short: "Downsample an image by a power of two toward a target size",
	Args:  cobra.ExactArgs(1),
	RunE:  runScale,
}

func init() {
	scaleCmd.Flags().IntVarP(&scaleWidth, "width", "W", 400, "target width")
	scaleCmd.Flags().IntVarP(&scaleHeight, "height", "H", 300, "target height")
	scaleCmd.Flags().StringVar(&scaleFit, "fit", "atleast", "sample size rule: atleast or within")
	scaleCmd.Flags().StringVarP(&scaleOutput, "output", "o", "", "output file (required)")
	_ = scaleCmd.MarkFlagRequired("output")
}

func runScale(cmd *cobra.Command, args []string) error {
	fit, err := imaging.ParseFit(scaleFit)
	if err != nil {
		return err
	}

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	bm, err := imaging.Decode(in, scaleWidth, scaleHeight, fit)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out, err := os.Create(scaleOutput)
	if err != nil {
		return err
	}
	if _, err := imaging.Encode(out, bm.Image, bm.Format); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%dx%d -> %dx%d (sample %d, %s)\n",
		bm.SourceWidth, bm.SourceHeight, bm.Width(), bm.Height(), bm.SampleSize, fit)
	return nil
}
