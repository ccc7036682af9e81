package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	burstpick "github.com/anatolykoptev/go-burstpick"
)

func newBlurMapCommand(ctx *commandContext) *cobra.Command {
	var outFlag string
	var smoothing int

	cmd := &cobra.Command{
		Use:   "blurmap IMAGE",
		Short: "Write a visualisation of an image's Laplacian response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			src := args[0]
			out := strings.TrimSpace(outFlag)
			if out == "" {
				base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
				out = filepath.Join(filepath.Dir(src), base+".blurmap.png")
			}

			lf, err := burstpick.LoadFrame(src, burstpick.LoadOpts{ResizePixels: cfg.ResizePixels})
			if err != nil {
				return err
			}
			sharp, err := burstpick.Estimate(lf.Image, cfg.Threshold)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create blur map: %w", err)
			}
			if err := png.Encode(f, burstpick.PrettyBlurMap(sharp.Map, smoothing).Gray()); err != nil {
				_ = f.Close()
				return fmt.Errorf("encode blur map: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write blur map: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: score %.2f blurry %t -> %s\n", src, sharp.Score, sharp.Blurry, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFlag, "output", "o", "", "Output PNG path (default IMAGE.blurmap.png)")
	cmd.Flags().IntVar(&smoothing, "smoothing", burstpick.DefaultSmoothing, "Median window applied to the log magnitude")
	return cmd
}
