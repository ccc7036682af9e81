package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	burstpick "github.com/anatolykoptev/go-burstpick"
	"github.com/anatolykoptev/go-burstpick/internal/config"
)

// curationFlags are command-line overrides for file configuration values.
type curationFlags struct {
	threshold    float64
	keyLength    int
	prefixes     []string
	workers      int
	resizePixels int
	manifest     string
	strict       bool
}

func (f *curationFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64VarP(&f.threshold, "threshold", "t", 0, "Blurry threshold for reported scores (default from config, 100)")
	flags.IntVar(&f.keyLength, "key-length", 0, "Leading filename characters that form a group key (default from config, 4)")
	flags.StringSliceVar(&f.prefixes, "prefix", nil, "Group key prefix marking a scorable burst (repeatable, default C)")
	flags.IntVar(&f.workers, "workers", 0, "Groups processed concurrently (default from config, 1)")
	flags.IntVar(&f.resizePixels, "resize-pixels", 0, "Scale frames to about this many pixels before scoring (0 = native)")
	flags.StringVar(&f.manifest, "manifest", "", "Append one JSON line per relocation to this file")
	flags.BoolVar(&f.strict, "strict", false, "Exit with status 3 when any file fails to decode or relocate")
}

// apply copies changed flags onto cfg and re-validates it.
func (f *curationFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if flags.Changed("key-length") {
		cfg.KeyLength = f.keyLength
	}
	if flags.Changed("prefix") {
		cfg.ScorablePrefixes = f.prefixes
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("resize-pixels") {
		cfg.ResizePixels = f.resizePixels
	}
	if flags.Changed("manifest") {
		cfg.Manifest = f.manifest
	}
	if flags.Changed("strict") {
		cfg.Strict = f.strict
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags curationFlags
	var destFlag string
	var progressFlag string

	cmd := &cobra.Command{
		Use:   "run SOURCE",
		Short: "Keep the sharpest frame of each burst and relocate every grouped file",
		Long: "Groups the files of SOURCE by the leading characters of their names, scores\n" +
			"every frame of a burst group by the variance of its Laplacian and moves all\n" +
			"grouped files into the output directory. Groups that do not look like a\n" +
			"burst are moved without scoring.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			cfg := *fileCfg
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}

			source := filepath.Clean(args[0])
			dest := strings.TrimSpace(destFlag)
			if dest == "" {
				dest = cfg.DestinationFor(source)
			}

			reporter, finish := newReporter(progressFlag, cmd.ErrOrStderr())
			defer finish()

			lib := cfg.Curation()
			lib.Reporter = reporter

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			summary, err := lib.Curate(runCtx, source, dest)
			if err != nil {
				if errors.Is(err, burstpick.ErrSourceDir) {
					return withExitCode(exitSourceDir, err)
				}
				if summary == nil {
					return err
				}
			}
			finish()

			printSummary(cmd.OutOrStdout(), summary)
			if err != nil {
				return err
			}

			if partial := summary.Err(); partial != nil && cfg.Strict {
				return withExitCode(exitPartial, partial)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&destFlag, "output", "o", "", "Destination directory (default SOURCE/<dest_subdir>)")
	cmd.Flags().StringVar(&progressFlag, "progress", "auto", "Progress display: auto, bar, log or none")

	return cmd
}

func printSummary(w io.Writer, s *burstpick.RunSummary) {
	rows := [][]string{
		{"Source", s.Source},
		{"Destination", s.Destination},
		{"Groups", fmt.Sprint(s.Groups)},
		{"Winners relocated", fmt.Sprint(s.Winners)},
		{"Losers relocated", fmt.Sprint(s.Losers)},
		{"Frames scored", fmt.Sprint(s.Scored)},
		{"Failures", fmt.Sprint(len(s.Failures))},
		{"Duration", s.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(w, renderTable([]string{"Run " + s.RunID, ""}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(s.Failures) == 0 {
		return
	}
	failRows := make([][]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		failRows = append(failRows, []string{f.Stage, f.Path, f.Err.Error()})
	}
	fmt.Fprintln(w, renderTable([]string{"Stage", "Path", "Error"}, failRows, nil))
}
