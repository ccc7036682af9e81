package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	burstpick "github.com/anatolykoptev/go-burstpick"
)

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var flags curationFlags

	cmd := &cobra.Command{
		Use:   "score SOURCE",
		Short: "Show the sharpness of every burst frame without moving anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			cfg := *fileCfg
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}

			groups, err := burstpick.ListGroups(args[0], cfg.KeyLength)
			if err != nil {
				if errors.Is(err, burstpick.ErrSourceDir) {
					return withExitCode(exitSourceDir, err)
				}
				return err
			}

			lib := cfg.Curation()
			selector := lib.Selector()

			var rows [][]string
			var failures int
			for _, g := range groups {
				sel, err := selector.Select(cmd.Context(), g)
				if err != nil {
					return err
				}
				failures += len(sel.Failures)
				rows = append(rows, selectionRows(sel, g.Paths)...)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No files to score.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Group", "File", "Score", "Blurry", "Role", "Camera"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))

			if failures > 0 && cfg.Strict {
				return withExitCode(exitPartial, burstpick.ErrDecodeFailures)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// selectionRows renders a selection in listing order.
func selectionRows(sel burstpick.Selection, paths []string) [][]string {
	byPath := make(map[string]burstpick.Frame, len(paths))
	for _, f := range sel.Losers {
		byPath[f.Path] = f
	}
	if sel.Winner != nil {
		byPath[sel.Winner.Path] = *sel.Winner
	}

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		f, ok := byPath[p]
		if !ok {
			continue
		}
		score, blurry := "-", "-"
		if f.Scored {
			score = strconv.FormatFloat(f.Score, 'f', 2, 64)
			blurry = strconv.FormatBool(f.Blurry)
		}
		rows = append(rows, []string{sel.Key, filepath.Base(f.Path), score, blurry, sel.RoleOf(f), f.Meta.Camera()})
	}
	return rows
}
