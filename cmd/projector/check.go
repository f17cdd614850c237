package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"projector/internal/driver"
)

var errNamesDiffer = errors.New("type names do not resolve back to their types")

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [namespace]",
		Short: "Verify that every produced type name resolves back to its type",
		Long: `Project the base types and member signatures of every top-level type
(nested types included) and resolve each produced type name again in the
configured scope. Names that bind to something else are listed and the
command fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ns := ""
			if len(args) == 1 {
				ns = args[0]
			}
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { a.close(err) }()

			ids := a.session.TopLevelTypes(ns)
			var mismatches []driver.Mismatch
			if err := a.phase("check", func() (note string, err error) {
				mismatches, err = a.session.Check(a.ctx, ids)
				return fmt.Sprintf("%d types", len(ids)), err
			}); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, mm := range mismatches {
				fmt.Fprintln(out, mm.String())
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%w: %d", errNamesDiffer, len(mismatches))
			}
			fmt.Fprintf(out, "%d types checked\n", len(ids))
			return nil
		},
	}
}
