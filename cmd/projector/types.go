package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"projector/internal/driver"
	"projector/internal/format"
)

var errProjectionFailed = errors.New("some types could not be declared")

func newTypesCmd(opts *rootOptions) *cobra.Command {
	var (
		declare bool
		pr      printOptions
	)
	cmd := &cobra.Command{
		Use:   "types [namespace]",
		Short: "List the top-level types of a namespace and the namespaces below it",
		Long: `List top-level types ordered by full name. With --declare every type is
projected in parallel (see --jobs) and printed in the same order.`,
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
			out := cmd.OutOrStdout()
			if !declare {
				for _, id := range ids {
					fmt.Fprintln(out, a.session.Model().FullName(id))
				}
				return nil
			}

			var results []driver.TypeResult
			if err := a.phase("project", func() (note string, err error) {
				results, err = a.session.ProjectAll(a.ctx, ids)
				return fmt.Sprintf("%d types", len(ids)), err
			}); err != nil {
				return err
			}
			failed, printed := 0, 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Name, r.Err)
					continue
				}
				if printed > 0 {
					fmt.Fprintln(out)
				}
				printed++
				if err := format.Fprint(out, r.Decl, pr.format()); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errProjectionFailed, failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&declare, "declare", "d", false, "print declarations instead of names")
	pr.register(cmd)
	return cmd
}
