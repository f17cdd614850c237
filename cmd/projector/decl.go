package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"projector/internal/format"
	"projector/internal/syntax"
)

type printOptions struct {
	indent int
	tabs   bool
}

func (p *printOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.indent, "indent", 4, "spaces per indentation level")
	cmd.Flags().BoolVar(&p.tabs, "tabs", false, "indent with tabs")
}

func (p *printOptions) format() format.Options {
	return format.Options{IndentWidth: p.indent, UseTabs: p.tabs}
}

func newDeclCmd(opts *rootOptions) *cobra.Command {
	var pr printOptions
	cmd := &cobra.Command{
		Use:   "decl <type|member>...",
		Short: "Print the declaration of types or members",
		Long: "Print declarations. Names use metadata spelling: \"Ns.Type`1\" for generic\n" +
			"types, \"Ns.Outer+Inner\" for nested types and \"Ns.Type.Member\" for members\n" +
			"(every overload is printed).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer func() { a.close(err) }()
			return a.phase("project", func() (string, error) {
				return fmt.Sprintf("%d names", len(args)), runDecl(a, cmd.OutOrStdout(), args, pr.format())
			})
		},
	}
	pr.register(cmd)
	return cmd
}

func runDecl(a *app, out io.Writer, names []string, fo format.Options) error {
	first := true
	emit := func(d syntax.Decl) error {
		if !first {
			fmt.Fprintln(out)
		}
		first = false
		return format.Fprint(out, d, fo)
	}
	for _, name := range names {
		sub, err := a.session.FindSubject(name)
		if err != nil {
			return err
		}
		if len(sub.Members) == 0 {
			d, err := a.session.DeclareType(a.ctx, sub.Type)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := emit(d); err != nil {
				return err
			}
			continue
		}
		for _, id := range sub.Members {
			d, err := a.session.DeclareMember(a.ctx, id)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := emit(d); err != nil {
				return err
			}
		}
	}
	return nil
}
