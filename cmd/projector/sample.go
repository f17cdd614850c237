package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"projector/internal/modelio"
	"projector/internal/testkit"
)

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample <path>",
		Short: "Write the built-in sample library as a model snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := modelio.SaveFile(args[0], testkit.NewSample().M); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (namespace %s)\n", args[0], testkit.SampleNamespace)
			return nil
		},
	}
}
