package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ragd/internal/engine"
	"ragd/internal/httpapi"
	"ragd/internal/version"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := version.Lookup()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Value)
			if !verbose {
				return nil
			}
			if res.Err != nil {
				fmt.Fprintf(out, "metadata: %v\n", res.Err)
			}
			fmt.Fprintf(out, "llama: %t\n", engine.LlamaSupported())
			fmt.Fprintf(out, "swagger: %t\n", httpapi.SwaggerEnabled())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print build capabilities and metadata errors")
	return cmd
}
