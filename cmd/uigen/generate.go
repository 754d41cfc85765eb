package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newGenerateCmd() *cobra.Command {
	var print bool

	cmd := &cobra.Command{
		Use:   "generate [doctype]",
		Short: "Generate the frontend modules for a doctype without writing them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, store, _, err := newPipeline()
			if err != nil {
				return err
			}
			docType, err := resolveDocType(args, store)
			if err != nil {
				return err
			}

			files, err := orch.GenerateFiles(cmd.Context(), docType, viper.GetString("preset"))
			if err != nil {
				return err
			}
			for _, file := range files {
				if print {
					fmt.Fprintf(cmd.OutOrStdout(), "// ---- %s ----\n%s\n", file.Path, file.Contents)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", file.Path, len(file.Contents))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&print, "print", false, "print file contents instead of a summary")
	return cmd
}
