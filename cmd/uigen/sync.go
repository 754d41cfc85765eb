package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSyncCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "sync [doctype]",
		Short: "Generate the frontend modules for a doctype and write them to disk",
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

			result, err := orch.SyncFiles(cmd.Context(), docType, viper.GetString("preset"), dest)
			if err != nil {
				return err
			}
			if result.Dest == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "generated %d files for %s (%s preset); no destination, nothing written\n",
					len(result.Generated), result.DocType, result.Preset)
				for _, file := range result.Generated {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%d bytes\n", file.Path, len(file.Contents))
				}
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d files for %s (%s preset) to %s\n",
				len(result.Files), result.DocType, result.Preset, result.Dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "destination directory; omit to generate in memory only")
	return cmd
}
