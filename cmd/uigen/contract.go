package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newContractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract [doctype]",
		Short: "Build a doctype's UI contract and print it as JSON",
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

			uic, err := orch.BuildContract(cmd.Context(), docType, viper.GetString("preset"))
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(uic, "", "  ")
			if err != nil {
				return fmt.Errorf("encode contract: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
