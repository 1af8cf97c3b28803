package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpyconv/mpyconv/formatter"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the translation rules with their state and texts",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := loadTranslator()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRules(tr.Library().All()))
		return nil
	},
}
