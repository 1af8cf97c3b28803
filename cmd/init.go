package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/translate"
)

// initCmd: mpyconv init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new translator configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile)
		if err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}

func initConfigurationFile(configurationPath string) (string, error) {
	if configurationPath == "" {
		configurationPath = translate.DefaultConfigFile
	}
	if err := translate.WriteConfig(configurationPath, translate.DefaultConfig()); err != nil {
		return "", err
	}
	return configurationPath, nil
}
