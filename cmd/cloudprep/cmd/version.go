package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudprep/cloudprep/internal/constants"
	"github.com/cloudprep/cloudprep/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the CLI",
	Run: func(cmd *cobra.Command, args []string) {
		output.Header("☁ " + constants.ProjectName)
		output.KeyValue("CLI version", *constants.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
