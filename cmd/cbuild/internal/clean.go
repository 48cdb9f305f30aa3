package internal

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build directory of every codebase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest()
		if err != nil {
			return err
		}
		unlock, err := lockProject(m)
		if err != nil {
			return err
		}
		defer unlock()
		return cleanAll(m)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
