package internal

import (
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	manifestFile string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "cbuild",
	Short: "cbuild builds C and C++ codebases",
	Long: `cbuild compiles C and C++ codebases into executables and libraries.

Codebases are listed in build order in a project manifest (cbuild.yaml,
cbuild.yml or cbuild.toml). Libraries built earlier are linked into the
codebases that list them as deps.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestFile, "file", "f", "", "Project manifest (default: search the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the command line and exits the process if it fails.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
