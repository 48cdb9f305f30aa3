package internal

import (
	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	buildTest  bool
	buildClean bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every codebase of the project",
	Long: `Build compiles every codebase listed in the project manifest, in order.
Libraries are attached to the codebases that depend on them. A summary of
the produced artifacts is printed at the end.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildTest, "test", false, "Run executables marked with test after building them")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove build directories when done")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	unlock, err := lockProject(m)
	if err != nil {
		return err
	}
	defer unlock()

	b := newBuilder(m, runner.New(runner.WithReport(cmd.OutOrStdout())))
	if buildClean {
		defer func() {
			if err := b.clean(); err != nil {
				log.Warnf("clean: %v", err)
			}
		}()
	}

	results, err := b.build(cmd.Context(), "", buildTest)
	printSummary(cmd.OutOrStdout(), results)
	return err
}
