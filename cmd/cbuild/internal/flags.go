package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/goplus/cbuild/pkgs/flags"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type axisKey struct {
	key  string
	axis flags.Axis
}

// manifestAxes maps manifest keys to the axes they select names on.
var manifestAxes = []axisKey{
	{"build_configuration", flags.AxisBuildConfiguration},
	{"language_standard", flags.AxisLanguageStandard},
	{"warnings", flags.AxisWarning},
	{"miscellaneous", flags.AxisMiscellaneous},
}

var flagsCmd = &cobra.Command{
	Use:   "flags [key]",
	Short: "List the recognized setting names",
	Long: `Flags lists the names accepted for build_configuration,
language_standard, warnings and miscellaneous in a manifest.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: lo.Map(manifestAxes, func(a axisKey, _ int) string { return a.key }),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := cmd.ValidArgs
		if len(args) == 1 {
			if !lo.Contains(keys, args[0]) {
				return fmt.Errorf("unknown setting %q, want one of: %s", args[0], strings.Join(keys, ", "))
			}
			keys = args
		}
		printNames(cmd.OutOrStdout(), keys)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flagsCmd)
}

func printNames(w io.Writer, keys []string) {
	for _, a := range manifestAxes {
		if !lo.Contains(keys, a.key) {
			continue
		}
		fmt.Fprintf(w, "%s (%s):\n", a.key, a.axis)
		for _, name := range flags.Names(a.axis) {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}
