package internal

import (
	"fmt"
	"path/filepath"

	"github.com/goplus/cbuild/internal/bundle"
	"github.com/goplus/cbuild/pkgs/runner"
	"github.com/spf13/cobra"
)

var packageOutput string

var packageCmd = &cobra.Command{
	Use:   "package <library>",
	Short: "Build a library and bundle its headers and binary",
	Long: `Package builds the named library codebase, together with the codebases
listed before it, and writes its include and lib trees to the output. The
output is a zip archive, an xz compressed tarball (.tar.xz) or a directory,
depending on its name. The h1: hash of the bundle is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().StringVarP(&packageOutput, "output", "o", "", "Output path (.zip, .tar.xz or directory)")
	packageCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	name := args[0]
	m, err := loadManifest()
	if err != nil {
		return err
	}
	e, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("no codebase %q in %s", name, m.Path)
	}
	if !e.Kind.IsLibrary() {
		return fmt.Errorf("%s is a %s, only libraries can be packaged", name, e.Kind)
	}
	dest, err := filepath.Abs(packageOutput)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	unlock, err := lockProject(m)
	if err != nil {
		return err
	}
	defer unlock()

	b := newBuilder(m, runner.New(runner.WithReport(cmd.ErrOrStderr())))
	results, err := b.build(cmd.Context(), name, false)
	if err != nil {
		return err
	}
	dep := results[len(results)-1].Dep
	if err := bundle.Write(dep, dest); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	sum, err := bundle.Sum(dep)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dest, sum)
	return nil
}
