package internal

import (
	"slices"
	"testing"
)

func TestRootCommand(t *testing.T) {
	for _, name := range []string{"file", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("f"); f == nil || f.Name != "file" {
		t.Errorf("-f = %v", f)
	}

	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"build", "clean", "flags", "package"} {
		if !slices.Contains(names, want) {
			t.Errorf("subcommands %q lack %s", names, want)
		}
	}
}
