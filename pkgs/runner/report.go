package runner

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abiosoft/lineprefix"
)

// writeReport prints a human readable summary of a finished command:
//
//	<description>:
//	--------------
//		Command: <args>
//		Result: Succeeded
//		Output:
//		<stdout lines>
func writeReport(w io.Writer, c Command, res Result) {
	if w == nil {
		return
	}
	title := c.Description
	if title == "" {
		title = c.Args[0]
	}
	fmt.Fprintf(w, "\n%s:\n%s\n", title, strings.Repeat("-", len(title)+1))
	fmt.Fprintf(w, "\tCommand: %s\n", c)
	if res.Success {
		fmt.Fprintf(w, "\tResult: Succeeded\n")
	} else {
		fmt.Fprintf(w, "\tResult: Failed (exit code %d)\n", res.ExitCode)
	}
	writeOutput(w, "Output", res.Stdout)
	writeOutput(w, "Error", res.Stderr)
}

func writeOutput(w io.Writer, label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintf(w, "\t%s:\n", label)
	indented := lineprefix.New(
		lineprefix.Writer(w),
		lineprefix.PrefixFunc(func() string { return "\t\t" }),
	)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	io.WriteString(indented, text)
}

func quote(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t\n\"'\\$") {
		return strconv.Quote(arg)
	}
	return arg
}
