package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/front"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vesperc <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  check <file>...  Type-check Vesper source files\n")
		fmt.Fprintf(os.Stderr, "  watch <file>...  Re-check files whenever they change\n")
		fmt.Fprintf(os.Stderr, "  repl             Interactive type-checking session\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "check":
		runCheck(args)
	case "watch":
		runWatch(args)
	case "repl":
		runRepl()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: vesperc check <file>...\n")
		os.Exit(1)
	}
	failed := false
	for _, path := range args {
		if !checkFile(path) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// checkFile checks one source file and reports the outcome. It returns
// false when the file does not type-check.
func checkFile(path string) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return false
	}
	m, err := front.Check(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, render(err))
		return false
	}
	fmt.Print(front.Summary(m))
	return true
}

func render(err error) string {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return diag.Format(d)
	}
	return err.Error()
}
