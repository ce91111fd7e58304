package main

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/front"
	"github.com/vesper-lang/vesper/internal/parser"
	"github.com/vesper-lang/vesper/internal/scanner"
)

const replModule = "repl"

// runRepl hosts an interactive session backed by a synthetic module.
// Definitions accumulate; expressions are probed for their type against
// everything defined so far.
func runRepl() {
	l := liner.NewLiner()
	defer l.Close()
	l.SetCtrlCAborts(true)

	fmt.Println("Vesper session. Definitions accumulate; expressions report their type.")
	fmt.Println("Commands: :list  :reset  :quit")

	var forms []string
	for {
		line, err := l.Prompt("vesper> ")
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l.AppendHistory(line)

		switch line {
		case ":quit", ":q":
			return
		case ":reset":
			forms = nil
			continue
		case ":list":
			for _, f := range forms {
				fmt.Println(f)
			}
			continue
		}

		if definition(line) {
			forms = replDefine(forms, line)
		} else {
			replProbe(forms, line)
		}
	}
}

// definition reports whether the input parses as a top-level form
// rather than a bare expression.
func definition(line string) bool {
	toks, err := scanner.Scan(line)
	if err != nil {
		return false
	}
	nodes, err := parser.ParseAll(toks)
	if err != nil || len(nodes) != 1 {
		return false
	}
	switch nodes[0].(type) {
	case *ast.ModuleDecl, *ast.ExportDecl, *ast.TypeDecl, *ast.TestDecl, *ast.FunDecl:
		return true
	}
	return false
}

// replDefine appends a definition to the session if the grown module
// still checks, and reports what was added.
func replDefine(forms []string, line string) []string {
	grown := append(append([]string{}, forms...), line)
	m, err := front.Check(replSource(grown))
	if err != nil {
		fmt.Println(render(err))
		return forms
	}

	toks, _ := scanner.Scan(line)
	nodes, _ := parser.ParseAll(toks)
	switch n := nodes[0].(type) {
	case *ast.FunDecl:
		if fn := m.Function(n.Name, n.Arity()); fn != nil && fn.Type() != nil {
			fmt.Printf("%s/%d : %s\n", fn.Name, fn.Arity(), fn.Type())
		}
	case *ast.TypeDecl:
		fmt.Printf("type %s defined\n", n.Name)
	case *ast.TestDecl:
		fmt.Printf("test %q checked\n", n.Label)
	}
	return grown
}

// replProbe wraps an expression in a throwaway test so the whole
// pipeline types it in the context of the session's definitions.
func replProbe(forms []string, line string) {
	probe := append(append([]string{}, forms...), "test \"it\" = "+line)
	m, err := front.Check(replSource(probe))
	if err != nil {
		fmt.Println(render(err))
		return
	}
	last := m.Tests[len(m.Tests)-1]
	if t := last.Expr.Type(); t != nil {
		fmt.Printf("it : %s\n", t)
	}
}

func replSource(forms []string) string {
	return "module " + replModule + "\n\n" + strings.Join(forms, "\n\n") + "\n"
}
