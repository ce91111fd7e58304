// Package front drives the whole front end over one source text:
// scanning, batch parsing, module assembly and type inference.
package front

import (
	"fmt"
	"strings"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/infer"
	"github.com/vesper-lang/vesper/internal/module"
	"github.com/vesper-lang/vesper/internal/parser"
	"github.com/vesper-lang/vesper/internal/scanner"
)

// Check runs the pipeline over source. On a type error the assembled
// module is still returned so callers can inspect what was built; any
// earlier failure returns a nil module.
func Check(source string) (*module.Module, error) {
	toks, err := scanner.Scan(source)
	if err != nil {
		return nil, err
	}
	nodes, err := parser.ParseAll(toks)
	if err != nil {
		return nil, err
	}
	m, err := module.Assemble(nodes)
	if err != nil {
		return nil, err
	}
	if err := infer.Check(m); err != nil {
		return m, err
	}
	return m, nil
}

// Summary renders the inferred signature of every function of a checked
// module, in declaration order.
func Summary(m *module.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Name)
	for _, fn := range m.Functions {
		exported := ""
		if m.Exports.Contains(ast.FunRef{Name: fn.Name, Arity: fn.Arity()}) {
			exported = " (exported)"
		}
		if t := fn.Type(); t != nil {
			fmt.Fprintf(&b, "  %s/%d : %s%s\n", fn.Name, fn.Arity(), t, exported)
		}
	}
	if n := len(m.Tests); n > 0 {
		fmt.Fprintf(&b, "  %d test(s)\n", n)
	}
	return b.String()
}
