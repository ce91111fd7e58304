package diag

import (
	"fmt"
	"strings"
)

// Format renders a diagnostic for terminal output.
//
//	error[TYPE_MISMATCH]: line 4: cannot unify int with float
//	  note: operands of '+' must both be int
func Format(d *Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]: ", d.Severity, d.Code)
	if d.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", d.Line)
	}
	b.WriteString(d.Message)
	for _, note := range d.Notes {
		b.WriteString("\n  note: ")
		b.WriteString(note)
	}
	return b.String()
}
