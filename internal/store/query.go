package store

import (
	"strings"

	"github.com/roach88/proof/internal/ir"
)

// compileLookup turns a quad pattern into parameterized SQL.
//
// Zero positions are wildcards. Every query carries ORDER BY id ASC so
// occurrences always come back in insertion order. Values are always
// parameterized, never interpolated.
func compileLookup(pattern ir.Quad, opts LookupOptions) (string, []any) {
	var (
		where  []string
		params []any
	)

	bind := func(column string, id ir.ID) {
		if id == ir.NoContext {
			return
		}
		where = append(where, column+" = ?")
		params = append(params, int64(id))
	}

	bind("subject", pattern.Subject)
	bind("predicate", pattern.Predicate)
	bind("object", pattern.Object)
	if !opts.AllContexts {
		bind("context", pattern.Context)
	}

	if opts.ExcludeMask != 0 {
		where = append(where, "(status & ?) = 0")
		params = append(params, int64(opts.ExcludeMask))
	}

	var b strings.Builder
	b.WriteString("SELECT subject, predicate, object, context, status FROM statements")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id ASC")

	return b.String(), params
}
