package ttl

import (
	"fmt"
	"strings"
)

// Term is a predicate or object value. Valid is false when the line
// did not carry the term at all, which is different from an empty value.
type Term struct {
	Value string
	Valid bool
}

// Triple is the subject/predicate/object record of a single dump line
type Triple struct {
	Subject   string
	Predicate Term
	Object    Term
}

// String renders the triple back into line form. Missing terms are dropped.
func (t Triple) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s>", t.Subject)
	if t.Predicate.Valid {
		fmt.Fprintf(&b, " <%s>", t.Predicate.Value)
	}
	if t.Object.Valid {
		// the value keeps the dump's own escapes, so it is written back verbatim
		b.WriteString(` "` + t.Object.Value + `"`)
	}
	return b.String()
}
