package ttl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedLine is matched by every MalformedLineError
var ErrMalformedLine = errors.New("malformed line")

// MalformedLineError is returned by Parse when no subject can be found
type MalformedLineError struct {
	Line string
}

func (e *MalformedLineError) Error() string {
	line := e.Line
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return fmt.Sprintf("%s: no <subject> in %q", ErrMalformedLine, line)
}

// Is reports ErrMalformedLine as the target
func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// Parse extracts the <subject> <predicate> "object" terms of a dump line.
//
// A missing subject fails the whole line. A missing predicate or object is
// not an error: the term, and every term after it, is left invalid.
// A delimiter directly preceded by a backslash does not close a term.
func Parse(line string) (Triple, error) {
	subject, ok, cursor := scan(line, 0, '<', '>')
	if !ok {
		return Triple{}, &MalformedLineError{Line: line}
	}
	t := Triple{Subject: subject}

	predicate, ok, cursor := scan(line, cursor, '<', '>')
	if !ok {
		return t, nil
	}
	t.Predicate = Term{Value: predicate, Valid: true}

	object, ok, _ := scan(line, cursor, '"', '"')
	if ok {
		t.Object = Term{Value: object, Valid: true}
	}
	return t, nil
}

// scan finds the next open..close span at or after cursor and returns the
// text between the delimiters and the cursor just past the closing one.
func scan(line string, cursor int, open, close byte) (string, bool, int) {
	if cursor > len(line) {
		return "", false, cursor
	}
	i := strings.IndexByte(line[cursor:], open)
	if i < 0 {
		return "", false, cursor
	}
	start := cursor + i + 1
	end, ok := terminator(line, start, close)
	if !ok {
		return "", false, start
	}
	return line[start:end], true, end + 1
}

// terminator returns the index of the first close byte at or after from
// that is not preceded by a backslash. from is always past an opening
// delimiter, so line[end-1] is in range.
func terminator(line string, from int, close byte) (int, bool) {
	for from <= len(line) {
		i := strings.IndexByte(line[from:], close)
		if i < 0 {
			return 0, false
		}
		end := from + i
		if line[end-1] != '\\' {
			return end, true
		}
		from = end + 1
	}
	return 0, false
}
