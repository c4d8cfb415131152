package loader

import (
	"fmt"
	"strings"

	"github.com/bmeg/dbpedia-loader/ttl"
	"github.com/bmeg/dbpedia-loader/util"
)

// Handler consumes one parsed line. A returned error stops the load.
type Handler func(ttl.Triple) error

// Load parses every non comment line of src and passes it to fn, stopping
// after limit lines when limit > 0. It returns the number of lines handed
// to fn. src is closed before Load returns.
func Load(src util.LineSource, limit int, fn Handler) (count int, err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing source: %w", cerr)
		}
	}()

	lineNum := 0
	for src.Next() {
		lineNum++
		line := src.Line()
		if strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ttl.Parse(line)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := fn(t); err != nil {
			return count, err
		}
		count++
		if limit > 0 && count >= limit {
			return count, nil
		}
	}
	if err := src.Err(); err != nil {
		return count, err
	}
	return count, nil
}
