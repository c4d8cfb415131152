package util

import (
	"github.com/segmentio/ksuid"
)

// UUID generates a k-sortable globally unique ID.
func UUID() string {
	return ksuid.New().String()
}
