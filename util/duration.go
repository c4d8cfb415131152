package util

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that reads from config as "10m" style text
// or as a number of nanoseconds.
type Duration time.Duration

// MarshalJSON writes the duration as text
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "90s" or a nanosecond count
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
	default:
		return fmt.Errorf("invalid duration: %s", b)
	}
	return nil
}

// String returns the duration in time.Duration form
func (d Duration) String() string {
	return time.Duration(d).String()
}
