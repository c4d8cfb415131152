package elastic

import (
	"time"

	"github.com/bmeg/dbpedia-loader/util"
)

// Config describes the configuration for the elasticsearch driver.
type Config struct {
	URL      string
	Username string
	Password string
	// DocType is the mapping type documents are indexed under
	DocType string
	// Refresh makes every bulk request refresh the index before returning
	Refresh bool
	// Timeout bounds each request, 10m when unset
	Timeout util.Duration
}

// SetDefaults fills in unset values
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.DocType == "" {
		c.DocType = "doc"
	}
	if c.Timeout <= 0 {
		c.Timeout = util.Duration(10 * time.Minute)
	}
}
