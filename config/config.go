package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/bmeg/dbpedia-loader/batch"
	"github.com/bmeg/dbpedia-loader/blevedb"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/elastic"
	"github.com/bmeg/dbpedia-loader/esv7"
	"github.com/bmeg/dbpedia-loader/fetch"
	"github.com/bmeg/dbpedia-loader/kafka"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/bmeg/dbpedia-loader/opensearch"
	multierror "github.com/hashicorp/go-multierror"
	"sigs.k8s.io/yaml"
)

// Driver names accepted by UseDriver and the --driver flag
const (
	Elastic       = "elastic"
	Elasticsearch = "esv7"
	OpenSearch    = "opensearch"
	Bleve         = "bleve"
	Kafka         = "kafka"
)

// DriverConfig selects the document sink. Exactly one field may be set.
type DriverConfig struct {
	Elastic       *elastic.Config
	Elasticsearch *esv7.Config
	OpenSearch    *opensearch.Config
	Bleve         *blevedb.Config
	Kafka         *kafka.Config
}

// SourceConfig locates the triple dump
type SourceConfig struct {
	URL  string
	Path string
}

// Config describes a load run
type Config struct {
	Source     SourceConfig
	S3         fetch.S3Config
	Index      string
	Language   string
	BufferSize int
	Limit      int
	Driver     DriverConfig
	Logger     log.Logger
}

// DefaultConfig returns an instance of the default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Source.URL = fetch.DefaultURL
	c.Source.Path = fetch.DefaultPath
	c.Language = document.English.Code
	c.BufferSize = batch.DefaultSize
	c.Logger = log.DefaultLoggerConfig()
	return c
}

// Names returns the names of the configured drivers
func (d DriverConfig) Names() []string {
	out := []string{}
	if d.Elastic != nil {
		out = append(out, Elastic)
	}
	if d.Elasticsearch != nil {
		out = append(out, Elasticsearch)
	}
	if d.OpenSearch != nil {
		out = append(out, OpenSearch)
	}
	if d.Bleve != nil {
		out = append(out, Bleve)
	}
	if d.Kafka != nil {
		out = append(out, Kafka)
	}
	return out
}

// UseDriver makes name the only configured driver. Settings already present
// for name are kept.
func (c *Config) UseDriver(name string) error {
	d := DriverConfig{}
	switch strings.ToLower(name) {
	case Elastic:
		d.Elastic = c.Driver.Elastic
		if d.Elastic == nil {
			d.Elastic = &elastic.Config{}
		}
	case Elasticsearch:
		d.Elasticsearch = c.Driver.Elasticsearch
		if d.Elasticsearch == nil {
			d.Elasticsearch = &esv7.Config{}
		}
	case OpenSearch:
		d.OpenSearch = c.Driver.OpenSearch
		if d.OpenSearch == nil {
			d.OpenSearch = &opensearch.Config{}
		}
	case Bleve:
		d.Bleve = c.Driver.Bleve
		if d.Bleve == nil {
			d.Bleve = &blevedb.Config{}
		}
	case Kafka:
		d.Kafka = c.Driver.Kafka
		if d.Kafka == nil {
			d.Kafka = &kafka.Config{}
		}
	default:
		return fmt.Errorf("unknown driver: %s", name)
	}
	c.Driver = d
	return nil
}

// SetServer points the configured driver at server, with optional
// credentials. For bleve server is the index path, for kafka a comma
// separated broker list.
func (c *Config) SetServer(server, login, key string) {
	d := c.Driver
	if d.Elastic != nil {
		if server != "" {
			d.Elastic.URL = server
		}
		if login != "" {
			d.Elastic.Username, d.Elastic.Password = login, key
		}
	}
	if d.Elasticsearch != nil {
		if server != "" {
			d.Elasticsearch.Addresses = []string{server}
		}
		if login != "" {
			d.Elasticsearch.Username, d.Elasticsearch.Password = login, key
		}
	}
	if d.OpenSearch != nil {
		if server != "" {
			d.OpenSearch.Address = server
		}
		if login != "" {
			d.OpenSearch.Username, d.OpenSearch.Password = login, key
		}
	}
	if d.Bleve != nil && server != "" {
		d.Bleve.Path = server
	}
	if d.Kafka != nil && server != "" {
		d.Kafka.Brokers = strings.Split(server, ",")
	}
}

// SetDefaults fills in driver values left unset
func (c *Config) SetDefaults() {
	if len(c.Driver.Names()) == 0 {
		c.UseDriver(Elastic)
	}
	if c.Driver.Elastic != nil {
		c.Driver.Elastic.SetDefaults()
	}
	if c.Driver.Elasticsearch != nil && len(c.Driver.Elasticsearch.Addresses) == 0 {
		c.Driver.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	}
}

// Validate returns every problem found in the configuration
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Index == "" {
		errs = multierror.Append(errs, fmt.Errorf("index name is required"))
	}
	if _, err := document.FindLanguage(c.Language); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.BufferSize < 1 {
		errs = multierror.Append(errs, fmt.Errorf("buffer size must be positive, got %d", c.BufferSize))
	}
	if c.Limit < 0 {
		errs = multierror.Append(errs, fmt.Errorf("limit must not be negative, got %d", c.Limit))
	}
	if c.Source.Path == "" {
		errs = multierror.Append(errs, fmt.Errorf("source path is required"))
	}
	if names := c.Driver.Names(); len(names) != 1 {
		errs = multierror.Append(errs, fmt.Errorf("exactly one driver must be configured, found %v", names))
	}
	return errs.ErrorOrNil()
}

// ParseConfig parses a YAML doc into the given Config instance.
func ParseConfig(raw []byte, conf *Config) error {
	return yaml.UnmarshalStrict(raw, conf)
}

// ParseConfigFile parses a config file, which is formatted in YAML,
// and returns a Config struct.
func ParseConfigFile(relpath string, conf *Config) error {
	if relpath == "" {
		return fmt.Errorf("config path is empty")
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, err := filepath.Abs(relpath)
	if err != nil {
		path = relpath
	}

	source, err := ioutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: \n%v", path, err)
	}

	err = ParseConfig(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: \n%v", path, err)
	}
	return nil
}
