package sink

import (
	"fmt"

	"github.com/bmeg/dbpedia-loader/batch"
	"github.com/bmeg/dbpedia-loader/blevedb"
	"github.com/bmeg/dbpedia-loader/config"
	"github.com/bmeg/dbpedia-loader/elastic"
	"github.com/bmeg/dbpedia-loader/esv7"
	"github.com/bmeg/dbpedia-loader/kafka"
	"github.com/bmeg/dbpedia-loader/opensearch"
)

// New opens the document sink described by conf
func New(conf config.DriverConfig) (batch.DocumentSink, error) {
	if n := conf.Names(); len(n) != 1 {
		return nil, fmt.Errorf("exactly one driver must be configured, found %v", n)
	}
	var (
		out batch.DocumentSink
		err error
	)
	switch {
	case conf.Elastic != nil:
		var s *elastic.Sink
		s, err = elastic.NewSink(*conf.Elastic)
		out = s
	case conf.Elasticsearch != nil:
		var s *esv7.Sink
		s, err = esv7.NewSink(*conf.Elasticsearch)
		out = s
	case conf.OpenSearch != nil:
		var s *opensearch.Sink
		s, err = opensearch.NewSink(*conf.OpenSearch)
		out = s
	case conf.Bleve != nil:
		var s *blevedb.Sink
		s, err = blevedb.NewSink(*conf.Bleve)
		out = s
	case conf.Kafka != nil:
		var s *kafka.Sink
		s, err = kafka.NewSink(*conf.Kafka)
		out = s
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
