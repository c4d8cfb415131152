package load

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmeg/dbpedia-loader/blevedb"
	"github.com/bmeg/dbpedia-loader/config"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `# started 2013-01-01
<http://dbpedia.org/resource/Aardvark> <http://www.w3.org/2000/01/rdf-schema#comment> "The aardvark is a burrowing mammal."@en .
<http://dbpedia.org/resource/Mole> <http://www.w3.org/2000/01/rdf-schema#comment> "The mole is a small burrowing mammal."@en .
<http://dbpedia.org/resource/Empty> <http://www.w3.org/2000/01/rdf-schema#comment> .
# completed
`

func TestRunBleve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abstracts.ttl")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0644))
	indexPath := filepath.Join(dir, "abstracts.bleve")

	c := config.DefaultConfig()
	c.Index = "abstracts"
	c.Source.Path = path
	c.BufferSize = 1
	c.Driver.Bleve = &blevedb.Config{Path: indexPath}
	require.NoError(t, c.Validate())

	noFetch = true
	defer func() { noFetch = false }()
	require.NoError(t, run(context.Background(), c))

	idx, err := blevedb.NewSink(blevedb.Config{Path: indexPath})
	require.NoError(t, err)
	defer idx.Close()
	n, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
}

func TestRunMissingDump(t *testing.T) {
	c := config.DefaultConfig()
	c.Index = "abstracts"
	c.Source.Path = filepath.Join(t.TempDir(), "missing.ttl.bz2")
	c.Driver.Bleve = &blevedb.Config{}

	noFetch = true
	defer func() { noFetch = false }()
	assert.Error(t, run(context.Background(), c))
}

func TestRunMalformedDumpLogsAbort(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "abstracts.ttl")
	require.NoError(t, os.WriteFile(path, []byte("garbage without a subject\n"), 0644))
	c := config.DefaultConfig()
	c.Index = "abstracts"
	c.Source.Path = path
	c.Driver.Bleve = &blevedb.Config{}

	noFetch = true
	defer func() { noFetch = false }()
	err := run(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "GitCommit")
	assert.Contains(t, buf.String(), "load aborted: line 1")
}

func TestLanguageCodes(t *testing.T) {
	codes := languageCodes()
	assert.Contains(t, codes, "en, ")
	assert.Contains(t, codes, "fr")
	assert.Contains(t, Cmd.Flags().Lookup("language").Usage, codes)
}
