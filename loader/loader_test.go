package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmeg/dbpedia-loader/batch"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/bmeg/dbpedia-loader/ttl"
	"github.com/bmeg/dbpedia-loader/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in memory LineSource that records Close
type memSource struct {
	lines  []string
	pos    int
	err    error
	closed int
}

func newMemSource(lines ...string) *memSource {
	return &memSource{lines: lines, pos: -1}
}

func (m *memSource) Next() bool {
	if m.pos+1 >= len(m.lines) {
		return false
	}
	m.pos++
	return true
}

func (m *memSource) Line() string { return m.lines[m.pos] }
func (m *memSource) Err() error   { return m.err }
func (m *memSource) Close() error {
	m.closed++
	return nil
}

type memSink struct {
	batches [][]*document.Document
	fail    error
}

func (m *memSink) UpdateDocuments(ctx context.Context, index string, docs []*document.Document) error {
	if m.fail != nil {
		return m.fail
	}
	m.batches = append(m.batches, docs)
	return nil
}

func (m *memSink) Close() error { return nil }

func (m *memSink) docs() []*document.Document {
	var out []*document.Document
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func abstract(name, text string) string {
	return fmt.Sprintf(`<http://dbpedia.org/resource/%s> <http://www.w3.org/2000/01/rdf-schema#comment> "%s"@en .`, name, text)
}

func TestLoadSkipsComments(t *testing.T) {
	src := newMemSource("# started", abstract("A", "a"), "#", abstract("B", "b"))
	var got []string
	n, err := Load(src, 0, func(tr ttl.Triple) error {
		got = append(got, tr.Subject)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"http://dbpedia.org/resource/A", "http://dbpedia.org/resource/B"}, got)
	assert.Equal(t, 1, src.closed)
}

func TestLoadLimit(t *testing.T) {
	src := newMemSource("# c", abstract("A", "a"), abstract("B", "b"), abstract("C", "c"))
	calls := 0
	n, err := Load(src, 2, func(ttl.Triple) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, src.closed)
}

func TestLoadCallbackError(t *testing.T) {
	boom := errors.New("boom")
	src := newMemSource(abstract("A", "a"), abstract("B", "b"))
	n, err := Load(src, 0, func(ttl.Triple) error { return boom })
	assert.Equal(t, boom, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, src.closed, "source released on callback failure")
}

func TestLoadMalformed(t *testing.T) {
	src := newMemSource(abstract("A", "a"), "garbage")
	n, err := Load(src, 0, func(ttl.Triple) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ttl.ErrMalformedLine))
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, src.closed)
}

func TestLoadReadError(t *testing.T) {
	src := newMemSource(abstract("A", "a"))
	src.err = io.ErrUnexpectedEOF
	_, err := Load(src, 0, func(ttl.Triple) error { return nil })
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, 1, src.closed)
}

func TestRunEndToEndAbortsWithoutFlush(t *testing.T) {
	src := newMemSource(
		"# comment",
		abstract("Foo_Bar", "hello"),
		`no subject here "x"`,
	)
	sink := &memSink{}
	res, err := Run(context.Background(), src, Options{
		Index:      "abstracts",
		Language:   document.English,
		BufferSize: 10,
		Sink:       sink,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ttl.ErrMalformedLine))
	assert.Equal(t, 1, res.Documents)
	assert.Equal(t, 1, res.Lines)
	assert.Empty(t, sink.batches, "no flush before the abort")
	assert.Equal(t, 1, src.closed)
}

func TestRunFlushesBatchesAndTail(t *testing.T) {
	lines := []string{"# header"}
	for i := 0; i < 7; i++ {
		lines = append(lines, abstract(fmt.Sprintf("Doc_%d", i), fmt.Sprintf("text %d", i)))
	}
	lines = append(lines, `<http://dbpedia.org/resource/Empty> <http://www.w3.org/2000/01/rdf-schema#comment> ""@en .`)
	lines = append(lines, `<http://dbpedia.org/resource/NoObject> <http://www.w3.org/2000/01/rdf-schema#comment>`)

	sink := &memSink{}
	res, err := Run(context.Background(), newMemSource(lines...), Options{
		Index:      "abstracts",
		Language:   document.English,
		BufferSize: 3,
		Sink:       sink,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, res.Lines)
	assert.Equal(t, 7, res.Documents)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, sink.batches, 3)
	assert.Len(t, sink.batches[0], 3)
	assert.Len(t, sink.batches[1], 3)
	assert.Len(t, sink.batches[2], 1)
	assert.Equal(t, 3, res.Batch.Flushes)
	assert.Equal(t, 7, res.Batch.Flushed)

	docs := sink.docs()
	assert.Equal(t, "https://en.wikipedia.org/wiki/Doc_0", docs[0].ID())
	title, _ := docs[6].Get(document.FieldTitle)
	assert.Equal(t, "Doc 6 - Wikipedia", title)
}

func TestRunSinkFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	sink := &memSink{fail: errors.New("503 service unavailable")}
	src := newMemSource(abstract("A", "a"), abstract("B", "b"), abstract("C", "c"))
	res, err := Run(context.Background(), src, Options{
		Index:      "abstracts",
		Language:   document.English,
		BufferSize: 2,
		Sink:       sink,
	})
	var fe *batch.FlushError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Count)
	assert.Equal(t, 1, res.Lines, "line that triggered the failed flush is not counted")
	assert.Equal(t, 1, src.closed)
	assert.Contains(t, buf.String(), "batch of 2 documents rejected after 1 lines: 503 service unavailable")
}

func TestRunCompressedFile(t *testing.T) {
	src, err := util.OpenLines(filepath.Join("..", "util", "testdata", "abstracts.ttl.bz2"))
	require.NoError(t, err)
	sink := &memSink{}
	res, err := Run(context.Background(), src, Options{
		Index:    "abstracts",
		Language: document.English,
		Sink:     sink,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Documents)
	docs := sink.docs()
	require.Len(t, docs, 2)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Beta", docs[1].ID())
	content, _ := docs[0].Get(document.FieldContent)
	assert.Equal(t, "Alpha is first.", content)
}

func TestRunPlainReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abstracts.ttl")
	body := strings.Join([]string{abstract("A", "a"), abstract("B", "b")}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	fh, err := os.Open(path)
	require.NoError(t, err)

	sink := &memSink{}
	res, err := Run(context.Background(), util.NewLineSource(fh), Options{
		Index:    "abstracts",
		Language: document.English,
		Limit:    1,
		Sink:     sink,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Lines)
	assert.Len(t, sink.docs(), 1)
}
