package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# header\n<a> <b> \"c\" .\n<d> <e> \"f\" .\n"

func readAll(t *testing.T, src LineSource) []string {
	t.Helper()
	var out []string
	for src.Next() {
		out = append(out, src.Line())
	}
	require.NoError(t, src.Err())
	require.NoError(t, src.Close())
	return out
}

func TestOpenLinesBzip2Concatenated(t *testing.T) {
	src, err := OpenLines(filepath.Join("testdata", "abstracts.ttl.bz2"))
	require.NoError(t, err)
	lines := readAll(t, src)
	require.Len(t, lines, 4)
	assert.Equal(t, "# started 2013-01-01", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "<http://dbpedia.org/resource/Beta>"))
	assert.Equal(t, "# completed", lines[3])
}

func TestOpenLinesGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ttl.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(fh)
	_, err = gz.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, fh.Close())

	src, err := OpenLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"# header", `<a> <b> "c" .`, `<d> <e> "f" .`}, readAll(t, src))
}

func TestOpenLinesZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ttl.zst")
	fh, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(fh)
	require.NoError(t, err)
	_, err = zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, fh.Close())

	src, err := OpenLines(path)
	require.NoError(t, err)
	assert.Len(t, readAll(t, src), 3)
}

func TestOpenLinesPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ttl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	src, err := OpenLines(path)
	require.NoError(t, err)
	assert.Len(t, readAll(t, src), 3)
}

func TestOpenLinesMissing(t *testing.T) {
	_, err := OpenLines(filepath.Join(t.TempDir(), "nope.ttl.bz2"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenLinesCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ttl.bz2")
	require.NoError(t, os.WriteFile(path, []byte("definitely not bzip2"), 0644))
	src, err := OpenLines(path)
	require.NoError(t, err)
	for src.Next() {
	}
	assert.Error(t, src.Err())
	assert.NoError(t, src.Close())
}

func TestNewLineSource(t *testing.T) {
	src := NewLineSource(strings.NewReader("one\ntwo"))
	assert.Equal(t, []string{"one", "two"}, readAll(t, src))
}

func TestUUID(t *testing.T) {
	a, b := UUID(), UUID()
	assert.Len(t, a, 27)
	assert.NotEqual(t, a, b)
}
