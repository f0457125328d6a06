package zipfile

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureFile struct {
	name   string
	data   string
	method uint16
}

func testArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range []fixtureFile{
		{name: "docs/plan.txt", data: "the plan, the plan, the plan", method: zip.Deflate},
		{name: "docs/notes.txt", data: "some notes", method: zip.Store},
		{name: "data.bin", data: "\x00\x01\x02\x03", method: zip.Store},
	} {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: f.name, Method: f.method})
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractFiles(t *testing.T) {
	x, err := NewFileExtractor(testArchive(t))
	require.NoError(t, err)

	records, err := x.ExtractFiles([]string{"plan.txt", "data.bin"})
	require.NoError(t, err)
	require.Len(t, records.FileMap, 2)

	plans := records.FileMap["plan.txt"]
	require.Len(t, plans, 1)
	assert.Equal(t, "docs/plan.txt", plans[0].Name)
	assert.Equal(t, "the plan, the plan, the plan", plans[0].Contents.String())

	bins := records.FileMap["data.bin"]
	require.Len(t, bins, 1)
	assert.Equal(t, "\x00\x01\x02\x03", bins[0].Contents.String())
}

func TestExtractFiles_DirectoryTerm(t *testing.T) {
	x, err := NewFileExtractor(testArchive(t))
	require.NoError(t, err)

	records, err := x.ExtractFiles([]string{"docs/"})
	require.NoError(t, err)

	files := records.FileMap["docs/"]
	require.Len(t, files, 2)
	assert.Equal(t, "docs/plan.txt", files[0].Name)
	assert.Equal(t, "docs/notes.txt", files[1].Name)
}

func TestExtractFiles_NoMatches(t *testing.T) {
	x, err := NewFileExtractor(testArchive(t))
	require.NoError(t, err)

	records, err := x.ExtractFiles([]string{"nope"})
	require.NoError(t, err)
	assert.Empty(t, records.FileMap)
}

func TestExtractFiles_UnsupportedMethod(t *testing.T) {
	buf := testArchive(t)

	// rewrite the first central directory entry's method to something exotic
	eocd := bytes.LastIndex(buf, []byte{0x50, 0x4b, 0x05, 0x06})
	require.GreaterOrEqual(t, eocd, 0)
	cd := int(binary.LittleEndian.Uint32(buf[eocd+16:]))
	binary.LittleEndian.PutUint16(buf[cd+0x0a:], 0x63)

	x, err := NewFileExtractor(buf)
	require.NoError(t, err)

	_, err = x.ExtractFiles([]string{"plan.txt"})
	assert.ErrorIs(t, err, ErrAlgorithm)
}

func TestNewFileExtractor_BadArchive(t *testing.T) {
	_, err := NewFileExtractor([]byte("definitely not a zip archive"))
	assert.Error(t, err)
}
