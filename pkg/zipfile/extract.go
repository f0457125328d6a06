package zipfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alec-rabold/zipindex/pkg/reader"
	"github.com/klauspost/compress/flate"
	log "github.com/sirupsen/logrus"
)

// ErrAlgorithm indicates an invalid/unsupported compression algorithm
var ErrAlgorithm = errors.New("zipfile: unsupported compression algorithm")

// A Decompressor wraps an entry's raw payload with a reader that produces the
// decompressed bytes.
type Decompressor func(r io.Reader) io.ReadCloser

// FileExtractor decompresses selected members of an in-memory zip archive.
type FileExtractor struct {
	archive       *reader.Archive
	decompressors map[uint16]Decompressor
}

// File represents a decompressed, extracted file
type File struct {
	Name     string
	Method   uint16
	Contents bytes.Buffer
}

// Records maps each search term to the files it matched.
type Records struct {
	FileMap map[string][]*File
}

// NewFileExtractor parses the archive held in buf and returns an extractor
// over it. The buffer must stay alive and unmodified while the extractor is
// in use.
func NewFileExtractor(buf []byte) (*FileExtractor, error) {
	a, err := reader.Parse(buf)
	if err != nil {
		return nil, err
	}
	return &FileExtractor{
		archive: a,
		decompressors: map[uint16]Decompressor{
			reader.Store:   io.NopCloser,
			reader.Deflate: flate.NewReader,
		},
	}, nil
}

// Archive exposes the parsed central directory metadata.
func (x *FileExtractor) Archive() *reader.Archive { return x.archive }

// RegisterDecompressor registers or overrides a custom decompressor for a
// specific method ID.
func (x *FileExtractor) RegisterDecompressor(method uint16, dcomp Decompressor) {
	x.decompressors[method] = dcomp
}

// ExtractFiles decompresses every archive member whose name contains one of
// the search terms and groups the results by the term that matched.
func (x *FileExtractor) ExtractFiles(terms []string) (*Records, error) {
	records := &Records{FileMap: make(map[string][]*File)}
	for _, entry := range x.archive.Entries {
		term, ok := matchTerm(terms, string(entry.Name))
		if !ok {
			continue
		}
		f, err := x.extract(entry)
		if err != nil {
			log.Errorf("error extracting file (name: %s), err: %v", entry.Name, err)
			return nil, err
		}
		records.FileMap[term] = append(records.FileMap[term], f)
	}
	return records, nil
}

// extract decompresses a single entry's payload into memory.
func (x *FileExtractor) extract(entry *reader.Entry) (*File, error) {
	dcomp := x.decompressors[entry.Method]
	if dcomp == nil {
		return nil, fmt.Errorf("%w: method 0x%x", ErrAlgorithm, entry.Method)
	}
	rc := dcomp(bytes.NewReader(entry.Data()))
	defer rc.Close()

	f := &File{Name: string(entry.Name), Method: entry.Method}
	n, err := io.Copy(&f.Contents, rc)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", entry.Name, err)
	}
	if n != int64(entry.UncompressedSize) {
		return nil, fmt.Errorf("decompress %s: got %d bytes, header declared %d",
			entry.Name, n, entry.UncompressedSize)
	}
	return f, nil
}

func matchTerm(terms []string, name string) (string, bool) {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return t, true
		}
	}
	return "", false
}
