package reader

import (
	"errors"
)

var (
	// ErrNotAZip indicates the buffer is too small to be a zip archive or
	// contains no end-of-central-directory signature
	ErrNotAZip = errors.New("zip: unable to locate end of central directory")
	// ErrTruncated indicates a declared length exceeding the remaining buffer
	ErrTruncated = errors.New("zip: truncated record")
	// ErrBadSignature indicates a central directory entry without the expected magic
	ErrBadSignature = errors.New("zip: bad central directory entry signature")
	// ErrMissingFileName indicates a central directory entry with an empty file name
	ErrMissingFileName = errors.New("zip: central directory entry has no file name")
	// ErrInvalidLocalHeaderOffset indicates a local header offset outside the buffer
	ErrInvalidLocalHeaderOffset = errors.New("zip: invalid local header offset")
	// ErrInvalidDataOffset indicates an entry data offset outside the buffer
	ErrInvalidDataOffset = errors.New("zip: invalid data offset")
	// ErrInvalidDeclaredSize indicates an entry whose declared size overruns the buffer
	ErrInvalidDeclaredSize = errors.New("zip: declared size exceeds archive bounds")
	// ErrSpanningUnsupported indicates a multi-disk (spanned) archive
	ErrSpanningUnsupported = errors.New("zip: archive spanning not supported")
)

const (
	directoryEndLen    = 22
	directoryHeaderLen = 46
	fileHeaderLen      = 30 // + filename + extra

	directoryEndSignature    = 0x06054b50
	directoryHeaderSignature = 0x02014b50

	// The EOCD record is followed only by its comment, so the signature must
	// sit within the last maxCommentLen+directoryEndLen bytes of the buffer.
	maxCommentLen = 65535
	maxEOCDSearch = maxCommentLen + directoryEndLen
)

// Compression methods.
const (
	Store   uint16 = 0 // no compression
	Deflate uint16 = 8 // DEFLATE compressed
)

// Entry describes one member recorded in the central directory.
//
// Name and the payload view returned by Data are sub-slices of the archive
// buffer and stay valid only as long as the buffer itself.
type Entry struct {
	// Name is the member's file name as recorded in the central directory.
	Name []byte

	// Method is the compression method. Only Store and Deflate have their
	// declared sizes validated against the buffer; other methods are
	// recorded as-is.
	Method uint16

	CompressedSize   uint32
	UncompressedSize uint32

	// Offset is the byte offset of the member's raw (possibly compressed)
	// payload within the archive buffer, resolved through the local file
	// header rather than the central directory record.
	Offset int64

	data []byte
}

// Data returns the raw payload view for the entry: exactly UncompressedSize
// bytes for Store, CompressedSize bytes for Deflate, and everything up to the
// end of the buffer for unrecognized methods. The bytes are not decompressed.
func (e *Entry) Data() []byte { return e.data }

// Archive describes one parsed central directory.
type Archive struct {
	DiskNumber        uint16
	DiskWithDirectory uint16
	EntryCount        uint16
	TotalEntryCount   uint16
	DirectorySize     uint32
	DirectoryOffset   uint32

	// Comment is the archive comment trailing the EOCD record, nil when the
	// archive has none. Borrowed from the buffer.
	Comment []byte

	// Entries holds the decoded members in central directory declaration order.
	Entries []*Entry

	buf []byte
}

// Bytes returns the underlying archive buffer.
func (a *Archive) Bytes() []byte { return a.buf }

// Lookup returns the first entry whose name matches exactly.
func (a *Archive) Lookup(name string) (*Entry, bool) {
	for _, e := range a.Entries {
		if string(e.Name) == name {
			return e, true
		}
	}
	return nil, false
}
