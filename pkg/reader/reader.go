package reader

import (
	"encoding/binary"
	"fmt"
)

// Parse reads the central directory metadata of the zip archive held in buf
// and returns an archive descriptor whose entries borrow from buf. The caller
// must keep buf alive and unmodified for as long as the descriptor and its
// entries are in use. Nothing is decompressed.
//
// The parse is all-or-nothing: the first malformed record fails the whole
// archive and no descriptor is returned.
func Parse(buf []byte) (*Archive, error) {
	if len(buf) < directoryEndLen {
		return nil, fmt.Errorf("%w: %d bytes is too small", ErrNotAZip, len(buf))
	}

	eocd := findDirectoryEnd(buf)
	if eocd < 0 {
		return nil, ErrNotAZip
	}

	a := &Archive{buf: buf}
	if err := a.readDirectoryEnd(buf[eocd:]); err != nil {
		return nil, err
	}

	if a.DiskNumber != 0 || a.DiskWithDirectory != 0 || a.EntryCount != a.TotalEntryCount {
		return nil, fmt.Errorf("%w: disk %d, directory disk %d, %d of %d entries on this disk",
			ErrSpanningUnsupported, a.DiskNumber, a.DiskWithDirectory, a.EntryCount, a.TotalEntryCount)
	}

	off := int64(a.DirectoryOffset)
	for i := 0; i < int(a.TotalEntryCount); i++ {
		entry, next, err := readDirectoryEntry(buf, off)
		if err != nil {
			return nil, fmt.Errorf("central directory entry %d: %w", i, err)
		}
		a.Entries = append(a.Entries, entry)
		off = next
	}

	return a, nil
}

// findDirectoryEnd scans backward for the end-of-central-directory signature.
//
// The EOCD record may be trailed by a comment of up to 64K, so the signature
// can only live in the last maxEOCDSearch bytes, and we have to walk that
// window backward from the end. A comment that happens to contain the
// signature bytes will fool this scan; the format offers nothing stronger and
// every zip reader shares the same wobble.
func findDirectoryEnd(buf []byte) int {
	start := 0
	if len(buf) > maxEOCDSearch {
		start = len(buf) - maxEOCDSearch
	}
	for i := len(buf) - 4; i >= start; i-- {
		if buf[i] == 0x50 && binary.LittleEndian.Uint32(buf[i:i+4]) == directoryEndSignature {
			return i
		}
	}
	return -1
}

// readDirectoryEnd decodes the fixed EOCD record at the start of tail, where
// tail runs from the located signature to the end of the archive buffer.
func (a *Archive) readDirectoryEnd(tail []byte) error {
	if len(tail) < directoryEndLen {
		return fmt.Errorf("%w: end of central directory needs %d bytes, %d remain",
			ErrTruncated, directoryEndLen, len(tail))
	}

	b := readBuf(tail[4:directoryEndLen]) // skip signature
	a.DiskNumber = b.uint16()
	a.DiskWithDirectory = b.uint16()
	a.EntryCount = b.uint16()
	a.TotalEntryCount = b.uint16()
	a.DirectorySize = b.uint32()
	a.DirectoryOffset = b.uint32()
	commentLen := int(b.uint16())

	if commentLen > 0 {
		if directoryEndLen+commentLen > len(tail) {
			return fmt.Errorf("%w: comment of %d bytes overruns the %d remaining",
				ErrTruncated, commentLen, len(tail)-directoryEndLen)
		}
		a.Comment = tail[directoryEndLen : directoryEndLen+commentLen]
	}
	return nil
}

// readDirectoryEntry decodes one central directory entry starting at off and
// returns the entry plus the offset of the record that follows it.
//
// Every length and offset in the record comes from the archive itself and is
// validated against the buffer before use. The entry's data offset is
// resolved through the local file header because the extra field stored there
// may carry padding absent from the central directory copy.
func readDirectoryEntry(buf []byte, off int64) (*Entry, int64, error) {
	if int64(len(buf))-off < directoryHeaderLen {
		return nil, 0, fmt.Errorf("%w: entry needs %d bytes, %d remain",
			ErrTruncated, directoryHeaderLen, int64(len(buf))-off)
	}

	b := readBuf(buf[off : off+directoryHeaderLen])
	if sig := b.uint32(); sig != directoryHeaderSignature {
		return nil, 0, fmt.Errorf("%w: got 0x%08x", ErrBadSignature, sig)
	}

	entry := new(Entry)
	entry.Method = b.skip(6).uint16()
	entry.CompressedSize = b.skip(8).uint32()
	entry.UncompressedSize = b.uint32()
	nameLen := int64(b.uint16())
	extraLen := int64(b.uint16())
	commentLen := int64(b.uint16())
	localHeaderOffset := int64(b.skip(8).uint32())
	off += directoryHeaderLen

	if nameLen == 0 {
		return nil, 0, ErrMissingFileName
	}
	if nameLen > int64(len(buf))-off {
		return nil, 0, fmt.Errorf("%w: file name of %d bytes overruns the %d remaining",
			ErrTruncated, nameLen, int64(len(buf))-off)
	}
	entry.Name = buf[off : off+nameLen]
	off += nameLen

	if extraLen > int64(len(buf))-off {
		return nil, 0, fmt.Errorf("%w: extra field of %d bytes overruns the %d remaining",
			ErrTruncated, extraLen, int64(len(buf))-off)
	}
	off += extraLen

	if commentLen > int64(len(buf))-off {
		return nil, 0, fmt.Errorf("%w: file comment of %d bytes overruns the %d remaining",
			ErrTruncated, commentLen, int64(len(buf))-off)
	}
	off += commentLen

	// The extra field length in the central directory is the data actually
	// present, but the local header's copy also counts padding, so the true
	// data offset must come from the local header.
	if localHeaderOffset+fileHeaderLen > int64(len(buf)) {
		return nil, 0, fmt.Errorf("%w: local header at %d, archive is %d bytes",
			ErrInvalidLocalHeaderOffset, localHeaderOffset, len(buf))
	}
	localExtraLen := int64(binary.LittleEndian.Uint16(buf[localHeaderOffset+0x1c:]))

	dataOffset := localHeaderOffset + fileHeaderLen + nameLen + localExtraLen
	if dataOffset < 0 || dataOffset >= int64(len(buf)) {
		return nil, 0, fmt.Errorf("%w: data at %d, archive is %d bytes",
			ErrInvalidDataOffset, dataOffset, len(buf))
	}
	entry.Offset = dataOffset

	// The end of the payload must also land inside the buffer: stored entries
	// occupy their uncompressed size, deflated entries their compressed size.
	// Other methods are recorded without a size check.
	remaining := int64(len(buf)) - dataOffset
	switch entry.Method {
	case Store:
		if int64(entry.UncompressedSize) > remaining {
			return nil, 0, fmt.Errorf("%w: stored entry of %d bytes, %d remain after data offset",
				ErrInvalidDeclaredSize, entry.UncompressedSize, remaining)
		}
		entry.data = buf[dataOffset : dataOffset+int64(entry.UncompressedSize)]
	case Deflate:
		if int64(entry.CompressedSize) > remaining {
			return nil, 0, fmt.Errorf("%w: deflated entry of %d bytes, %d remain after data offset",
				ErrInvalidDeclaredSize, entry.CompressedSize, remaining)
		}
		entry.data = buf[dataOffset : dataOffset+int64(entry.CompressedSize)]
	default:
		entry.data = buf[dataOffset:]
	}

	return entry, off, nil
}

// readBuf is a little-endian decode cursor. It does no bounds checking of its
// own; callers hand it slices already validated to the fixed record length.
type readBuf []byte

func (b *readBuf) uint16() uint16 {
	v := binary.LittleEndian.Uint16(*b)
	*b = (*b)[2:]
	return v
}

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

func (b *readBuf) skip(n int) *readBuf {
	*b = (*b)[n:]
	return b
}
