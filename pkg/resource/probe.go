package resource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goopsie/texcompat/pkg/compressed"
)

var (
	// ErrNoMetadata is returned together with a valid Info when the
	// resource carries no import metadata block.
	ErrNoMetadata = errors.New("resource has no import metadata")
	// ErrNotResource means the data does not start with a binary resource magic.
	ErrNotResource = errors.New("not a binary resource")
)

// Magic bytes of plain and compressed binary resources.
var (
	MagicResource           = [4]byte{'R', 'S', 'R', 'C'}
	MagicCompressedResource = compressed.MagicResource
)

const maxTypeNameLength = 1024

// Header is the fixed prologue of a binary resource.
type Header struct {
	Compressed     bool
	BigEndian      bool
	UseReal64      bool
	VerMajor       uint32
	VerMinor       uint32
	VerFormat      uint32
	Type           string
	ImportMetadata uint64 // Offset of the import metadata block, 0 if absent
}

// ReadHeader reads a binary resource header, decompressing RSCC data first.
func ReadHeader(r io.Reader) (*Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}

	h := &Header{}
	switch magic {
	case MagicResource:
	case MagicCompressedResource:
		data, err := compressed.ReadAll(io.MultiReader(bytes.NewReader(magic[:]), r))
		if err != nil {
			return nil, fmt.Errorf("decompress resource: %w", err)
		}
		r = bytes.NewReader(data)
		h.Compressed = true
	default:
		return nil, fmt.Errorf("%w: magic %q", ErrNotResource, magic[:])
	}

	var prologue [8]byte
	if _, err := io.ReadFull(r, prologue[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h.BigEndian = binary.LittleEndian.Uint32(prologue[0:4]) != 0
	h.UseReal64 = binary.LittleEndian.Uint32(prologue[4:8]) != 0

	var order binary.ByteOrder = binary.LittleEndian
	if h.BigEndian {
		order = binary.BigEndian
	}

	var fields [16]byte
	if _, err := io.ReadFull(r, fields[:]); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	h.VerMajor = order.Uint32(fields[0:4])
	h.VerMinor = order.Uint32(fields[4:8])
	h.VerFormat = order.Uint32(fields[8:12])

	n := order.Uint32(fields[12:16])
	if n > maxTypeNameLength {
		return nil, fmt.Errorf("type name length %d too large", n)
	}
	name := make([]byte, n)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("read type name: %w", err)
	}
	h.Type = strings.TrimRight(string(name), "\x00")

	var ofs [8]byte
	if _, err := io.ReadFull(r, ofs[:]); err != nil {
		return nil, fmt.Errorf("read metadata offset: %w", err)
	}
	h.ImportMetadata = order.Uint64(ofs[:])
	return h, nil
}

// MarshalBinary encodes an uncompressed resource prologue. It is used to
// build fixtures; the body of the resource is not written.
func (h *Header) MarshalBinary() ([]byte, error) {
	var order binary.ByteOrder = binary.LittleEndian
	if h.BigEndian {
		order = binary.BigEndian
	}
	name := []byte(h.Type)
	name = append(name, 0)

	buf := make([]byte, 4+8+16+len(name)+8)
	copy(buf[0:4], MagicResource[:])
	if h.BigEndian {
		binary.LittleEndian.PutUint32(buf[4:8], 1)
	}
	if h.UseReal64 {
		order.PutUint32(buf[8:12], 1)
	}
	order.PutUint32(buf[12:16], h.VerMajor)
	order.PutUint32(buf[16:20], h.VerMinor)
	order.PutUint32(buf[20:24], h.VerFormat)
	order.PutUint32(buf[24:28], uint32(len(name)))
	copy(buf[28:], name)
	order.PutUint64(buf[28+len(name):], h.ImportMetadata)
	return buf, nil
}

// Info converts the header to resource metadata.
func (h *Header) Info() *Info {
	return &Info{
		VerMajor:       int(h.VerMajor),
		VerMinor:       int(h.VerMinor),
		Type:           h.Type,
		ResourceFormat: "binary",
		Extra: map[string]any{
			"ver_format": int(h.VerFormat),
			"compressed": h.Compressed,
		},
	}
}

// Probe reads the header of a binary resource and returns the metadata it
// declares. When the resource has no import metadata the Info is still
// returned, together with ErrNoMetadata.
func Probe(r io.Reader) (*Info, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	info := h.Info()
	if h.ImportMetadata == 0 {
		return info, ErrNoMetadata
	}
	info.Extra["import_metadata_offset"] = h.ImportMetadata
	return info, nil
}
