package kdtree

import (
	"encoding/binary"

	"github.com/xDarkicex/geoidx/geoerr"
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
)

const (
	magic         byte = 0xDB
	formatVersion byte = 1
	headerLen          = 8
)

// Metadata is the pure calculation from (num_items, node_size, coord type)
// to every size and offset the KT buffer layout needs.
type Metadata struct {
	NumItems uint32
	NodeSize uint16
	CoordTag coord.Tag

	IndicesLen int // bytes
	Padding    int // zero bytes inserted to 8-byte-align the coords region
	CoordsLen  int // bytes
	IndexWidth int // 2 or 4
	TotalLen   int // bytes, including the 8-byte header
}

// ComputeMetadata derives every buffer size from (num_items, node_size,
// coord type). Like the RT counterpart, it returns a recoverable error
// rather than panicking, since the same code path parses untrusted
// headers.
func ComputeMetadata(numItems uint32, nodeSize uint16, tag coord.Tag) (Metadata, error) {
	if !tag.Valid() {
		return Metadata{}, &geoerr.WrongCoordType{Got: byte(tag)}
	}
	if nodeSize < 2 {
		return Metadata{}, &geoerr.LengthMismatch{Got: int(nodeSize), Expected: 2}
	}

	indexWidth := indexview.Width(int(numItems), indexview.ItemWidth16Below)
	indicesLen := int(numItems) * indexWidth
	padding := (8 - (indicesLen % 8)) % 8
	coordsLen := int(numItems) * 2 * tag.BytesPerElement()

	return Metadata{
		NumItems:   numItems,
		NodeSize:   nodeSize,
		CoordTag:   tag,
		IndicesLen: indicesLen,
		Padding:    padding,
		CoordsLen:  coordsLen,
		IndexWidth: indexWidth,
		TotalLen:   headerLen + indicesLen + padding + coordsLen,
	}, nil
}

func writeHeader(buf []byte, tag coord.Tag, nodeSize uint16, numItems uint32) {
	buf[0] = magic
	buf[1] = (formatVersion << 4) | byte(tag)
	binary.LittleEndian.PutUint16(buf[2:4], nodeSize)
	binary.LittleEndian.PutUint32(buf[4:8], numItems)
}

// parseHeader validates buf's header against the coordinate type T and
// recomputes the expected total length.
func parseHeader[T coord.Numeric](buf []byte) (Metadata, error) {
	if len(buf) < headerLen {
		return Metadata{}, &geoerr.LengthMismatch{Got: len(buf), Expected: headerLen}
	}
	if buf[0] != magic {
		return Metadata{}, &geoerr.WrongMagic{Got: buf[0], Expected: magic}
	}
	version := buf[1] >> 4
	tag := coord.Tag(buf[1] & 0x0F)
	if version != formatVersion {
		return Metadata{}, &geoerr.WrongVersion{Got: version, Expected: formatVersion}
	}
	wantTag := coord.TagFor[T]()
	if tag != wantTag {
		return Metadata{}, &geoerr.WrongCoordType{Got: byte(tag), Expected: byte(wantTag)}
	}

	nodeSize := binary.LittleEndian.Uint16(buf[2:4])
	numItems := binary.LittleEndian.Uint32(buf[4:8])

	meta, err := ComputeMetadata(numItems, nodeSize, tag)
	if err != nil {
		return Metadata{}, err
	}
	if len(buf) != meta.TotalLen {
		return Metadata{}, &geoerr.LengthMismatch{Got: len(buf), Expected: meta.TotalLen}
	}
	return meta, nil
}
