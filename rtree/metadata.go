package rtree

import (
	"encoding/binary"

	"github.com/xDarkicex/geoidx/geoerr"
	"github.com/xDarkicex/geoidx/internal/coord"
	"github.com/xDarkicex/geoidx/internal/indexview"
)

const (
	magic       byte = 0xFB
	formatVersion byte = 3
	headerLen        = 8
)

// Metadata is the pure calculation from (num_items, node_size, coord type)
// to every size and offset the buffer layout needs, plus the level-offset
// table used to bound a node's children during traversal.
type Metadata struct {
	NumItems uint32
	NodeSize uint16
	CoordTag coord.Tag

	NumNodes    int
	LevelBounds []int // level_bounds[l]: exclusive end of level l, in box-array (4-per-box) positions. LevelBounds[0] == NumItems*4, not 0.

	BoxesLen    int // bytes
	IndicesLen  int // bytes
	IndexWidth  int // 2 or 4
	TotalLen    int // bytes, including the 8-byte header
}

// computeNumNodesAndBounds mirrors the reference bulk-load layout
// calculation: start from the leaf count, then repeatedly fold node_size
// leaves (or previously-folded nodes) into one parent until a single root
// remains.
func computeNumNodesAndBounds(numItems, nodeSize int) (numNodes int, levelBounds []int) {
	if numItems == 0 {
		return 0, []int{0}
	}
	n := numItems
	numNodes = n
	levelBounds = []int{n * 4}
	for n != 1 {
		n = (n + nodeSize - 1) / nodeSize
		numNodes += n
		levelBounds = append(levelBounds, numNodes*4)
	}
	return numNodes, levelBounds
}

// ComputeMetadata derives every buffer size from (num_items, node_size,
// coord type). It does not panic on an invalid node_size — callers that
// enforce the construction contract (Builder.New) do that themselves; this
// function is also used by the buffer parse path, where an invalid
// node_size read from an untrusted header must surface as a recoverable
// error, not a panic.
func ComputeMetadata(numItems uint32, nodeSize uint16, tag coord.Tag) (Metadata, error) {
	if !tag.Valid() {
		return Metadata{}, &geoerr.WrongCoordType{Got: byte(tag)}
	}
	if nodeSize < 2 {
		return Metadata{}, &geoerr.LengthMismatch{Got: int(nodeSize), Expected: 2}
	}

	numNodes, levelBounds := computeNumNodesAndBounds(int(numItems), int(nodeSize))
	indexWidth := indexview.Width(numNodes, indexview.Width16Below)
	bytesPerElem := tag.BytesPerElement()

	boxesLen := numNodes * 4 * bytesPerElem
	indicesLen := numNodes * indexWidth

	return Metadata{
		NumItems:    numItems,
		NodeSize:    nodeSize,
		CoordTag:    tag,
		NumNodes:    numNodes,
		LevelBounds: levelBounds,
		BoxesLen:    boxesLen,
		IndicesLen:  indicesLen,
		IndexWidth:  indexWidth,
		TotalLen:    headerLen + boxesLen + indicesLen,
	}, nil
}

func writeHeader(buf []byte, tag coord.Tag, nodeSize uint16, numItems uint32) {
	buf[0] = magic
	buf[1] = (formatVersion << 4) | byte(tag)
	binary.LittleEndian.PutUint16(buf[2:4], nodeSize)
	binary.LittleEndian.PutUint32(buf[4:8], numItems)
}

// parseHeader validates buf's header against the coordinate type T and
// recomputes the expected total length, per the §4.2 parse-and-validate
// contract.
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

// NumLevels reports how many levels (leaves + interior) this metadata
// describes.
func (m Metadata) NumLevels() int { return len(m.LevelBounds) }
