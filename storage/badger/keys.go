package badger

import (
	"encoding/binary"

	"github.com/poiesic/paperit/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "chkrec"
	chunkDocPrefix    = "chkdoc"
)

// makeChunkKey generates a key for a chunk record by its storage ID.
func makeChunkKey(id core.ID) []byte {
	prefix := chunkRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeDocIndexKey generates a composite key for the document index.
// Format: prefix:docID:chunkStorageID
func makeDocIndexKey(docID string, id core.ID) []byte {
	prefix := chunkDocPrefix + ":" + docID + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDocIndexKey generates the prefix covering all index entries of
// one document.
func makePartialDocIndexKey(docID string) []byte {
	return []byte(chunkDocPrefix + ":" + docID + ":")
}

// chunkIDFromDocIndexKey recovers the chunk storage ID from a document index
// key produced by makeDocIndexKey.
func chunkIDFromDocIndexKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
