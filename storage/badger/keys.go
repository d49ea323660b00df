package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/elscan/core"
)

// Key prefixes for different data types
const (
	indexCurrentKey  = "elsidx:current"
	indexGenSeq      = "elsidx:genseq"
	indexGenPrefix   = "elsidx:g:"
	searchPrefix     = "elssrch"
	genMetaSuffix    = "m"
	genEntriesSuffix = "w:"
)

// makeGenPrefix generates the prefix shared by every key of one index generation.
// Format: prefix:generation: with the generation in BigEndian so generations sort.
func makeGenPrefix(gen uint64) []byte {
	buf := make([]byte, len(indexGenPrefix)+9)
	offset := copy(buf, indexGenPrefix)
	binary.BigEndian.PutUint64(buf[offset:], gen)
	buf[offset+8] = ':'
	return buf
}

// makeGenMetaKey generates the key holding a generation's metadata.
func makeGenMetaKey(gen uint64) []byte {
	return append(makeGenPrefix(gen), genMetaSuffix...)
}

// makeGenEntriesPrefix generates the prefix of a generation's word entries.
func makeGenEntriesPrefix(gen uint64) []byte {
	return append(makeGenPrefix(gen), genEntriesSuffix...)
}

// makeGenEntryKey generates the key of one word's hits in a generation.
// Format: prefix:generation:w:word
func makeGenEntryKey(gen uint64, word string) []byte {
	return append(makeGenEntriesPrefix(gen), word...)
}

// parseGen extracts the generation from any key under indexGenPrefix.
func parseGen(key []byte) (uint64, bool) {
	if len(key) < len(indexGenPrefix)+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(indexGenPrefix):]), true
}

// makeSearchKey generates a key for a search artifact.
func makeSearchKey(key core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", searchPrefix, key))
}
