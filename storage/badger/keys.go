package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/resolvit/core"
)

// Key prefixes for different data types
const (
	addressRecordPrefix = "adrec"
)

// makeAddressRecordKey generates a key for an address record by ID.
// Format: prefix:id
func makeAddressRecordKey(id core.ID) []byte {
	prefix := addressRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort follows ID order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// recordKeyspace returns the iteration prefix covering all address records.
func recordKeyspace() []byte {
	return []byte(addressRecordPrefix + ":")
}

// makeCheckpointKey generates a key for build checkpoints.
func makeCheckpointKey(kind string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", kind))
}
