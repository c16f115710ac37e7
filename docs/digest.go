package docs

import (
	"github.com/minio/highwayhash"
)

var digestKey = []byte("docview-context-digest-key-00000")

// Digest returns a highwayhash fingerprint of context file content
func Digest(data []byte) uint64 {
	hash, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0
	}
	_, _ = hash.Write(data)
	return hash.Sum64()
}
