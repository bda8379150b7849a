package utils

import (
	"github.com/minio/highwayhash"
)

var checksumKey = []byte("decorgen-content-checksum-key-01")

// Checksum returns the 64-bit HighwayHash of content
func Checksum(content []byte) (uint64, error) {
	hash, err := highwayhash.New64(checksumKey)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(content)
	return hash.Sum64(), err
}
