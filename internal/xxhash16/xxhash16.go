// Package xxhash16 provides a fast, non-cryptographic hash over 16-byte ids,
// used as the bucket key for dictionary id->index maps.
//
// The hash is only a bucket key: every lookup still compares the full 16
// bytes before accepting a match, so a hash collision never corrupts a
// dictionary, it just costs an extra equality check.
package xxhash16

import "github.com/cespare/xxhash/v2"

// Sum computes the 64-bit hash of a 16-byte id for use as a map key.
func Sum(id [16]byte) uint64 {
	return xxhash.Sum64(id[:])
}
