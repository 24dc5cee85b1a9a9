// Package secure provides helpers for handling secret material in memory.
//
// The vault stores its data in plaintext files guarded by filesystem
// permissions, so the only in-process hygiene that matters is zeroing
// secret buffers after use and comparing key material in constant time.
package secure

import (
	"crypto/subtle"
)

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
