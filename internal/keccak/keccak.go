// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keccak provides the Keccak-f[1600] permutation over a 200-byte
// state buffer. Lanes are laid out in the little-endian byte order used by
// the SHA-3 sponge construction.
package keccak

// F1600 applies the Keccak-f[1600] permutation to the state (24 rounds).
func F1600(state *[200]byte) {
	f1600Generic(state)
}
