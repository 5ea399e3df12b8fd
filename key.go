package kmac

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// MaxKeyWords is the capacity of one key share, sized for the largest
// supported key.
const MaxKeyWords = 16

// A KeyLen tags one of the supported key bit-widths.
type KeyLen uint8

const (
	KeyLen128 KeyLen = iota
	KeyLen192
	KeyLen256
	KeyLen384
	KeyLen512
)

// words returns the key length in 32-bit words.
func (l KeyLen) words() int {
	switch l {
	case KeyLen128:
		return 4
	case KeyLen192:
		return 6
	case KeyLen256:
		return 8
	case KeyLen384:
		return 12
	case KeyLen512:
		return 16
	default:
		return 0
	}
}

func (l KeyLen) valid() bool {
	return l <= KeyLen512
}

// A Key is a secret key in two-share masked form: the logical key is the
// exclusive-or of Share0 and Share1 and is never stored. Words are
// little-endian views of the key bytes.
type Key struct {
	Share0 [MaxKeyWords]uint32
	Share1 [MaxKeyWords]uint32
	Len    KeyLen
}

// NewKey splits key into a fresh two-share representation using a random
// blinding share. The key must be 16, 24, 32, 48, or 64 bytes.
func NewKey(key []byte) (*Key, error) {
	var l KeyLen
	switch len(key) {
	case 16:
		l = KeyLen128
	case 24:
		l = KeyLen192
	case 32:
		l = KeyLen256
	case 48:
		l = KeyLen384
	case 64:
		l = KeyLen512
	default:
		return nil, fmt.Errorf("%w: unsupported key length %d bytes", ErrInvalidConfig, len(key))
	}

	k := &Key{Len: l}
	blind := make([]byte, len(key))
	if _, err := rand.Read(blind); err != nil {
		return nil, fmt.Errorf("kmac: reading blinding share: %w", err)
	}
	for i := range len(key) / 4 {
		k.Share1[i] = binary.LittleEndian.Uint32(blind[i*4:])
		k.Share0[i] = binary.LittleEndian.Uint32(key[i*4:]) ^ k.Share1[i]
	}
	clear(blind)
	return k, nil
}

// appendCombined re-blinds both shares with the fresh entropy word r,
// combines them, and appends the unmasked key bytes to b. The returned
// buffer is the only place the logical key is materialized; the caller must
// wipe it immediately after absorbing it.
func (k *Key) appendCombined(b []byte, r uint32) []byte {
	for i := range k.Len.words() {
		w := (k.Share0[i] ^ r) ^ (k.Share1[i] ^ r)
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}
