// Package digest provides hash.Hash implementations backed by the kmac
// engine's fixed-digest and keyed modes.
package digest

import (
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/cryptohw/kmac"
)

// NewSHA3_224 returns a SHA3-224 hash.Hash.
func NewSHA3_224() hash.Hash { return &digest{mode: kmac.ModeSHA3_224, size: 28} }

// NewSHA3_256 returns a SHA3-256 hash.Hash.
func NewSHA3_256() hash.Hash { return &digest{mode: kmac.ModeSHA3_256, size: 32} }

// NewSHA3_384 returns a SHA3-384 hash.Hash.
func NewSHA3_384() hash.Hash { return &digest{mode: kmac.ModeSHA3_384, size: 48} }

// NewSHA3_512 returns a SHA3-512 hash.Hash.
func NewSHA3_512() hash.Hash { return &digest{mode: kmac.ModeSHA3_512, size: 64} }

// NewKMAC128 returns a KMAC128 hash.Hash over the given key with a size-byte
// digest. size must be a positive multiple of 4.
func NewKMAC128(key []byte, size int, customization string) (hash.Hash, error) {
	return newKMAC(kmac.ModeKMAC128, key, size, customization)
}

// NewKMAC256 returns a KMAC256 hash.Hash over the given key with a size-byte
// digest. size must be a positive multiple of 4.
func NewKMAC256(key []byte, size int, customization string) (hash.Hash, error) {
	return newKMAC(kmac.ModeKMAC256, key, size, customization)
}

func newKMAC(mode kmac.Mode, key []byte, size int, customization string) (hash.Hash, error) {
	if size < 1 || size%4 != 0 || size/4 > kmac.MaxDigestLen {
		return nil, fmt.Errorf("%w: %d bytes (must be a positive multiple of 4)", kmac.ErrInvalidDigestLength, size)
	}
	k, err := kmac.NewKey(key)
	if err != nil {
		return nil, err
	}
	var cs *kmac.CustomizationString
	if customization != "" {
		if cs, err = kmac.NewCustomizationString(customization); err != nil {
			return nil, err
		}
	}
	return &digest{mode: mode, size: size, key: k, cs: cs}, nil
}

// digest buffers its input and replays it through a one-shot engine
// operation in Sum: the engine is an exclusive serially-reusable resource,
// so keeping the hash.Hash contract (Sum must not disturb subsequent
// Writes) means not holding a live operation open.
type digest struct {
	mode kmac.Mode
	size int
	key  *kmac.Key
	cs   *kmac.CustomizationString
	buf  []byte
}

func (d *digest) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

func (d *digest) Sum(b []byte) []byte {
	out := make([]uint32, d.size/4)

	// All arguments were validated at construction, so errors here are
	// programming errors in the engine itself.
	eng := kmac.New(nil)
	must(eng.Configure(kmac.Config{}))
	must(eng.Start(d.mode, len(out), d.key, d.cs))
	must(eng.Absorb(d.buf))
	must(eng.Squeeze(out))
	must(eng.End())

	for _, w := range out {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

func (d *digest) Reset() {
	d.buf = nil
}

func (d *digest) Size() int {
	return d.size
}

func (d *digest) BlockSize() int {
	switch d.mode {
	case kmac.ModeSHA3_224:
		return 144
	case kmac.ModeSHA3_256, kmac.ModeKMAC256:
		return 136
	case kmac.ModeSHA3_384:
		return 104
	case kmac.ModeSHA3_512:
		return 72
	default:
		return 168
	}
}

func must(err error) {
	if err != nil {
		panic("digest: " + err.Error())
	}
}

var _ hash.Hash = (*digest)(nil)
