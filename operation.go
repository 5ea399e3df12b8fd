package kmac

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"math/bits"

	"github.com/cryptohw/kmac/internal/keccak"
	"github.com/cryptohw/kmac/internal/sp800185"
)

// operation is the per-operation sponge state. It is owned by exactly one
// engine and lives from Start until End or an unrecoverable error.
type operation struct {
	state    [200]byte
	rate     int
	idx      int
	mode     Mode
	padDS    byte
	squeezed int // words emitted so far
	refresh  int // permutations since the last successful entropy refresh
	carry    [4]byte
	carryN   int
}

func (o *operation) reset(mode Mode, padDS byte) {
	o.wipe()
	o.mode = mode
	o.rate = mode.rate()
	o.padDS = padDS
}

func (o *operation) wipe() {
	clear(o.state[:])
	o.rate = 0
	o.idx = 0
	o.mode = 0
	o.padDS = 0
	o.squeezed = 0
	o.refresh = 0
	o.carry = [4]byte{}
	o.carryN = 0
}

// absorb XORs b into the rate window, permuting at each block boundary.
// keyBlock marks prefix and key material, which counts toward the refresh
// cadence even in fast-process mode.
func (o *operation) absorb(e *Engine, b []byte, keyBlock bool) error {
	for len(b) > 0 {
		n := min(len(b), o.rate-o.idx)
		subtle.XORBytes(o.state[o.idx:], o.state[o.idx:o.idx+n], b[:n])
		o.idx += n
		b = b[n:]
		if o.idx == o.rate {
			if err := o.permuteBlock(e, keyBlock); err != nil {
				return err
			}
		}
	}
	return nil
}

// absorbSwapped absorbs p with each aligned 32-bit word byte-swapped,
// carrying partial words across calls so split points do not change the
// absorbed stream.
func (o *operation) absorbSwapped(e *Engine, p []byte) error {
	for len(p) > 0 {
		n := copy(o.carry[o.carryN:], p)
		o.carryN += n
		p = p[n:]
		if o.carryN == 4 {
			w := [4]byte{o.carry[3], o.carry[2], o.carry[1], o.carry[0]}
			o.carryN = 0
			if err := o.absorb(e, w[:], false); err != nil {
				return err
			}
		}
	}
	return nil
}

// finalize flushes any carried tail bytes, appends the KMAC output-length
// encoding, and applies the domain-separation padding plus the final
// permutation, leaving the first squeeze block in the rate window.
func (o *operation) finalize(e *Engine) error {
	if o.carryN > 0 {
		// Trailing bytes of a big-endian message that never filled a word
		// are absorbed as written.
		tail := o.carry[:o.carryN]
		o.carryN = 0
		if err := o.absorb(e, tail, false); err != nil {
			return err
		}
	}
	if o.mode.keyed() {
		// The keyed modes are extendable, so the output length is encoded
		// as zero (KMACXOF): the digest must not depend on the length
		// requested at Start.
		if err := o.absorb(e, sp800185.AppendRightEncode(nil, 0), false); err != nil {
			return err
		}
	}

	o.state[o.idx] ^= o.padDS
	o.state[o.rate-1] ^= 0x80
	return o.permuteBlock(e, false)
}

// squeeze fills out with words from the rate window, permuting when it is
// exhausted and applying the configured output byte order.
func (o *operation) squeeze(e *Engine, out []uint32) error {
	for i := range out {
		if o.idx == o.rate {
			if err := o.permuteBlock(e, false); err != nil {
				return err
			}
		}
		w := binary.LittleEndian.Uint32(o.state[o.idx:])
		if e.cfg.OutputBigEndian {
			w = bits.ReverseBytes32(w)
		}
		out[i] = w
		o.idx += 4
		o.squeezed++
	}
	return nil
}

// permuteBlock consumes any entropy the masking cadence demands, then applies
// the permutation and rewinds the rate window.
func (o *operation) permuteBlock(e *Engine, keyBlock bool) error {
	if e.cfg.Masking {
		if e.cfg.MsgMask && !keyBlock {
			// The message mask word cancels out of the digest; drawing it
			// here keeps the draw sequence and starvation behavior faithful.
			if _, err := e.drawRetry(); err != nil {
				return err
			}
		}
		if e.cfg.HashThreshold > 0 && (keyBlock || !e.cfg.FastProcess) {
			o.refresh++
			if o.refresh >= int(e.cfg.HashThreshold) {
				if _, err := e.drawRetry(); err != nil {
					return err
				}
				o.refresh = 0
			}
		}
	}

	keccak.F1600(&o.state)
	o.idx = 0
	return nil
}

// String returns the sponge state as hex with a marker at the current rate
// window position and the rate/capacity boundary.
func (o *operation) String() string {
	return hex.EncodeToString(o.state[:o.idx]) + "^" +
		hex.EncodeToString(o.state[o.idx:o.rate]) + "|" +
		hex.EncodeToString(o.state[o.rate:])
}
