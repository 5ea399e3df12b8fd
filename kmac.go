// Package kmac models a masked KMAC/cSHAKE hardware engine: a Keccak sponge
// with a streaming absorb/squeeze interface, a two-share secret key
// representation, and an entropy gate that refreshes the key masking from an
// external entropy source.
//
// An Engine is a serially-reusable exclusive resource. One logical operation
// at a time moves it through Configure, Start, Absorb, Squeeze, and End;
// out-of-order calls fail with ErrIllegalStateTransition. Engines are not
// concurrent-safe.
package kmac

import (
	"errors"
	"fmt"

	"code.cloudfoundry.org/clock"

	"github.com/cryptohw/kmac/internal/sp800185"
)

// phase is the closed set of lifecycle states an engine moves through.
type phase uint8

const (
	phaseIdle phase = iota
	phaseConfigured
	phaseAbsorbing
	phaseSqueezing
	phaseDone
	phaseError
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "Idle"
	case phaseConfigured:
		return "Configured"
	case phaseAbsorbing:
		return "Absorbing"
	case phaseSqueezing:
		return "Squeezing"
	case phaseDone:
		return "Done"
	case phaseError:
		return "Error"
	default:
		return "invalid"
	}
}

// event is one of the caller-facing operations, used to index the transition
// legality table.
type event uint8

const (
	evConfigure event = iota
	evStart
	evAbsorb
	evSqueeze
	evEnd
)

func (e event) String() string {
	switch e {
	case evConfigure:
		return "Configure"
	case evStart:
		return "Start"
	case evAbsorb:
		return "Absorb"
	case evSqueeze:
		return "Squeeze"
	case evEnd:
		return "End"
	default:
		return "invalid"
	}
}

// legal[ev][ph] reports whether ev may fire in ph. All transition legality is
// decided here; Squeeze in Done is admitted so the fixed-length overrun can
// be reported as ErrDigestLengthExceeded instead.
var legal = [evEnd + 1][phaseError + 1]bool{
	evConfigure: {phaseIdle: true, phaseConfigured: true, phaseError: true},
	evStart:     {phaseConfigured: true},
	evAbsorb:    {phaseAbsorbing: true},
	evSqueeze:   {phaseAbsorbing: true, phaseSqueezing: true, phaseDone: true},
	evEnd:       {phaseSqueezing: true, phaseDone: true, phaseError: true},
}

// An Engine owns one sponge datapath and its entropy gating policy. The zero
// value is unusable; construct one with New.
type Engine struct {
	cfg      Config
	src      Source
	clk      clock.Clock
	gate     *gate
	sideload *Key
	op       operation
	phase    phase
}

// New returns an idle engine bound to the given entropy source. src may be
// nil as long as the engine is never configured for EntropyModeEDN.
func New(src Source) *Engine {
	return NewWithClock(src, clock.NewClock())
}

// NewWithClock is like New but uses clk for the entropy wait timers.
func NewWithClock(src Source, clk clock.Clock) *Engine {
	return &Engine{src: src, clk: clk}
}

// check enforces the transition table. A Start in the middle of a live
// operation is a corrupted call sequence and poisons the engine; every other
// violation leaves the state unchanged.
func (e *Engine) check(ev event) error {
	if legal[ev][e.phase] {
		return nil
	}
	from := e.phase
	if ev == evStart && (e.phase == phaseAbsorbing || e.phase == phaseSqueezing) {
		e.phase = phaseError
	}
	return fmt.Errorf("%w: %v in phase %v", ErrIllegalStateTransition, ev, from)
}

// Configure validates cfg and applies it, returning the engine to the
// Configured phase. It is also the recovery path out of the Error phase.
func (e *Engine) Configure(cfg Config) error {
	if err := e.check(evConfigure); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.EntropyMode == EntropyModeEDN && e.src == nil {
		return fmt.Errorf("%w: EDN entropy mode requires a source", ErrInvalidConfig)
	}

	e.cfg = cfg
	e.gate = newGate(&e.cfg, e.src, e.clk)
	e.op.wipe()
	e.phase = phaseConfigured
	return nil
}

// LoadSideloadKey loads the key used by keyed operations when the
// configuration enables sideloading. The shares are copied.
func (e *Engine) LoadSideloadKey(key *Key) error {
	if key == nil || !key.Len.valid() {
		return fmt.Errorf("%w: invalid sideload key", ErrInvalidConfig)
	}
	k := *key
	e.sideload = &k
	return nil
}

// Start begins a new operation, moving the engine from Configured to
// Absorbing. digestLen is in 32-bit words and must match the fixed length of
// fixed-digest modes, or lie in [1, MaxDigestLen] for extendable-output
// modes. key must be non-nil exactly for the KMAC modes (nil with
// sideloading enabled); customization is accepted only by the cSHAKE and
// KMAC modes and may be nil.
func (e *Engine) Start(mode Mode, digestLen int, key *Key, customization *CustomizationString) error {
	if err := e.check(evStart); err != nil {
		return err
	}
	if !mode.valid() {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, mode)
	}
	if fixed := mode.fixedDigestLen(); fixed > 0 {
		if digestLen != fixed {
			return fmt.Errorf("%w: %v requires exactly %d words, got %d", ErrInvalidDigestLength, mode, fixed, digestLen)
		}
	} else if digestLen < 1 || digestLen > MaxDigestLen {
		return fmt.Errorf("%w: %d words, extendable modes accept 1..%d", ErrInvalidDigestLength, digestLen, MaxDigestLen)
	}
	if customization != nil && !mode.customizable() {
		return fmt.Errorf("%w: %v does not accept a customization string", ErrInvalidConfig, mode)
	}

	switch {
	case !mode.keyed():
		if key != nil {
			return fmt.Errorf("%w: %v does not accept a key", ErrInvalidConfig, mode)
		}
	case e.cfg.Sideload:
		if key != nil {
			return fmt.Errorf("%w: sideloading is enabled; the key must come from LoadSideloadKey", ErrInvalidConfig)
		}
		if e.sideload == nil {
			return ErrSideloadKeyMissing
		}
		key = e.sideload
	default:
		if key == nil {
			return fmt.Errorf("%w: %v requires a key", ErrInvalidConfig, mode)
		}
		if !key.Len.valid() {
			return fmt.Errorf("%w: invalid key length tag", ErrInvalidConfig)
		}
	}

	customized := mode.keyed() || customization != nil
	e.op.reset(mode, mode.padByte(customized))
	e.phase = phaseAbsorbing

	if customized {
		// bytepad(encode_string(N) || encode_string(S), rate)
		prefix := sp800185.AppendLeftEncode(nil, uint64(e.op.rate))
		prefix = sp800185.AppendEncodeString(prefix, mode.functionName())
		prefix = append(prefix, customization.encoded()...)
		if err := e.absorbPadded(prefix); err != nil {
			return err
		}
	}

	if mode.keyed() {
		// With masking active, re-blind the shares with a fresh draw
		// immediately before the combine; the unmasked block is wiped as
		// soon as it is absorbed.
		var r uint32
		if e.cfg.Masking {
			var err error
			if r, err = e.drawRetry(); err != nil {
				return err
			}
		}
		block := sp800185.AppendLeftEncode(nil, uint64(e.op.rate))
		block = sp800185.AppendLeftEncode(block, uint64(key.Len.words())*32)
		block = key.appendCombined(block, r)
		err := e.absorbPadded(block)
		clear(block)
		if err != nil {
			return err
		}
	}

	return nil
}

// Absorb streams message bytes into the operation. It may be called any
// number of times while the engine is in the Absorbing phase.
func (e *Engine) Absorb(p []byte) error {
	if err := e.check(evAbsorb); err != nil {
		return err
	}
	if e.cfg.MessageBigEndian {
		return e.op.absorbSwapped(e, p)
	}
	return e.op.absorb(e, p, false)
}

// Squeeze finalizes absorption on its first call and then fills out with
// digest words, permuting as needed. Extendable-output modes may keep
// squeezing past the length requested at Start; fixed-digest modes fail with
// ErrDigestLengthExceeded once their digest has been fully emitted.
func (e *Engine) Squeeze(out []uint32) error {
	if err := e.check(evSqueeze); err != nil {
		return err
	}
	if e.phase == phaseAbsorbing {
		if err := e.op.finalize(e); err != nil {
			return err
		}
		e.phase = phaseSqueezing
	}

	if fixed := e.op.mode.fixedDigestLen(); fixed > 0 && e.op.squeezed+len(out) > fixed {
		return fmt.Errorf("%w: %v emits %d words", ErrDigestLengthExceeded, e.op.mode, fixed)
	}
	if err := e.op.squeeze(e, out); err != nil {
		return err
	}
	if fixed := e.op.mode.fixedDigestLen(); fixed > 0 && e.op.squeezed == fixed {
		e.phase = phaseDone
	}
	return nil
}

// End terminates the current operation, wipes the sponge state, and releases
// the engine back to the Configured phase.
func (e *Engine) End() error {
	if err := e.check(evEnd); err != nil {
		return err
	}
	e.op.wipe()
	e.phase = phaseConfigured
	return nil
}

// absorbPadded absorbs b zero-padded to a whole number of rate-width blocks:
// the bytepad step of the cSHAKE and KMAC prefix blocks. Key-class blocks
// always count toward the refresh cadence.
func (e *Engine) absorbPadded(b []byte) error {
	if err := e.op.absorb(e, b, true); err != nil {
		return err
	}
	if e.op.idx != 0 {
		pad := make([]byte, e.op.rate-e.op.idx)
		if err := e.op.absorb(e, pad, true); err != nil {
			return err
		}
	}
	return nil
}

// drawRetry is the bounded retry-then-escalate policy around gated entropy
// draws. Exhausting the attempt budget is fatal: the engine enters the Error
// phase and the returned error matches both ErrEntropyTimeout (the last
// failure) and ErrEntropyStarvation.
func (e *Engine) drawRetry() (uint32, error) {
	attempts := e.cfg.retries()
	var err error
	for range attempts {
		var w uint32
		w, err = e.gate.draw()
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, ErrEntropyTimeout) {
			break
		}
	}
	e.phase = phaseError
	return 0, fmt.Errorf("kmac: %d entropy attempts failed (%w): %w", attempts, err, ErrEntropyStarvation)
}
