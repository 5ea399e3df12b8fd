package kmac

import "fmt"

// An EntropyMode selects where the engine draws the randomness used to
// refresh key masking.
type EntropyMode uint8

const (
	// EntropyModeNone disables entropy: every draw yields a deterministic
	// filler value. Masking cannot be enabled in this mode.
	EntropyModeNone EntropyMode = iota
	// EntropyModeSoftware expands a caller-supplied seed with an internal
	// PRNG. Draws never block.
	EntropyModeSoftware
	// EntropyModeEDN requests fresh words from the external entropy
	// distribution network, waiting up to the configured wait-timer budget.
	EntropyModeEDN
)

func (m EntropyMode) String() string {
	switch m {
	case EntropyModeNone:
		return "none"
	case EntropyModeSoftware:
		return "software"
	case EntropyModeEDN:
		return "edn"
	default:
		return "invalid"
	}
}

const (
	// maxHashThreshold and maxPrescaler bound the 10-bit hardware fields.
	maxHashThreshold = 1023
	maxPrescaler     = 1023

	defaultEntropyRetries = 3
)

// A Config is the validated set of operating parameters applied at
// configure time. The zero value is a valid unmasked configuration.
type Config struct {
	// EntropyMode selects the entropy backend for masking refresh draws.
	EntropyMode EntropyMode

	// Masking enables the two-share masking countermeasure. Requires an
	// entropy mode other than EntropyModeNone.
	Masking bool

	// MsgMask additionally masks message blocks, consuming one entropy draw
	// per absorbed block. Requires Masking.
	MsgMask bool

	// FastProcess restricts mandatory entropy refresh to key-processing
	// permutations, leaving message blocks unmasked for throughput.
	FastProcess bool

	// HashThreshold is the number of permutations allowed between mandatory
	// entropy refresh draws while masking is active. 0 disables periodic
	// refresh; the start-time re-blind draw still happens.
	HashThreshold uint16

	// WaitTimer is the tick budget for one EDN request. 0 disables the
	// timeout and waits indefinitely.
	WaitTimer uint32

	// Prescaler divides the tick clock; an EDN request may wait up to
	// WaitTimer × (Prescaler+1) ticks.
	Prescaler uint16

	// MessageBigEndian byte-swaps each aligned 32-bit word of the message
	// before absorption.
	MessageBigEndian bool

	// OutputBigEndian byte-swaps each squeezed digest word.
	OutputBigEndian bool

	// Sideload takes the KMAC key from the key loaded on the engine instead
	// of a caller-supplied one.
	Sideload bool

	// EntropySeed seeds the software entropy mode. Required (non-empty) for
	// EntropyModeSoftware.
	EntropySeed []uint32

	// EntropyRetries bounds the retry-then-escalate loop around timed-out
	// entropy draws. 0 means the default of 3 attempts.
	EntropyRetries int
}

// retries returns the effective entropy attempt bound.
func (c *Config) retries() int {
	if c.EntropyRetries <= 0 {
		return defaultEntropyRetries
	}
	return c.EntropyRetries
}

func (c *Config) validate() error {
	if c.EntropyMode > EntropyModeEDN {
		return fmt.Errorf("%w: unknown entropy mode %d", ErrInvalidConfig, c.EntropyMode)
	}
	if c.Masking && c.EntropyMode == EntropyModeNone {
		return fmt.Errorf("%w: masking requires an active entropy mode", ErrInvalidConfig)
	}
	if c.MsgMask && !c.Masking {
		return fmt.Errorf("%w: message masking requires masking", ErrInvalidConfig)
	}
	if c.EntropyMode == EntropyModeSoftware && len(c.EntropySeed) == 0 {
		return fmt.Errorf("%w: software entropy mode requires a seed", ErrInvalidConfig)
	}
	if c.HashThreshold > maxHashThreshold {
		return fmt.Errorf("%w: hash threshold %d exceeds %d", ErrInvalidConfig, c.HashThreshold, maxHashThreshold)
	}
	if c.Prescaler > maxPrescaler {
		return fmt.Errorf("%w: prescaler %d exceeds %d", ErrInvalidConfig, c.Prescaler, maxPrescaler)
	}
	return nil
}
