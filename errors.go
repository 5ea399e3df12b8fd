package kmac

import "errors"

var (
	// ErrInvalidConfig is returned when a configuration violates one of its
	// invariants, or when Start is called with arguments the configuration
	// cannot support.
	ErrInvalidConfig = errors.New("kmac: invalid configuration")

	// ErrInvalidDigestLength is returned when the digest length requested at
	// Start is rejected by the mode's fixed-vs-extendable rule.
	ErrInvalidDigestLength = errors.New("kmac: invalid digest length")

	// ErrIllegalStateTransition is returned when an operation is invoked in a
	// phase that does not permit it.
	ErrIllegalStateTransition = errors.New("kmac: illegal state transition")

	// ErrEntropyTimeout is returned when an entropy request was not answered
	// within the configured wait-timer budget. It is retryable up to the
	// configured attempt bound.
	ErrEntropyTimeout = errors.New("kmac: entropy request timed out")

	// ErrEntropyStarvation is returned when the entropy retry budget is
	// exhausted. It is fatal for the current operation, which must be
	// reconfigured and restarted.
	ErrEntropyStarvation = errors.New("kmac: entropy starvation")

	// ErrTooLong is returned when a string's encoded form would overflow its
	// fixed-capacity buffer.
	ErrTooLong = errors.New("kmac: encoded string too long")

	// ErrDigestLengthExceeded is returned when a fixed-length mode is asked
	// to squeeze past its digest length.
	ErrDigestLengthExceeded = errors.New("kmac: digest length exceeded")

	// ErrSideloadKeyMissing is returned when a keyed operation starts with
	// sideloading enabled but no key has been loaded.
	ErrSideloadKeyMissing = errors.New("kmac: sideload key missing")
)
