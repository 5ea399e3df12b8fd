package kmac

// A Mode selects the hashing function an operation computes.
type Mode uint8

const (
	// ModeSHA3_224 computes SHA3-224. The digest length is fixed at 7 words.
	ModeSHA3_224 Mode = iota
	// ModeSHA3_256 computes SHA3-256. The digest length is fixed at 8 words.
	ModeSHA3_256
	// ModeSHA3_384 computes SHA3-384. The digest length is fixed at 12 words.
	ModeSHA3_384
	// ModeSHA3_512 computes SHA3-512. The digest length is fixed at 16 words.
	ModeSHA3_512
	// ModeSHAKE128 computes the SHAKE128 extendable-output function.
	ModeSHAKE128
	// ModeSHAKE256 computes the SHAKE256 extendable-output function.
	ModeSHAKE256
	// ModeCSHAKE128 computes cSHAKE128 with a caller-supplied customization
	// string. With no customization string it degenerates to SHAKE128.
	ModeCSHAKE128
	// ModeCSHAKE256 computes cSHAKE256 with a caller-supplied customization
	// string. With no customization string it degenerates to SHAKE256.
	ModeCSHAKE256
	// ModeKMAC128 computes KMAC128 over a two-share secret key.
	ModeKMAC128
	// ModeKMAC256 computes KMAC256 over a two-share secret key.
	ModeKMAC256
)

// MaxDigestLen is the largest digest length, in 32-bit words, an
// extendable-output mode accepts at Start.
const MaxDigestLen = 1024

// rate returns the sponge rate in bytes.
func (m Mode) rate() int {
	switch m {
	case ModeSHA3_224:
		return 144
	case ModeSHA3_256:
		return 136
	case ModeSHA3_384:
		return 104
	case ModeSHA3_512:
		return 72
	case ModeSHAKE128, ModeCSHAKE128, ModeKMAC128:
		return 168
	case ModeSHAKE256, ModeCSHAKE256, ModeKMAC256:
		return 136
	default:
		return 0
	}
}

// fixedDigestLen returns the mode's fixed digest length in words, or 0 for
// extendable-output modes.
func (m Mode) fixedDigestLen() int {
	switch m {
	case ModeSHA3_224:
		return 7
	case ModeSHA3_256:
		return 8
	case ModeSHA3_384:
		return 12
	case ModeSHA3_512:
		return 16
	default:
		return 0
	}
}

// keyed reports whether the mode consumes a secret key.
func (m Mode) keyed() bool {
	return m == ModeKMAC128 || m == ModeKMAC256
}

// customizable reports whether the mode accepts a customization string.
func (m Mode) customizable() bool {
	switch m {
	case ModeCSHAKE128, ModeCSHAKE256, ModeKMAC128, ModeKMAC256:
		return true
	default:
		return false
	}
}

// functionName returns the NIST SP 800-185 function-name string for the mode.
// Only KMAC carries one; the cSHAKE modes leave it empty for caller-defined
// derived functions.
func (m Mode) functionName() []byte {
	if m.keyed() {
		return []byte("KMAC")
	}
	return nil
}

// padByte returns the domain-separation suffix XORed into the state at the
// first pad position. customized distinguishes cSHAKE proper from its SHAKE
// degenerate form.
func (m Mode) padByte(customized bool) byte {
	switch m {
	case ModeSHA3_224, ModeSHA3_256, ModeSHA3_384, ModeSHA3_512:
		return 0x06
	case ModeSHAKE128, ModeSHAKE256:
		return 0x1f
	default:
		if customized {
			return 0x04
		}
		return 0x1f
	}
}

func (m Mode) valid() bool {
	return m <= ModeKMAC256
}

func (m Mode) String() string {
	switch m {
	case ModeSHA3_224:
		return "SHA3-224"
	case ModeSHA3_256:
		return "SHA3-256"
	case ModeSHA3_384:
		return "SHA3-384"
	case ModeSHA3_512:
		return "SHA3-512"
	case ModeSHAKE128:
		return "SHAKE128"
	case ModeSHAKE256:
		return "SHAKE256"
	case ModeCSHAKE128:
		return "cSHAKE128"
	case ModeCSHAKE256:
		return "cSHAKE256"
	case ModeKMAC128:
		return "KMAC128"
	case ModeKMAC256:
		return "KMAC256"
	default:
		return "invalid"
	}
}
