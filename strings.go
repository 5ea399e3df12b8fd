package kmac

import (
	"fmt"

	"github.com/cryptohw/kmac/internal/sp800185"
)

// MaxCustomizationStringLen is the byte capacity of a customization string
// before encoding.
const MaxCustomizationStringLen = 32

// A CustomizationString is a customization string in its left-encoded wire
// form, ready to be absorbed into the cSHAKE prefix block.
type CustomizationString struct {
	buf [sp800185.MaxSize + MaxCustomizationStringLen]byte
	n   int
}

// NewCustomizationString encodes s for use as a cSHAKE/KMAC customization
// string. It returns ErrTooLong if s exceeds MaxCustomizationStringLen
// bytes.
func NewCustomizationString(s string) (*CustomizationString, error) {
	if len(s) > MaxCustomizationStringLen {
		return nil, fmt.Errorf("%w: customization string is %d bytes, max %d", ErrTooLong, len(s), MaxCustomizationStringLen)
	}

	var c CustomizationString
	c.n = len(sp800185.AppendEncodeString(c.buf[:0], []byte(s)))
	return &c, nil
}

// encoded returns the left-encoded byte sequence.
func (c *CustomizationString) encoded() []byte {
	if c == nil {
		// encode_string("")
		return sp800185.AppendEncodeString(nil, nil)
	}
	return c.buf[:c.n]
}
