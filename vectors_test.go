package kmac_test

import (
	"crypto/sha3"
	"encoding/binary"
	"testing"

	xsha3 "golang.org/x/crypto/sha3"
	"gotest.tools/v3/assert"

	"github.com/cryptohw/kmac"
)

// kmacTestKey is the key from the published KMAC samples (bytes 0x40..0x5F),
// in unmasked two-share form.
func kmacTestKey() *kmac.Key {
	return &kmac.Key{
		Share0: [kmac.MaxKeyWords]uint32{
			0x43424140, 0x47464544, 0x4b4a4948, 0x4f4e4d4c,
			0x53525150, 0x57565554, 0x5b5a5958, 0x5f5e5d5c,
		},
		Len: kmac.KeyLen256,
	}
}

// kmacTestMessage is the 200-byte message 0x00..0xC7 from the published KMAC
// samples.
func kmacTestMessage() []byte {
	msg := make([]byte, 200)
	for i := range msg {
		msg[i] = byte(i)
	}
	return msg
}

// kmacTestDigest is the published KMAC256 digest for kmacTestKey,
// kmacTestMessage, and the customization string "My Tagged Application",
// with a 16-word requested length.
var kmacTestDigest = []uint32{
	0x1c73bed5, 0x73d74e95, 0x59bb4628, 0xe3a8e3db, 0x7ae7830f,
	0x5944ff4b, 0xb4c2f1f2, 0xceb8ebec, 0xc601ba67, 0x57b88a2e,
	0x9b492d8d, 0x6727bbd1, 0x90117868, 0x6a300a02, 0x1d28de97,
	0x5d3030cc,
}

func runKMACVector(t *testing.T, eng *kmac.Engine, cfg kmac.Config) []uint32 {
	t.Helper()

	cs, err := kmac.NewCustomizationString("My Tagged Application")
	assert.NilError(t, err)

	assert.NilError(t, eng.Configure(cfg))
	assert.NilError(t, eng.Start(kmac.ModeKMAC256, len(kmacTestDigest), kmacTestKey(), cs))
	assert.NilError(t, eng.Absorb(kmacTestMessage()))

	out := make([]uint32, len(kmacTestDigest))
	assert.NilError(t, eng.Squeeze(out))
	assert.NilError(t, eng.End())
	return out
}

func TestKMAC256KnownAnswer(t *testing.T) {
	t.Run("unmasked", func(t *testing.T) {
		got := runKMACVector(t, kmac.New(nil), kmac.Config{})
		assert.DeepEqual(t, got, kmacTestDigest)
	})

	t.Run("masked EDN", func(t *testing.T) {
		src := &wordsSource{words: []uint32{0xdeadbeef, 0x01234567, 0x89abcdef}}
		cfg := kmac.Config{
			EntropyMode:   kmac.EntropyModeEDN,
			Masking:       true,
			HashThreshold: 50,
			WaitTimer:     0,
			Prescaler:     1,
		}
		got := runKMACVector(t, kmac.New(src), cfg)
		assert.DeepEqual(t, got, kmacTestDigest)
	})

	t.Run("masked software", func(t *testing.T) {
		cfg := kmac.Config{
			EntropyMode:   kmac.EntropyModeSoftware,
			EntropySeed:   []uint32{0x5eed0001, 0x5eed0002},
			Masking:       true,
			MsgMask:       true,
			HashThreshold: 2,
		}
		got := runKMACVector(t, kmac.New(nil), cfg)
		assert.DeepEqual(t, got, kmacTestDigest)
	})
}

// The keyed modes encode a zero output length, so the digest is a prefix
// of any longer one: the length requested at Start must not change the
// output words.
func TestKMACOutputLengthIndependent(t *testing.T) {
	cs, err := kmac.NewCustomizationString("My Tagged Application")
	assert.NilError(t, err)

	short := oneShot(t, kmac.Config{}, kmac.ModeKMAC256, 8, kmacTestKey(), cs, kmacTestMessage())
	long := oneShot(t, kmac.Config{}, kmac.ModeKMAC256, 16, kmacTestKey(), cs, kmacTestMessage())

	assert.DeepEqual(t, short, long[:8])
	assert.DeepEqual(t, long, kmacTestDigest)
}

// Masking must never change the digest: runs differing only in the entropy
// words they draw produce identical output.
func TestMaskingInvariance(t *testing.T) {
	base := runKMACVector(t, kmac.New(nil), kmac.Config{})

	for _, words := range [][]uint32{
		{0},
		{0xffffffff},
		{1, 2, 3, 4, 5, 6, 7},
		{0xa5a5a5a5, 0x5a5a5a5a},
	} {
		cfg := kmac.Config{
			EntropyMode:   kmac.EntropyModeEDN,
			Masking:       true,
			MsgMask:       true,
			HashThreshold: 1,
		}
		got := runKMACVector(t, kmac.New(&wordsSource{words: words}), cfg)
		assert.DeepEqual(t, got, base)
	}
}

func wordsToBytes(words []uint32) []byte {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

func oneShot(t *testing.T, cfg kmac.Config, mode kmac.Mode, digestLen int, key *kmac.Key, cs *kmac.CustomizationString, msg []byte) []uint32 {
	t.Helper()

	eng := kmac.New(nil)
	assert.NilError(t, eng.Configure(cfg))
	assert.NilError(t, eng.Start(mode, digestLen, key, cs))
	assert.NilError(t, eng.Absorb(msg))
	out := make([]uint32, digestLen)
	assert.NilError(t, eng.Squeeze(out))
	assert.NilError(t, eng.End())
	return out
}

func TestSHA3ModesAgainstStdlib(t *testing.T) {
	msg := kmacTestMessage()

	sum224 := sha3.Sum224(msg)
	sum256 := sha3.Sum256(msg)
	sum384 := sha3.Sum384(msg)
	sum512 := sha3.Sum512(msg)

	for _, test := range []struct {
		mode kmac.Mode
		len  int
		want []byte
	}{
		{mode: kmac.ModeSHA3_224, len: 7, want: sum224[:]},
		{mode: kmac.ModeSHA3_256, len: 8, want: sum256[:]},
		{mode: kmac.ModeSHA3_384, len: 12, want: sum384[:]},
		{mode: kmac.ModeSHA3_512, len: 16, want: sum512[:]},
	} {
		got := oneShot(t, kmac.Config{}, test.mode, test.len, nil, nil, msg)
		assert.DeepEqual(t, wordsToBytes(got), test.want)
	}
}

func TestSHAKEModesAgainstStdlib(t *testing.T) {
	msg := []byte("the quick brown fox jumps over the lazy dog")

	for _, test := range []struct {
		mode kmac.Mode
		want []byte
	}{
		{mode: kmac.ModeSHAKE128, want: sha3.SumSHAKE128(msg, 48)},
		{mode: kmac.ModeSHAKE256, want: sha3.SumSHAKE256(msg, 48)},
	} {
		got := oneShot(t, kmac.Config{}, test.mode, 12, nil, nil, msg)
		assert.DeepEqual(t, wordsToBytes(got), test.want)
	}
}

func TestCSHAKEModesAgainstXCrypto(t *testing.T) {
	msg := kmacTestMessage()
	cs, err := kmac.NewCustomizationString("Email Signature")
	assert.NilError(t, err)

	for _, test := range []struct {
		mode kmac.Mode
		ref  func(n, s []byte) xsha3.ShakeHash
	}{
		{mode: kmac.ModeCSHAKE128, ref: xsha3.NewCShake128},
		{mode: kmac.ModeCSHAKE256, ref: xsha3.NewCShake256},
	} {
		want := make([]byte, 64)
		h := test.ref(nil, []byte("Email Signature"))
		_, _ = h.Write(msg)
		_, _ = h.Read(want)

		got := oneShot(t, kmac.Config{}, test.mode, 16, nil, cs, msg)
		assert.DeepEqual(t, wordsToBytes(got), want)
	}

	t.Run("no customization degenerates to SHAKE", func(t *testing.T) {
		got := oneShot(t, kmac.Config{}, kmac.ModeCSHAKE256, 12, nil, nil, msg)
		assert.DeepEqual(t, wordsToBytes(got), sha3.SumSHAKE256(msg, 48))
	})
}

func TestOutputEndianness(t *testing.T) {
	le := runKMACVector(t, kmac.New(nil), kmac.Config{})
	be := runKMACVector(t, kmac.New(nil), kmac.Config{OutputBigEndian: true})

	for i := range le {
		swapped := binary.BigEndian.Uint32(wordsToBytes(le[i : i+1]))
		assert.Equal(t, be[i], swapped)
	}
}

func TestMessageEndianness(t *testing.T) {
	// Swapping each aligned 32-bit word of the message up front and
	// absorbing it little-endian must match absorbing the original message
	// in big-endian mode.
	msg := kmacTestMessage()
	swapped := make([]byte, len(msg))
	for i := 0; i+4 <= len(msg); i += 4 {
		swapped[i], swapped[i+1], swapped[i+2], swapped[i+3] = msg[i+3], msg[i+2], msg[i+1], msg[i]
	}

	want := oneShot(t, kmac.Config{}, kmac.ModeSHAKE256, 8, nil, nil, swapped)
	got := oneShot(t, kmac.Config{MessageBigEndian: true}, kmac.ModeSHAKE256, 8, nil, nil, msg)
	assert.DeepEqual(t, got, want)
}

func TestSqueezeIncremental(t *testing.T) {
	eng := kmac.New(nil)
	assert.NilError(t, eng.Configure(kmac.Config{}))
	assert.NilError(t, eng.Start(kmac.ModeSHAKE256, 16, nil, nil))
	assert.NilError(t, eng.Absorb([]byte("incremental")))

	// Extendable modes may squeeze past the length requested at Start.
	parts := make([]uint32, 0, 80)
	for _, n := range []int{1, 3, 12, 64} {
		chunk := make([]uint32, n)
		assert.NilError(t, eng.Squeeze(chunk))
		parts = append(parts, chunk...)
	}
	assert.NilError(t, eng.End())

	want := sha3.SumSHAKE256([]byte("incremental"), len(parts)*4)
	assert.DeepEqual(t, wordsToBytes(parts), want)
}
