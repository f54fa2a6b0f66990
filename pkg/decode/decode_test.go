package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		w    Word
	}{
		{"SOF", Word{Tag: SOF, Arg1: 1 << 13, Arg2: 1 << 14}},
		{"LOG", Word{Tag: LOG, Arg1: 1 << 13, Arg2: -(1 << 14)}},
		{"EXP", Word{Tag: EXP, Arg1: 1 << 13, Arg2: 0}},
		{"AND", Word{Tag: AND, Arg1: 0x00FF00}},
		{"OR", Word{Tag: OR, Arg1: 0x000001}},
		{"XOR", Word{Tag: XOR, Arg1: 0x00FFFFFF}},
		{"SKP", Word{Tag: SKP, Arg1: 0x08, Arg2: 5}},
		{"RDAX", Word{Tag: RDAX, Arg1: 0x20, Arg2: 1 << 14}},
		{"WRAX", Word{Tag: WRAX, Arg1: 0x16, Arg2: 0}},
		{"MAXX", Word{Tag: MAXX, Arg1: 0x21, Arg2: 1 << 14}},
		{"MULX", Word{Tag: MULX, Arg1: 0x22}},
		{"RDFX", Word{Tag: RDFX, Arg1: 0x23, Arg2: 1 << 14}},
		{"WRLX", Word{Tag: WRLX, Arg1: 0x24, Arg2: 1 << 14}},
		{"WRHX", Word{Tag: WRHX, Arg1: 0x25, Arg2: 1 << 14}},
		{"RDA", Word{Tag: RDA, Arg1: 100, Arg2: 1 << 14}},
		{"WRA", Word{Tag: WRA, Arg1: 200, Arg2: 1 << 14}},
		{"WRAP", Word{Tag: WRAP, Arg1: 300, Arg2: 1 << 14}},
		{"RMPA", Word{Tag: RMPA, Arg1: 1 << 14}},
		{"WLDS", Word{Tag: WLDS, Arg1: 0, Arg2: 400, Arg3: 5000}},
		{"WLDR", Word{Tag: WLDR, Arg1: 1, Arg2: 2000, Arg3: 3}},
		{"JAM", Word{Tag: JAM, Arg1: 1}},
		{"CHORDA", Word{Tag: CHORDA, Arg1: 2, Arg2: 0x04, Arg3: 100}},
		{"CHOSOF", Word{Tag: CHOSOF, Arg1: 0, Arg2: 0x08, Arg3: 0}},
		{"CHORDAL", Word{Tag: CHORDAL, Arg1: 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			word := Encode(tc.w)
			got := Decode(word)
			assert.Equal(t, tc.w, got)
		})
	}
}

func TestDecodeTagFromLowFiveBits(t *testing.T) {
	assert.Equal(t, SOF, Decode(Encode(Word{Tag: SOF})).Tag)
	assert.Equal(t, SKP, Decode(End).Tag)
}

func TestDecodeWldrVsWlds(t *testing.T) {
	wlds := Decode(Encode(Word{Tag: WLDS, Arg1: 0, Arg2: 10, Arg3: 20}))
	assert.Equal(t, WLDS, wlds.Tag)

	wldr := Decode(Encode(Word{Tag: WLDR, Arg1: 1, Arg2: 10, Arg3: 2}))
	assert.Equal(t, WLDR, wldr.Tag)
}

func TestDecodeChoTopBitsSelectVariant(t *testing.T) {
	rda := Decode(Encode(Word{Tag: CHORDA, Arg1: 0, Arg2: 0, Arg3: 0}))
	assert.Equal(t, CHORDA, rda.Tag)

	sof := Decode(Encode(Word{Tag: CHOSOF, Arg1: 0, Arg2: 0, Arg3: 0}))
	assert.Equal(t, CHOSOF, sof.Tag)

	rdal := Decode(Encode(Word{Tag: CHORDAL, Arg1: 2}))
	assert.Equal(t, CHORDAL, rdal.Tag)
}

// genWord builds an arbitrary Word for one of the decodable tags, with
// operand magnitudes kept within the field widths Encode actually
// supports, so the idempotence property below exercises realistic
// encode/decode traffic rather than undefined overflow behaviour.
func genWord(t *rapid.T) Word {
	tags := []Tag{
		SOF, LOG, EXP, AND, OR, XOR, SKP,
		RDAX, WRAX, MAXX, MULX, RDFX, WRLX, WRHX,
		RDA, WRA, WRAP, RMPA, WLDS, WLDR, JAM,
		CHORDA, CHOSOF, CHORDAL,
	}
	tag := tags[rapid.IntRange(0, len(tags)-1).Draw(t, "tagIdx")]
	coeff := rapid.IntRange(-1<<16, 1<<16).Draw(t, "coeff")
	small := rapid.IntRange(0, 63).Draw(t, "small")
	addr := rapid.IntRange(0, 32767).Draw(t, "addr")
	lfo := rapid.IntRange(0, 3).Draw(t, "lfo")

	switch tag {
	case SOF, LOG, EXP:
		return Word{Tag: tag, Arg1: coeff, Arg2: coeff}
	case AND, OR, XOR:
		return Word{Tag: tag, Arg1: rapid.IntRange(0, 0x00FFFFFF).Draw(t, "mask")}
	case SKP:
		return Word{Tag: tag, Arg1: small & 0x1F, Arg2: small}
	case RDAX, WRAX, MAXX, RDFX, WRLX, WRHX:
		return Word{Tag: tag, Arg1: small, Arg2: coeff}
	case MULX:
		return Word{Tag: tag, Arg1: small}
	case RDA, WRA, WRAP:
		return Word{Tag: tag, Arg1: addr, Arg2: coeff}
	case RMPA:
		return Word{Tag: tag, Arg1: coeff}
	case WLDS:
		return Word{Tag: tag, Arg1: lfo & 0x1, Arg2: rapid.IntRange(0, 511).Draw(t, "freq"), Arg3: rapid.IntRange(0, 32767).Draw(t, "amp")}
	case WLDR:
		return Word{Tag: tag, Arg1: lfo & 0x1, Arg2: rapid.IntRange(-16384, 16383).Draw(t, "freq"), Arg3: lfo & 0x3}
	case JAM:
		return Word{Tag: tag, Arg1: lfo & 0x1}
	case CHORDA:
		return Word{Tag: tag, Arg1: lfo, Arg2: rapid.IntRange(0, 0x3F).Draw(t, "flags"), Arg3: addr}
	case CHOSOF:
		return Word{Tag: tag, Arg1: lfo, Arg2: rapid.IntRange(0, 0x3F).Draw(t, "flags"), Arg3: coeff}
	case CHORDAL:
		return Word{Tag: tag, Arg1: lfo}
	}
	return Word{Tag: tag}
}

// TestDecodeEncodeIdempotent checks that once a Word has passed through
// one decode/encode cycle, it is a fixed point: decoding its own
// re-encoding reproduces the same Word. This is the property the
// assembler and loader both lean on (encode once, decode many times).
func TestDecodeEncodeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := genWord(t)
		once := Decode(Encode(w))
		twice := Decode(Encode(once))
		assert.Equal(t, once, twice)
	})
}

func TestEncodeDecodeArbitraryWordIsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.Uint32().Draw(t, "word")
		w := Decode(word)
		reencoded := Encode(w)
		assert.Equal(t, w, Decode(reencoded), "decode(encode(decode(word))) must equal decode(word)")
	})
}
