package securecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetExcludesAmbiguousSymbols(t *testing.T) {
	assert.Len(t, Alphabet, 32)
	for _, c := range "0O1I" {
		assert.NotContains(t, Alphabet, string(c))
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	for _, prefix := range []string{"EMB", "ACM", "XYZ", "P2Q"} {
		for i := 0; i < 200; i++ {
			code, err := Generate(prefix)
			require.NoError(t, err)
			require.Len(t, code, CodeLength)
			assert.True(t, strings.HasPrefix(code, prefix))
			assert.True(t, Validate(code), "generated code %q must validate", code)
		}
	}
}

func TestValidateNormalizesInput(t *testing.T) {
	code, err := Generate("EMB")
	require.NoError(t, err)

	spaced := code[:4] + " " + code[4:8] + "-" + code[8:]
	assert.True(t, Validate(spaced))
	assert.True(t, Validate(strings.ToLower(code)))
}

func TestValidateRejectsMalformedInput(t *testing.T) {
	code, err := Generate("EMB")
	require.NoError(t, err)

	cases := map[string]string{
		"empty":           "",
		"too short":       code[:CodeLength-1],
		"too long":        code + "X",
		"bad symbol zero": "0" + code[1:],
		"bad symbol oh":   "O" + code[1:],
	}
	for name, input := range cases {
		assert.False(t, Validate(input), name)
	}
}

// Flipping any single checksum-protected symbol must invalidate the code.
// Symbol 11 is plain entropy and is deliberately outside checksum coverage.
func TestSingleSymbolMutationDetected(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := Generate("EMB")
		require.NoError(t, err)

		for pos := 0; pos < CodeLength-1; pos++ {
			for _, sym := range Alphabet {
				if byte(sym) == code[pos] {
					continue
				}
				mutated := code[:pos] + string(sym) + code[pos+1:]
				assert.False(t, Validate(mutated),
					"mutation at %d of %q to %q escaped the checksum", pos, code, mutated)
			}
		}
	}
}

func TestGenerateRejectsBadPrefix(t *testing.T) {
	for _, prefix := range []string{"", "EM", "EMBX", "E0B", "E!B", "1AB"} {
		_, err := Generate(prefix)
		assert.ErrorIs(t, err, ErrInvalidBrandPrefix, "prefix %q", prefix)
	}
}

func TestGenerateBatchUniqueness(t *testing.T) {
	codes, err := GenerateBatch(5000, "EMB")
	require.NoError(t, err)
	require.Len(t, codes, 5000)

	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		require.True(t, Validate(code))
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %q in batch", code)
		seen[code] = struct{}{}
	}
}

func TestGenerateBatchBounds(t *testing.T) {
	_, err := GenerateBatch(0, "EMB")
	assert.ErrorIs(t, err, ErrBatchSize)

	_, err = GenerateBatch(MaxBatchSize+1, "EMB")
	assert.ErrorIs(t, err, ErrBatchSize)

	_, err = GenerateBatch(10, "bad prefix")
	assert.ErrorIs(t, err, ErrInvalidBrandPrefix)
}
