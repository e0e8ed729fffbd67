// Package securecode implements the scratch-code format printed on product
// packaging: 12 symbols over a 32-character alphabet, protected by two
// Luhn-mod-32 check symbols so that corrupted or fabricated codes can be
// rejected without a database lookup.
package securecode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the 32-symbol set used for all code arithmetic. 0, O, 1 and I
// are excluded because they are easy to confuse when typed from a scratch
// panel; input is upper-cased before validation, so L stays unambiguous.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const (
	// CodeLength is the total number of symbols in a code.
	CodeLength = 12
	// PrefixLength is the number of leading brand-prefix symbols.
	PrefixLength = 3

	radix       = 32
	randomSpan  = 6 // symbols 3-8
	checksum1At = 9
	checksum2At = 10

	// MaxBatchSize caps one generation run. With 32^6 possible random
	// bodies per prefix, collision retries stay negligible at this size.
	MaxBatchSize = 10000
)

var (
	ErrInvalidBrandPrefix = errors.New("brand prefix must be exactly 3 symbols from the code alphabet")
	ErrBatchSize          = fmt.Errorf("batch quantity must be between 1 and %d", MaxBatchSize)
)

var symbolValues = buildSymbolValues()

func buildSymbolValues() map[byte]int {
	m := make(map[byte]int, radix)
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = i
	}
	return m
}

// Normalize upper-cases a submitted code and strips spaces and hyphens,
// the separators typically typed between symbol groups.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, " ", "")
	return strings.ReplaceAll(code, "-", "")
}

// checksum computes the Luhn-mod-32 check value over values: iterate
// right-to-left, double every second value starting with the rightmost,
// fold doubled values back into the radix by summing their base-32 digits.
func checksum(values []int) int {
	sum := 0
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		if (len(values)-1-i)%2 == 0 {
			v *= 2
			if v >= radix {
				v = v/radix + v%radix
			}
		}
		sum += v
	}
	return (radix - sum%radix) % radix
}

func symbolsToValues(code string) ([]int, bool) {
	values := make([]int, len(code))
	for i := 0; i < len(code); i++ {
		v, ok := symbolValues[code[i]]
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// ValidPrefix reports whether prefix is exactly PrefixLength symbols from
// the alphabet. It says nothing about whether the prefix is registered.
func ValidPrefix(prefix string) bool {
	prefix = Normalize(prefix)
	if len(prefix) != PrefixLength {
		return false
	}
	_, ok := symbolsToValues(prefix)
	return ok
}

// Validate checks a presented code's structural integrity: length, alphabet
// membership, and both check symbols. It performs no storage access.
func Validate(code string) bool {
	code = Normalize(code)
	if len(code) != CodeLength {
		return false
	}
	values, ok := symbolsToValues(code)
	if !ok {
		return false
	}
	if checksum(values[:checksum1At]) != values[checksum1At] {
		return false
	}
	return checksum(values[:checksum2At]) == values[checksum2At]
}

// randomSymbols draws n symbols uniformly from the alphabet using a
// cryptographically secure source. 32 divides 256, so a plain modulus
// introduces no bias.
func randomSymbols(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%radix]
	}
	return string(out), nil
}

// Generate produces one code for the given brand prefix. The prefix must be
// structurally valid; registration against the brand table is the caller's
// concern.
func Generate(prefix string) (string, error) {
	prefix = Normalize(prefix)
	if !ValidPrefix(prefix) {
		return "", ErrInvalidBrandPrefix
	}

	body, err := randomSymbols(randomSpan)
	if err != nil {
		return "", err
	}

	code := prefix + body
	values, _ := symbolsToValues(code)
	code += string(Alphabet[checksum(values)])

	values, _ = symbolsToValues(code)
	code += string(Alphabet[checksum(values)])

	tail, err := randomSymbols(1)
	if err != nil {
		return "", err
	}
	return code + tail, nil
}

// GenerateBatch produces quantity pairwise-distinct codes for one brand
// prefix. Duplicate draws are discarded and redrawn; at the permitted batch
// sizes a duplicate is a sub-0.01% event, so the loop is effectively bounded.
func GenerateBatch(quantity int, prefix string) ([]string, error) {
	if quantity <= 0 || quantity > MaxBatchSize {
		return nil, ErrBatchSize
	}
	prefix = Normalize(prefix)
	if !ValidPrefix(prefix) {
		return nil, ErrInvalidBrandPrefix
	}

	codes := make([]string, 0, quantity)
	seen := make(map[string]struct{}, quantity)
	for len(codes) < quantity {
		code, err := Generate(prefix)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}
