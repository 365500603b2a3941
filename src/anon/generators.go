package anon

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sequencer exposes the counters the stateful generators read: the
// current size of a column's map (category ordinals) and the
// process-lifetime generic sequence. The MappingStore implements it.
type sequencer interface {
	columnSize(columnName string) int
	nextGenericOrdinal() int
}

type generatorFunc func(columnName, value string, seq sequencer) string

// generators dispatches a Classification to its generation strategy.
// Total over the enum.
var generators = map[Classification]generatorFunc{
	ClassUTM:        utmStylePseudonym,
	ClassIdentifier: identifierStylePseudonym,
	ClassCategory:   categoryStylePseudonym,
	ClassGeneric:    genericPseudonym,
}

// hexDigest returns the full lowercase-hex MD5 of key. MD5 is not
// security-sensitive here, only a stable 128-bit pseudorandom source;
// the pseudonyms make no cryptographic anonymity claim.
func hexDigest(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// utmStylePseudonym keeps the channel prefix of values like
// "social_facebook" verbatim and replaces only the meaningful part, so
// the anonymized table still reads like marketing data.
func utmStylePseudonym(columnName, value string, _ sequencer) string {
	parts := strings.SplitN(value, "_", 2)
	if len(parts) == 2 && utf8.RuneCountInString(parts[0]) < 15 {
		return parts[0] + "_" + hexDigest(columnName+":"+parts[1])[:8]
	}
	// No clear prefix, derive one from the column name.
	colPrefix := strings.ToUpper(truncateRunes(strings.Split(columnName, "_")[0], 3))
	return colPrefix + "_" + hexDigest(columnName+":"+value)[:8]
}

// identifierStylePseudonym mirrors the shape of the original ID:
// hyphenated IDs stay hyphenated (keeping a short alphabetic prefix
// like "CAMP" when present), plain IDs become "ID" + 12 hex chars.
func identifierStylePseudonym(columnName, value string, _ sequencer) string {
	h := hexDigest(columnName + ":" + value)
	if strings.Contains(value, "-") {
		first := strings.Split(value, "-")[0]
		if first != "" && utf8.RuneCountInString(first) <= 6 && isAlpha(first) {
			return fmt.Sprintf("%s-%s-%s-%s", first, h[:4], h[4:8], h[8:12])
		}
		return fmt.Sprintf("%s-%s-%s-%s", h[:4], h[4:8], h[8:12], h[12:16])
	}
	return "ID" + strings.ToUpper(h[:12])
}

// categoryStylePseudonym assigns readable ordinals: the n-th distinct
// value seen in a column becomes "<initials>_<n>", zero-padded to at
// least 3 digits.
func categoryStylePseudonym(columnName, value string, seq sequencer) string {
	prefix := columnInitials(columnName)
	if prefix == "" {
		prefix = "CAT"
	}
	return fmt.Sprintf("%s_%03d", prefix, seq.columnSize(columnName)+1)
}

func genericPseudonym(columnName, value string, seq sequencer) string {
	return fmt.Sprintf("ANON_%s_%04d", hexDigest(columnName+":"+value)[:6], seq.nextGenericOrdinal())
}

// columnInitials returns the uppercased first letter of each
// underscore-delimited word of the column name, at most 3 characters.
func columnInitials(columnName string) string {
	var b strings.Builder
	for _, word := range strings.Split(columnName, "_") {
		if word == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return truncateRunes(b.String(), 3)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
