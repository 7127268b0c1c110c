// Package textutil holds small text-shaping helpers shared across the
// history engine, classifier, and paste dispatcher so none of them
// duplicates the masking algorithm.
package textutil

import "strings"

const bullet = "•"

// Mask replaces each whitespace-separated token with its masked form:
// first char, then len(token)-2 bullets, then last char; tokens of
// length <= 2 become first char plus a single bullet.
func Mask(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	for i, w := range fields {
		fields[i] = maskToken(w)
	}
	return strings.Join(fields, " ")
}

func maskToken(w string) string {
	runes := []rune(w)
	if len(runes) <= 2 {
		return string(runes[0]) + bullet
	}
	var b strings.Builder
	b.WriteRune(runes[0])
	for i := 1; i < len(runes)-1; i++ {
		b.WriteString(bullet)
	}
	b.WriteRune(runes[len(runes)-1])
	return b.String()
}

// MaskWordMatches replaces every case-insensitive occurrence of any word
// in words within s with its masked form, returning the result and
// whether any match occurred.
func MaskWordMatches(s string, words []string) (string, bool) {
	if len(words) == 0 {
		return s, false
	}
	lower := strings.ToLower(s)
	matched := false
	for _, w := range words {
		if w == "" {
			continue
		}
		lw := strings.ToLower(w)
		if strings.Contains(lower, lw) {
			matched = true
			s = replaceCaseInsensitive(s, w, Mask(w))
			lower = strings.ToLower(s)
		}
	}
	return s, matched
}

// HasMaskWordMatch reports whether any word in words occurs in s,
// case-insensitively, without performing any replacement.
func HasMaskWordMatch(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func replaceCaseInsensitive(s, old, new string) string {
	lowerS := strings.ToLower(s)
	lowerOld := strings.ToLower(old)
	var b strings.Builder
	for {
		idx := strings.Index(lowerS, lowerOld)
		if idx == -1 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		b.WriteString(new)
		s = s[idx+len(old):]
		lowerS = lowerS[idx+len(old):]
	}
	return b.String()
}
