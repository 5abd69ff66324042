// Package textnorm canonicalizes free text so titles and queries written in
// different scripts or typographic conventions compare equal.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)
	yearPattern  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

var punctuationReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'", "‹", "'", "›", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`, "«", `"`, "»", `"`,
	"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-", "−", "-",
	"ё", "е", "Ё", "Е",
)

// Normalize composes the text, maps typographic quotes and dashes to ASCII,
// strips diacritics from Latin letters, folds ё to е, lowercases and
// collapses whitespace.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	value := norm.NFC.String(text)
	value = punctuationReplacer.Replace(value)
	value = stripDiacritics(value)
	value = strings.ToLower(value)
	return strings.Join(strings.Fields(value), " ")
}

// stripDiacritics keeps composed Cyrillic letters intact (й must not turn
// into и) and drops marks that NFC could not attach to anything.
func stripDiacritics(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < utf8.RuneSelf || !unicode.Is(unicode.Latin, r):
			builder.WriteRune(r)
		default:
			for _, decomposed := range norm.NFD.String(string(r)) {
				if !unicode.Is(unicode.Mn, decomposed) {
					builder.WriteRune(decomposed)
				}
			}
		}
	}
	return builder.String()
}

// Tokens splits text into letter/digit runs.
func Tokens(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// Years returns the distinct 4-digit years found in text, in order of
// appearance.
func Years(text string) []string {
	matches := yearPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	years := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		if _, ok := seen[match[1]]; ok {
			continue
		}
		seen[match[1]] = struct{}{}
		years = append(years, match[1])
	}
	return years
}

type Script int

const (
	ScriptNone Script = iota
	ScriptLatin
	ScriptCyrillic
)

func (s Script) String() string {
	switch s {
	case ScriptLatin:
		return "latin"
	case ScriptCyrillic:
		return "cyrillic"
	default:
		return "none"
	}
}

// DetectScript returns the dominant letter script of text.
func DetectScript(text string) Script {
	latin, cyrillic := 0, 0
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	switch {
	case cyrillic == 0 && latin == 0:
		return ScriptNone
	case cyrillic >= latin:
		return ScriptCyrillic
	default:
		return ScriptLatin
	}
}

func HasCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
