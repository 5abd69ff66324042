package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
	// Ukrainian and Belarusian letters.
	'і': "i", 'ї': "yi", 'є': "ye", 'ґ': "g", 'ў': "u",
}

// Transliterate maps Cyrillic letters to Latin using a fixed table. Anything
// else passes through unchanged. Uppercase letters keep their case on the
// first Latin letter.
func Transliterate(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		mapped, ok := cyrillicToLatin[lower]
		if !ok {
			builder.WriteRune(r)
			continue
		}
		if lower != r && mapped != "" {
			first, size := utf8.DecodeRuneInString(mapped)
			builder.WriteRune(unicode.ToUpper(first))
			builder.WriteString(mapped[size:])
			continue
		}
		builder.WriteString(mapped)
	}
	return builder.String()
}

// ScriptVariants returns the normalized text and, when it differs, its Latin
// transliteration.
func ScriptVariants(normalized string) []string {
	translit := Transliterate(normalized)
	if translit == normalized || strings.TrimSpace(translit) == "" {
		return []string{normalized}
	}
	return []string{normalized, translit}
}
