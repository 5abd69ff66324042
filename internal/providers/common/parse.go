package common

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func CleanHTMLText(raw string) string {
	value := strings.TrimSpace(raw)
	value = html.UnescapeString(value)
	value = tagPattern.ReplaceAllString(value, " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

// PositiveSeconds returns a duration pointer for seconds, or nil when the
// value is zero or negative. Live streams and premieres report those.
func PositiveSeconds(seconds int) *int {
	if seconds <= 0 {
		return nil
	}
	v := seconds
	return &v
}

// ParseClockDuration parses "h:mm:ss", "m:ss" or a bare seconds count and
// returns seconds, or -1 when the value cannot be read.
func ParseClockDuration(raw string) int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return -1
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return -1
	}
	total := 0
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return -1
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return -1
		}
		total = total*60 + n
	}
	return total
}

// UnescapeJSONString decodes the body of a JSON string literal as found
// inline in a page. It returns the input unchanged when decoding fails.
func UnescapeJSONString(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}
	var decoded string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &decoded); err != nil {
		return raw
	}
	return decoded
}
