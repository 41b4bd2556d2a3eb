package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// ParseLooseFloat parses numbers the way stat sites print them,
// with a decimal comma treated the same as a decimal point. Percent
// signs are not stripped here: callers that expect them remove them
// first, callers that don't treat them as a parse failure.
func ParseLooseFloat(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, ",", ".")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var numberRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// IsNumber reports whether the token is purely a number, with a decimal
// comma treated the same as a decimal point.
func IsNumber(token string) bool {
	return numberRegex.MatchString(strings.ReplaceAll(token, ",", "."))
}
