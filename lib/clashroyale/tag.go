package clashroyale

import (
	"errors"
	"strings"
)

var ErrInvalidTag = errors.New("player tag contains no valid characters")

// the game only issues tags over this alphabet; a capital O is a
// common typo for zero
const tagAlphabet = "0289PYLQGRJCU"

// NormalizeTag canonicalizes a user-entered player tag: uppercased,
// O folded into 0, stray spaces and the leading # removed, anything
// outside the tag alphabet dropped. The result carries a leading #.
func NormalizeTag(raw string) (string, error) {
	tag := strings.ToUpper(strings.TrimSpace(raw))
	tag = strings.ReplaceAll(tag, "O", "0")
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.ReplaceAll(tag, " ", "")

	var cleaned strings.Builder
	for _, ch := range tag {
		if strings.ContainsRune(tagAlphabet, ch) {
			cleaned.WriteRune(ch)
		}
	}
	if cleaned.Len() == 0 {
		return "", ErrInvalidTag
	}
	return "#" + cleaned.String(), nil
}
