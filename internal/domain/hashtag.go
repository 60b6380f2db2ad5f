package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// MaxHashtagLength bounds hashtag names accepted by the registry
const MaxHashtagLength = 50

// hashtagNamePattern and isHashtagRune accept the same characters
var hashtagNamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_]+$`)

func isHashtagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) || r == '_'
}

// Hashtag is an entry of the shared hashtag registry
type Hashtag struct {
	ID         uuid.UUID
	Name       string
	CreatedAt  time.Time
	UsageCount int
}

// ExtractHashtags returns the distinct, lowercased hashtags of text in order
// of first appearance. Every whitespace-separated word starting with '#' is a
// candidate; characters other than letters, marks, numbers and '_' are dropped.
// Tags longer than MaxHashtagLength are ignored.
func ExtractHashtags(text string) []string {
	var tags []string
	seen := make(map[string]bool)

	for _, word := range strings.Fields(text) {
		if !strings.HasPrefix(word, "#") {
			continue
		}

		var b strings.Builder
		for _, r := range strings.TrimLeft(word, "#") {
			if isHashtagRune(r) {
				b.WriteRune(unicode.ToLower(r))
			}
		}

		tag := b.String()
		if tag == "" || seen[tag] || len([]rune(tag)) > MaxHashtagLength {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	return tags
}

// NormalizeHashtag validates a hashtag name and returns its stored form
func NormalizeHashtag(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	if name == "" || len([]rune(name)) > MaxHashtagLength || !hashtagNamePattern.MatchString(name) {
		return "", NewInvalidArgument("hashtag can only contain letters, numbers and underscore, max %d chars", MaxHashtagLength)
	}
	return strings.ToLower(name), nil
}
