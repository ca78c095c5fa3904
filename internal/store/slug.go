package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SlugMaxLength is the maximum length of the slug part of an ID.
	SlugMaxLength = 40

	// SlugMinWordBoundary is the minimum length before trimming at a hyphen.
	SlugMinWordBoundary = 20
)

// idPattern matches IDs produced by FormatID.
var idPattern = regexp.MustCompile(`^[0-9]{3,}-[a-z0-9]+(-[a-z0-9]+)*$`)

// stripMarks decomposes text and drops combining marks: "Café" -> "Cafe".
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug converts a title into the lowercase ASCII slug used in IDs.
func Slug(title string) string {
	s, _, err := transform.String(stripMarks, title)
	if err != nil {
		s = title
	}
	s = truncateSlug(slugify(strings.ToLower(s)))
	if s == "" {
		return "workstream"
	}
	return s
}

// FormatID joins a sequence number and slug: 7, "api" -> "007-api".
func FormatID(seq int, slug string) string {
	return fmt.Sprintf("%03d-%s", seq, slug)
}

// ValidID reports whether id has the "<seq>-<slug>" shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

func checkID(id string) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// SeqOf returns the numeric prefix of an ID, or 0 when there is none.
func SeqOf(id string) int {
	head, _, _ := strings.Cut(id, "-")
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// slugify replaces non-alphanumeric runs with single hyphens and trims
// leading and trailing hyphens.
func slugify(input string) string {
	var result strings.Builder
	lastHyphen := false
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			result.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(result.String(), "-")
}

func truncateSlug(s string) string {
	if len(s) <= SlugMaxLength {
		return s
	}
	s = s[:SlugMaxLength]
	if idx := strings.LastIndex(s, "-"); idx > SlugMinWordBoundary {
		s = s[:idx]
	}
	return strings.TrimRight(s, "-")
}
