package service

import (
	"html"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

const (
	// metaDescriptionLength is the stripped-HTML prefix length used for the
	// meta description of a blog.
	metaDescriptionLength = 160
	// excerptLength is the target length for the smart-trimmed excerpt.
	excerptLength = 320
	// excerptSuffix marks a truncated excerpt.
	excerptSuffix = " ..."
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// makeSlug derives the lowercase URL-safe slug for a display name or title.
func makeSlug(name string) string {
	return slug.Make(name)
}

// stripHTML removes markup from rich text and collapses whitespace, leaving
// readable plain text.
func stripHTML(s string) string {
	plain := htmlTagRe.ReplaceAllString(s, " ")
	plain = html.UnescapeString(plain)
	plain = whitespaceRe.ReplaceAllString(plain, " ")
	return strings.TrimSpace(plain)
}

// metaTitle builds the document title for a blog.
func metaTitle(title, appName string) string {
	return title + " | " + appName
}

// metaDescription returns the stripped-HTML prefix of the body, cut at the
// meta description length on a rune boundary.
func metaDescription(body string) string {
	plain := stripHTML(body)
	runes := []rune(plain)
	if len(runes) <= metaDescriptionLength {
		return plain
	}
	return string(runes[:metaDescriptionLength])
}

// excerpt smart-trims the body's plain text to the excerpt target: input at
// or under the target is returned unchanged with no suffix; longer input is
// cut at the last word boundary within the target and suffixed with an
// ellipsis marker.
func excerpt(body string) string {
	plain := stripHTML(body)
	runes := []rune(plain)
	if len(runes) <= excerptLength {
		return plain
	}

	cut := string(runes[:excerptLength])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + excerptSuffix
}
