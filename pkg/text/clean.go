// Package text holds the stateless helpers that turn raw Wiktionary
// fragments into plain or lightly marked-up card text.
package text

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	paragraphRe  = regexp.MustCompile(`\n+`)
)

// etymologyBoilerplate is the label Kaikki copies from the collapsible tree widget.
const etymologyBoilerplate = "Etymology tree"

// CleanHTML strips tags, decodes entities and collapses whitespace.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FormatEtymology cleans every paragraph of an etymology and joins them
// with <br> so the paragraph structure survives on the card.
func FormatEtymology(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	var paragraphs []string
	for _, p := range paragraphRe.Split(s, -1) {
		p = strings.ReplaceAll(p, etymologyBoilerplate, "")
		p = CleanHTML(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "<br>")
}

// NormalizeHeadword trims a headword, decodes entities and applies NFC so
// that composed and decomposed spellings group under the same key.
func NormalizeHeadword(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	return norm.NFC.String(s)
}

// StripTags removes HTML tags only, leaving entities and spacing untouched.
func StripTags(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}
