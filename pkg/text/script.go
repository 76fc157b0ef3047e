package text

import (
	"strings"
	"unicode"
)

// ScriptFilter reports whether a headword belongs to the target script.
type ScriptFilter func(headword string) bool

// hanLanguages are the Kaikki language names whose headwords are written in Han script.
var hanLanguages = map[string]bool{
	"chinese":           true,
	"mandarin":          true,
	"cantonese":         true,
	"hokkien":           true,
	"wu":                true,
	"hakka":             true,
	"teochew":           true,
	"classical chinese": true,
	"literary chinese":  true,
}

// ForLanguage returns the filter for a Kaikki language name. Languages not
// written in Han script accept every non-empty headword.
func ForLanguage(lang string) ScriptFilter {
	switch name := strings.ToLower(strings.TrimSpace(lang)); {
	case hanLanguages[name]:
		return HanHeadword
	case name == "japanese":
		return JapaneseHeadword
	}
	return AnyHeadword
}

// AnyHeadword accepts every non-empty headword.
func AnyHeadword(headword string) bool {
	return headword != ""
}

// HanHeadword rejects loanword and foreign-script noise: any ASCII letter,
// digit or punctuation, and single characters that are not Han.
func HanHeadword(headword string) bool {
	return cjkHeadword(headword, unicode.Han)
}

// JapaneseHeadword is HanHeadword that also accepts single kana, so particles
// like の or を survive.
func JapaneseHeadword(headword string) bool {
	return cjkHeadword(headword, unicode.Han, unicode.Hiragana, unicode.Katakana)
}

func cjkHeadword(headword string, single ...*unicode.RangeTable) bool {
	if headword == "" {
		return false
	}
	runes := 0
	var first rune
	for _, r := range headword {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return false
		}
		if runes == 0 {
			first = r
		}
		runes++
	}
	return runes > 1 || unicode.In(first, single...)
}
