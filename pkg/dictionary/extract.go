package dictionary

import (
	"github.com/japaniel/wikianki/pkg/text"
)

// maxTranslations caps the translation summary of one record.
const maxTranslations = 10

// Extractor turns raw entries of one language into normalized records.
type Extractor struct {
	Language string
	Filter   text.ScriptFilter
}

// NewExtractor returns an extractor with the script filter of lang.
func NewExtractor(lang string) *Extractor {
	return &Extractor{Language: lang, Filter: text.ForLanguage(lang)}
}

// Accepts reports whether headword passes the language script filter.
func (x *Extractor) Accepts(headword string) bool {
	if x.Filter == nil {
		return headword != ""
	}
	return x.Filter(headword)
}

// Extract builds the record for e. ok is false when the entry is for another
// language, is a soft redirect, fails the script filter or has no definitions.
func (x *Extractor) Extract(e RawEntry) (Record, bool) {
	word := text.NormalizeHeadword(e.Word)
	if word == "" || e.Lang != x.Language || e.POS == SoftRedirect {
		return Record{}, false
	}
	if !x.Accepts(word) {
		return Record{}, false
	}

	back := FormatDefinitions(e.Senses, e.Lang)
	if back == "" {
		return Record{}, false
	}

	front := word
	if simplified, ok := SimplifiedForm(e.Forms); ok {
		if s := text.NormalizeHeadword(simplified); s != "" {
			front = s
		}
	}

	ipaText, audio := FormatPronunciation(e.Sounds)
	tags := "wiktionary"
	if e.POS != "" {
		tags += " " + e.POS
	}
	return Record{
		Front:        front,
		Back:         back,
		PartOfSpeech: e.POS,
		IPA:          ipaText,
		Audio:        audio,
		Etymology:    text.FormatEtymology(e.EtymologyText),
		Forms:        FormatForms(e.Forms),
		Hyphenation:  FormatHyphenation(e.Hyphenation),
		Tags:         tags,
		Translations: FormatTranslations(e.Translations, maxTranslations),
	}, true
}
