// Package dictionary decodes Kaikki (Wiktionary) JSONL entries and turns a
// single entry into a normalized flashcard record.
package dictionary

import (
	"bytes"
	"encoding/json"
)

// SoftRedirect is the pos value Kaikki uses for entries that only point at
// another headword.
const SoftRedirect = "soft-redirect"

// RawEntry mirrors one Kaikki JSONL line (only the fields we consume).
type RawEntry struct {
	Word          string        `json:"word"`
	Lang          string        `json:"lang"`
	POS           string        `json:"pos"`
	Senses        []Sense       `json:"senses"`
	Sounds        []Sound       `json:"sounds"`
	Forms         []Form        `json:"forms"`
	EtymologyText string        `json:"etymology_text"`
	Hyphenation   []string      `json:"hyphenation"`
	Redirects     []string      `json:"redirects"`
	Translations  []Translation `json:"translations"`
}

// Sense is one gloss group.
type Sense struct {
	Glosses    []string   `json:"glosses"`
	RawGlosses []string   `json:"raw_glosses"`
	Qualifier  string     `json:"qualifier"`
	Topics     []string   `json:"topics"`
	Categories []Category `json:"categories"`
}

// Category is a sense category. Older dumps store plain strings, newer ones
// store objects with a name.
type Category struct {
	Name string
}

// UnmarshalJSON accepts either "name" or {"name": "..."}.
func (c *Category) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Name = obj.Name
	return nil
}

// Sound is one pronunciation record: an IPA transcription, an audio file, or both.
type Sound struct {
	IPA    string   `json:"ipa"`
	Tags   []string `json:"tags"`
	Audio  string   `json:"audio"`
	MP3URL string   `json:"mp3_url"`
	OGGURL string   `json:"ogg_url"`
}

// Form is an inflected or variant form.
type Form struct {
	Form    string   `json:"form"`
	Tags    []string `json:"tags"`
	RawTags []string `json:"raw_tags"`
}

// Translation is one word-level translation.
type Translation struct {
	Lang string `json:"lang"`
	Code string `json:"code"`
	Word string `json:"word"`
}

// Record is the normalized card field set derived from one RawEntry.
// Back is never empty.
type Record struct {
	Front        string
	Back         string
	PartOfSpeech string
	IPA          string
	Audio        string
	Etymology    string
	Forms        string
	Hyphenation  string
	Tags         string
	Translations string
}

// ParseEntry decodes one JSONL line.
func ParseEntry(line []byte) (RawEntry, error) {
	var e RawEntry
	err := json.Unmarshal(line, &e)
	return e, err
}
