package dictionary

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/japaniel/wikianki/pkg/text"
)

const (
	// maxCategoryLen drops long, auto-generated category names.
	maxCategoryLen = 20
	// maxCategories caps the category annotation of one sense.
	maxCategories = 3
)

// FormatDefinitions renders senses as a numbered, <br>-separated list.
// lang is the entry language; categories starting with it are boilerplate.
func FormatDefinitions(senses []Sense, lang string) string {
	var lines []string
	for _, s := range senses {
		glosses := s.RawGlosses
		if len(glosses) == 0 {
			glosses = s.Glosses
		}
		def := text.CleanHTML(strings.Join(glosses, "; "))
		if def == "" {
			continue
		}
		n := strconv.Itoa(len(lines) + 1)
		if strings.HasPrefix(def, "(") {
			lines = append(lines, n+". "+def)
			continue
		}
		lines = append(lines, n+". "+senseAnnotation(s, lang)+def)
	}
	return strings.Join(lines, "<br>")
}

// senseAnnotation picks qualifier, then topics, then short categories.
func senseAnnotation(s Sense, lang string) string {
	if q := strings.TrimSpace(s.Qualifier); q != "" {
		return "(" + q + ") "
	}
	if len(s.Topics) > 0 {
		return "(" + strings.Join(s.Topics, ", ") + ") "
	}
	var cats []string
	prefix := lang + " "
	for _, c := range s.Categories {
		if c.Name == "" || len(c.Name) >= maxCategoryLen {
			continue
		}
		if lang != "" && strings.HasPrefix(c.Name, prefix) {
			continue
		}
		cats = append(cats, c.Name)
		if len(cats) == maxCategories {
			break
		}
	}
	if len(cats) == 0 {
		return ""
	}
	return "(" + strings.Join(cats, ", ") + ") "
}

// FormatPronunciation returns the IPA lines and the audio markup of an entry.
func FormatPronunciation(sounds []Sound) (string, string) {
	var ipaLines []string
	var audio strings.Builder
	for _, s := range sounds {
		if s.IPA != "" {
			line := s.IPA
			if len(s.Tags) > 0 {
				line += " (" + strings.Join(s.Tags, ", ") + ")"
			}
			ipaLines = append(ipaLines, line)
		}

		src, mime := s.MP3URL, "audio/mpeg"
		if src == "" {
			src, mime = s.OGGURL, "audio/ogg"
		}
		if src == "" {
			continue
		}
		fmt.Fprintf(&audio,
			`<div><strong>%s:</strong> <audio controls><source src="%s" type="%s">🔊 <a href="%s" target="_blank">Audio</a></audio></div>`,
			audioLabel(s.Audio), src, mime, src)
	}
	return strings.Join(ipaLines, "<br>"), audio.String()
}

// audioLabel is the audio file name without its extension.
func audioLabel(file string) string {
	file = strings.TrimSpace(file)
	if file == "" {
		return "Audio"
	}
	label := strings.TrimSuffix(file, path.Ext(file))
	if label == "" {
		return "Audio"
	}
	return label
}

// FormatForms renders tagged forms as "form (tag, tag)" joined by "; ".
func FormatForms(forms []Form) string {
	var out []string
	for _, f := range forms {
		if f.Form == "" || len(f.Tags) == 0 {
			continue
		}
		out = append(out, f.Form+" ("+strings.Join(f.Tags, ", ")+")")
	}
	return strings.Join(out, "; ")
}

// FormatTranslations renders up to limit translations as "lang: word".
func FormatTranslations(translations []Translation, limit int) string {
	var out []string
	shown := translations
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, t := range shown {
		if t.Lang == "" || t.Word == "" {
			continue
		}
		out = append(out, t.Lang+": "+t.Word)
	}
	res := strings.Join(out, "; ")
	if rest := len(translations) - len(shown); rest > 0 {
		res += fmt.Sprintf(" ... (+%d more)", rest)
	}
	return res
}

// SimplifiedForm returns the first form flagged as simplified in its raw tags.
func SimplifiedForm(forms []Form) (string, bool) {
	for _, f := range forms {
		if f.Form == "" {
			continue
		}
		for _, tag := range f.RawTags {
			if strings.Contains(strings.ToLower(tag), "simplified") {
				return f.Form, true
			}
		}
	}
	return "", false
}

// FormatHyphenation joins syllables with a hyphen.
func FormatHyphenation(parts []string) string {
	return strings.Join(parts, "-")
}
