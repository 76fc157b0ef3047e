// Package card defines the combined flashcard record and its tabular
// interchange format.
package card

// FieldNames is the declared field order of the note type. Packed note
// fields, CSV columns and template references all follow it.
var FieldNames = []string{
	"Front",
	"Back",
	"Part of Speech",
	"IPA",
	"Audio",
	"Etymology",
	"Forms",
	"Hyphenation",
	"Stroke Order",
	"Tags",
	"Frequency",
}

// Card is one combined record per unique headword.
type Card struct {
	Front        string
	Back         string
	PartOfSpeech string
	IPA          string
	Audio        string
	Etymology    string
	Forms        string
	Hyphenation  string
	StrokeOrder  string
	Tags         string
	Frequency    string

	// Translations is not a note field; only the word preview prints it.
	Translations string
}

// Fields returns the card values in FieldNames order.
func (c Card) Fields() []string {
	return []string{
		c.Front,
		c.Back,
		c.PartOfSpeech,
		c.IPA,
		c.Audio,
		c.Etymology,
		c.Forms,
		c.Hyphenation,
		c.StrokeOrder,
		c.Tags,
		c.Frequency,
	}
}

// FromFields builds a card from values keyed by field name. Unknown names are
// ignored and missing ones stay empty.
func FromFields(values map[string]string) Card {
	return Card{
		Front:        values["Front"],
		Back:         values["Back"],
		PartOfSpeech: values["Part of Speech"],
		IPA:          values["IPA"],
		Audio:        values["Audio"],
		Etymology:    values["Etymology"],
		Forms:        values["Forms"],
		Hyphenation:  values["Hyphenation"],
		StrokeOrder:  values["Stroke Order"],
		Tags:         values["Tags"],
		Frequency:    values["Frequency"],
	}
}
