package apkg

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/japaniel/wikianki/pkg/card"
)

//go:embed templates/*
var templateFS embed.FS

// DeckID and DeckConfID are fixed: a package carries exactly one of each.
const (
	DeckID     = 1
	DeckConfID = 1
)

// renderTemplates fills the language into the embedded card templates. Anki's
// own {{Field}} markup is left untouched by using [[ ]] delimiters.
func renderTemplates(language string) (qfmt, afmt, css string, err error) {
	tmpl, err := template.New("").
		Delims("[[", "]]").
		Funcs(template.FuncMap{"anchor": func(s string) string { return strings.ReplaceAll(s, " ", "_") }}).
		ParseFS(templateFS, "templates/*")
	if err != nil {
		return "", "", "", fmt.Errorf("parse templates: %w", err)
	}
	data := struct{ Language string }{Language: language}
	out := make([]string, 0, 3)
	for _, name := range []string{"front.html", "back.html", "style.css"} {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return "", "", "", fmt.Errorf("render %s: %w", name, err)
		}
		out = append(out, strings.TrimSpace(buf.String()))
	}
	return out[0], out[1], out[2], nil
}

type noteField struct {
	Name        string        `json:"name"`
	Ord         int           `json:"ord"`
	Sticky      bool          `json:"sticky"`
	RTL         bool          `json:"rtl"`
	Font        string        `json:"font"`
	Size        int           `json:"size"`
	Media       []interface{} `json:"media"`
	Collapsed   bool          `json:"collapsed"`
	Description string        `json:"description"`
	PlainText   bool          `json:"plainText"`
}

type cardTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	DID   *int64 `json:"did"`
	BFont string `json:"bfont"`
	BSize int    `json:"bsize"`
}

type noteType struct {
	ID        int64           `json:"id"`
	Vers      []interface{}   `json:"vers"`
	Name      string          `json:"name"`
	Tags      []string        `json:"tags"`
	DID       int64           `json:"did"`
	USN       int             `json:"usn"`
	Req       [][]interface{} `json:"req"`
	Type      int             `json:"type"`
	Flds      []noteField     `json:"flds"`
	SortField int             `json:"sortf"`
	Tmpls     []cardTemplate  `json:"tmpls"`
	Mod       int64           `json:"mod"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
}

type colConf struct {
	NextPos       int     `json:"nextPos"`
	EstTimes      bool    `json:"estTimes"`
	ActiveDecks   []int64 `json:"activeDecks"`
	SortType      string  `json:"sortType"`
	TimeLim       int     `json:"timeLim"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
	CurDeck       int64   `json:"curDeck"`
	NewBury       bool    `json:"newBury"`
	NewSpread     int     `json:"newSpread"`
	DueCounts     bool    `json:"dueCounts"`
	CurModel      string  `json:"curModel"`
	CollapseTime  int     `json:"collapseTime"`
	NewDeck       int64   `json:"newDeck"`
}

type deck struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	ExtendRev int    `json:"extendRev"`
	USN       int    `json:"usn"`
	Collapsed bool   `json:"collapsed"`
	NewToday  [2]int `json:"newToday"`
	TimeToday [2]int `json:"timeToday"`
	Dyn       int    `json:"dyn"`
	ExtendNew int    `json:"extendNew"`
	Conf      int64  `json:"conf"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	Mod       int64  `json:"mod"`
}

type lapseConf struct {
	LeechFails  int   `json:"leechFails"`
	Delays      []int `json:"delays"`
	MinInt      int   `json:"minInt"`
	LeechAction int   `json:"leechAction"`
	Mult        int   `json:"mult"`
}

type revConf struct {
	PerDay   int     `json:"perDay"`
	IvlFct   int     `json:"ivlFct"`
	MaxIvl   int     `json:"maxIvl"`
	Ease4    float64 `json:"ease4"`
	Bury     bool    `json:"bury"`
	MinSpace int     `json:"minSpace"`
	Fuzz     float64 `json:"fuzz"`
}

type newConf struct {
	Delays        []int `json:"delays"`
	Ints          []int `json:"ints"`
	InitialFactor int   `json:"initialFactor"`
	Separate      bool  `json:"separate"`
	PerDay        int   `json:"perDay"`
	Bury          bool  `json:"bury"`
	Order         int   `json:"order"`
}

type deckConf struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Replayq  bool      `json:"replayq"`
	Lapse    lapseConf `json:"lapse"`
	Rev      revConf   `json:"rev"`
	Timer    int       `json:"timer"`
	MaxTaken int       `json:"maxTaken"`
	USN      int       `json:"usn"`
	New      newConf   `json:"new"`
	Mod      int64     `json:"mod"`
	Autoplay bool      `json:"autoplay"`
}

// metadata holds the four JSON blobs of the col row.
type metadata struct {
	Conf, Models, Decks, DConf string
}

// buildMetadata renders the note type, deck and deck options, each keyed by
// its stringified id.
func buildMetadata(opts Options, modelID, modSeconds int64) (metadata, error) {
	qfmt, afmt, css, err := renderTemplates(opts.Language)
	if err != nil {
		return metadata{}, err
	}

	fields := make([]noteField, len(card.FieldNames))
	for i, name := range card.FieldNames {
		fields[i] = noteField{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []interface{}{}}
	}
	model := noteType{
		ID:    modelID,
		Vers:  []interface{}{},
		Name:  opts.ModelName,
		Tags:  []string{},
		DID:   DeckID,
		USN:   -1,
		Req:   [][]interface{}{{0, "any", []int{0}}},
		Flds:  fields,
		Tmpls: []cardTemplate{{Name: "Card 1", QFmt: qfmt, AFmt: afmt, BQFmt: "{{Front}}", BAFmt: "{{Back}}"}},
		Mod:   modSeconds,
		CSS:   css,
	}
	conf := colConf{
		NextPos:      1,
		EstTimes:     true,
		ActiveDecks:  []int64{DeckID},
		SortType:     "noteFld",
		AddToCur:     true,
		CurDeck:      DeckID,
		NewBury:      true,
		DueCounts:    true,
		CurModel:     strconv.FormatInt(modelID, 10),
		CollapseTime: 1200,
		NewDeck:      DeckID,
	}
	d := deck{
		ID:        DeckID,
		Name:      opts.DeckName,
		Desc:      opts.DeckDescription,
		ExtendRev: 50,
		ExtendNew: 10,
		Conf:      DeckConfID,
		Mod:       modSeconds,
	}
	dc := deckConf{
		ID:      DeckConfID,
		Name:    opts.DeckName,
		Replayq: true,
		Lapse:   lapseConf{LeechFails: 8, Delays: []int{10}, MinInt: 1},
		Rev: revConf{
			PerDay: opts.ReviewsPerDay, IvlFct: 1, MaxIvl: 36500,
			Ease4: 1.3, Bury: true, MinSpace: 1, Fuzz: 0.05,
		},
		MaxTaken: 60,
		New: newConf{
			Delays: []int{1, 10}, Ints: []int{1, 4, 7}, InitialFactor: 2500,
			Separate: true, PerDay: opts.NewPerDay, Bury: true, Order: 1,
		},
		Autoplay: true,
	}

	var md metadata
	for _, part := range []struct {
		dst *string
		v   interface{}
	}{
		{&md.Conf, conf},
		{&md.Models, map[string]noteType{strconv.FormatInt(modelID, 10): model}},
		{&md.Decks, map[string]deck{strconv.Itoa(DeckID): d}},
		{&md.DConf, map[string]deckConf{strconv.Itoa(DeckConfID): dc}},
	} {
		data, err := json.Marshal(part.v)
		if err != nil {
			return metadata{}, err
		}
		*part.dst = string(data)
	}
	return md, nil
}
