// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apkg

import (
	"strconv"

	"github.com/pdiddy/trish-deck/pkg/types"
)

// defaultDeckID is the built-in deck every collection carries.
const defaultDeckID = 1

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
	RTL    bool     `json:"rtl"`
	Sticky bool     `json:"sticky"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
}

type modelJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	Usn       int             `json:"usn"`
	Sortf     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Tmpls     []templateJSON  `json:"tmpls"`
	Flds      []fieldJSON     `json:"flds"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	LatexSVG  bool            `json:"latexsvg"`
	Req       [][]interface{} `json:"req"`
	Tags      []string        `json:"tags"`
	Vers      []int           `json:"vers"`
}

type deckJSON struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Desc             string `json:"desc"`
	Mod              int64  `json:"mod"`
	Usn              int    `json:"usn"`
	Conf             int    `json:"conf"`
	Dyn              int    `json:"dyn"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
	NewToday         [2]int `json:"newToday"`
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
}

type newConfJSON struct {
	Bury          bool      `json:"bury"`
	Delays        []float64 `json:"delays"`
	InitialFactor int       `json:"initialFactor"`
	Ints          []int     `json:"ints"`
	Order         int       `json:"order"`
	PerDay        int       `json:"perDay"`
	Separate      bool      `json:"separate"`
}

type lapseConfJSON struct {
	Delays      []float64 `json:"delays"`
	LeechAction int       `json:"leechAction"`
	LeechFails  int       `json:"leechFails"`
	MinInt      int       `json:"minInt"`
	Mult        float64   `json:"mult"`
}

type revConfJSON struct {
	Bury     bool    `json:"bury"`
	Ease4    float64 `json:"ease4"`
	Fuzz     float64 `json:"fuzz"`
	IvlFct   float64 `json:"ivlFct"`
	MaxIvl   int     `json:"maxIvl"`
	MinSpace int     `json:"minSpace"`
	PerDay   int     `json:"perDay"`
}

type deckConfJSON struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Mod      int64         `json:"mod"`
	Usn      int           `json:"usn"`
	MaxTaken int           `json:"maxTaken"`
	Autoplay bool          `json:"autoplay"`
	Timer    int           `json:"timer"`
	Replayq  bool          `json:"replayq"`
	Dyn      bool          `json:"dyn"`
	New      newConfJSON   `json:"new"`
	Lapse    lapseConfJSON `json:"lapse"`
	Rev      revConfJSON   `json:"rev"`
}

type colConfJSON struct {
	ActiveDecks   []int64 `json:"activeDecks"`
	CurDeck       int64   `json:"curDeck"`
	CurModel      string  `json:"curModel"`
	NewSpread     int     `json:"newSpread"`
	CollapseTime  int     `json:"collapseTime"`
	TimeLim       int     `json:"timeLim"`
	EstTimes      bool    `json:"estTimes"`
	DueCounts     bool    `json:"dueCounts"`
	NextPos       int     `json:"nextPos"`
	SortType      string  `json:"sortType"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
}

const latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
	"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n" +
	"\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"

const latexPost = "\\end{document}"

func newModelJSON(m types.Model, deckID, mod int64) modelJSON {
	flds := make([]fieldJSON, len(m.Fields))
	for i, name := range m.Fields {
		flds[i] = fieldJSON{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []string{}}
	}
	tmpls := make([]templateJSON, len(m.Templates))
	req := make([][]interface{}, len(m.Templates))
	for i, t := range m.Templates {
		tmpls[i] = templateJSON{Name: t.Name, Ord: i, QFmt: t.QuestionFmt, AFmt: t.AnswerFmt}
		req[i] = []interface{}{i, "any", []int{0}}
	}
	return modelJSON{
		ID:        strconv.FormatInt(m.ID, 10),
		Name:      m.Name,
		Mod:       mod,
		Usn:       -1,
		Did:       deckID,
		Tmpls:     tmpls,
		Flds:      flds,
		CSS:       m.CSS,
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Req:       req,
		Tags:      []string{},
		Vers:      []int{},
	}
}

func newDeckJSON(id int64, name string, mod int64) deckJSON {
	return deckJSON{
		ID:        id,
		Name:      name,
		Mod:       mod,
		Usn:       -1,
		Conf:      1,
		ExtendRev: 50,
	}
}

func defaultDeckConf() deckConfJSON {
	return deckConfJSON{
		ID:       1,
		Name:     "Default",
		MaxTaken: 60,
		Autoplay: true,
		Replayq:  true,
		New: newConfJSON{
			Bury:          true,
			Delays:        []float64{1, 10},
			InitialFactor: 2500,
			Ints:          []int{1, 4, 7},
			Order:         1,
			PerDay:        20,
		},
		Lapse: lapseConfJSON{
			Delays:      []float64{10},
			LeechAction: 0,
			LeechFails:  8,
			MinInt:      1,
			Mult:        0,
		},
		Rev: revConfJSON{
			Bury:     true,
			Ease4:    1.3,
			Fuzz:     0.05,
			IvlFct:   1,
			MaxIvl:   36500,
			MinSpace: 1,
			PerDay:   100,
		},
	}
}

func newColConf(deckID, modelID int64) colConfJSON {
	return colConfJSON{
		ActiveDecks:  []int64{deckID},
		CurDeck:      deckID,
		CurModel:     strconv.FormatInt(modelID, 10),
		CollapseTime: 1200,
		EstTimes:     true,
		DueCounts:    true,
		NextPos:      1,
		SortType:     "noteFld",
		AddToCur:     true,
	}
}
