// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// MergeEntry is the canonical row for one normalized identifier together
// with the block labels of every source that contained it.
type MergeEntry struct {
	// Key is the lowercase, trimmed primary identifier.
	Key string `json:"key" yaml:"key"`

	// Row is the first-seen row for Key. Later duplicates never overwrite it.
	Row Row `json:"row" yaml:"row"`

	// Origins is the set of block labels that contained Key.
	Origins map[string]struct{} `json:"-" yaml:"-"`
}

// AddOrigin records label as a source of the entry.
func (e *MergeEntry) AddOrigin(label string) {
	if e.Origins == nil {
		e.Origins = make(map[string]struct{})
	}
	e.Origins[label] = struct{}{}
}

// OriginLabels returns the origin set in sorted order.
func (e *MergeEntry) OriginLabels() []string {
	labels := make([]string, 0, len(e.Origins))
	for l := range e.Origins {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Direction is the question/answer orientation of a card.
type Direction string

const (
	// Forward cards ask with the identifier and answer with the column value.
	Forward Direction = "forward"
	// Reversed cards ask with the column value and answer with the identifier.
	Reversed Direction = "reversed"
)

// Card is one flashcard note. Field order matches the note model.
type Card struct {
	QuestionDisplay string `json:"question_display" yaml:"question_display"`
	AnswerDisplay   string `json:"answer_display" yaml:"answer_display"`
	QuestionSpeech  string `json:"question_speech" yaml:"question_speech"`
	AnswerSpeech    string `json:"answer_speech" yaml:"answer_speech"`

	// NeverMiss is the raw flag column value. Non-empty values render the
	// warning banner on the answer side.
	NeverMiss string `json:"never_miss,omitempty" yaml:"never_miss,omitempty"`

	// MoreInfo is an optional hyperlink shown on the answer side.
	MoreInfo string `json:"more_info,omitempty" yaml:"more_info,omitempty"`

	// Blocks is the comma-joined origin label display string.
	Blocks string `json:"blocks,omitempty" yaml:"blocks,omitempty"`

	Tags []string `json:"tags" yaml:"tags"`

	// GUID is the stable note identifier. The same logical card maps to the
	// same GUID across regenerations.
	GUID string `json:"guid" yaml:"guid"`

	// Column is the source column, or "Presentation" for reversed cards.
	Column    string    `json:"column" yaml:"column"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Fields returns the note field values in model order.
func (c Card) Fields() []string {
	return []string{
		c.QuestionDisplay,
		c.AnswerDisplay,
		c.QuestionSpeech,
		c.AnswerSpeech,
		c.NeverMiss,
		c.MoreInfo,
		c.Blocks,
	}
}

// Template is one card template of a note model.
type Template struct {
	Name        string `json:"name" yaml:"name"`
	QuestionFmt string `json:"qfmt" yaml:"qfmt"`
	AnswerFmt   string `json:"afmt" yaml:"afmt"`
}

// Model is the note type shared by every card in a deck.
type Model struct {
	ID        int64      `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Fields    []string   `json:"fields" yaml:"fields"`
	Templates []Template `json:"templates" yaml:"templates"`
	CSS       string     `json:"css" yaml:"css"`
}

// Deck is a named collection of cards sharing one model.
type Deck struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Model Model  `json:"model" yaml:"model"`
	Cards []Card `json:"cards" yaml:"cards"`
}

// Add appends cards to the deck.
func (d *Deck) Add(cards ...Card) {
	d.Cards = append(d.Cards, cards...)
}
