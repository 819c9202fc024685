// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth turns merged study rows into flashcard notes.
//
// Each non-control, non-empty column of a row yields one card with a
// display form (rich text) and a speech form (plain text for TTS). The
// presentation column is drilled in the recognition direction: its value
// is the question and the condition is the answer. Every card carries a
// GUID derived from the deck title, the condition, and the column, so the
// same logical card keeps its identity across regenerations.
package synth

import (
	"strconv"
	"strings"

	"github.com/pdiddy/trish-deck/internal/stableid"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// DefaultTagPrefix namespaces deck tags when no prefix is configured.
const DefaultTagPrefix = "TRISH"

// metadataSeed seeds the metadata card GUID.
const metadataSeed = "DECK_INFO_CARD"

// Synthesizer generates cards for one deck.
type Synthesizer struct {
	deckTitle string
	prefix    string
}

// New returns a Synthesizer for deckTitle. An empty tagPrefix uses
// DefaultTagPrefix.
func New(deckTitle, tagPrefix string) *Synthesizer {
	if tagPrefix == "" {
		tagPrefix = DefaultTagPrefix
	}
	return &Synthesizer{deckTitle: deckTitle, prefix: tagPrefix}
}

// Cards returns the cards for one merged entry. columns is the shared
// schema; columns[0] is the primary identifier. Columns are visited in
// schema order.
func (s *Synthesizer) Cards(entry *types.MergeEntry, columns []string) []types.Card {
	if len(columns) == 0 {
		return nil
	}
	row := entry.Row
	primaryCol := columns[0]

	condition := row.Get(primaryCol)
	if !row.Has(primaryCol) {
		condition = row.Identifier()
	}
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil
	}

	neverMiss := strings.TrimSpace(row.Get(ColumnNeverMiss))
	flagged := IsNeverMiss(neverMiss)
	if !flagged {
		neverMiss = ""
	}
	moreInfo := strings.TrimSpace(row.Get(ColumnMoreInfo))

	origins := entry.OriginLabels()
	baseTags := make([]string, 0, len(origins)+3)
	for _, o := range origins {
		baseTags = append(baseTags, s.tag("Blocks", Slug(o)))
	}
	baseTags = append(baseTags, s.tag("Conditions", Slug(condition)))
	blocks := strings.Join(origins, ", ")

	condDisplay := DisplayIdentifier(condition)
	condSpeech := Speech(condition)

	var cards []types.Card
	for _, col := range columns[1:] {
		if col == primaryCol || isControl(col) {
			continue
		}
		val := row.Get(col)
		if strings.TrimSpace(val) == "" {
			continue
		}

		prompt := PromptFor(col)
		valDisplay := DisplayValue(val)
		valSpeech := Speech(val)

		card := types.Card{
			NeverMiss: neverMiss,
			MoreInfo:  moreInfo,
			Blocks:    blocks,
		}
		tags := append([]string(nil), baseTags...)

		if prompt.Reversed {
			card.QuestionDisplay = label(prompt.Display) + valDisplay
			card.AnswerDisplay = condDisplay
			card.QuestionSpeech = prompt.Speech + ": " + valSpeech
			card.AnswerSpeech = condSpeech
			card.Column = PresentationLabel
			card.Direction = types.Reversed
			card.GUID = s.GUID(condition, PresentationLabel)
			tags = append(tags, s.tag(PresentationLabel))
		} else {
			card.QuestionDisplay = label(prompt.Display) + condDisplay
			card.AnswerDisplay = valDisplay
			card.QuestionSpeech = prompt.Speech + " " + condSpeech + "?"
			card.AnswerSpeech = valSpeech
			card.Column = col
			card.Direction = types.Forward
			card.GUID = s.GUID(condition, col)
			tags = append(tags, s.tag(Slug(col)))
		}

		if flagged {
			tags = append(tags, s.tag("Never_Miss"))
		}
		card.Tags = tags
		cards = append(cards, card)
	}
	return cards
}

// Metadata returns the synthetic version card. Its GUID depends only on
// the deck title, so every run updates the same note.
func (s *Synthesizer) Metadata(version string, uniqueCount int) types.Card {
	return types.Card{
		QuestionDisplay: "<b>" + DisplayIdentifier(s.deckTitle) + "</b><br>Version Information",
		AnswerDisplay: "Last Updated: <b>" + DisplayIdentifier(version) + "</b><br>" +
			"Unique Conditions: " + strconv.Itoa(uniqueCount) + "<br><br>Check for updates regularly.",
		QuestionSpeech: "Deck Version Information",
		AnswerSpeech:   "Updated to version " + Speech(version),
		Tags:           []string{s.tag("MetaData")},
		GUID:           stableid.GUID(metadataSeed, s.deckTitle),
		Column:         "MetaData",
		Direction:      types.Forward,
	}
}

// GUID returns the stable identifier for the card of condition and
// column (or PresentationLabel for reversed cards).
func (s *Synthesizer) GUID(condition, column string) string {
	return stableid.GUID(s.deckTitle, strings.TrimSpace(condition), column)
}

// IsNeverMiss reports whether a flag column value marks must-know
// material: the trimmed value starts with "Y" in either case.
func IsNeverMiss(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "Y") || strings.HasPrefix(v, "y")
}

func (s *Synthesizer) tag(parts ...string) string {
	return s.prefix + "::" + strings.Join(parts, "::")
}

func label(prompt string) string {
	return "<div class='label'>" + prompt + "</div><br>"
}
