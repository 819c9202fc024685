// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trish-deck/internal/stableid"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// makeEntry builds a merge entry from parallel column and value slices.
func makeEntry(columns, values []string, origins ...string) *types.MergeEntry {
	vals := make(map[string]string, len(columns))
	for i, c := range columns {
		vals[c] = values[i]
	}
	e := &types.MergeEntry{
		Key: strings.ToLower(strings.TrimSpace(values[0])),
		Row: types.Row{Columns: columns, Values: vals},
	}
	for _, o := range origins {
		e.AddOrigin(o)
	}
	return e
}

func cardFor(t *testing.T, cards []types.Card, column string) types.Card {
	t.Helper()
	for _, c := range cards {
		if c.Column == column {
			return c
		}
	}
	t.Fatalf("no card for column %q", column)
	return types.Card{}
}

func TestCards_ForwardCard(t *testing.T) {
	cols := []string{"Condition", "Diagnostics"}
	entry := makeEntry(cols, []string{"Gout", "Joint aspiration"}, "MSK", "CARDIO")

	cards := New("TRISH", "").Cards(entry, cols)
	require.Len(t, cards, 1)
	c := cards[0]

	assert.Equal(t, "<div class='label'>How would you <u>Diagnose</u></div><br>Gout", c.QuestionDisplay)
	assert.Equal(t, "Joint aspiration", c.AnswerDisplay)
	assert.Equal(t, "How would you Diagnose Gout?", c.QuestionSpeech)
	assert.Equal(t, "Joint aspiration", c.AnswerSpeech)
	assert.Equal(t, "CARDIO, MSK", c.Blocks)
	assert.Equal(t, types.Forward, c.Direction)
	assert.Equal(t, stableid.GUID("TRISH", "Gout", "Diagnostics"), c.GUID)
	assert.Equal(t, []string{
		"TRISH::Blocks::CARDIO",
		"TRISH::Blocks::MSK",
		"TRISH::Conditions::Gout",
		"TRISH::Diagnostics",
	}, c.Tags)
}

func TestCards_ReversedPresentationCard(t *testing.T) {
	cols := []string{"Condition", ColumnPresentation, ColumnSigns}
	entry := makeEntry(cols, []string{"Gout", "Red hot big toe\nafter a feast", "Podagra"}, "MSK")

	cards := New("TRISH", "").Cards(entry, cols)
	require.Len(t, cards, 2)

	rev := cardFor(t, cards, PresentationLabel)
	assert.Equal(t, types.Reversed, rev.Direction)
	assert.Equal(t, "<div class='label'>What <u>condition</u> presents as:</div><br>Red hot big toe<br>after a feast", rev.QuestionDisplay)
	assert.Equal(t, "Gout", rev.AnswerDisplay)
	assert.Equal(t, "What condition presents as: Red hot big toe. after a feast", rev.QuestionSpeech)
	assert.Equal(t, "Gout", rev.AnswerSpeech)
	assert.Equal(t, stableid.GUID("TRISH", "Gout", "Presentation"), rev.GUID)
	assert.Contains(t, rev.Tags, "TRISH::Presentation")

	fwd := cardFor(t, cards, ColumnSigns)
	assert.Equal(t, types.Forward, fwd.Direction)
	assert.True(t, strings.HasSuffix(fwd.QuestionDisplay, "Gout"))
	assert.Equal(t, "Podagra", fwd.AnswerDisplay)
	assert.Equal(t, "What are the Salient Signs and Symptoms of Gout?", fwd.QuestionSpeech)
	assert.Contains(t, fwd.Tags, "TRISH::Salient_Signs_and_Symptoms")
}

func TestCards_GenericPrompt(t *testing.T) {
	cols := []string{"Condition", "First Line Treatment"}
	entry := makeEntry(cols, []string{"Gout", "NSAIDs"}, "MSK")

	cards := New("TRISH", "").Cards(entry, cols)
	require.Len(t, cards, 1)
	assert.Equal(t, "<div class='label'>What is the <u>First Line Treatment</u> of</div><br>Gout", cards[0].QuestionDisplay)
	assert.Equal(t, "What is the First Line Treatment of Gout?", cards[0].QuestionSpeech)
	assert.Contains(t, cards[0].Tags, "TRISH::First_Line_Treatment")
}

func TestCards_SkipsEmptyAndControlColumns(t *testing.T) {
	cols := []string{"Condition", "Diagnostics", "Treatment", ColumnNeverMiss, ColumnMoreInfo}
	entry := makeEntry(cols, []string{"Gout", "   ", "Colchicine", "Yes", " https://example.org/gout "}, "MSK")

	cards := New("TRISH", "").Cards(entry, cols)
	require.Len(t, cards, 1)
	c := cards[0]
	assert.Equal(t, "Treatment", c.Column)
	assert.Equal(t, "Yes", c.NeverMiss)
	assert.Equal(t, "https://example.org/gout", c.MoreInfo)
}

func TestCards_EscapesIdentifierButKeepsValueMarkup(t *testing.T) {
	cols := []string{"Condition", "Diagnostics"}
	entry := makeEntry(cols, []string{"A<b>&B", "<b>Joint</b> aspiration"}, "MSK")

	cards := New("TRISH", "").Cards(entry, cols)
	require.Len(t, cards, 1)
	assert.True(t, strings.HasSuffix(cards[0].QuestionDisplay, "A&lt;b&gt;&amp;B"))
	assert.Equal(t, "<b>Joint</b> aspiration", cards[0].AnswerDisplay)
	assert.Equal(t, "Joint aspiration", cards[0].AnswerSpeech)
}

func TestCards_NeverMissPropagation(t *testing.T) {
	tests := []struct {
		flag    string
		tagged  bool
		display string
	}{
		{"Yes", true, "Yes"},
		{"yes", true, "yes"},
		{"  Y - cannot miss", true, "Y - cannot miss"},
		{"No", false, ""},
		{"", false, ""},
		{"maybe", false, ""},
	}
	cols := []string{"Condition", "Diagnostics", "Treatment", ColumnNeverMiss}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			entry := makeEntry(cols, []string{"Sepsis", "Cultures", "Antibiotics", tt.flag}, "ID")
			cards := New("TRISH", "").Cards(entry, cols)
			require.Len(t, cards, 2)
			for _, c := range cards {
				assert.Equal(t, tt.tagged, contains(c.Tags, "TRISH::Never_Miss"), "column %s", c.Column)
				assert.Equal(t, tt.display, c.NeverMiss)
			}
		})
	}
}

func TestCards_GUIDIgnoresUnrelatedColumns(t *testing.T) {
	cols := []string{"Condition", "Diagnostics", "Treatment"}
	s := New("TRISH", "")

	a := s.Cards(makeEntry(cols, []string{"Gout", "Joint aspiration", "NSAIDs"}, "MSK"), cols)
	b := s.Cards(makeEntry(cols, []string{"Gout", "Joint aspiration", "Colchicine"}, "CARDIO"), cols)

	assert.Equal(t, cardFor(t, a, "Diagnostics").GUID, cardFor(t, b, "Diagnostics").GUID)
	assert.Equal(t, cardFor(t, a, "Treatment").GUID, cardFor(t, b, "Treatment").GUID)
	assert.NotEqual(t, cardFor(t, a, "Diagnostics").GUID, cardFor(t, a, "Treatment").GUID)
}

func TestCards_Deterministic(t *testing.T) {
	cols := []string{"Condition", "Diagnostics", ColumnPresentation, ColumnNeverMiss}
	entry := makeEntry(cols, []string{"Gout", "Joint aspiration", "Toe pain", "Yes"}, "MSK", "CARDIO", "RENAL & GU")

	first := New("TRISH", "").Cards(entry, cols)
	second := New("TRISH", "").Cards(entry, cols)
	assert.Equal(t, first, second)
	assert.Contains(t, first[0].Tags, "TRISH::Blocks::RENAL_and_GU")
}

func TestCards_CustomPrefix(t *testing.T) {
	cols := []string{"Condition", "Diagnostics"}
	cards := New("Step 1", "STEP1").Cards(makeEntry(cols, []string{"Gout", "Tap"}, "MSK"), cols)
	require.Len(t, cards, 1)
	for _, tag := range cards[0].Tags {
		assert.True(t, strings.HasPrefix(tag, "STEP1::"), tag)
	}
}

func TestCards_PrimaryColumnFromSharedSchema(t *testing.T) {
	// The row came from a file whose schema lacks a shared column.
	rowCols := []string{"Condition", "Diagnostics"}
	shared := []string{"Condition", "Diagnostics", "Treatment"}
	cards := New("TRISH", "").Cards(makeEntry(rowCols, []string{" Gout ", "Tap"}, "MSK"), shared)
	require.Len(t, cards, 1)
	assert.Equal(t, stableid.GUID("TRISH", "Gout", "Diagnostics"), cards[0].GUID)
	assert.Contains(t, cards[0].Tags, "TRISH::Conditions::Gout")
}

func TestMetadata(t *testing.T) {
	s := New("TRISH", "")
	meta := s.Metadata("v2024.01.09", 42)

	assert.Equal(t, "<b>TRISH</b><br>Version Information", meta.QuestionDisplay)
	assert.Contains(t, meta.AnswerDisplay, "Last Updated: <b>v2024.01.09</b>")
	assert.Contains(t, meta.AnswerDisplay, "Unique Conditions: 42")
	assert.Equal(t, "Updated to version v2024.01.09", meta.AnswerSpeech)
	assert.Equal(t, []string{"TRISH::MetaData"}, meta.Tags)

	// Fixed slot: version and count do not affect the GUID.
	assert.Equal(t, meta.GUID, s.Metadata("v2", 1).GUID)
	assert.NotEqual(t, meta.GUID, New("Other", "").Metadata("v2", 1).GUID)
}

func TestIsNeverMiss(t *testing.T) {
	assert.True(t, IsNeverMiss("Yes"))
	assert.True(t, IsNeverMiss(" YES!"))
	assert.False(t, IsNeverMiss(""))
	assert.False(t, IsNeverMiss("No"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
