// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apkg

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trish-deck/pkg/types"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)
}

func testDeck() *types.Deck {
	return &types.Deck{
		ID:    407039672,
		Title: "TRISH",
		Model: types.Model{
			ID:     717119144,
			Name:   "TRISH TTS Model v4",
			Fields: []string{"Question_Display", "Answer_Display", "Question_TTS", "Answer_TTS", "NeverMiss", "MoreInfo", "BlockTags"},
			Templates: []types.Template{{
				Name:        "Card 1",
				QuestionFmt: "{{Question_Display}}",
				AnswerFmt:   "{{FrontSide}}<hr id=answer>{{Answer_Display}}",
			}},
			CSS: ".card {}",
		},
		Cards: []types.Card{
			{
				QuestionDisplay: "<b>TRISH</b><br>Version Information",
				AnswerDisplay:   "Last Updated: <b>v1</b>",
				QuestionSpeech:  "Deck Version Information",
				AnswerSpeech:    "Updated to version v1",
				Tags:            []string{"TRISH::MetaData"},
				GUID:            "111",
			},
			{
				QuestionDisplay: "<div class='label'>How would you <u>Diagnose</u></div><br>Gout",
				AnswerDisplay:   "Joint aspiration",
				QuestionSpeech:  "How would you Diagnose Gout?",
				AnswerSpeech:    "Joint aspiration",
				NeverMiss:       "Yes",
				Blocks:          "CARDIO, MSK",
				Tags:            []string{"TRISH::Blocks::CARDIO", "TRISH::Blocks::MSK", "TRISH::Conditions::Gout", "TRISH::Diagnostics"},
				GUID:            "222",
			},
		},
	}
}

func TestDefaultFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"TRISH", "TRISH.apkg"},
		{"Step 1: MSK & Renal", "Step_1__MSK___Renal.apkg"},
		{"", ".apkg"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultFilename(tt.title))
		})
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "TRISH.apkg")
	deck := testDeck()

	w := &Writer{Now: fixedNow}
	summary, err := w.Write(context.Background(), path, deck)
	require.NoError(t, err)
	assert.Equal(t, path, summary.Path)
	assert.Equal(t, 2, summary.Notes)
	assert.Greater(t, summary.Bytes, int64(0))

	col, err := Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 11, col.Version)
	assert.Equal(t, "{}", col.Media)
	assert.Equal(t, 2, col.Cards)

	d, ok := col.Deck(deck.ID)
	require.True(t, ok)
	assert.Equal(t, "TRISH", d.Name)
	_, ok = col.Deck(1)
	assert.True(t, ok, "default deck should be present")

	require.Len(t, col.Models, 1)
	assert.Equal(t, "717119144", col.Models[0].ID)
	assert.Equal(t, deck.Model.Fields, col.Models[0].Fields)
	assert.Equal(t, "{{Question_Display}}", col.Models[0].QFmt)

	require.Len(t, col.Notes, 2)
	n, ok := col.NoteByGUID("222")
	require.True(t, ok)
	assert.Equal(t, deck.Model.ID, n.ModelID)
	assert.Equal(t, deck.Cards[1].Fields(), n.Fields)
	assert.Equal(t, deck.Cards[1].Tags, n.Tags)
	assert.Equal(t, "How would you Diagnose Gout", n.SortFld)
	assert.Equal(t, checksum("How would you Diagnose Gout"), n.Csum)
}

func TestWrite_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TRISH.apkg")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	_, err := (&Writer{Now: fixedNow}).Write(context.Background(), path, testDeck())
	require.NoError(t, err)

	col, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, col.Notes, 2)

	// No temp files are left next to the package.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_CancelledLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TRISH.apkg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Writer{Now: fixedNow}).Write(ctx, path, testDeck())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWrite_NilWriterUsesClock(t *testing.T) {
	var w *Writer
	path := filepath.Join(t.TempDir(), "TRISH.apkg")
	_, err := w.Write(context.Background(), path, testDeck())
	require.NoError(t, err)
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "", joinTags(nil))
	assert.Equal(t, " a b ", joinTags([]string{"a", "b"}))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "How would you Diagnose Gout",
		stripHTML("<div class='label'>How would you <u>Diagnose</u></div><br>Gout"))
}

func TestRead_NotAPackage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.apkg")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))
	_, err := Read(context.Background(), path)
	assert.Error(t, err)
}
