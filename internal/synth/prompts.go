// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

// Column names with special handling.
const (
	ColumnNeverMiss    = "Never Miss"
	ColumnMoreInfo     = "More Info"
	ColumnPresentation = "USMLE Classic Presentation"
	ColumnSigns        = "Salient Signs & Symptoms"
	ColumnDiagnostics  = "Diagnostics"
)

// PresentationLabel replaces the column name in tags and GUIDs of
// reversed cards.
const PresentationLabel = "Presentation"

// Prompt is the question phrase for one column.
type Prompt struct {
	// Display is the rich-text phrase with emphasis markup.
	Display string
	// Speech is the plain phrase read aloud.
	Speech string
	// Reversed cards ask with the column value and answer with the condition.
	Reversed bool
}

var prompts = map[string]Prompt{
	ColumnSigns: {
		Display: "What are the <u>Salient Signs & Symptoms</u> of",
		Speech:  "What are the Salient Signs and Symptoms of",
	},
	ColumnDiagnostics: {
		Display: "How would you <u>Diagnose</u>",
		Speech:  "How would you Diagnose",
	},
	ColumnPresentation: {
		Display:  "What <u>condition</u> presents as:",
		Speech:   "What condition presents as",
		Reversed: true,
	},
}

// PromptFor returns the prompt for a column, falling back to a generic
// phrase built from the column name.
func PromptFor(column string) Prompt {
	if p, ok := prompts[column]; ok {
		return p
	}
	return Prompt{
		Display: "What is the <u>" + column + "</u> of",
		Speech:  "What is the " + column + " of",
	}
}

// isControl reports whether a column is consumed as a card attribute
// rather than producing its own card.
func isControl(column string) bool {
	return column == ColumnNeverMiss || column == ColumnMoreInfo
}
