// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"fmt"
	"strings"

	"github.com/pdiddy/trish-deck/internal/stableid"
	"github.com/pdiddy/trish-deck/pkg/types"
)

// DefaultVoice is the preferred TTS voice when none is configured.
const DefaultVoice = "Apple_Evan_(Enhanced)"

var fallbackVoices = [...]string{
	"Apple_Evan_(Enhanced)",
	"Microsoft_David",
	"Microsoft_Zira",
	"Google_US_English",
}

// VoiceList returns the preferred voice followed by the fallback voices,
// without duplicates. Spaces in the preferred voice become underscores.
func VoiceList(preferred string) []string {
	preferred = strings.ReplaceAll(strings.TrimSpace(preferred), " ", "_")
	voices := make([]string, 0, len(fallbackVoices)+1)
	if preferred != "" {
		voices = append(voices, preferred)
	}
	for _, v := range fallbackVoices {
		if v != preferred {
			voices = append(voices, v)
		}
	}
	return voices
}

// FieldNames is the note field layout. Changing it requires bumping
// stableid.SchemaVersion.
var FieldNames = []string{
	"Question_Display",
	"Answer_Display",
	"Question_TTS",
	"Answer_TTS",
	"NeverMiss",
	"MoreInfo",
	"BlockTags",
}

const modelCSS = `.card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white; }
.label { font-size: 16px; color: #666; margin-bottom: 10px; }
.answer { margin-top: 20px; }
.warning { color: red; font-weight: bold; font-size: 16px; border: 2px solid red; padding: 10px; margin-top: 15px; display: inline-block;}
.more-info { margin-top: 15px; font-size: 16px; }
.more-info a { color: #007bff; text-decoration: none; font-weight: bold; }
.tags-display { font-size: 12px; color: #aaa; margin-top: 30px; font-style: italic; }
`

const questionTemplate = `{{Question_Display}}
<div style="display:none">{{tts en_US voices=%s:Question_TTS}}</div>`

const answerTemplate = `{{FrontSide}}
<hr id=answer>
<div class='answer'>{{Answer_Display}}</div>
{{#NeverMiss}}<br><br><div class='warning'>Never Miss</div>{{/NeverMiss}}
{{#MoreInfo}}
<div class='more-info'>
<br><br>
<a href="{{MoreInfo}}">📖 Read More</a>
</div>
{{/MoreInfo}}
<div class='tags-display'>{{BlockTags}}</div>
<div style="display:none">{{tts en_US voices=%s:Answer_TTS}}</div>`

// NoteModel returns the TTS note model for a deck. variant names the
// pipeline ("Unified", "Single") and is part of the model ID.
func NoteModel(deckTitle, variant string, voices []string) types.Model {
	voiceString := strings.Join(voices, ",")
	return types.Model{
		ID:     stableid.ModelID(deckTitle, variant),
		Name:   fmt.Sprintf("%s TTS Model %s", deckTitle, stableid.SchemaVersion),
		Fields: append([]string(nil), FieldNames...),
		Templates: []types.Template{{
			Name:        "Card 1",
			QuestionFmt: fmt.Sprintf(questionTemplate, voiceString),
			AnswerFmt:   fmt.Sprintf(answerTemplate, voiceString),
		}},
		CSS: modelCSS,
	}
}

// NewDeck returns an empty deck with a stable ID and the given model.
func NewDeck(deckTitle string, model types.Model) *types.Deck {
	return &types.Deck{
		ID:    stableid.DeckID(deckTitle),
		Title: deckTitle,
		Model: model,
	}
}
