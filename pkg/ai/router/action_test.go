package router

import (
	"testing"

	"doctech-be/pkg/llm/structured"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionIntent(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   Intent
	}{
		{"snap", Action{SnapPage: true}, IntentSnapPage},
		{"figure", Action{FindFig: true}, IntentFindFig},
		{"document", Action{FindPDF: true}, IntentFindPDF},
		{"scroll up", Action{ScrollUp: true}, IntentNone},
		{"non determinable", Action{NonDeterm: true}, IntentNone},
		{"nothing set", Action{}, IntentNone},
		{"snap beats figure", Action{SnapPage: true, FindFig: true}, IntentSnapPage},
		{"figure beats document", Action{FindFig: true, FindPDF: true}, IntentFindFig},
		{"document beats non_determ", Action{FindPDF: true, NonDeterm: true}, IntentFindPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Intent())
		})
	}
}

func TestActionTrueCount(t *testing.T) {
	assert.Equal(t, 0, Action{}.TrueCount())
	assert.Equal(t, 1, Action{NextPage: true}.TrueCount())
	assert.Equal(t, 3, Action{ScrollUp: true, FindFig: true, NonDeterm: true}.TrueCount())
}

func TestViewerContextString(t *testing.T) {
	assert.Equal(t, "{'current_page': 12}", ViewerContext{CurrentPage: 12}.String())
}

// A well-formed single-intent verdict passes the schema and carries at most
// one true flag.
func TestActionSchemaAcceptsSingleIntent(t *testing.T) {
	reply := `{"scroll_up": false, "scroll_down": false, "next_page": false, "previous_page": false,
		"snap_page": false, "find_fig": true, "find_pdf": false, "non_determ": false}`

	var a Action
	require.NoError(t, structured.Decode(ActionSchema, reply, &a))
	assert.LessOrEqual(t, a.TrueCount(), 1)
	assert.Equal(t, IntentFindFig, a.Intent())
}

func TestSnapPageSchemaRejectsString(t *testing.T) {
	var res SnapPageResult
	err := structured.Decode(SnapPageSchema, `{"snap_page": "seven"}`, &res)
	assert.Error(t, err)
}
