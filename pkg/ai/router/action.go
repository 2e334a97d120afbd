package router

import (
	"fmt"

	"doctech-be/pkg/llm/structured"
)

// Action is the raw classifier verdict. Exactly one field is meant to be
// true; nothing enforces it.
type Action struct {
	ScrollUp     bool `json:"scroll_up"`
	ScrollDown   bool `json:"scroll_down"`
	NextPage     bool `json:"next_page"`
	PreviousPage bool `json:"previous_page"`
	SnapPage     bool `json:"snap_page"`
	FindFig      bool `json:"find_fig"`
	FindPDF      bool `json:"find_pdf"`
	NonDeterm    bool `json:"non_determ"`
}

// Intent is the single follow-up the router will perform
type Intent string

const (
	IntentSnapPage Intent = "SNAP_PAGE"
	IntentFindFig  Intent = "FIND_FIG"
	IntentFindPDF  Intent = "FIND_PDF"
	IntentNone     Intent = "NONE" // scroll, next/previous page, non_determ
)

// Intent reduces the eight flags to one tag.
// Priority: snap_page > find_fig > find_pdf > none. Only the first true
// flag in that order counts, so contradictory verdicts still resolve.
func (a Action) Intent() Intent {
	switch {
	case a.SnapPage:
		return IntentSnapPage
	case a.FindFig:
		return IntentFindFig
	case a.FindPDF:
		return IntentFindPDF
	default:
		return IntentNone
	}
}

// TrueCount reports how many flags are set.
func (a Action) TrueCount() int {
	n := 0
	for _, f := range []bool{a.ScrollUp, a.ScrollDown, a.NextPage, a.PreviousPage, a.SnapPage, a.FindFig, a.FindPDF, a.NonDeterm} {
		if f {
			n++
		}
	}
	return n
}

// ViewerContext is the viewer state sent along with a query
type ViewerContext struct {
	CurrentPage int `json:"current_page"`
}

// String renders the context the way it is embedded in prompts
func (v ViewerContext) String() string {
	return fmt.Sprintf("{'current_page': %d}", v.CurrentPage)
}

type SnapPageResult struct {
	SnapPage int `json:"snap_page"`
}

type FigureDescription struct {
	FigureDescription string `json:"figure_description"`
}

type DocumentDescription struct {
	DocDescription string `json:"doc_description"`
}

// Record is the response assembled for one query
type Record struct {
	Action
	PDF  *string `json:"pdf"`
	Page *int    `json:"page"`
}

var (
	ActionSchema = structured.Object("Action", map[string]interface{}{
		"scroll_up":     structured.Boolean("scroll up a small amount within one page"),
		"scroll_down":   structured.Boolean("scroll down a small amount within one page"),
		"next_page":     structured.Boolean("go to the next page"),
		"previous_page": structured.Boolean("go to the previous page"),
		"snap_page":     structured.Boolean("snap to a specific or relative page"),
		"find_fig":      structured.Boolean("find a figure, table, image or specific item"),
		"find_pdf":      structured.Boolean("find a specific document"),
		"non_determ":    structured.Boolean("no valid action is discernable"),
	})

	SnapPageSchema = structured.Object("SnapPage", map[string]interface{}{
		"snap_page": structured.Integer("absolute page number to snap to"),
	})

	FigureDescriptionSchema = structured.Object("FigDesc", map[string]interface{}{
		"figure_description": structured.String("description of the figure the user needs"),
	})

	DocumentDescriptionSchema = structured.Object("DocDesc", map[string]interface{}{
		"doc_description": structured.String("description of the document the user needs"),
	})
)
