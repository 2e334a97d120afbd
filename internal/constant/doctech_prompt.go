package constant

const (
	// Action classification
	ActionParseInstruction = `Decide if the user wants one of the following actions performed:
- ` + "`scroll_up`" + `: scroll up a small amount within one page of the pdf
- ` + "`scroll_down`" + `: scroll down a small amount within one page of the pdf
- ` + "`next_page`" + `: go to the next page of the pdf
- ` + "`previous_page`" + `: go to the previous page of the pdf
- ` + "`snap_page`" + `: snap to a specific page of a pdf
- ` + "`find_fig`" + `: find a specific figure, table, image, or specific item.
- ` + "`find_pdf`" + `: find a specific document
- ` + "`non_determ`" + `: no valid action is discernable
These are mutually exclusive. One should be true, the rest should be false.
note: you can use snap_page to go to a page relative to the current page.
note: blanket questions should default to find figure, unless they're obviously about a document`

	ActionPreamble = "my name is doc tech, what action would you like me to perform?"

	// Snap page extraction. %s is the rendered viewer context.
	SnapPageParseInstruction = `Parse out the specific page of the pdf the user wants to snap to.`
	SnapPagePreamble         = "my name is doc tech, what page would you like to snap to. Current state: %s"

	FigureDescriptionParseInstruction = `The user wants to find a figure. Extract a description of the figure the user needs.`
	FigureDescriptionPreamble         = "my name is doc tech, describe the figure you want me to find."

	DocumentDescriptionParseInstruction = `The user wants to find a document. Extract a description of the document the user needs.`
	DocumentDescriptionPreamble         = "my name is doc tech, describe the document you want me to find."

	// GenericQueryError is the only error body the query endpoint returns
	GenericQueryError = "could not determine action!"
)
