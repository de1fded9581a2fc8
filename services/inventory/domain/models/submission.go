package models

// ParsedItem is extractor output before validation and persistence.
type ParsedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Submission is one user request: free text plus optional form selections.
// Optional fields are raw user input; normalization happens in the pipeline.
type Submission struct {
	RawText            string
	ContainerSelection *string
	ContainerNewName   *string
	Location           *string
}

// LabelLine is one text line placed Y units below the label's top edge.
type LabelLine struct {
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// Label is a printer-agnostic label description.
type Label struct {
	Header *LabelLine  `json:"header,omitempty"`
	Lines  []LabelLine `json:"lines"`
}

// Empty reports whether the label has nothing to print.
func (l Label) Empty() bool {
	return l.Header == nil && len(l.Lines) == 0
}
