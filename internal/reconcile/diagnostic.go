package reconcile

import (
	"fmt"

	"git.home.luguber.info/inful/doclinks/internal/linkindex"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
)

// Rule identifies the kind of unresolved reference.
type Rule string

const (
	RuleMissingFile          Rule = "missing-file"
	RuleMissingHeading       Rule = "missing-heading"
	RuleMissingHeadingInFile Rule = "missing-heading-in-file"
)

// Diagnostic is one unresolved link occurrence.
type Diagnostic struct {
	Message    string            `json:"message"`
	Rule       Rule              `json:"rule"`
	File       string            `json:"file"`
	Position   markdown.Position `json:"position"`
	URL        string            `json:"url"`
	Target     linkindex.Key     `json:"target"`
	Suggestion string            `json:"suggestion,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s]", d.File, d.Position.Line, d.Position.Column, d.Message, d.Rule)
}
