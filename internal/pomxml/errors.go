package pomxml

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// MalformedDocumentError reports a source that is not well-formed XML.
// Nothing is edited when it is returned.
type MalformedDocumentError struct {
	Line int
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("pomxml: malformed document at line %d: %v", e.Line, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

func newMalformed(src string, offset int, err error) *MalformedDocumentError {
	line := lineOf(src, offset)
	var se *xml.SyntaxError
	if errors.As(err, &se) && se.Line > 0 {
		line = se.Line
	}
	return &MalformedDocumentError{Line: line, Err: err}
}

// ShapeError reports a document whose element structure cannot be edited
// safely, such as more than one <project> element.
type ShapeError struct {
	Tag   string
	Count int
}

func (e *ShapeError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("pomxml: no <%s> element found", e.Tag)
	}
	return fmt.Sprintf("pomxml: expected a single <%s> element, found %d", e.Tag, e.Count)
}

// OverlapError reports two edits in one batch touching the same bytes.
type OverlapError struct {
	First  Edit
	Second Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("pomxml: edit [%d,%d) overlaps edit [%d,%d)",
		e.Second.Start, e.Second.End, e.First.Start, e.First.End)
}
