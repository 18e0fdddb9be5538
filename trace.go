package vmsim

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Reference is a single access to a virtual page.
// Write references mark the frame holding the page as dirty.
type Reference struct {
	Page  int  `json:"page"`
	Write bool `json:"write,omitempty"`
}

func (r Reference) String() string {
	if r.Write {
		return strconv.Itoa(r.Page) + "w"
	}
	return strconv.Itoa(r.Page)
}

// ParseTrace parses a whitespace and/or comma separated
// list of non-negative page numbers.
// A page number may carry a suffix of `w` (write) or `r` (read);
// references without a suffix are reads.
func ParseTrace(text string) ([]Reference, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTrace)
	}
	if len(fields) > MaxTraceLength {
		return nil, fmt.Errorf(
			"%w: %d references exceeds the limit of %d",
			ErrInvalidTrace, len(fields), MaxTraceLength)
	}
	trace := make([]Reference, len(fields))
	for i, field := range fields {
		reference, err := parseReference(field)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: position %d: %w", ErrInvalidTrace, i, err)
		}
		trace[i] = reference
	}
	return trace, nil
}

func parseReference(field string) (Reference, error) {
	var write bool
	switch field[len(field)-1] {
	case 'w', 'W':
		write = true
		field = field[:len(field)-1]
	case 'r', 'R':
		field = field[:len(field)-1]
	}
	page, err := strconv.ParseUint(field, 10, 31)
	if err != nil {
		return Reference{}, err
	}
	return Reference{Page: int(page), Write: write}, nil
}

// FormatTrace is the inverse of [ParseTrace].
func FormatTrace(trace []Reference) string {
	var builder strings.Builder
	for i, reference := range trace {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(reference.String())
	}
	return builder.String()
}

// Reads converts page numbers into read references.
func Reads(pages ...int) []Reference {
	trace := make([]Reference, len(pages))
	for i, page := range pages {
		trace[i] = Reference{Page: page}
	}
	return trace
}

func validateTrace(trace []Reference, process Process) error {
	if len(trace) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidTrace)
	}
	if len(trace) > MaxTraceLength {
		return fmt.Errorf(
			"%w: %d references exceeds the limit of %d",
			ErrInvalidTrace, len(trace), MaxTraceLength)
	}
	for i, reference := range trace {
		if err := checkBounds(reference, process, i); err != nil {
			return err
		}
	}
	return nil
}

func checkBounds(reference Reference, process Process, position int) error {
	if reference.Page >= 0 && reference.Page < process.PageCount {
		return nil
	}
	return &BoundsError{
		Process:   process.ID,
		Page:      reference.Page,
		PageCount: process.PageCount,
		Position:  position,
	}
}
