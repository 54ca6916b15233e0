// Package source loads option records from JSON files and HTTP endpoints and
// keeps a file-backed option list in sync with the disk.
package source

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"typeahead/internal/domain"
)

// ErrNotArray is returned when a document does not hold a JSON array of records
var ErrNotArray = errors.New("expected a JSON array of records")

// Record is one element of a JSON option list: usually an object, though
// bare strings and numbers are accepted and label themselves.
type Record struct {
	gjson.Result
}

// JSON returns the record's source text
func (r Record) JSON() string {
	return r.Raw
}

// Pretty returns the record indented for display
func (r Record) Pretty() string {
	return string(pretty.Pretty([]byte(r.Raw)))
}

// Paths are gjson paths into each record. Empty Value falls back to the
// label; empty Description and Disabled are unset.
type Paths struct {
	Label       string
	Value       string
	Description string
	Disabled    string
}

// Projector builds the option projector for records
func (p Paths) Projector() domain.Projector[Record] {
	proj := domain.Projector[Record]{
		Label: func(r Record) string { return field(r, p.Label) },
	}
	if p.Value != "" {
		proj.Value = func(r Record) string {
			if r.IsObject() && !r.Get(p.Value).Exists() {
				return field(r, p.Label)
			}
			return field(r, p.Value)
		}
	}
	if p.Description != "" {
		proj.Description = func(r Record) string { return field(r, p.Description) }
	}
	if p.Disabled != "" {
		proj.Disabled = func(r Record) bool { return r.Get(p.Disabled).Bool() }
	}
	return proj
}

func field(r Record, path string) string {
	if !r.IsObject() && !r.IsArray() {
		return r.String()
	}
	return r.Get(path).String()
}

// ParseRecords splits a JSON array into records. When resultsPath is set the
// array is looked up at that path first.
func ParseRecords(data []byte, resultsPath string) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotArray)
	}

	doc := gjson.ParseBytes(data)
	if resultsPath != "" {
		doc = doc.Get(resultsPath)
	}
	if !doc.IsArray() {
		return nil, ErrNotArray
	}

	elems := doc.Array()
	records := make([]Record, 0, len(elems))
	for _, el := range elems {
		if el.Type == gjson.Null {
			continue
		}
		records = append(records, Record{el})
	}
	return records, nil
}

// LoadFile reads and parses a JSON array file
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	records, err := ParseRecords(data, "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}
	return records, nil
}

// Raws returns the source text of each record, for printing a selection
func Raws(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Raw
	}
	return out
}
