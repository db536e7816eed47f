// Package clipboard renders test cases as a tab-separated table that pastes
// cleanly into a spreadsheet, and writes it to the system clipboard.
package clipboard

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Makepad-fr/casegen/internal/model"
)

// Header is the first line of every table.
const Header = "ID\tType\tTitle\tDescription\tSteps\tExpected Result"

// writeAll is swapped in tests.
var writeAll = clipboard.WriteAll

var cellCleaner = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func clean(s string) string { return cellCleaner.Replace(s) }

// FlattenSteps numbers the steps and joins them on one line: "1. a | 2. b".
func FlattenSteps(steps []string) string {
	parts := make([]string, 0, len(steps))
	for i, s := range steps {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, clean(s)))
	}
	return strings.Join(parts, " | ")
}

// Format builds the table. The title fills both the Title and Description columns.
func Format(cs []model.TestCase) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, tc := range cs {
		title := clean(tc.Title)
		fields := []string{
			clean(tc.ID),
			clean(string(tc.Type)),
			title,
			title,
			FlattenSteps(tc.Steps),
			clean(tc.ExpectedResult),
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Copy writes Format(cs) through write, or to the system clipboard when
// write is nil. An empty list is left alone and reports false.
func Copy(write func(string) error, cs []model.TestCase) (bool, error) {
	if len(cs) == 0 {
		return false, nil
	}
	if write == nil {
		write = writeAll
	}
	if err := write(Format(cs)); err != nil {
		return false, fmt.Errorf("write clipboard: %w", err)
	}
	return true, nil
}

// WriteAll puts raw text on the system clipboard.
func WriteAll(text string) error { return writeAll(text) }
