// Package schema decides the column order of the consolidated table: a fixed
// template gives the backbone, question columns (P1, P2, P10_3, ...) are
// sorted naturally, and anything unknown lands alphabetically at the end.
package schema

import (
	"regexp"
	"sort"

	"consolidador/domain/table"
)

var questionColumn = regexp.MustCompile(`^P\d+`)

// IsQuestionColumn reports whether a column name follows the question pattern
// (P followed by a number, e.g. P1, P10, P34_2).
func IsQuestionColumn(name string) bool {
	return questionColumn.MatchString(name)
}

// MasterOrder builds the column order for the consolidated table from the set
// of all column names discovered across the source tables:
//
//  1. traceability columns first, in their fixed order;
//  2. non-question template columns, in template order;
//  3. every discovered question column, naturally sorted, inserted where the
//     template's first question column sits (or after the known columns when
//     the template has none);
//  4. unexpected columns alphabetically at the end.
func MasterOrder(allColumns map[string]struct{}) []string {
	final := make([]string, 0, len(allColumns))
	for _, col := range table.TraceabilityColumns() {
		if _, ok := allColumns[col]; ok {
			final = append(final, col)
		}
	}

	var questions []string
	for col := range allColumns {
		if IsQuestionColumn(col) {
			questions = append(questions, col)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return naturalLess(questions[i], questions[j]) })

	// Rebuild the template backbone: keep non-question template columns that
	// exist in the data, and splice the sorted question block in at the
	// template's first question position.
	var base []string
	questionsInserted := false
	for _, col := range TemplateSchema {
		isQuestion := IsQuestionColumn(col)
		if !isQuestion {
			if _, ok := allColumns[col]; ok && !table.IsTraceabilityColumn(col) {
				base = append(base, col)
			}
			continue
		}
		if !questionsInserted && len(questions) > 0 {
			base = append(base, questions...)
			questionsInserted = true
		}
	}
	if !questionsInserted && len(questions) > 0 {
		base = append(base, questions...)
	}
	final = append(final, base...)

	known := make(map[string]struct{}, len(TemplateSchema)+3)
	for _, col := range table.TraceabilityColumns() {
		known[col] = struct{}{}
	}
	for _, col := range TemplateSchema {
		known[col] = struct{}{}
	}

	var unexpected []string
	for col := range allColumns {
		if _, ok := known[col]; !ok && !IsQuestionColumn(col) {
			unexpected = append(unexpected, col)
		}
	}
	sort.Strings(unexpected)
	final = append(final, unexpected...)

	// Drop duplicates preserving first occurrence.
	seen := make(map[string]struct{}, len(final))
	out := final[:0]
	for _, col := range final {
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	return out
}
