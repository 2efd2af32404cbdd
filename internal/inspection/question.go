// Package inspection holds the inspection form engine: question layout,
// answer variants, per-type input handling, progress and required-field
// validation, draft persistence and observation row building.
package inspection

// QuestionType is the question_type column of the questions table.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiSelect  QuestionType = "multi_select"
	TypeText         QuestionType = "text"
	TypeDate         QuestionType = "date"
	TypeFile         QuestionType = "file"
	TypeAgreement    QuestionType = "agreement"
	// TypeSiteSelect is kept for old question sets; new forms resolve the site from the URL.
	TypeSiteSelect QuestionType = "site_select"
)

// Question is a question definition as fetched from the question table.
// Section metadata is duplicated on every question of the section.
type Question struct {
	ID                 uint         `json:"id"`
	Title              string       `json:"title"`
	Text               string       `json:"text"`
	Type               QuestionType `json:"type"`
	Section            int          `json:"section"`
	FormOrder          *int         `json:"formOrder,omitempty"`
	Required           bool         `json:"required"`
	Options            []string     `json:"options,omitempty"`
	SectionTitle       string       `json:"sectionTitle"`
	SectionDescription string       `json:"sectionDescription"`
	SectionHeader      string       `json:"sectionHeader"`
}

func (q Question) hasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}
