package inspection

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is the value held for one question. The set of variants is closed:
// Choice, Choices, Text, Date, Files and Agreement.
type Answer interface {
	// Answered reports whether the value counts towards progress and
	// satisfies a required question.
	Answered() bool
	// Values returns the stored representation, one entry per observation row.
	Values() []string
	isAnswer()
}

// Choice is the selected option of a single-choice question.
type Choice string

// Choices are the selected options of a multi-select question.
type Choices []string

// Text is a free-text answer. An explicit empty string is kept in the
// response map but is not answered.
type Text string

// Date is a YYYY-MM-DD date.
type Date string

// Files are references to stored uploads.
type Files []string

// Agreement is an agreement checkbox. Only true is answered.
type Agreement bool

func (a Choice) Answered() bool    { return a != "" }
func (a Choices) Answered() bool   { return len(a) > 0 }
func (a Text) Answered() bool      { return a != "" }
func (a Date) Answered() bool      { return a != "" }
func (a Files) Answered() bool     { return len(a) > 0 }
func (a Agreement) Answered() bool { return bool(a) }

func (a Choice) Values() []string    { return []string{string(a)} }
func (a Choices) Values() []string   { return append([]string(nil), a...) }
func (a Text) Values() []string      { return []string{string(a)} }
func (a Date) Values() []string      { return []string{string(a)} }
func (a Files) Values() []string     { return append([]string(nil), a...) }
func (a Agreement) Values() []string { return []string{strconv.FormatBool(bool(a))} }

func (Choice) isAnswer()    {}
func (Choices) isAnswer()   {}
func (Text) isAnswer()      {}
func (Date) isAnswer()      {}
func (Files) isAnswer()     {}
func (Agreement) isAnswer() {}

func (a Choices) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a Files) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// IsAnswered is false for a missing answer and for every empty value.
func IsAnswered(a Answer) bool {
	return a != nil && a.Answered()
}

// DecodeAnswer decodes the JSON value stored for a question of type t.
// A JSON null decodes to a nil Answer.
func DecodeAnswer(t QuestionType, raw json.RawMessage) (Answer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch t {
	case TypeSingleChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", t, err)
		}
		return Choice(s), nil
	case TypeMultiSelect:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", t, err)
		}
		return Choices(list), nil
	case TypeText, TypeSiteSelect:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", t, err)
		}
		return Text(s), nil
	case TypeDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", t, err)
		}
		return Date(s), nil
	case TypeFile:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", t, err)
		}
		return Files(list), nil
	case TypeAgreement:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("decode %s answer: %w", t, err)
		}
		return Agreement(b), nil
	}
	return decodeByShape(raw)
}

// decodeByShape is used for question types this build does not know.
func decodeByShape(raw json.RawMessage) (Answer, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Text(s), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return Choices(list), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Agreement(b), nil
	}
	return nil, fmt.Errorf("unrecognized answer value %s", raw)
}
