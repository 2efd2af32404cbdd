package inspection

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Change is one input event sent by the form.
//
// Value sets a scalar answer, Values replaces a list answer, Toggle flips one
// option of a multi-select and Checked sets an agreement box.
type Change struct {
	Value   *string  `json:"value,omitempty"`
	Values  []string `json:"values,omitempty"`
	Toggle  string   `json:"toggle,omitempty"`
	Checked *bool    `json:"checked,omitempty"`
}

// Field is the render description of one question.
type Field struct {
	QuestionID  uint         `json:"questionId"`
	Label       string       `json:"label"`
	Title       string       `json:"title"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	Value       Answer       `json:"value"`
	Answered    bool         `json:"answered"`
	FileCount   int          `json:"fileCount,omitempty"`
	Unsupported bool         `json:"unsupported,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// Input owns change handling and display for one question type.
type Input interface {
	Apply(q Question, current Answer, c Change) (Answer, error)
	Describe(q Question, current Answer) Field
	// Validate checks an answer that arrived whole, e.g. in a submit body,
	// with the same rules Apply enforces.
	Validate(q Question, a Answer) error
}

var inputs = map[QuestionType]Input{
	TypeSingleChoice: singleChoiceInput{},
	TypeMultiSelect:  multiSelectInput{},
	TypeText:         textInput{},
	TypeSiteSelect:   textInput{},
	TypeDate:         dateInput{},
	TypeFile:         fileInput{},
	TypeAgreement:    agreementInput{},
}

// InputFor returns the input for t. Unknown types get a placeholder input so a
// single bad question does not break the whole form.
func InputFor(t QuestionType) Input {
	if in, ok := inputs[t]; ok {
		return in
	}
	return unsupportedInput{}
}

func describe(q Question, current Answer) Field {
	return Field{
		QuestionID: q.ID,
		Title:      q.Title,
		Text:       q.Text,
		Type:       q.Type,
		Required:   q.Required,
		Options:    q.Options,
		Value:      current,
		Answered:   IsAnswered(current),
	}
}

type singleChoiceInput struct{}

func (singleChoiceInput) Apply(q Question, _ Answer, c Change) (Answer, error) {
	if c.Value == nil {
		return nil, ErrEmptyChange
	}
	if err := checkOption(q, *c.Value); err != nil {
		return nil, err
	}
	return Choice(*c.Value), nil
}

func (singleChoiceInput) Validate(q Question, a Answer) error {
	v, ok := a.(Choice)
	if !ok {
		return wrongShape(q, a)
	}
	return checkOption(q, string(v))
}

func (singleChoiceInput) Describe(q Question, current Answer) Field {
	if _, ok := current.(Choice); !ok {
		current = nil
	}
	return describe(q, current)
}

type multiSelectInput struct{}

func (multiSelectInput) Apply(q Question, current Answer, c Change) (Answer, error) {
	if c.Values != nil {
		next := make(Choices, 0, len(c.Values))
		for _, v := range c.Values {
			if !q.hasOption(v) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidOption, v)
			}
			if !contains(next, v) {
				next = append(next, v)
			}
		}
		return next, nil
	}

	if c.Toggle == "" {
		return nil, ErrEmptyChange
	}
	if !q.hasOption(c.Toggle) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOption, c.Toggle)
	}

	prev, _ := current.(Choices)
	next := make(Choices, 0, len(prev)+1)
	removed := false
	for _, v := range prev {
		if v == c.Toggle {
			removed = true
			continue
		}
		next = append(next, v)
	}
	if !removed {
		next = append(next, c.Toggle)
	}
	return next, nil
}

// Validate rejects duplicates; Apply silently drops them instead.
func (multiSelectInput) Validate(q Question, a Answer) error {
	list, ok := a.(Choices)
	if !ok {
		return wrongShape(q, a)
	}
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if v == "" || !q.hasOption(v) {
			return fmt.Errorf("%w: %q", ErrInvalidOption, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: %q selected twice", ErrInvalidOption, v)
		}
		seen[v] = true
	}
	return nil
}

func (multiSelectInput) Describe(q Question, current Answer) Field {
	if _, ok := current.(Choices); !ok {
		current = nil
	}
	return describe(q, current)
}

type textInput struct{}

func (textInput) Apply(_ Question, _ Answer, c Change) (Answer, error) {
	if c.Value == nil {
		return nil, ErrEmptyChange
	}
	return Text(*c.Value), nil
}

func (textInput) Validate(q Question, a Answer) error {
	if _, ok := a.(Text); !ok {
		return wrongShape(q, a)
	}
	return nil
}

func (textInput) Describe(q Question, current Answer) Field {
	if _, ok := current.(Text); !ok {
		current = nil
	}
	return describe(q, current)
}

type dateInput struct{}

func (dateInput) Apply(_ Question, _ Answer, c Change) (Answer, error) {
	if c.Value == nil {
		return nil, ErrEmptyChange
	}
	if err := checkDate(*c.Value); err != nil {
		return nil, err
	}
	return Date(*c.Value), nil
}

func (dateInput) Validate(q Question, a Answer) error {
	v, ok := a.(Date)
	if !ok {
		return wrongShape(q, a)
	}
	return checkDate(string(v))
}

func (dateInput) Describe(q Question, current Answer) Field {
	if _, ok := current.(Date); !ok {
		current = nil
	}
	return describe(q, current)
}

// fileInput stores references only; the upload happens before the change.
type fileInput struct{}

func (fileInput) Apply(_ Question, current Answer, c Change) (Answer, error) {
	if c.Values != nil {
		return append(Files{}, c.Values...), nil
	}
	if c.Value == nil || *c.Value == "" {
		return nil, ErrEmptyChange
	}
	prev, _ := current.(Files)
	return append(append(Files{}, prev...), *c.Value), nil
}

func (fileInput) Validate(q Question, a Answer) error {
	files, ok := a.(Files)
	if !ok {
		return wrongShape(q, a)
	}
	for _, ref := range files {
		if ref == "" {
			return fmt.Errorf("%w: question %d: empty file reference", ErrInvalidAnswer, q.ID)
		}
	}
	return nil
}

func (fileInput) Describe(q Question, current Answer) Field {
	files, ok := current.(Files)
	if !ok {
		current = nil
	}
	f := describe(q, current)
	f.FileCount = len(files)
	return f
}

type agreementInput struct{}

func (agreementInput) Apply(_ Question, _ Answer, c Change) (Answer, error) {
	if c.Checked == nil {
		return nil, ErrEmptyChange
	}
	return Agreement(*c.Checked), nil
}

func (agreementInput) Validate(q Question, a Answer) error {
	if _, ok := a.(Agreement); !ok {
		return wrongShape(q, a)
	}
	return nil
}

func (agreementInput) Describe(q Question, current Answer) Field {
	if _, ok := current.(Agreement); !ok {
		current = nil
	}
	return describe(q, current)
}

type unsupportedInput struct{}

func (unsupportedInput) Apply(q Question, _ Answer, _ Change) (Answer, error) {
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, q.Type)
}

func (unsupportedInput) Validate(q Question, _ Answer) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, q.Type)
}

func (unsupportedInput) Describe(q Question, current Answer) Field {
	f := describe(q, current)
	f.Unsupported = true
	f.Placeholder = fmt.Sprintf("Unsupported question type %q", q.Type)
	return f
}

// checkOption accepts "" as a cleared choice.
func checkOption(q Question, v string) error {
	if v != "" && !q.hasOption(v) {
		return fmt.Errorf("%w: %q", ErrInvalidOption, v)
	}
	return nil
}

func checkDate(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, v)
	}
	return nil
}

func wrongShape(q Question, a Answer) error {
	return fmt.Errorf("%w: question %d (%s) got %T", ErrInvalidAnswer, q.ID, q.Type, a)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
