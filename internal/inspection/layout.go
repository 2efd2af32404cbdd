package inspection

import (
	"fmt"
	"sort"
	"strings"
)

// SectionOffset maps the raw section column to the number shown on the form.
const SectionOffset = 3

// DisplaySection is the only place the section offset is applied.
func DisplaySection(raw int) int {
	return raw - SectionOffset
}

type SectionMeta struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Header      string `json:"header"`
}

type Section struct {
	SectionMeta
	Questions []Question `json:"questions"`
}

// Layout is the question list grouped into display sections.
// Raw sections that map to the same display number are merged.
type Layout struct {
	Sections []Section `json:"sections"`

	order  []uint
	labels map[uint]string
	index  map[uint]Question
}

// Organize groups questions by display section, in ascending section number.
// Within a section questions are sorted by form order; a missing form order
// sorts last and ties keep the fetch order. Section metadata comes from the
// first question seen in each section.
func Organize(questions []Question) *Layout {
	groups := make(map[int]*Section)
	var numbers []int
	for _, q := range questions {
		n := DisplaySection(q.Section)
		s, ok := groups[n]
		if !ok {
			s = &Section{SectionMeta: SectionMeta{
				Number:      n,
				Title:       q.SectionTitle,
				Description: q.SectionDescription,
				Header:      q.SectionHeader,
			}}
			groups[n] = s
			numbers = append(numbers, n)
		}
		s.Questions = append(s.Questions, q)
	}
	sort.Ints(numbers)

	l := &Layout{
		Sections: make([]Section, 0, len(numbers)),
		labels:   make(map[uint]string, len(questions)),
		index:    make(map[uint]Question, len(questions)),
	}
	for _, n := range numbers {
		s := groups[n]
		sort.SliceStable(s.Questions, func(i, j int) bool {
			return formOrderLess(s.Questions[i].FormOrder, s.Questions[j].FormOrder)
		})
		for i, q := range s.Questions {
			l.labels[q.ID] = fmt.Sprintf("%d.%d", n, i+1)
			l.index[q.ID] = q
			l.order = append(l.order, q.ID)
		}
		l.Sections = append(l.Sections, *s)
	}
	return l
}

func formOrderLess(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

// Len is the number of fetched questions.
func (l *Layout) Len() int {
	return len(l.order)
}

// Label returns the "section.index" number of a question, e.g. "4.2".
func (l *Layout) Label(questionID uint) (string, bool) {
	label, ok := l.labels[questionID]
	return label, ok
}

func (l *Layout) Question(questionID uint) (Question, bool) {
	q, ok := l.index[questionID]
	return q, ok
}

// Questions returns every question in display order.
func (l *Layout) Questions() []Question {
	qs := make([]Question, 0, len(l.order))
	for _, id := range l.order {
		qs = append(qs, l.index[id])
	}
	return qs
}

// MissingRequired lists, in display order, the labels of required questions
// without an answer.
func (l *Layout) MissingRequired(responses Responses) []string {
	var missing []string
	for _, id := range l.order {
		if !l.index[id].Required {
			continue
		}
		if !IsAnswered(responses[id]) {
			missing = append(missing, l.labels[id])
		}
	}
	return missing
}

// Validate returns a *MissingRequiredError when a required question is unanswered.
func (l *Layout) Validate(responses Responses) error {
	if missing := l.MissingRequired(responses); len(missing) > 0 {
		return &MissingRequiredError{Labels: missing}
	}
	return nil
}

type MissingRequiredError struct {
	Labels []string
}

func (e *MissingRequiredError) Error() string {
	return "inspection: required questions unanswered: " + strings.Join(e.Labels, ", ")
}
