package inspection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DraftKey identifies the draft of one user for one site.
type DraftKey struct {
	UserID uint
	SiteID uint
}

// Ready reports whether both identifiers are resolved.
func (k DraftKey) Ready() bool {
	return k.UserID != 0 && k.SiteID != 0
}

func (k DraftKey) String() string {
	return fmt.Sprintf("inspection-draft-%d-%d", k.UserID, k.SiteID)
}

// DraftStore persists serialized response maps. Load returns ErrNoDraft when
// nothing is stored under the key.
type DraftStore interface {
	Load(ctx context.Context, key DraftKey) ([]byte, error)
	Save(ctx context.Context, key DraftKey, data []byte) error
	Delete(ctx context.Context, key DraftKey) error
}

// Form is the response state of one mounted inspection form. It is not safe
// for concurrent use.
type Form struct {
	layout    *Layout
	key       DraftKey
	drafts    DraftStore
	responses Responses
	loaded    bool
}

func NewForm(layout *Layout, key DraftKey, drafts DraftStore) *Form {
	return &Form{
		layout:    layout,
		key:       key,
		drafts:    drafts,
		responses: make(Responses),
	}
}

func (f *Form) Layout() *Layout {
	return f.layout
}

func (f *Form) Key() DraftKey {
	return f.key
}

// DraftLoaded reports whether LoadDraft has completed; changes are only
// persisted after that.
func (f *Form) DraftLoaded() bool {
	return f.loaded
}

// LoadDraft replaces the response map with the saved draft. It runs at most
// once per form so a late read cannot clobber edits made after mount.
func (f *Form) LoadDraft(ctx context.Context) error {
	if f.loaded || !f.key.Ready() || f.drafts == nil {
		return nil
	}

	data, err := f.drafts.Load(ctx, f.key)
	if errors.Is(err, ErrNoDraft) {
		f.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("load draft %s: %w", f.key, err)
	}

	responses, err := DecodeResponses(data, f.layout)
	if err != nil {
		return fmt.Errorf("load draft %s: %w", f.key, err)
	}
	f.responses = responses
	f.loaded = true
	return nil
}

// Answer returns the current answer of a question.
func (f *Form) Answer(questionID uint) (Answer, bool) {
	a, ok := f.responses[questionID]
	return a, ok
}

// Responses returns a copy of the response map.
func (f *Form) Responses() Responses {
	return f.responses.Clone()
}

// SetAnswer replaces the answer of a question. List answers are not merged:
// callers pass the complete new value.
func (f *Form) SetAnswer(ctx context.Context, questionID uint, a Answer) error {
	if _, ok := f.layout.Question(questionID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	f.responses[questionID] = a
	return f.persist(ctx)
}

// Replace swaps the whole response map.
func (f *Form) Replace(ctx context.Context, responses Responses) error {
	for id := range responses {
		if _, ok := f.layout.Question(id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
		}
	}
	f.responses = responses.Clone()
	return f.persist(ctx)
}

// Apply runs a change event through the question's input and stores the result.
func (f *Form) Apply(ctx context.Context, questionID uint, c Change) (Answer, error) {
	q, ok := f.layout.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	next, err := InputFor(q.Type).Apply(q, f.responses[questionID], c)
	if err != nil {
		return nil, err
	}
	if err := f.SetAnswer(ctx, questionID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (f *Form) persist(ctx context.Context) error {
	if !f.loaded {
		return nil
	}
	data, err := json.Marshal(f.responses)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", f.key, err)
	}
	if err := f.drafts.Save(ctx, f.key, data); err != nil {
		return fmt.Errorf("save draft %s: %w", f.key, err)
	}
	return nil
}

// ClearDraft empties the form and deletes the stored draft. Call it only after
// the submission has been confirmed.
func (f *Form) ClearDraft(ctx context.Context) error {
	f.responses = make(Responses)
	if !f.key.Ready() || f.drafts == nil {
		return nil
	}
	if err := f.drafts.Delete(ctx, f.key); err != nil {
		return fmt.Errorf("delete draft %s: %w", f.key, err)
	}
	return nil
}

func (f *Form) Progress() Progress {
	return ComputeProgress(f.layout, f.responses)
}

func (f *Form) Validate() error {
	return f.layout.Validate(f.responses)
}

// Fields describes every question in display order.
func (f *Form) Fields() []Field {
	qs := f.layout.Questions()
	fields := make([]Field, 0, len(qs))
	for _, q := range qs {
		field := InputFor(q.Type).Describe(q, f.responses[q.ID])
		field.Label, _ = f.layout.Label(q.ID)
		fields = append(fields, field)
	}
	return fields
}
