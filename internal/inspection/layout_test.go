package inspection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(n int) *int { return &n }

func sampleQuestions() []Question {
	return []Question{
		{ID: 1, Text: "Inspection date", Type: TypeDate, Section: 4, FormOrder: order(1), Required: true,
			SectionTitle: "Visit", SectionDescription: "About this visit", SectionHeader: "Details"},
		{ID: 2, Text: "Weather", Type: TypeSingleChoice, Section: 4, FormOrder: order(2), Required: true,
			Options: []string{"Sunny", "Rain"}, SectionTitle: "Visit", SectionDescription: "About this visit", SectionHeader: "Details"},
		{ID: 3, Text: "Observed issues", Type: TypeMultiSelect, Section: 5, FormOrder: order(1),
			Options: []string{"Litter", "Fire pit", "ATV tracks"}, SectionTitle: "Human impact"},
		{ID: 4, Text: "Notes", Type: TypeText, Section: 5, SectionTitle: "Human impact"},
		{ID: 5, Text: "I confirm the report is accurate", Type: TypeAgreement, Section: 6, FormOrder: order(1),
			Required: true, SectionTitle: "Sign off"},
	}
}

func labelsOf(l *Layout) map[uint]string {
	out := make(map[uint]string)
	for _, q := range l.Questions() {
		out[q.ID], _ = l.Label(q.ID)
	}
	return out
}

func TestOrganizeGroupsBySectionOffset(t *testing.T) {
	l := Organize(sampleQuestions())

	require.Len(t, l.Sections, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{l.Sections[0].Number, l.Sections[1].Number, l.Sections[2].Number})
	assert.Equal(t, SectionMeta{Number: 1, Title: "Visit", Description: "About this visit", Header: "Details"}, l.Sections[0].SectionMeta)

	want := map[uint]string{1: "1.1", 2: "1.2", 3: "2.1", 4: "2.2", 5: "3.1"}
	if diff := cmp.Diff(want, labelsOf(l)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestOrganizeSortsByFormOrderWithMissingLast(t *testing.T) {
	qs := []Question{
		{ID: 10, Section: 7},
		{ID: 11, Section: 7, FormOrder: order(3)},
		{ID: 12, Section: 7, FormOrder: order(1)},
		{ID: 13, Section: 7, FormOrder: order(3)},
		{ID: 14, Section: 7},
	}
	l := Organize(qs)

	var got []uint
	for _, q := range l.Questions() {
		got = append(got, q.ID)
	}
	assert.Equal(t, []uint{12, 11, 13, 10, 14}, got)
}

func TestOrganizeTakesMetadataFromFirstQuestion(t *testing.T) {
	qs := []Question{
		{ID: 1, Section: 4, FormOrder: order(2), SectionTitle: "First"},
		{ID: 2, Section: 9, FormOrder: order(1), SectionTitle: "Other"},
		{ID: 3, Section: 4, FormOrder: order(1), SectionTitle: "Second"},
	}
	l := Organize(qs)

	require.Len(t, l.Sections, 2)
	assert.Equal(t, "First", l.Sections[0].Title)
	assert.Equal(t, 6, l.Sections[1].Number)
	label, ok := l.Label(3)
	require.True(t, ok)
	assert.Equal(t, "1.1", label)
}

func TestMissingRequiredInDisplayOrder(t *testing.T) {
	l := Organize(sampleQuestions())

	missing := l.MissingRequired(Responses{
		2: Choice("Sunny"),
		5: Agreement(false),
	})
	assert.Equal(t, []string{"1.1", "3.1"}, missing)

	err := l.Validate(Responses{1: Date("2024-06-01"), 2: Choice("Rain"), 5: Agreement(true)})
	assert.NoError(t, err)
}

func TestValidateReturnsMissingRequiredError(t *testing.T) {
	qs := []Question{
		{ID: 1, Section: 7, FormOrder: order(1)},
		{ID: 2, Section: 7, FormOrder: order(2), Required: true},
	}
	err := Organize(qs).Validate(Responses{1: Text("ok")})

	var missing *MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"4.2"}, missing.Labels)
}

func TestEmptyLayout(t *testing.T) {
	l := Organize(nil)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Sections)
	assert.Empty(t, l.MissingRequired(nil))
}
