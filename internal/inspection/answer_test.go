package inspection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAnswered(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		want   bool
	}{
		{"missing", nil, false},
		{"empty text", Text(""), false},
		{"empty choice", Choice(""), false},
		{"empty date", Date(""), false},
		{"nil choices", Choices(nil), false},
		{"empty choices", Choices{}, false},
		{"empty files", Files{}, false},
		{"agreement false", Agreement(false), false},
		{"zero string", Text("0"), true},
		{"text", Text("beaver dam"), true},
		{"choice", Choice("Yes"), true},
		{"date", Date("2024-06-01"), true},
		{"choices", Choices{"Litter"}, true},
		{"files", Files{"/uploads/a.jpg"}, true},
		{"agreement true", Agreement(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAnswered(tt.answer))
		})
	}
}

func TestDecodeAnswerByType(t *testing.T) {
	tests := []struct {
		typ  QuestionType
		raw  string
		want Answer
	}{
		{TypeSingleChoice, `"Good"`, Choice("Good")},
		{TypeMultiSelect, `["a","b"]`, Choices{"a", "b"}},
		{TypeText, `""`, Text("")},
		{TypeSiteSelect, `"Wagner"`, Text("Wagner")},
		{TypeDate, `"2024-05-30"`, Date("2024-05-30")},
		{TypeFile, `["/uploads/x.png"]`, Files{"/uploads/x.png"}},
		{TypeAgreement, `true`, Agreement(true)},
		{QuestionType("slider"), `"7"`, Text("7")},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got, err := DecodeAnswer(tt.typ, json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAnswerNullAndMismatch(t *testing.T) {
	got, err := DecodeAnswer(TypeText, json.RawMessage("null"))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = DecodeAnswer(TypeAgreement, json.RawMessage(`"yes"`))
	assert.Error(t, err)
}

func TestListAnswersEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(map[string]Answer{
		"choices": Choices(nil),
		"files":   Files(nil),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"choices":[],"files":[]}`, string(data))
}

func TestAgreementValues(t *testing.T) {
	assert.Equal(t, []string{"true"}, Agreement(true).Values())
	assert.Equal(t, []string{"false"}, Agreement(false).Values())
}
