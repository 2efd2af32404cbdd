package inspection

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Responses maps question id to the current answer.
type Responses map[uint]Answer

func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for id, a := range r {
		out[id] = a
	}
	return out
}

// DecodeResponses decodes a serialized response map. When layout is set each
// value is decoded with its question type and answers for questions that are
// no longer in the layout are dropped.
func DecodeResponses(data []byte, layout *Layout) (Responses, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode responses: %v", ErrInvalidAnswer, err)
	}

	out := make(Responses, len(raw))
	for key, value := range raw {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid question id %q", ErrInvalidAnswer, key)
		}

		var a Answer
		if layout == nil {
			a, err = decodeByShape(value)
		} else {
			q, ok := layout.Question(uint(id))
			if !ok {
				continue
			}
			a, err = DecodeAnswer(q.Type, value)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrInvalidAnswer, id, err)
		}
		if a != nil {
			out[uint(id)] = a
		}
	}
	return out, nil
}

// CheckResponses runs every answer through its question's input rules.
// Answers for unknown questions are rejected.
func (l *Layout) CheckResponses(responses Responses) error {
	ids := make([]uint, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		q, ok := l.Question(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
		}
		if err := InputFor(q.Type).Validate(q, responses[id]); err != nil {
			return err
		}
	}
	return nil
}
