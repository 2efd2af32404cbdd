package inspection

import "sort"

// Routing holds the obs_value / obs_comm flags of a question.
type Routing struct {
	Value   bool
	Comment bool
}

// Ambiguous is true when both or neither flag is set.
func (r Routing) Ambiguous() bool {
	return r.Value == r.Comment
}

// Row is one observation row. Exactly one of Value and Comment is set.
type Row struct {
	ReportID   uint
	QuestionID uint
	Value      *string
	Comment    *string
}

// BuildRows turns the response map into observation rows for reportID.
// List answers produce one row per element. The value column wins when a
// question has both flags; questions with neither flag go to the comment
// column. Rows are ordered by question id.
func BuildRows(reportID uint, responses Responses, routing map[uint]Routing) []Row {
	ids := make([]uint, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []Row
	for _, id := range ids {
		a := responses[id]
		if a == nil {
			continue
		}
		route := routing[id]
		for _, v := range a.Values() {
			row := Row{ReportID: reportID, QuestionID: id}
			if route.Value {
				row.Value = &v
			} else {
				row.Comment = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}
