package inspection

import "fmt"

type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// ComputeProgress counts answered questions across the whole layout, not only
// the section on screen.
func ComputeProgress(layout *Layout, responses Responses) Progress {
	p := Progress{Total: layout.Len()}
	for _, id := range layout.order {
		if IsAnswered(responses[id]) {
			p.Answered++
		}
	}
	return p
}

func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Answered) / float64(p.Total)
}

// Percent is the rounded-down percentage used for the progress bar width.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Answered * 100 / p.Total
}

func (p Progress) String() string {
	return fmt.Sprintf("%d / %d answered", p.Answered, p.Total)
}
