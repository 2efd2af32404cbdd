package inspection

import "errors"

var (
	ErrUnsupportedQuestionType = errors.New("inspection: unsupported question type")
	ErrUnknownQuestion         = errors.New("inspection: unknown question")
	ErrInvalidOption           = errors.New("inspection: value is not an option of the question")
	ErrInvalidDate             = errors.New("inspection: date must be formatted as YYYY-MM-DD")
	ErrInvalidAnswer           = errors.New("inspection: answer does not match the question type")
	ErrEmptyChange             = errors.New("inspection: change carries no value")
	ErrNoDraft                 = errors.New("inspection: no draft saved")
)
