package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account disabled")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCannotModifySelf     = errors.New("admins cannot demote, disable or delete themselves")
	ErrInvalidRole          = errors.New("invalid role")
	ErrSiteNotFound         = errors.New("site not found")
	ErrReportNotFound       = errors.New("inspection report not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrLiabilityNotAccepted = errors.New("liability statement not accepted")
	ErrLiabilityMismatch    = errors.New("liability phrase does not match")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidFileType      = errors.New("invalid file type")
)
