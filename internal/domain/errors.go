package domain

import "errors"

var (
	// ErrInvalidSampleSize is returned when more questions are requested than the bank holds.
	ErrInvalidSampleSize = errors.New("invalid sample size")
	// ErrPlayerNotFound is returned when a player acts before joining.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidQuestion indicates a question with too few options or a bad correct index.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrDuplicateQuestion indicates two questions in a bank share an ID.
	ErrDuplicateQuestion = errors.New("duplicate question")
)
