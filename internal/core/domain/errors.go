package domain

import "errors"

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidPollID = errors.New("invalid poll id")
	ErrInvalidOption = errors.New("invalid option for this poll")
	ErrMalformedVote = errors.New("malformed vote record")
	ErrInternal      = errors.New("internal server error")
)
