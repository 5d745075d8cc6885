package domain

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidTitle  = errors.New("invalid title")
	ErrInvalidPoints = errors.New("invalid points")
	ErrInvalidDay    = errors.New("invalid day")
	ErrInvalidWeek   = errors.New("invalid week")
)
