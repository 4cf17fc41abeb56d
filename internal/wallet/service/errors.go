package service

import "errors"

var (
	ErrNoBalance    = errors.New("no balance recorded for wallet")
	ErrInvalidRange = errors.New("invalid event range")
)
