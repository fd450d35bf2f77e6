package models

import "errors"

var (
	ErrParkingNotFound = errors.New("parking not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrInvalidInput    = errors.New("invalid input")
)
