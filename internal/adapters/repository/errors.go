package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound      = errors.New("student not found")
	ErrAlreadyExists = errors.New("student already exists")
)
