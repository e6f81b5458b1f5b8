package models

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionUnavailable = errors.New("session not found or not active")
	ErrRetrieval          = errors.New("retrieval failed")
	ErrGeneration         = errors.New("generation failed")
	ErrPersistence        = errors.New("persistence failed")
)
