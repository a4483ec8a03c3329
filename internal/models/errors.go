package models

import "errors"

// Custom errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("record not found")
	ErrUnknownField    = errors.New("unknown query field")
	ErrUnknownMetric   = errors.New("unknown query metric")
	ErrUnknownOperator = errors.New("unknown query operator")
)
