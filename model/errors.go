package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the short code is unknown.
	ErrNotFound = errors.New("short URL not found")

	// ErrExpired indicates the short code is known but past its expiry.
	ErrExpired = errors.New("this short URL has expired")

	// ErrMaxRetriesExceeded indicates code generation gave up after
	// repeated collisions.
	ErrMaxRetriesExceeded = errors.New("failed to generate unique short code after maximum retries")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates the field errors of one submission.
// It is returned as a value by the validator and wrapped as an error
// by the shortener.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, e := range v {
		messages[i] = e.Message
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

// BatchValidationError maps submission indexes to their field errors.
// Only indexes with at least one error are present.
type BatchValidationError map[int]ValidationErrors

func (b BatchValidationError) Error() string {
	indexes := make([]int, 0, len(b))
	for i := range b {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, len(indexes))
	for n, i := range indexes {
		parts[n] = fmt.Sprintf("[%d] %s", i, b[i].Error())
	}
	return "batch validation failed: " + strings.Join(parts, "; ")
}
