package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	ErrSlugInUse       = errors.New("slug already in use")
	ErrSlugReferenced  = errors.New("slug cannot change while titles reference it")
	ErrNameInUse       = errors.New("username already in use")
	ErrEmailInUse      = errors.New("email already in use")
	ErrInvalidCode     = errors.New("invalid confirmation code")
)

const nonFieldErrors = "non_field_errors"

// ValidationError collects messages per request field.
// Err, when set, is the sentinel that caused it and is reachable through errors.Is.
type ValidationError struct {
	Fields map[string][]string
	Err    error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Add records a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// AddErr records err's message for field and remembers the first sentinel.
func (e *ValidationError) AddErr(field string, err error) {
	e.Add(field, err.Error())
	if e.Err == nil {
		e.Err = err
	}
}

// OrNil returns e when it holds at least one message.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field string, err error) *ValidationError {
	v := &ValidationError{}
	v.AddErr(field, err)
	return v
}

// notFound maps the repository sentinel onto the service one.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func authorize(actor policy.Actor, action policy.Action, res policy.Resource) error {
	return policy.Authorize(actor, action, res).Err()
}
