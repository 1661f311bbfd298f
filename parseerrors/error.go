// Copyright The DagBench Authors
// SPDX-License-Identifier: Apache-2.0

package parseerrors // import "github.com/dagbench/benchparse/parseerrors"

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseError is the single error kind produced while analyzing benchmark
// logs. It covers both abnormal-termination markers and required fields
// missing from an otherwise well-formed log.
type ParseError struct {
	Description string
	Suggestion  string
	Details     Details
}

// Details is additional structured context attached to a ParseError.
type Details map[string]string

// Error will return the error message.
func (e ParseError) Error() string {
	if len(e.Details) == 0 {
		return e.Description
	}

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, e.Details[k]))
	}
	return fmt.Sprintf("%s: %s", e.Description, strings.Join(pairs, ", "))
}

// MarshalLogObject will define the representation of this error when logging.
func (e ParseError) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("description", e.Description)

	if e.Suggestion != "" {
		encoder.AddString("suggestion", e.Suggestion)
	}

	for k, v := range e.Details {
		encoder.AddString(k, v)
	}

	return nil
}

// WithDetails will return the error with additional details.
func (e ParseError) WithDetails(keyValues ...string) ParseError {
	return WithDetails(e, keyValues...)
}

// WithDetails will add details to a parse error.
func WithDetails(err error, keyValues ...string) ParseError {
	var parseErr ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Details == nil {
			parseErr.Details = Details{}
		}
		for i := 0; i+1 < len(keyValues); i += 2 {
			parseErr.Details[keyValues[i]] = keyValues[i+1]
		}
		return parseErr
	}
	return NewError(err.Error(), "", keyValues...)
}

// Wrap prefixes the description of an existing error with context.
func Wrap(err error, context string) ParseError {
	var parseErr ParseError
	if errors.As(err, &parseErr) {
		parseErr.Description = fmt.Sprintf("%s: %s", context, parseErr.Description)
		return parseErr
	}
	return NewError(fmt.Sprintf("%s: %s", context, err.Error()), "")
}

// NewError will create a new parse error.
func NewError(description, suggestion string, keyValues ...string) ParseError {
	return ParseError{
		Description: description,
		Suggestion:  suggestion,
		Details:     createDetails(keyValues),
	}
}

func createDetails(keyValues []string) Details {
	details := Details{}
	for i := 0; i+1 < len(keyValues); i += 2 {
		details[keyValues[i]] = keyValues[i+1]
	}
	return details
}
