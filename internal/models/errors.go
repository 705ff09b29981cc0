package models

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ProviderQueryError is returned when an upstream AWS call fails: access
// denied, throttling, network, or missing credentials. It is contained at
// the smallest unit of work (one collector for one scope, or one lookup).
type ProviderQueryError struct {
	Service Service
	Op      string
	Scope   Scope
	Err     error
}

func (e *ProviderQueryError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("%s [%s]: %v", e.Op, e.Scope, e.Err)
	}
	return fmt.Sprintf("%s %s [%s]: %v", e.Service, e.Op, e.Scope, e.Err)
}

func (e *ProviderQueryError) Unwrap() error { return e.Err }

// Code returns the AWS error code (e.g. "AccessDenied") when the underlying
// error is an API error, and "" otherwise.
func (e *ProviderQueryError) Code() string {
	var apiErr smithy.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// NewProviderQueryError wraps err. A nil err yields nil.
func NewProviderQueryError(service Service, op string, scope Scope, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderQueryError{Service: service, Op: op, Scope: scope, Err: err}
}

// FailureFrom converts a collection error into a ScanFailure. Errors that are
// not ProviderQueryErrors keep only their message.
func FailureFrom(scope Scope, service Service, err error) ScanFailure {
	f := ScanFailure{Scope: scope.String(), Service: service, Message: err.Error()}
	var pqe *ProviderQueryError
	if errors.As(err, &pqe) {
		f.Op = pqe.Op
		f.Code = pqe.Code()
		f.Message = pqe.Err.Error()
	}
	return f
}
