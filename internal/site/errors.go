package site

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/rivalscope/internal/model"
)

var (
	// ErrInvalidDomain matches every *InvalidDomainError.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrUnreachableDomain matches every *UnreachableDomainError.
	ErrUnreachableDomain = errors.New("unreachable domain")
)

// InvalidDomainError is returned when input cannot be normalized into a
// domain. It is raised before any network access.
type InvalidDomainError struct {
	Input string
}

// Error implements error.
func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("invalid domain %q", e.Input)
}

// Is makes errors.Is(err, ErrInvalidDomain) succeed.
func (e *InvalidDomainError) Is(target error) bool {
	return target == ErrInvalidDomain
}

// UnreachableDomainError is returned when every candidate page of a domain
// failed to fetch. Nothing is persisted for such a run.
type UnreachableDomainError struct {
	Domain   string
	Failures []model.PageFailure
}

// Error implements error.
func (e *UnreachableDomainError) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("domain %s is unreachable", e.Domain)
	}
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.URL+": "+f.Reason)
	}
	return fmt.Sprintf("domain %s is unreachable (%s)", e.Domain, strings.Join(reasons, "; "))
}

// Is makes errors.Is(err, ErrUnreachableDomain) succeed.
func (e *UnreachableDomainError) Is(target error) bool {
	return target == ErrUnreachableDomain
}
