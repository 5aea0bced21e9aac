package domain

import (
	"fmt"
	"strings"
)

// SourceFailure captures why one configured news source could not serve.
type SourceFailure struct {
	Source string
	Err    error
}

// SourceUnavailable is returned only when every configured news source
// failed. It keeps the per-source reasons so the caller can report them.
type SourceUnavailable struct {
	Failures []SourceFailure
}

func (e *SourceUnavailable) Error() string {
	if len(e.Failures) == 0 {
		return "no news sources configured"
	}
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, fmt.Sprintf("%s: %v", f.Source, f.Err))
	}
	return "all news sources failed: " + strings.Join(reasons, "; ")
}

// RenderFailure wraps an unrecoverable rendering-engine error. There is no
// retry: re-rendering identical segment input is expected to fail identically.
type RenderFailure struct {
	Err error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render failed: %v", e.Err)
}

func (e *RenderFailure) Unwrap() error {
	return e.Err
}
