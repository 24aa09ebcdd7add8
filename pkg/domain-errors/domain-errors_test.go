package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives every layer relies on:
// wrapped domain errors keep their original code and errors.Is matches by code.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "print job not found"}
		s.Equal("print job not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeStorage}
		s.Equal("storage_failure", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrapAndIs() {
	s.Run("errors.Unwrap reaches the cause", func() {
		inner := errors.New("rename cards.json: read-only file system")
		err := &Error{Code: CodeStorage, Err: inner}
		s.Equal(inner, errors.Unwrap(err))
	})

	s.Run("matches by code only", func() {
		s.True(errors.Is(New(CodeNotFound, "job 3"), &Error{Code: CodeNotFound}))
		s.False(errors.Is(New(CodeNotFound, "job 3"), &Error{Code: CodeInternal}))
	})

	s.Run("does not match plain errors", func() {
		s.False((&Error{Code: CodeNotFound}).Is(errors.New("not found")))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original domain code", func() {
		wrapped := Wrap(New(CodeBadRequest, "empty key"), CodeInternal, "attend failed")
		s.True(HasCode(wrapped, CodeBadRequest))
		s.Equal("attend failed", wrapped.Error())
	})

	s.Run("uses provided code for plain errors", func() {
		cause := errors.New("disk full")
		wrapped := Wrap(cause, CodeStorage, "failed to persist card")
		s.True(HasCode(wrapped, CodeStorage))
		s.True(errors.Is(wrapped, cause))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.False(HasCode(nil, CodeNotFound))
	s.False(HasCode(errors.New("plain"), CodeNotFound))
	s.True(HasCode(New(CodeUnavailable, "print queue is shut down"), CodeUnavailable))
	s.True(HasCode(Wrap(errors.New("eof"), CodeStorage, "merge"), CodeStorage))
}
