package domain

import "errors"

// Category sentinels. Every business failure below unwraps to exactly one of
// these, so callers can match either the specific error or its category.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrEmptyQuestion = invalidArgument("question is required")
	ErrTooFewOptions = invalidArgument("at least two options are required")
	ErrEmptyText     = invalidArgument("text is required")
	ErrEmptyHandle   = invalidArgument("handle is required")
	ErrSelfFollow    = invalidArgument("cannot follow yourself")

	ErrUserNotFound    = notFound("user not found")
	ErrPollNotFound    = notFound("poll not found")
	ErrOptionNotFound  = notFound("option not found in this poll")
	ErrCommentNotFound = notFound("comment not found")

	ErrAlreadyVoted     = conflict("already voted in this poll")
	ErrPollHasVotes     = conflict("cannot delete a poll with 10 or more votes")
	ErrAlreadyLiked     = conflict("comment already liked")
	ErrNotLiked         = conflict("comment not liked")
	ErrAlreadyFollowing = conflict("already following")
	ErrNotFollowing     = conflict("not following")
	ErrHandleTaken      = conflict("handle already taken")
)

type categorizedError struct {
	category error
	msg      string
}

func (e *categorizedError) Error() string { return e.msg }
func (e *categorizedError) Unwrap() error { return e.category }

func invalidArgument(msg string) error { return &categorizedError{ErrInvalidArgument, msg} }
func notFound(msg string) error        { return &categorizedError{ErrNotFound, msg} }
func conflict(msg string) error        { return &categorizedError{ErrConflict, msg} }
