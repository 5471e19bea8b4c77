package service

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated 在没有已登录用户时返回，先于任何数据访问
	ErrUnauthenticated = errors.New("not signed in")
	// ErrTitleContentRequired is returned before any store access.
	ErrTitleContentRequired = errors.New("title and content are required")
	// ErrPostIDRequired is returned when an update or delete omits the id.
	ErrPostIDRequired = errors.New("post id is required")
	// ErrPostNotFound covers both a missing post and a post owned by someone else.
	ErrPostNotFound = errors.New("post not found")
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID    string
	Email string
}

func (a *Actor) check() error {
	if a == nil || strings.TrimSpace(a.ID) == "" {
		return ErrUnauthenticated
	}
	return nil
}

// StoreError wraps a failure reported by the relational store. Its message is
// the store's own message so it can be surfaced to the user unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
