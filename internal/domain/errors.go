package domain

import "errors"

var (
	// ErrNotConfigured signals a missing backing dataset or index.
	ErrNotConfigured = errors.New("not configured")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized signals a missing, malformed or expired token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream signals a network or deserialization failure from the
	// semantic search or completion service.
	ErrUpstream = errors.New("upstream service failure")
	// ErrEmptyResult signals that decomposition or completion returned
	// nothing usable.
	ErrEmptyResult = errors.New("empty result")
	// ErrQueryFailed signals a join or filter execution error.
	ErrQueryFailed = errors.New("query failed")
)
