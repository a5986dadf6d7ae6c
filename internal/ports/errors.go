package ports

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or does not belong
	// to the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned on any authentication failure, it
	// never distinguishes unknown user from wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")
)
