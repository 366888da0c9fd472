package userrepo

import "errors"

var (
	// ErrNotFound indicates the requested user (or upgrade request) does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates another account already uses the email address.
	ErrEmailTaken = errors.New("email already registered")

	// ErrAlreadyExists indicates a user already exists with the provided ID.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrUpgradeRequestExists indicates the user already has a pending upgrade request.
	ErrUpgradeRequestExists = errors.New("upgrade request already pending")
)
