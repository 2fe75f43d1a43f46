package auth

import "errors"

// ErrUsernameExists indicates a duplicate username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists indicates a duplicate email address.
var ErrEmailExists = errors.New("email already exists")
