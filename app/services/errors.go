package services

import "errors"

// ErrAccountExists is returned by Register when the username or email is
// already taken.
var ErrAccountExists = errors.New("username or email already exists")
