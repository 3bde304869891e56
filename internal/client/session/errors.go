package session

import "errors"

var ErrNotSignedIn = errors.New("not signed in")
