package person

import "github.com/go-faster/errors"

var ErrNotFound = errors.New("person not found")
