package repository

import "errors"

// ErrNotFound is returned by transactional operations when the target row
// does not exist (plain lookups return nil, nil instead).
var ErrNotFound = errors.New("record not found")

// ErrSlotTaken is returned when the active-slot unique index rejects an insert.
var ErrSlotTaken = errors.New("slot already taken")

// ErrDuplicate is returned when a unique username or email is already in use.
var ErrDuplicate = errors.New("duplicate record")
