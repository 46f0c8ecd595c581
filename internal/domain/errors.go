package domain

import "errors"

// ErrJobNotFound is returned when a posting id does not exist.
var ErrJobNotFound = errors.New("job posting not found")

// ErrInvalidReviewStatus is returned when a review status value is outside
// NEW, READ, IGNORED.
var ErrInvalidReviewStatus = errors.New("invalid review status")
