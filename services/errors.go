// Package services holds the domain rules shared by the HTTP handlers: ownership checks,
// floor and table numbering, table mutations and event publication.
package services

import "errors"

var (
	// ErrNotFound covers both missing rows and rows owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a row exists under another user's restaurant.
	ErrForbidden             = errors.New("forbidden")
	ErrLastFloor             = errors.New("You must have at least one floor")
	ErrVersionConflict       = errors.New("table was modified by another editor")
	ErrWorkerNotInRestaurant = errors.New("worker does not belong to this restaurant")
)
