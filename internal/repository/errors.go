// Package repository contains data access for all persisted entities.
// This file defines sentinel errors shared across repositories so that
// handlers can translate failure modes into HTTP statuses with errors.Is
// instead of matching message text.  Repositories never enforce business
// rules; those belong to the booking coordinator and the promotion
// evaluator.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot proceed due to
// dependent state.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// Not-found sentinels, one per entity exposed over HTTP.
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrCinemaNotFound    = errors.New("cinema not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrShowtimeNotFound  = errors.New("showtime not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrUserNotFound      = errors.New("user not found")
)

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeExists is returned when creating a promotion whose code is
// already in use.
var ErrCodeExists = errors.New("promotion code already exists")
