package services

import "errors"

var (
	// ErrNoTable is returned when an export is asked for a failed submission
	ErrNoTable = errors.New("no result table to export")

	// ErrStoreNotReady is reported by readiness checks when the store cannot be reached
	ErrStoreNotReady = errors.New("record store not reachable")
)
