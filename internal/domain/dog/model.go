package dog

import (
	"errors"
	"time"
)

// Sex constants
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Record status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidSexes contains all valid sex values.
var ValidSexes = []string{SexMale, SexFemale}

// ValidStatuses contains all valid record statuses.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// Domain errors
var (
	ErrEmptyName     = errors.New("dog name cannot be empty")
	ErrInvalidSex    = errors.New("sex must be 'male' or 'female'")
	ErrInvalidStatus = errors.New("status must be one of: pending, approved, rejected")
	ErrNotPending    = errors.New("record has already been reviewed")
)

// Record represents a dog registration record.
// A record is created in pending status and is reviewed at most once:
// an admin moves it to approved or rejected, and it never leaves a
// terminal status afterwards.
type Record struct {
	ID              string
	Name            string
	Sex             string // male, female
	DateOfBirth     string // ISO date, optional
	Color           string // optional
	MicrochipNumber string // optional
	PedigreeNumber  string // optional
	Notes           string // optional
	Status          string // pending, approved, rejected
	OwnerID         string // profile ID of the submitter
	OwnerName       string // display name or email of the owner, when resolvable
	CreatedAt       time.Time
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if !isValidSex(r.Sex) {
		return ErrInvalidSex
	}
	if !isValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsPending returns true if the record is awaiting review.
// INVARIANT: Record fields are not mutated
func (r *Record) IsPending() bool {
	return r.Status == StatusPending
}

// IsApproved returns true if the record has been approved.
// INVARIANT: Record fields are not mutated
func (r *Record) IsApproved() bool {
	return r.Status == StatusApproved
}

// Approve moves a pending record to approved.
// PRE: Record is in pending status
// POST: Status is approved
func (r *Record) Approve() error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = StatusApproved
	return nil
}

// Reject moves a pending record to rejected.
// PRE: Record is in pending status
// POST: Status is rejected
func (r *Record) Reject() error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = StatusRejected
	return nil
}

func isValidSex(s string) bool {
	for _, v := range ValidSexes {
		if v == s {
			return true
		}
	}
	return false
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
