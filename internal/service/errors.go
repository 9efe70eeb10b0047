package service

import "errors"

var (
	ErrMemberNotFound        = errors.New("member not found")
	ErrFamilyNotFound        = errors.New("family not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrHouseholdRequiresHead = errors.New("only the head of family can submit household members")
	ErrNothingStaged         = errors.New("no staged records to import")
	ErrInvalidBackup         = errors.New("invalid backup file")
	ErrSnapshotsDisabled     = errors.New("snapshot storage is not configured")
)
