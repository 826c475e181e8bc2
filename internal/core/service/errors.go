package service

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// Error is a failure that is safe to report to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrMissingFields       = &Error{KindValidation, "required fields are missing"}
	ErrInvalidNationalID   = &Error{KindValidation, "Aadhar card number must be exactly 12 digits"}
	ErrInvalidRole         = &Error{KindValidation, "role must be admin or voter"}
	ErrAdminExists         = &Error{KindValidation, "Admin user already exists"}
	ErrDuplicateNationalID = &Error{KindValidation, "User with same aadhar card number already exists"}
	ErrLoginFieldsRequired = &Error{KindValidation, "Aadhar card number and password are required"}
	ErrPasswordsRequired   = &Error{KindValidation, "Both currentPassword and newPassword are required"}
	ErrCandidateFields     = &Error{KindValidation, "candidate name and party are required"}
	ErrAlreadyVoted        = &Error{KindValidation, "You have already voted"}

	ErrInvalidCredentials = &Error{KindUnauthenticated, "Invalid aadhar card number or password"}
	ErrWrongPassword      = &Error{KindUnauthenticated, "Invalid current password"}

	ErrNotAdmin         = &Error{KindForbidden, "user does not have admin role"}
	ErrAdminCannotVote  = &Error{KindForbidden, "Admin is not allowed to vote"}
	ErrCapabilityDenied = &Error{KindForbidden, "operation not permitted for this role"}

	ErrCandidateNotFound = &Error{KindNotFound, "Candidate not found"}
	ErrUserNotFound      = &Error{KindNotFound, "User not found"}
)

// KindOf returns the kind of a service error, or KindInternal for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
