package ledger

import "errors"

var (
	// ErrRequestNotFound means no deposit or withdrawal has the given id.
	ErrRequestNotFound = errors.New("request not found")
	// ErrUserNotFound means the owner of a request has been removed.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyDeclined rejects a decline of a record that is already Declined.
	ErrAlreadyDeclined = errors.New("already declined")
	// ErrAlreadyApproved rejects an approval of a record that is already Approved.
	ErrAlreadyApproved = errors.New("already approved")
	// ErrTerminal rejects any transition out of Declined.
	ErrTerminal = errors.New("request is declined")
	// ErrStaleStatus means another request changed the status between read and write.
	ErrStaleStatus = errors.New("request was modified concurrently")
)
