package ticket

import "errors"

var (
	ErrVersionConflict    = errors.New("ticket was modified by another user")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrReceiptRequired    = errors.New("at least one receipt image is required to complete a ticket")
	ErrTechnicianRequired = errors.New("a technician must be assigned first")
	ErrUseCompleteAction  = errors.New("tickets are completed through the complete action")
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrImageNotFound  = errors.New("ticket image not found")
)

var (
	ErrImageTooLarge       = errors.New("image exceeds the maximum upload size")
	ErrImageTypeNotAllowed = errors.New("file type is not allowed")
)
