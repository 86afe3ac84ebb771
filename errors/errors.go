package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrEmptyTriggers        = fmt.Errorf("no trigger phrases have been configured")
	ErrCorruptDocument      = fmt.Errorf("roster document is corrupt")
	ErrParticipantNotFound  = fmt.Errorf("participant not found")
	ErrInvalidEvent         = fmt.Errorf("invalid inbound event")
	ErrUnsupportedEvent     = fmt.Errorf("unsupported inbound event")
	ErrSendFailed           = fmt.Errorf("outbound send failed")
	ErrPersistFailed        = fmt.Errorf("roster persistence failed")
	ErrMissingToken         = fmt.Errorf("bot token is not set")
	ErrUnknownStoreBackend  = fmt.Errorf("unknown store backend")
	ErrUnknownSubscriptions = fmt.Errorf("unknown subscription model")
	ErrUnknownScope         = fmt.Errorf("unknown roster scope")
)
