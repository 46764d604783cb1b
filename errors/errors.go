package errors

import "fmt"

var (
	ErrWorkerPanic   = fmt.Errorf("worker panic")
	ErrMailboxClosed = fmt.Errorf("mailbox closed")
	ErrChannelClosed = fmt.Errorf("line channel closed")
	ErrMalformedLine = fmt.Errorf("malformed line")
)
