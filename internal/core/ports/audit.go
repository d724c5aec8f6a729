package ports

import "github.com/mb-platform/user-service/internal/core/domain"

// AuditRecorder accepts account events for asynchronous recording.
// Record must not block the request path.
type AuditRecorder interface {
	Record(event domain.AccountEvent)
}
