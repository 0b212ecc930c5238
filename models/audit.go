package models

// AuditLogEntry represents one row of the append-only activity log
type AuditLogEntry struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// AuditLogListResponse represents the response for listing audit entries
type AuditLogListResponse struct {
	Logs []AuditLogEntry `json:"logs"`
}
