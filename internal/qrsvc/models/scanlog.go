package models

import (
	"time"
)

// ScanLog is one audit row per resolution attempt, kept in Postgres.
type ScanLog struct {
	ID        int64     `json:"id"`
	QrId      string    `json:"qr_id"`
	QrType    string    `json:"qr_type"`
	ScanNo    int64     `json:"scan_no"` // post-increment scanCount of the attempt
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
	UserAgent string    `json:"user_agent"`
	RemoteIp  string    `json:"remote_ip"`
	CreatedAt time.Time `json:"created_at"`
}
