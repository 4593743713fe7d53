package comm

import (
	"encoding/json"
	"time"
)

// Topic for scan events published by scansvc and consumed by feedsvc.
const ScanEventsTopic = "scan.events"

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "subscribe", "scan"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// ScanEvent is emitted once per resolution attempt, whatever the outcome.
type ScanEvent struct {
	QrId      string    `json:"qr_id"`
	OwnerId   string    `json:"owner_id"`
	QrType    string    `json:"qr_type"`
	Outcome   string    `json:"outcome"` // redirect, render, rejected
	Reason    string    `json:"reason,omitempty"`
	ScanCount int64     `json:"scan_count"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedSubscription is the payload of a "subscribe" frame from a dashboard socket.
type FeedSubscription struct {
	OwnerId string `json:"owner_id"`
}
