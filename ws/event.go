// Package ws is the live moderation feed.
//
// Staff dashboards open a WebSocket per server and receive every moderation
// action taken in that server as it happens:
//
//  1. A staff member runs a command → HTTP POST → Service → DB record
//  2. The dispatcher calls Hub.BroadcastToServer
//  3. The hub hands the event to every client subscribed to that server
//  4. Each client's WritePump writes it to the socket
package ws

import "github.com/akinalp/mqvi-modbot/models"

// Event, a message on the feed.
//
// Op: event type, e.g. "infraction_create", "heartbeat".
// Data: op-specific payload.
// Seq: increasing number on every outbound broadcast. A gap tells the client it
// missed an event and should refetch.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat" // sent by the client every 30s
)

// Server → Client
const (
	OpReady        = "ready"
	OpHeartbeatAck = "heartbeat_ack"

	// Moderation ops carry the notice kind that produced them.
	OpInfractionCreate = string(models.NoticeInfractionIssued)
	OpInfractionRevoke = string(models.NoticeInfractionRevoked)
	OpPromotionCreate  = string(models.NoticePromotionIssued)
)

// ReadyData, first event after subscribing.
type ReadyData struct {
	ServerID string `json:"server_id"`
	UserID   string `json:"user_id"`
}
