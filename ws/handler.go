package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akinalp/mqvi-modbot/models"
)

// TokenValidator, the one auth method the ws package needs.
//
// Declared here instead of importing services: services already imports ws
// for EventPublisher, so the dependency would be circular.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// SubscriptionAuthorizer, decides whether a user may watch a server's feed.
type SubscriptionAuthorizer interface {
	CanSubscribe(ctx context.Context, serverID, userID string) (bool, error)
}

// authorizeTimeout, bound on the platform round trip made before upgrading.
const authorizeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers can't set headers on a WS handshake, so the token comes in the
	// query string and origin checks add nothing on top of it.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, upgrades feed subscriptions.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	authorizer     SubscriptionAuthorizer
}

// NewHandler, creates the feed handler.
func NewHandler(hub *Hub, tokenValidator TokenValidator, authorizer SubscriptionAuthorizer) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		authorizer:     authorizer,
	}
}

// HandleConnection, GET /ws?token=<jwt>&server_id=<id>
//
// The subscriber must pass the staff gate of the server (or own it).
// The check runs once at subscribe time.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	serverID := r.URL.Query().Get("server_id")
	if serverID == "" {
		http.Error(w, "missing server_id", http.StatusBadRequest)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authorizeTimeout)
	allowed, err := h.authorizer.CanSubscribe(ctx, serverID, claims.UserID)
	cancel()
	if err != nil {
		log.Printf("[ws] subscribe check failed: server=%s user=%s: %v", serverID, claims.UserID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !allowed {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", claims.UserID, err)
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		userID:   claims.UserID,
		serverID: serverID,
		send:     make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client
	client.sendEvent(Event{Op: OpReady, Data: ReadyData{ServerID: serverID, UserID: claims.UserID}})

	go client.WritePump()
	client.ReadPump() // blocks until the connection closes
}
