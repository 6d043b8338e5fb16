// Package platform is the add-on's REST client for the mqvi chat platform.
//
// The add-on holds no copy of platform state. Server ownership and member roles
// are fetched on every check, so a role removed on the platform stops passing
// the staff gate immediately.
//
// Every platform response uses the same envelope the add-on itself returns:
//
//	{ "success": true, "data": { ... } }
//	{ "success": false, "error": "..." }
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
)

// Client, the platform operations the moderation services depend on.
type Client interface {
	// GetServer, fetches the server (owner id included).
	GetServer(ctx context.Context, serverID string) (*models.Server, error)

	// MemberRoleIDs, the role ids the member currently holds.
	MemberRoleIDs(ctx context.Context, serverID, userID string) ([]string, error)

	// HasRole, live role-membership check.
	HasRole(ctx context.Context, serverID, userID, roleID string) (bool, error)

	// GrantRole, adds roleID to the member's roles. No-op if already held.
	GrantRole(ctx context.Context, serverID, userID, roleID string) error

	// SendMessage, posts a text message to a channel as the add-on's bot user.
	SendMessage(ctx context.Context, serverID, channelID, content string) error
}

// ErrRoleNotFound, the member exists but the platform rejected the role itself
// (deleted since it was made promotable). Wraps pkg.ErrNotFound.
var ErrRoleNotFound = fmt.Errorf("%w: role not found", pkg.ErrNotFound)

// maxErrorBody, how much of an unexpected error body is kept for the log.
const maxErrorBody = 4 << 10

type httpClient struct {
	baseURL  string
	botToken string
	client   *http.Client
}

// NewHTTPClient, creates a platform client against baseURL (e.g. "http://localhost:9090").
// botToken is sent as a bearer token on every request.
func NewHTTPClient(baseURL, botToken string, timeout time.Duration) Client {
	return &httpClient{
		baseURL:  baseURL,
		botToken: botToken,
		client:   &http.Client{Timeout: timeout},
	}
}

// envelope, the platform response wrapper. Data is decoded lazily per call.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// memberResponse, the subset of the platform's member payload we read.
type memberResponse struct {
	ID    string `json:"id"`
	Roles []struct {
		ID string `json:"id"`
	} `json:"roles"`
}

func (c *httpClient) GetServer(ctx context.Context, serverID string) (*models.Server, error) {
	var server models.Server
	if err := c.do(ctx, http.MethodGet, serverPath(serverID), nil, &server); err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if server.ID == "" {
		server.ID = serverID
	}
	return &server, nil
}

func (c *httpClient) MemberRoleIDs(ctx context.Context, serverID, userID string) ([]string, error) {
	var member memberResponse
	if err := c.do(ctx, http.MethodGet, memberPath(serverID, userID), nil, &member); err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	ids := make([]string, 0, len(member.Roles))
	for _, role := range member.Roles {
		ids = append(ids, role.ID)
	}
	return ids, nil
}

func (c *httpClient) HasRole(ctx context.Context, serverID, userID, roleID string) (bool, error) {
	ids, err := c.MemberRoleIDs(ctx, serverID, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

// GrantRole, the platform's roles endpoint replaces the whole set, so the
// current roles are read first and sent back with roleID appended.
func (c *httpClient) GrantRole(ctx context.Context, serverID, userID, roleID string) error {
	ids, err := c.MemberRoleIDs(ctx, serverID, userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == roleID {
			return nil
		}
	}

	body := map[string][]string{"role_ids": append(ids, roleID)}
	if err := c.do(ctx, http.MethodPatch, memberPath(serverID, userID)+"/roles", body, nil); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("failed to grant role %s: %w", roleID, ErrRoleNotFound)
		}
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

func (c *httpClient) SendMessage(ctx context.Context, serverID, channelID, content string) error {
	path := serverPath(serverID) + "/channels/" + url.PathEscape(channelID) + "/messages"
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// do, sends one request and decodes envelope.data into out (when out != nil).
func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// 204 and other bodiless successes carry nothing to check.
		if errors.Is(err, io.EOF) && out == nil {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("platform error: %s", env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// statusError, maps a non-2xx response to a domain sentinel.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := resp.Status
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		msg = env.Error
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", pkg.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", pkg.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, msg)
	default:
		return fmt.Errorf("platform returned %d: %s", resp.StatusCode, msg)
	}
}

func serverPath(serverID string) string {
	return "/api/servers/" + url.PathEscape(serverID)
}

func memberPath(serverID, userID string) string {
	return serverPath(serverID) + "/members/" + url.PathEscape(userID)
}
