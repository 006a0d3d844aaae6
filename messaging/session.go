// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/quartermaster/lib/ref"
)

// Session is an authenticated Matrix session: a Client plus an access
// token. Sessions are lightweight; all methods are safe for
// concurrent use.
type Session struct {
	client      *Client
	accessToken string
	userID      ref.UserID

	// transactionCounter generates unique transaction IDs for
	// idempotent PUT sends.
	transactionCounter atomic.Int64
}

// NewSession wraps a Client with an access token. The user ID is the
// account the token belongs to; validate with WhoAmI after loading
// stored credentials.
func NewSession(client *Client, userID ref.UserID, accessToken string) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("messaging: client is required")
	}
	if userID.IsZero() {
		return nil, fmt.Errorf("messaging: user ID is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("messaging: access token is required")
	}
	return &Session{client: client, accessToken: accessToken, userID: userID}, nil
}

// UserID returns the session's fully-qualified Matrix user ID.
func (s *Session) UserID() ref.UserID {
	return s.userID
}

// WhoAmI validates the access token and returns the user ID the
// homeserver associates with it.
func (s *Session) WhoAmI(ctx context.Context) (ref.UserID, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", s.accessToken, nil, nil)
	if err != nil {
		return ref.UserID{}, fmt.Errorf("messaging: whoami failed: %w", err)
	}

	var response WhoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.UserID{}, fmt.Errorf("messaging: failed to parse whoami response: %w", err)
	}
	return response.UserID, nil
}

// JoinRoom joins a room by room ID. Joining an already-joined room
// succeeds.
func (s *Session) JoinRoom(ctx context.Context, roomID ref.RoomID) (ref.RoomID, error) {
	path := "/_matrix/client/v3/join/" + url.PathEscape(roomID.String())
	body, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, map[string]any{}, nil)
	if err != nil {
		return ref.RoomID{}, fmt.Errorf("messaging: join room %q failed: %w", roomID, err)
	}

	var response JoinRoomResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.RoomID{}, fmt.Errorf("messaging: failed to parse join response: %w", err)
	}
	return response.RoomID, nil
}

// SendMessage sends an m.room.message event. Uses Matrix's idempotent
// PUT with a transaction ID. Returns the new event's ID.
func (s *Session) SendMessage(ctx context.Context, roomID ref.RoomID, content MessageContent) (ref.EventID, error) {
	transactionID := s.nextTransactionID()
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/send/m.room.message/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(transactionID),
	)

	body, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, content, nil)
	if err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: send message to %q failed: %w", roomID, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: failed to parse send response: %w", err)
	}
	return response.EventID, nil
}

// EditMessage replaces the content of an earlier message via the
// m.replace relation. Returns the edit event's ID (the target keeps
// its original ID, which remains the panel's canonical identity).
func (s *Session) EditMessage(ctx context.Context, roomID ref.RoomID, target ref.EventID, content MessageContent) (ref.EventID, error) {
	eventID, err := s.SendMessage(ctx, roomID, NewEdit(target, content))
	if err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: edit of %q failed: %w", target, err)
	}
	return eventID, nil
}

// RedactEvent removes an event's content. Matrix redaction is the
// closest thing to deletion the protocol offers; redacting an
// already-redacted event succeeds.
func (s *Session) RedactEvent(ctx context.Context, roomID ref.RoomID, target ref.EventID, reason string) error {
	transactionID := s.nextTransactionID()
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/redact/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(target.String()),
		url.PathEscape(transactionID),
	)

	if _, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, RedactRequest{Reason: reason}, nil); err != nil {
		return fmt.Errorf("messaging: redact %q failed: %w", target, err)
	}
	return nil
}

// GetEvent fetches a single event by ID. Returns *MatrixError with
// M_NOT_FOUND when the event does not exist or the session cannot
// see it.
func (s *Session) GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*Event, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/event/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventID.String()),
	)

	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: get event %q failed: %w", eventID, err)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse event response: %w", err)
	}
	return &event, nil
}

// GetStateEvent fetches a state event's content from a room. Returns
// the raw JSON content for the caller to unmarshal; *MatrixError with
// M_NOT_FOUND when the state event does not exist.
func (s *Session) GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType, stateKey string) (json.RawMessage, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventType),
		url.PathEscape(stateKey),
	)

	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: get state event %s/%s in %q failed: %w", eventType, stateKey, roomID, err)
	}
	return json.RawMessage(body), nil
}

// GetDisplayName fetches a user's profile display name. A user with
// no display name set yields their localpart.
func (s *Session) GetDisplayName(ctx context.Context, userID ref.UserID) (string, error) {
	path := "/_matrix/client/v3/profile/" + url.PathEscape(userID.String()) + "/displayname"
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil, nil)
	if err != nil {
		if IsMatrixError(err, ErrCodeNotFound) {
			return userID.Localpart(), nil
		}
		return "", fmt.Errorf("messaging: get display name for %q failed: %w", userID, err)
	}

	var response DisplayNameResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("messaging: failed to parse display name response: %w", err)
	}
	if response.DisplayName == "" {
		return userID.Localpart(), nil
	}
	return response.DisplayName, nil
}

// Sync performs an incremental sync with the homeserver. The since
// token travels as a query parameter; Sync holds no server-side
// session state, so concurrent callers with independent tokens are
// fine.
func (s *Session) Sync(ctx context.Context, options SyncOptions) (*SyncResponse, error) {
	query := url.Values{}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if options.SetTimeout || options.Timeout > 0 {
		query.Set("timeout", strconv.Itoa(options.Timeout))
	}
	if options.Filter != "" {
		query.Set("filter", options.Filter)
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/sync", s.accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("messaging: sync failed: %w", err)
	}

	var response SyncResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse sync response: %w", err)
	}
	return &response, nil
}

// nextTransactionID generates a unique transaction ID for idempotent
// event sending. Unique across restarts via the timestamp component.
func (s *Session) nextTransactionID() string {
	counter := s.transactionCounter.Add(1)
	return fmt.Sprintf("quartermaster-%d-%d", time.Now().UnixMilli(), counter)
}
