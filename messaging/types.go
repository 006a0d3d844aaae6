// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/bureau-foundation/quartermaster/lib/ref"
)

// MessageContent is the content body of an m.room.message event.
// FormattedBody carries the optional HTML rendering the control panel
// uses; NewContent plus a RelatesTo of type m.replace turns the event
// into an edit of an earlier message.
type MessageContent struct {
	MsgType       string          `json:"msgtype"`
	Body          string          `json:"body"`
	Format        string          `json:"format,omitempty"`
	FormattedBody string          `json:"formatted_body,omitempty"`
	NewContent    *MessageContent `json:"m.new_content,omitempty"`
	RelatesTo     *RelatesTo      `json:"m.relates_to,omitempty"`
}

// RelatesTo expresses a relationship to an earlier event. For message
// edits, RelType is "m.replace" and EventID is the edited message.
type RelatesTo struct {
	RelType string      `json:"rel_type"`
	EventID ref.EventID `json:"event_id"`
}

// NewTextMessage creates a plain text message.
func NewTextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: "m.text",
		Body:    body,
	}
}

// NewHTMLMessage creates a message with both a plain-text body (the
// fallback for clients that don't render HTML) and an HTML rendering.
func NewHTMLMessage(body, formattedBody string) MessageContent {
	return MessageContent{
		MsgType:       "m.text",
		Body:          body,
		Format:        "org.matrix.custom.html",
		FormattedBody: formattedBody,
	}
}

// NewEdit wraps content into an edit of target. The outer body
// carries the conventional "* " fallback prefix; clients that
// understand m.replace show only the new content.
func NewEdit(target ref.EventID, content MessageContent) MessageContent {
	inner := content
	return MessageContent{
		MsgType:       content.MsgType,
		Body:          "* " + content.Body,
		Format:        content.Format,
		FormattedBody: content.FormattedBody,
		NewContent:    &inner,
		RelatesTo: &RelatesTo{
			RelType: "m.replace",
			EventID: target,
		},
	}
}

// Event represents a Matrix event from the server.
type Event struct {
	EventID        ref.EventID    `json:"event_id"`
	Type           string         `json:"type"`
	Sender         ref.UserID     `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
	RoomID         ref.RoomID     `json:"room_id,omitempty"`
	StateKey       *string        `json:"state_key,omitempty"`
	Unsigned       *EventUnsigned `json:"unsigned,omitempty"`
}

// EventUnsigned holds optional unsigned data attached to events.
// RedactedBecause is set on events that have been redacted — the
// panel reconciler treats such a panel as gone.
type EventUnsigned struct {
	Age             int64  `json:"age,omitempty"`
	RedactedBecause *Event `json:"redacted_because,omitempty"`
}

// MessageBody extracts the plain-text body from an m.room.message
// event's content. Returns "" when the event is not a text message.
func (e *Event) MessageBody() string {
	body, _ := e.Content["body"].(string)
	return body
}

// SendEventResponse is returned by message sends and redactions.
type SendEventResponse struct {
	EventID ref.EventID `json:"event_id"`
}

// WhoAmIResponse is returned by WhoAmI.
type WhoAmIResponse struct {
	UserID ref.UserID `json:"user_id"`
}

// JoinRoomResponse is returned by JoinRoom.
type JoinRoomResponse struct {
	RoomID ref.RoomID `json:"room_id"`
}

// DisplayNameResponse is returned by the profile displayname endpoint.
type DisplayNameResponse struct {
	DisplayName string `json:"displayname"`
}

// RedactRequest is the body of a redaction PUT.
type RedactRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SyncOptions controls the /sync endpoint.
type SyncOptions struct {
	Since      string // next_batch token from the previous sync; empty for initial
	Timeout    int    // long-poll timeout in milliseconds
	SetTimeout bool   // send the timeout parameter even when zero
	Filter     string // filter ID or inline JSON filter
}

// SyncResponse is the top-level response from /sync, trimmed to the
// sections the bot consumes.
type SyncResponse struct {
	NextBatch string       `json:"next_batch"`
	Rooms     RoomsSection `json:"rooms"`
}

// RoomsSection groups per-room sync data by membership state. Map
// keys validate through ref.RoomID's TextUnmarshaler.
type RoomsSection struct {
	Join map[ref.RoomID]JoinedRoom `json:"join,omitempty"`
}

// JoinedRoom contains sync data for a room the bot has joined.
type JoinedRoom struct {
	Timeline TimelineSection `json:"timeline"`
}

// TimelineSection contains timeline events from a sync response.
type TimelineSection struct {
	Events    []Event `json:"events"`
	PrevBatch string  `json:"prev_batch"`
	Limited   bool    `json:"limited"`
}
