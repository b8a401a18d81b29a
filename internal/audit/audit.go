// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Package audit records administrative operations into an append-only
// operation log.
//
// # Architecture
//
// Handlers wrap their business call in [Do], which captures who performed
// the operation, what it touched, and whether it succeeded, then hands the
// resulting [Entry] to a [Recorder] for asynchronous persistence. Auditing
// is strictly an observer: the wrapped call's result and error always pass
// through unchanged, and a failed or dropped log write never surfaces to
// the client.
package audit

import "time"

// Entry is one row of the operation log.
type Entry struct {
	ID           int64     `json:"id"`
	ActorID      *int64    `json:"actor_id"`
	ActionType   string    `json:"action_type"`
	ActionObject string    `json:"action_object"`
	ObjectID     *int64    `json:"object_id"`
	Content      string    `json:"content"`
	SourceIP     string    `json:"source_ip"`
	CreatedAt    time.Time `json:"created_at"`
}

// Descriptor declares, per operation, what an audit entry should say.
//
// Content is optional: when empty, the recorded content is derived from
// Type and Object plus the outcome of the wrapped call.
type Descriptor struct {
	Type    string
	Object  string
	Content string
}

// ActorSource is implemented by operation results that can identify the
// acting principal when no authenticated identity is on the request yet,
// which is the case for login.
type ActorSource interface {
	AuditActorID() (int64, bool)
}

// ObjectSource is implemented by operation results that carry the primary
// object of the operation when it is not among the call arguments.
type ObjectSource interface {
	AuditObjectID() (int64, bool)
}

// contentFor derives the log content for an outcome. An explicit
// Descriptor.Content is recorded as-is; the generated "{type}{object}" form
// with its outcome suffix applies only when no content was provided.
func contentFor(descriptor Descriptor, callErr error) string {
	if descriptor.Content != "" {
		return descriptor.Content
	}
	prefix := descriptor.Type + descriptor.Object
	if callErr != nil {
		return prefix + " - failure: " + callErr.Error()
	}
	return prefix + " - success"
}

// firstObjectID scans call arguments in order and returns the first integer
// as the operation's object identifier.
func firstObjectID(args []any) (int64, bool) {
	for _, arg := range args {
		switch value := arg.(type) {
		case int:
			return int64(value), true
		case int32:
			return int64(value), true
		case int64:
			return value, true
		}
	}
	return 0, false
}
