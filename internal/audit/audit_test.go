// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare-app/wayfare/internal/audit"
	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/sec"
)

// # Test Fakes

// fakeWriter captures inserted entries and can simulate store failure.
type fakeWriter struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (writer *fakeWriter) Insert(_ context.Context, entry audit.Entry) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	writer.entries = append(writer.entries, entry)
	return writer.err
}

func (writer *fakeWriter) all() []audit.Entry {
	writer.mu.Lock()
	defer writer.mu.Unlock()
	return append([]audit.Entry(nil), writer.entries...)
}

// loginResult stands in for an operation result that can identify the actor.
type loginResult struct {
	adminID int64
}

func (result loginResult) AuditActorID() (int64, bool) {
	return result.adminID, result.adminID != 0
}

// createdResource stands in for a result carrying the created object's ID.
type createdResource struct {
	id int64
}

func (result createdResource) AuditObjectID() (int64, bool) {
	return result.id, true
}

func authenticatedContext(adminID int64) context.Context {
	claims := &sec.IdentityClaims{SubjectID: adminID, SubjectName: "alice", Kind: sec.KindAdmin}
	ctx := ctxutil.WithIdentity(context.Background(), claims, "some.jwt.token")
	return ctxutil.WithClientIP(ctx, "203.0.113.5")
}

// capture runs fn through Do against a fresh recorder and returns the single
// entry it produced. Close drains the queue before we inspect.
func capture[T any](t *testing.T, ctx context.Context, writer *fakeWriter, descriptor audit.Descriptor, args []any, fn func(context.Context) (T, error)) (T, error, audit.Entry) {
	t.Helper()

	recorder := audit.NewRecorder(writer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	result, err := audit.Do(ctx, recorder, descriptor, args, fn)
	recorder.Close()

	entries := writer.all()
	require.Len(t, entries, 1)
	return result, err, entries[0]
}

// # Do Wrapper

/*
TestDo_SuccessEntry verifies that a successful call records actor, source IP,
and a generated success content line, and that the result passes through.
*/
func TestDo_SuccessEntry(t *testing.T) {
	writer := &fakeWriter{}
	descriptor := audit.Descriptor{Type: "CREATE", Object: "Role"}

	result, err, entry := capture(t, authenticatedContext(42), writer, descriptor, []any{int64(9)},
		func(context.Context) (string, error) { return "created", nil })

	require.NoError(t, err)
	assert.Equal(t, "created", result)

	require.NotNil(t, entry.ActorID)
	assert.Equal(t, int64(42), *entry.ActorID)
	require.NotNil(t, entry.ObjectID)
	assert.Equal(t, int64(9), *entry.ObjectID)
	assert.Equal(t, "CREATE", entry.ActionType)
	assert.Equal(t, "Role", entry.ActionObject)
	assert.Equal(t, "CREATERole - success", entry.Content)
	assert.Equal(t, "203.0.113.5", entry.SourceIP)
	assert.False(t, entry.CreatedAt.IsZero())
}

/*
TestDo_ReRaisesErrorUnchanged verifies that the wrapped call's error comes
back verbatim while the failure is still logged.
*/
func TestDo_ReRaisesErrorUnchanged(t *testing.T) {
	writer := &fakeWriter{}
	businessErr := errors.New("role name already taken")

	_, err, entry := capture(t, authenticatedContext(42), writer, audit.Descriptor{Type: "CREATE", Object: "Role"}, nil,
		func(context.Context) (string, error) { return "", businessErr })

	assert.Same(t, businessErr, err)
	assert.Equal(t, "CREATERole - failure: role name already taken", entry.Content)
}

/*
TestDo_StoreFailureNeverSurfaces verifies that a broken log store does not
alter the business outcome in either direction.
*/
func TestDo_StoreFailureNeverSurfaces(t *testing.T) {
	writer := &fakeWriter{err: errors.New("connection refused")}

	result, err, _ := capture(t, authenticatedContext(42), writer, audit.Descriptor{Type: "DELETE", Object: "User"}, []any{7},
		func(context.Context) (int, error) { return 204, nil })

	require.NoError(t, err)
	assert.Equal(t, 204, result)
}

/*
TestDo_ActorFallbackFromResult verifies that with no authenticated identity
on the context the actor is taken from the result, which is how login gets
attributed.
*/
func TestDo_ActorFallbackFromResult(t *testing.T) {
	writer := &fakeWriter{}
	ctx := ctxutil.WithClientIP(context.Background(), "203.0.113.5")

	_, err, entry := capture(t, ctx, writer, audit.Descriptor{Type: "LOGIN", Object: "Admin"}, nil,
		func(context.Context) (loginResult, error) { return loginResult{adminID: 42}, nil })

	require.NoError(t, err)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, int64(42), *entry.ActorID)
}

/*
TestDo_ActorAbsent verifies that a failed login, where neither context nor
result identifies a principal, records a nil actor.
*/
func TestDo_ActorAbsent(t *testing.T) {
	writer := &fakeWriter{}

	_, _, entry := capture(t, context.Background(), writer, audit.Descriptor{Type: "LOGIN", Object: "Admin"}, nil,
		func(context.Context) (loginResult, error) { return loginResult{}, errors.New("bad credentials") })

	assert.Nil(t, entry.ActorID)
}

/*
TestDo_ObjectIDFromArgs verifies that the first integer argument, regardless
of position among non-integers, becomes the object ID.
*/
func TestDo_ObjectIDFromArgs(t *testing.T) {
	writer := &fakeWriter{}

	_, _, entry := capture(t, authenticatedContext(42), writer, audit.Descriptor{Type: "EDIT", Object: "Admin"},
		[]any{"display-name", int32(17), int64(99)},
		func(context.Context) (struct{}, error) { return struct{}{}, nil })

	require.NotNil(t, entry.ObjectID)
	assert.Equal(t, int64(17), *entry.ObjectID)
}

/*
TestDo_ObjectIDFromResult verifies the fallback to the result when no
argument carries an integer ID.
*/
func TestDo_ObjectIDFromResult(t *testing.T) {
	writer := &fakeWriter{}

	_, _, entry := capture(t, authenticatedContext(42), writer, audit.Descriptor{Type: "CREATE", Object: "Role"},
		[]any{"editor"},
		func(context.Context) (createdResource, error) { return createdResource{id: 55}, nil })

	require.NotNil(t, entry.ObjectID)
	assert.Equal(t, int64(55), *entry.ObjectID)
}

/*
TestDo_ExplicitContent verifies that a descriptor-supplied content is
recorded verbatim, with no outcome suffix appended, for success and failure
alike.
*/
func TestDo_ExplicitContent(t *testing.T) {
	writer := &fakeWriter{}

	_, _, entry := capture(t, authenticatedContext(42), writer,
		audit.Descriptor{Type: "EXPORT", Object: "Log", Content: "exported monthly report"}, nil,
		func(context.Context) (struct{}, error) { return struct{}{}, nil })

	assert.Equal(t, "exported monthly report", entry.Content)

	_, _, entry = capture(t, authenticatedContext(42), &fakeWriter{},
		audit.Descriptor{Type: "EXPORT", Object: "Log", Content: "exported monthly report"}, nil,
		func(context.Context) (struct{}, error) { return struct{}{}, errors.New("disk full") })

	assert.Equal(t, "exported monthly report", entry.Content)
}

// # Recorder

/*
TestRecorder_CloseDrains verifies that entries queued before Close are all
persisted.
*/
func TestRecorder_CloseDrains(t *testing.T) {
	writer := &fakeWriter{}
	recorder := audit.NewRecorder(writer, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for index := 0; index < 10; index++ {
		recorder.Record(audit.Entry{ActionType: "PING", ActionObject: "Health"})
	}
	recorder.Close()

	assert.Len(t, writer.all(), 10)
}
