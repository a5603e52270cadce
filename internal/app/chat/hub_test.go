package chat

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
)

const testSecret = "hub-test-secret"

func testToken(t *testing.T, u user.User) string {
	t.Helper()

	token, err := jwt.GenerateToken(&jwt.Payload{
		UserID:   u.ID,
		Username: u.Username,
	}, testSecret, time.Hour)
	require.NoError(t, err)

	return token
}

func newTestHub(t *testing.T, pingInterval, pongTimeout time.Duration) (*Hub, *fakeHistory, *fakeBlobs) {
	t.Helper()

	history := &fakeHistory{}
	blobs := newFakeBlobs()
	hub := NewHub(NewResolver(testSecret), history, blobs, pingInterval, pongTimeout)

	return hub, history, blobs
}

func authFrameBytes(t *testing.T, token string) []byte {
	t.Helper()

	frame, err := json.Marshal(Envelope{
		Type:    TypeAuth,
		Payload: mustMarshal(t, AuthPayload{Token: token}),
	})
	require.NoError(t, err)

	return frame
}

func messageFrameBytes(t *testing.T, payload SendPayload) []byte {
	t.Helper()

	frame, err := json.Marshal(Envelope{
		Type:    TypeMessage,
		Payload: mustMarshal(t, payload),
	})
	require.NoError(t, err)

	return frame
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	return raw
}

func TestHubConnectWithCredential(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	alice := user.User{ID: "u-alice", Username: "alice"}
	c := hub.Connect(nil, testToken(t, alice))

	got, ok := hub.Registry().IdentityOf(c)
	require.True(t, ok, "a valid credential identifies the connection at upgrade time")
	assert.Equal(t, alice, got)

	env := mustFrame(t, c, TypePresence)

	var payload PresencePayload
	decodePayload(t, env, &payload)
	assert.Equal(t, []user.User{alice}, payload.Online)
}

func TestHubConnectWithBadCredentialStaysAnonymous(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	c := hub.Connect(nil, "not-a-token")

	_, ok := hub.Registry().IdentityOf(c)
	assert.False(t, ok, "a rejected credential leaves the connection anonymous")

	env := mustFrame(t, c, TypeError)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrInvalidCredential, payload.Code)

	// The connection is still live and receives the presence snapshot.
	mustFrame(t, c, TypePresence)
}

func TestHubAuthFrameIdentifiesLater(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	alice := user.User{ID: "u-alice", Username: "alice"}
	watcher := hub.Connect(nil, testToken(t, alice))

	bob := user.User{ID: "u-bob", Username: "bob"}
	c := hub.Connect(nil, "")

	_, ok := hub.Registry().IdentityOf(c)
	require.False(t, ok)

	hub.handleFrame(c, authFrameBytes(t, testToken(t, bob)))

	got, ok := hub.Registry().IdentityOf(c)
	require.True(t, ok)
	assert.Equal(t, bob, got)

	// The peer sees bob come online in a fresh snapshot.
	var lastOnline []user.User
	for {
		env := mustFrame(t, watcher, TypePresence)
		var payload PresencePayload
		decodePayload(t, env, &payload)
		lastOnline = payload.Online
		if len(lastOnline) == 2 {
			break
		}
	}
	assert.Equal(t, []user.User{alice, bob}, lastOnline)
}

// TestHubIdentifyConcurrentWithFanout re-identifies a connection while another
// goroutine pushes frames at it past the queue capacity, so the logging on the
// queue-full path runs against repeated identification. Run with -race.
func TestHubIdentifyConcurrentWithFanout(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	alice := user.User{ID: "u-alice", Username: "alice"}
	c := hub.Connect(nil, "")
	token := testToken(t, alice)

	frame, err := newFrame(TypePresence, PresencePayload{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 2*sendQueueSize; i++ {
			_ = c.enqueue(frame)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.Identify(c, token)
		}
	}()

	wg.Wait()

	got, ok := hub.Registry().IdentityOf(c)
	require.True(t, ok)
	assert.Equal(t, alice, got)
}

func TestHubMessageFrameEndToEnd(t *testing.T) {
	hub, history, _ := newTestHub(t, time.Minute, time.Minute)

	alice := user.User{ID: "u-alice", Username: "alice"}
	bob := user.User{ID: "u-bob", Username: "bob"}
	aliceConn := hub.Connect(nil, testToken(t, alice))
	bobConn := hub.Connect(nil, testToken(t, bob))

	hub.handleFrame(aliceConn, messageFrameBytes(t, SendPayload{
		Recipient: bob.ID,
		Text:      "hi bob",
	}))

	env := mustFrame(t, bobConn, TypeMessage)

	var delivery DeliveryPayload
	decodePayload(t, env, &delivery)
	assert.Equal(t, "hi bob", delivery.Text)
	assert.Equal(t, alice.ID, delivery.Sender)

	require.Len(t, history.messages(), 1)
}

func TestHubMessageFrameRejectionSendsError(t *testing.T) {
	hub, history, _ := newTestHub(t, time.Minute, time.Minute)

	c := hub.Connect(nil, "")

	hub.handleFrame(c, messageFrameBytes(t, SendPayload{Recipient: "u-bob", Text: "hi"}))

	env := mustFrame(t, c, TypeError)

	var payload ErrorPayload
	decodePayload(t, env, &payload)
	assert.Equal(t, errs.ErrUnauthenticated, payload.Code)
	assert.Empty(t, history.messages())
}

func TestHubLeaveAnnouncesDeparture(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	alice := user.User{ID: "u-alice", Username: "alice"}
	bob := user.User{ID: "u-bob", Username: "bob"}
	aliceConn := hub.Connect(nil, testToken(t, alice))
	bobConn := hub.Connect(nil, testToken(t, bob))

	hub.leave(aliceConn)

	assert.Empty(t, hub.Registry().ClientsFor(alice.ID))

	var lastOnline []user.User
	for {
		env := mustFrame(t, bobConn, TypePresence)
		var payload PresencePayload
		decodePayload(t, env, &payload)
		lastOnline = payload.Online
		if len(lastOnline) == 1 {
			break
		}
	}
	assert.Equal(t, []user.User{bob}, lastOnline)
}

// TestHubEvictsUnresponsiveConnection drives the liveness monitor directly:
// a probe is armed and never answered, so the connection must be removed and
// the survivors told.
func TestHubEvictsUnresponsiveConnection(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, 20*time.Millisecond)

	alice := user.User{ID: "u-alice", Username: "alice"}
	bob := user.User{ID: "u-bob", Username: "bob"}
	aliceConn := hub.Connect(nil, testToken(t, alice))
	bobConn := hub.Connect(nil, testToken(t, bob))

	require.True(t, aliceConn.liveness.Arm())

	require.Eventually(t, func() bool {
		return len(hub.Registry().ClientsFor(alice.ID)) == 0
	}, 2*time.Second, 5*time.Millisecond, "unanswered probe must evict the connection")

	var lastOnline []user.User
	for {
		env := mustFrame(t, bobConn, TypePresence)
		var payload PresencePayload
		decodePayload(t, env, &payload)
		lastOnline = payload.Online
		if len(lastOnline) == 1 {
			break
		}
	}
	assert.Equal(t, []user.User{bob}, lastOnline)
}

// TestHubRespondedProbeDoesNotEvict answers the probe and checks the
// connection survives well past the timeout.
func TestHubRespondedProbeDoesNotEvict(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, 20*time.Millisecond)

	alice := user.User{ID: "u-alice", Username: "alice"}
	aliceConn := hub.Connect(nil, testToken(t, alice))

	require.True(t, aliceConn.liveness.Arm())
	aliceConn.liveness.Pong()

	time.Sleep(100 * time.Millisecond)

	assert.Len(t, hub.Registry().ClientsFor(alice.ID), 1, "an answered probe must not evict")
}

func TestHubEvictionAfterLeaveIsNoOp(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	alice := user.User{ID: "u-alice", Username: "alice"}
	bob := user.User{ID: "u-bob", Username: "bob"}
	aliceConn := hub.Connect(nil, testToken(t, alice))
	bobConn := hub.Connect(nil, testToken(t, bob))

	hub.leave(aliceConn)
	drained := len(bobConn.send)

	// A stale timer firing after the normal disconnect must change nothing.
	hub.evict(aliceConn)

	assert.Len(t, bobConn.send, drained, "no-op eviction must not announce presence again")
}

func TestHubShutdownClearsRegistry(t *testing.T) {
	hub, _, _ := newTestHub(t, time.Minute, time.Minute)

	hub.Connect(nil, testToken(t, user.User{ID: "u-alice", Username: "alice"}))
	hub.Connect(nil, "")

	require.Len(t, hub.Registry().Clients(), 2)

	hub.Shutdown()

	assert.Empty(t, hub.Registry().Clients())
}
