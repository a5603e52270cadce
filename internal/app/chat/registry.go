/*
Package chat contains the core logic for real-time direct messaging.

This file defines the Registry, the single shared mutable structure of the
core. It tracks every live connection, the identity attached to it (if any),
and a derived index from identity id to the set of live connections, so that
fanout can find every session of a recipient.
*/
package chat

import (
	"sort"
	"sync"

	"dmchat/internal/app/user"
	"dmchat/internal/pkg/errs"
)

// Registry tracks the set of currently-live connections.
//
// Membership changes are atomic with respect to the identity index: a reader
// never observes a connection present in one structure and absent in the
// other. No lock is held across I/O; callers snapshot and then iterate.
type Registry struct {
	mu sync.RWMutex

	// conns maps each live connection to its attached identity, or nil while
	// the connection is still anonymous.
	conns map[*Client]*user.User

	// byUser indexes live connections by identity id. Every indexed connection
	// is present in conns, and vice versa for identified connections.
	byUser map[string]map[*Client]struct{}
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[*Client]*user.User),
		byUser: make(map[string]map[*Client]struct{}),
	}
}

// Register adds an anonymous connection. Registering the same connection twice
// is a caller contract violation; the second call is a no-op.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; ok {
		return
	}
	r.conns[c] = nil
}

// AttachIdentity binds a resolved identity to a registered connection.
// Re-attaching is allowed (idempotent re-auth); attaching a different identity
// moves the connection between index buckets atomically. An unknown connection
// yields ErrUnknownConnection.
func (r *Registry) AttachIdentity(c *Client, u user.User) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.conns[c]
	if !ok {
		return errs.NewError(errs.ErrUnknownConnection)
	}

	if prev != nil && prev.ID != u.ID {
		r.dropFromIndex(prev.ID, c)
	}

	attached := u
	r.conns[c] = &attached

	bucket, ok := r.byUser[u.ID]
	if !ok {
		bucket = make(map[*Client]struct{})
		r.byUser[u.ID] = bucket
	}
	bucket[c] = struct{}{}

	return nil
}

// Remove deletes a connection and all its index entries. It reports whether
// the connection was present, so that late liveness timers can prove
// themselves no-ops. Removing an unknown connection is not an error;
// disconnect races are expected.
func (r *Registry) Remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.conns[c]
	if !ok {
		return false
	}

	delete(r.conns, c)
	if u != nil {
		r.dropFromIndex(u.ID, c)
	}

	return true
}

// dropFromIndex removes a connection from an identity bucket, deleting the
// bucket when it empties. Callers must hold the write lock.
func (r *Registry) dropFromIndex(userID string, c *Client) {
	bucket, ok := r.byUser[userID]
	if !ok {
		return
	}

	delete(bucket, c)
	if len(bucket) == 0 {
		delete(r.byUser, userID)
	}
}

// IdentityOf returns the identity attached to a connection. The second return
// is false for anonymous or unknown connections.
func (r *Registry) IdentityOf(c *Client) (user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.conns[c]
	if !ok || u == nil {
		return user.User{}, false
	}

	return *u, true
}

// Clients returns a consistent snapshot of every live connection.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.conns))
	for c := range r.conns {
		clients = append(clients, c)
	}

	return clients
}

// ClientsFor returns a snapshot of every live connection attached to the given
// identity id. An empty result means the identity is offline.
func (r *Registry) ClientsFor(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.byUser[userID]

	clients := make([]*Client, 0, len(bucket))
	for c := range bucket {
		clients = append(clients, c)
	}

	return clients
}

// Snapshot computes the current presence view: one entry per online identity,
// sorted by username for stable client rendering. Anonymous connections are
// not part of presence.
func (r *Registry) Snapshot() []user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]user.User, 0, len(r.byUser))
	for _, bucket := range r.byUser {
		for c := range bucket {
			if u := r.conns[c]; u != nil {
				online = append(online, *u)
				break
			}
		}
	}

	sort.Slice(online, func(i, j int) bool {
		if online[i].Username == online[j].Username {
			return online[i].ID < online[j].ID
		}
		return online[i].Username < online[j].Username
	})

	return online
}
