package realtime

import (
	"sync"
)

// ConnectionState is the per-connection identity record. It replaces ad-hoc
// fields on the socket: handlers look it up by connection id instead.
type ConnectionState struct {
	UserID        string
	Role          string
	Authenticated bool
}

// Registry tracks live connections and their room memberships. It is the
// single fan-out point for chat, detection, and private-message traffic and is
// safe for concurrent use by independent connection handlers. All state is
// in-memory and disposable on restart.
type Registry struct {
	mu        sync.RWMutex
	conns     map[string]*Connection          // connection id -> connection
	states    map[string]ConnectionState      // connection id -> identity
	rooms     map[Room]map[string]*Connection // room -> connection id -> connection
	connRooms map[string]map[Room]struct{}    // connection id -> set of rooms
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:     make(map[string]*Connection),
		states:    make(map[string]ConnectionState),
		rooms:     make(map[Room]map[string]*Connection),
		connRooms: make(map[string]map[Room]struct{}),
	}
}

// Attach registers a connection and starts its write loop. The connection
// begins unauthenticated; rooms may be joined in either state.
func (r *Registry) Attach(conn *Connection) {
	r.mu.Lock()
	r.conns[conn.ID] = conn
	r.states[conn.ID] = ConnectionState{}
	r.connRooms[conn.ID] = make(map[Room]struct{})
	r.mu.Unlock()

	conn.Start()
}

// Authenticate records the connection's identity and joins its private user
// room so that direct messages can reach it.
func (r *Registry) Authenticate(connID, userID, role string) {
	if userID == "" {
		return
	}
	r.mu.Lock()
	if _, ok := r.conns[connID]; !ok {
		r.mu.Unlock()
		return
	}
	r.states[connID] = ConnectionState{UserID: userID, Role: role, Authenticated: true}
	r.joinLocked(UserRoom(userID), connID)
	r.mu.Unlock()
}

// State returns the identity record for a connection.
func (r *Registry) State(connID string) (ConnectionState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[connID]
	return s, ok
}

// Join adds the connection to the room. Joining a room the connection is
// already in is a no-op.
func (r *Registry) Join(connID string, room Room) {
	if room.IsZero() {
		return
	}
	r.mu.Lock()
	if _, ok := r.conns[connID]; ok {
		r.joinLocked(room, connID)
	}
	r.mu.Unlock()
}

// Leave removes the connection from the room. Leaving a room the connection
// is not in is a no-op.
func (r *Registry) Leave(connID string, room Room) {
	r.mu.Lock()
	r.leaveLocked(room, connID)
	r.mu.Unlock()
}

// Detach removes the connection from every room and forgets its state.
// Called on disconnect; the terminal transition for a connection.
func (r *Registry) Detach(connID string) {
	r.mu.Lock()
	for room := range r.connRooms[connID] {
		r.leaveLocked(room, connID)
	}
	delete(r.connRooms, connID)
	delete(r.states, connID)
	delete(r.conns, connID)
	r.mu.Unlock()
}

// Publish delivers payload to every connection currently in the room and
// returns how many sends were accepted. Delivery is fire-and-forget: a
// connection that disconnects between lookup and send is simply skipped, the
// client recovers via the HTTP history on reconnect.
func (r *Registry) Publish(room Room, payload []byte) int {
	return r.PublishExcept(room, payload, "")
}

// PublishExcept is Publish with one connection excluded, used for join
// notifications that must not echo back to the joiner.
func (r *Registry) PublishExcept(room Room, payload []byte, exceptConnID string) int {
	r.mu.RLock()
	members := r.rooms[room]
	if len(members) == 0 {
		r.mu.RUnlock()
		return 0
	}
	delivered := 0
	for id, conn := range members {
		if exceptConnID != "" && id == exceptConnID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// SendTo delivers payload to a single connection, if still attached.
func (r *Registry) SendTo(connID string, payload []byte) bool {
	r.mu.RLock()
	conn := r.conns[connID]
	r.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears registry state.
func (r *Registry) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	r.conns = make(map[string]*Connection)
	r.states = make(map[string]ConnectionState)
	r.rooms = make(map[Room]map[string]*Connection)
	r.connRooms = make(map[string]map[Room]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "registry shutdown")
	}
}

func (r *Registry) joinLocked(room Room, connID string) {
	conn := r.conns[connID]
	if conn == nil {
		return
	}
	members := r.rooms[room]
	if members == nil {
		members = make(map[string]*Connection)
		r.rooms[room] = members
	}
	members[connID] = conn

	memberships := r.connRooms[connID]
	if memberships == nil {
		memberships = make(map[Room]struct{})
		r.connRooms[connID] = memberships
	}
	memberships[room] = struct{}{}
}

func (r *Registry) leaveLocked(room Room, connID string) {
	if connID == "" {
		return
	}
	members := r.rooms[room]
	if members == nil {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	if memberships, ok := r.connRooms[connID]; ok {
		delete(memberships, room)
	}
}
