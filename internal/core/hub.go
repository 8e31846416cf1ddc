package core

import "context"

type binding struct {
	client   *Client
	nickname string
}

type delivery struct {
	client   *Client // nil for nickname or broadcast deliveries
	nickname string  // empty for broadcast
	event    *Event
}

// Hub routes events to connected clients. All routing state is owned by the
// goroutine running Run; the exported methods only enqueue requests.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	bind       chan binding
	deliver    chan delivery
	done       chan struct{}

	clients map[*Client]string
	users   map[string]sessions
}

// NewHub creates a new chat hub instance.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		bind:       make(chan binding),
		deliver:    make(chan delivery, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]string),
		users:      make(map[string]sessions),
	}
}

// Run processes hub requests until ctx is cancelled.
// On exit every registered client's Events channel is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = ""
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.unbind(c)
				delete(h.clients, c)
				close(c.Events)
			}
		case b := <-h.bind:
			if _, ok := h.clients[b.client]; ok {
				h.unbind(b.client)
				h.bindTo(b.client, b.nickname)
			}
		case d := <-h.deliver:
			h.route(d)
		case <-ctx.Done():
			for c := range h.clients {
				close(c.Events)
			}
			h.clients = make(map[*Client]string)
			h.users = make(map[string]sessions)
			return
		}
	}
}

// RegisterClient adds a connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a connection and closes its Events channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BindUser attaches a connection to a nickname so it receives events sent
// to that user. An empty nickname detaches it.
func (h *Hub) BindUser(c *Client, nickname string) {
	select {
	case h.bind <- binding{client: c, nickname: nickname}:
	case <-h.done:
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event *Event) {
	h.enqueue(delivery{event: event})
}

// SendToUser sends an event to every connection bound to nickname.
func (h *Hub) SendToUser(nickname string, event *Event) {
	if nickname == "" {
		return
	}
	h.enqueue(delivery{nickname: nickname, event: event})
}

// SendToClient sends an event to a single connection.
func (h *Hub) SendToClient(c *Client, event *Event) {
	h.enqueue(delivery{client: c, event: event})
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.deliver <- d:
	case <-h.done:
	}
}

func (h *Hub) route(d delivery) {
	switch {
	case d.client != nil:
		if _, ok := h.clients[d.client]; ok {
			trySend(d.client, d.event)
		}
	case d.nickname != "":
		if s, ok := h.users[d.nickname]; ok {
			s.send(d.event)
		}
	default:
		for c := range h.clients {
			trySend(c, d.event)
		}
	}
}

func (h *Hub) bindTo(c *Client, nickname string) {
	if nickname == "" {
		return
	}
	s, ok := h.users[nickname]
	if !ok {
		s = make(sessions)
		h.users[nickname] = s
	}
	s.add(c)
	h.clients[c] = nickname
}

func (h *Hub) unbind(c *Client) {
	nickname := h.clients[c]
	if nickname == "" {
		return
	}
	if s, ok := h.users[nickname]; ok {
		s.remove(c)
		if len(s) == 0 {
			delete(h.users, nickname)
		}
	}
	h.clients[c] = ""
}
