package core

// Client is one connection as seen by the core layer.
// Events is written and closed only by the hub.
type Client struct {
	ID     string
	Events chan *Event
}

// NewClient constructs a client with an initialized event channel.
// bufSize <= 0 selects the default buffer.
func NewClient(id string, bufSize int) *Client {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Client{
		ID:     id,
		Events: make(chan *Event, bufSize),
	}
}
