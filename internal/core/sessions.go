package core

// sessions is the set of clients bound to one nickname.
type sessions map[*Client]struct{}

func (s sessions) add(c *Client) {
	s[c] = struct{}{}
}

func (s sessions) remove(c *Client) {
	delete(s, c)
}

// send delivers an event to every client of the nickname.
func (s sessions) send(event *Event) {
	for client := range s {
		trySend(client, event)
	}
}

func trySend(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
