package websocket

import "github.com/rs/zerolog/log"

type userMessage struct {
	userID  string
	message []byte
}

type clientMessage struct {
	client  *Client
	message []byte
}

// Hub maintains the set of active clients and fans task events out to the
// sockets of the user they belong to.
type Hub struct {
	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	publish chan userMessage
	direct  chan clientMessage
	done    chan struct{}

	// A map of user IDs to the set of that user's open connections.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		publish:       make(chan userMessage, 64),
		direct:        make(chan clientMessage, 16),
		done:          make(chan struct{}),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.addSubscription(client)
			log.Info().Str("user_id", client.UserID).Int("user_clients", len(h.subscriptions[client.UserID])).Msg("Client connected")
		case client := <-h.Unregister:
			if h.removeSubscription(client) {
				close(client.Send)
				log.Info().Str("user_id", client.UserID).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			for client := range h.subscriptions[msg.userID] {
				select {
				case client.Send <- msg.message:
				default:
					// Slow consumer; drop it rather than stall everyone else.
					h.removeSubscription(client)
					close(client.Send)
				}
			}
		case msg := <-h.direct:
			if h.subscriptions[msg.client.UserID][msg.client] {
				select {
				case msg.client.Send <- msg.message:
				default:
				}
			}
		case <-h.done:
			for _, subs := range h.subscriptions {
				for client := range subs {
					close(client.Send)
				}
			}
			h.subscriptions = make(map[string]map[*Client]bool)
			return
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Add registers client. It reports false if the hub has stopped.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// PublishToUser queues message for every open connection of userID. It
// never blocks once the hub has stopped.
func (h *Hub) PublishToUser(userID string, message []byte) {
	select {
	case h.publish <- userMessage{userID: userID, message: message}:
	case <-h.done:
	}
}

// sendTo queues message for a single client if it is still registered.
func (h *Hub) sendTo(client *Client, message []byte) {
	select {
	case h.direct <- clientMessage{client: client, message: message}:
	case <-h.done:
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) bool {
	subs, ok := h.subscriptions[client.UserID]
	if !ok || !subs[client] {
		return false
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscriptions, client.UserID)
	}
	return true
}
