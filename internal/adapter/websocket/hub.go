package websocket

import (
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/citypulse/citypulse/internal/observability/telemetry"
)

type publication struct {
	group   string
	payload []byte
}

// hubOp is one hub operation; exactly one field is set. Joins, leaves and
// publications share a single channel so the Run loop observes them in
// arrival order.
type hubOp struct {
	join    *Client
	leave   *Client
	publish *publication
}

// Hub maintains one broadcast group per user and fans published payloads out
// to every member connection. All membership mutation and all publication
// goes through the single Run loop in arrival order, which gives FIFO
// ordering per group, makes join/leave safe under concurrent connects and
// disconnects, and guarantees a payload published before a session joins is
// never delivered to it.
type Hub struct {
	// group name -> member connections
	groups map[string]map[*Client]bool

	ops chan hubOp

	log *zap.Logger
}

// Client is one connection session. A user with several devices has several
// clients in the same group, each receiving every payload independently.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	group string
	// Buffered channel of outbound payloads. Closed by the hub, never by
	// the pumps.
	send chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		groups: make(map[string]map[*Client]bool),
		ops:    make(chan hubOp, 256),
		log:    log,
	}
}

func (h *Hub) Run() {
	for op := range h.ops {
		switch {
		case op.join != nil:
			client := op.join
			members, ok := h.groups[client.group]
			if !ok {
				members = make(map[*Client]bool)
				h.groups[client.group] = members
			}
			members[client] = true
			telemetry.ActiveConnections.Inc()

		case op.leave != nil:
			// Both pumps signal the leave on shutdown; the membership
			// check makes the removal happen exactly once.
			client := op.leave
			if members, ok := h.groups[client.group]; ok && members[client] {
				delete(members, client)
				if len(members) == 0 {
					delete(h.groups, client.group)
				}
				close(client.send)
				telemetry.ActiveConnections.Dec()
			}

		case op.publish != nil:
			// No members: at-most-once delivery, the payload is gone.
			p := op.publish
			for client := range h.groups[p.group] {
				select {
				case client.send <- p.payload:
					telemetry.PayloadsDelivered.Inc()
				default:
					// A session that stopped draining its buffer must
					// not hold up the rest of the group.
					h.log.Warn("Dropping slow websocket session",
						zap.String("group", client.group))
					telemetry.PayloadsDropped.WithLabelValues("slow_session").Inc()
					delete(h.groups[p.group], client)
					close(client.send)
					telemetry.ActiveConnections.Dec()
				}
			}
		}
	}
}

// Publish hands a payload to every member of the group at publish time. It
// never blocks the caller: when the hub intake is saturated the payload is
// dropped, the durable notification row is the source of truth.
func (h *Hub) Publish(group string, payload []byte) {
	select {
	case h.ops <- hubOp{publish: &publication{group: group, payload: payload}}:
	default:
		h.log.Warn("Hub intake full, dropping payload", zap.String("group", group))
		telemetry.PayloadsDropped.WithLabelValues("intake_full").Inc()
	}
}

func (h *Hub) joinGroup(c *Client)  { h.ops <- hubOp{join: c} }
func (h *Hub) leaveGroup(c *Client) { h.ops <- hubOp{leave: c} }

// AddClient joins the connection to the group and runs its session pumps.
// It blocks until the connection closes so the caller (the fiber websocket
// handler) keeps the underlying socket alive.
func (h *Hub) AddClient(conn *websocket.Conn, group string) {
	client := &Client{hub: h, conn: conn, group: group, send: make(chan []byte, 256)}
	h.joinGroup(client)

	go client.writePump()
	client.readPump()
}

// readPump keeps the connection alive and notices the peer going away.
// Inbound frames are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.leaveGroup(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.hub.leaveGroup(c)
		c.conn.Close()
	}()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// Socket failure is isolated to this session.
			return
		}
	}
	// The hub closed the channel.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
