package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/events"
	"github.com/yui-dot/apollyon-sheet/internal/rules"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
	sheetsvc "github.com/yui-dot/apollyon-sheet/internal/services/sheet"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Command is one edit sent by the client. Action selects the operation;
// the remaining fields carry whichever addressing that operation needs.
type Command struct {
	Action  string `json:"action"`
	Slot    int    `json:"slot"`
	Row     int    `json:"row"`
	Name    string `json:"name"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Kind    string `json:"kind"`
	ItemID  string `json:"itemId"`
	Payload string `json:"payload"`
}

// Response is pushed to the client after every command and whenever the
// sheet changes through another connection.
type Response struct {
	Type      string           `json:"type"`
	Sheet     *sheet.Sheet     `json:"sheet,omitempty"`
	Conflicts *rules.Conflicts `json:"conflicts,omitempty"`
	Payload   string           `json:"payload,omitempty"`
	Error     string           `json:"error,omitempty"`
	Code      apperr.Code      `json:"code,omitempty"`
}

// Client bridges one WebSocket connection to the sheet service. It is also
// an event bus listener so edits made elsewhere reach this connection.
type Client struct {
	service sheetsvc.Service
	bus     *events.Bus
	conn    *websocket.Conn
	send    chan Response
	sheetID string
	id      string

	mu     sync.Mutex
	closed bool
}

func newClient(service sheetsvc.Service, bus *events.Bus, conn *websocket.Conn, sheetID, id string) *Client {
	c := &Client{
		service: service,
		bus:     bus,
		conn:    conn,
		send:    make(chan Response, 64),
		sheetID: sheetID,
		id:      "ws-" + id,
	}

	bus.Subscribe(events.SheetUpdated, c)
	bus.Subscribe(events.SheetImported, c)
	bus.Subscribe(events.SheetDeleted, c)

	return c
}

// HandleEvent pushes bus events for this client's sheet to the connection
func (c *Client) HandleEvent(event events.Event) error {
	if event.SheetID != c.sheetID {
		return nil
	}

	resp := Response{Type: "sheet", Sheet: event.Sheet, Conflicts: event.Conflicts}
	if event.Type == events.SheetDeleted {
		resp = Response{Type: "deleted"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}

	select {
	case c.send <- resp:
	default:
		// A stalled connection must not block the bus
	}
	return nil
}

func (c *Client) Priority() int { return 100 }
func (c *Client) ID() string    { return c.id }

func (c *Client) unsubscribe() {
	c.bus.Unsubscribe(events.SheetUpdated, c.id)
	c.bus.Unsubscribe(events.SheetImported, c.id)
	c.bus.Unsubscribe(events.SheetDeleted, c.id)
}

// readPump reads commands from the client
func (c *Client) readPump() {
	defer func() {
		c.unsubscribe()
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		if err := c.conn.Close(); err != nil {
			log.Printf("Server: close failed for %s: %v", c.id, err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Server: set read deadline failed for %s: %v", c.id, err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// First frame is the full current state
	if out, err := c.service.GetSheet(context.Background(), c.sheetID); err == nil {
		c.send <- Response{Type: "sheet", Sheet: out.Sheet, Conflicts: out.Conflicts}
	}

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Server: read failed for %s: %v", c.id, err)
			}
			return
		}
		c.dispatch(cmd)
	}
}

// dispatch runs one command. Successful mutations answer through the event
// bus; only errors and export payloads are answered directly.
func (c *Client) dispatch(cmd Command) {
	ctx := context.Background()

	var err error
	switch cmd.Action {
	case "get":
		var out *sheetsvc.SheetOutput
		if out, err = c.service.GetSheet(ctx, c.sheetID); err == nil {
			c.send <- Response{Type: "sheet", Sheet: out.Sheet, Conflicts: out.Conflicts}
			return
		}

	case "identity":
		input := &sheetsvc.IdentityInput{}
		switch cmd.Field {
		case "name":
			input.Name = &cmd.Value
		case "level":
			input.Level = &cmd.Value
		case "exp":
			input.Exp = &cmd.Value
		case "race":
			input.Race = &cmd.Value
		default:
			err = apperr.InvalidArgumentf("unknown identity field '%s'", cmd.Field)
		}
		if err == nil {
			_, err = c.service.UpdateIdentity(ctx, c.sheetID, input)
		}

	case "core":
		_, err = c.service.SetCoreAttribute(ctx, c.sheetID, &sheetsvc.CoreAttributeInput{
			Name:  cmd.Name,
			Field: sheet.CoreField(cmd.Field),
			Value: cmd.Value,
		})

	case "calc":
		_, err = c.service.SetDerivedAttribute(ctx, c.sheetID, &sheetsvc.DerivedAttributeInput{
			Name:  cmd.Name,
			Field: cmd.Field,
			Value: cmd.Value,
		})

	case "mote":
		_, err = c.service.SetMoteCategory(ctx, c.sheetID, cmd.Slot, cmd.Value)

	case "ability.add":
		_, err = c.service.AddAbilityRow(ctx, c.sheetID, cmd.Slot)

	case "ability.remove":
		_, err = c.service.RemoveAbilityRow(ctx, c.sheetID, cmd.Slot, cmd.Row)

	case "ability.select":
		_, err = c.service.SelectAbility(ctx, c.sheetID, cmd.Slot, cmd.Row, cmd.Value)

	case "ability.toggle":
		_, err = c.service.ToggleAbilityDetail(ctx, c.sheetID, cmd.Slot, cmd.Row)

	case "item.add":
		_, err = c.service.AddItem(ctx, c.sheetID, sheet.Kind(cmd.Kind))

	case "item.update":
		input := &sheetsvc.ItemInput{}
		switch cmd.Field {
		case "name":
			input.Name = &cmd.Value
		case "desc":
			input.Desc = &cmd.Value
		case "cost":
			input.Cost = &cmd.Value
		case "item":
			input.Item = &cmd.Value
		case "effect":
			input.Effect = &cmd.Value
		default:
			err = apperr.InvalidArgumentf("unknown item field '%s'", cmd.Field)
		}
		if err == nil {
			_, err = c.service.UpdateItem(ctx, c.sheetID, sheet.Kind(cmd.Kind), cmd.ItemID, input)
		}

	case "item.remove":
		_, err = c.service.RemoveItem(ctx, c.sheetID, sheet.Kind(cmd.Kind), cmd.ItemID)

	case "masteryValue":
		_, err = c.service.SetMasteryValue(ctx, c.sheetID, cmd.Value)

	case "export":
		var payload string
		if payload, err = c.service.Export(ctx, c.sheetID); err == nil {
			c.send <- Response{Type: "export", Payload: payload}
			return
		}

	case "import":
		_, err = c.service.Import(ctx, c.sheetID, cmd.Payload)

	default:
		err = apperr.InvalidArgumentf("unknown action '%s'", cmd.Action)
	}

	if err != nil {
		c.send <- Response{Type: "error", Error: err.Error(), Code: apperr.GetCode(err)}
	}
}

// writePump sends queued responses plus keepalive pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			log.Printf("Server: close failed in writePump for %s: %v", c.id, err)
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Server: set write deadline failed for %s: %v", c.id, err)
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.Printf("Server: write close failed for %s: %v", c.id, err)
				}
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Server: set ping deadline failed for %s: %v", c.id, err)
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
