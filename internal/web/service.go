// Package web exposes the literal parsers over WebSocket so editors and
// notebooks can validate expressions interactively.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seqlab/genoql/core/genome"
	"github.com/seqlab/genoql/core/lang/literal"
	"github.com/seqlab/genoql/internal/logging"
	"github.com/seqlab/genoql/internal/registry"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Request asks the service to parse one literal.
type Request struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"` // "path", "call", "position", "string", "locus", "interval"
	Input  string `json:"input"`
	Root   string `json:"root,omitempty"`   // path root, defaults to "va"
	Genome string `json:"genome,omitempty"` // registry name, required for locus and interval
}

// Response carries the parse result or a rendered diagnostic.
type Response struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Service upgrades connections and serves parse requests over them.
type Service struct {
	reg      *registry.Registry
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[*client]bool
	grammars map[[32]byte]*literal.Grammar
}

type client struct {
	svc  *Service
	conn *websocket.Conn
	send chan []byte
}

// NewService creates a parse service backed by a genome registry.
func NewService(reg *registry.Registry) *Service {
	return &Service{
		reg: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:  make(map[*client]bool),
		grammars: make(map[[32]byte]*literal.Grammar),
	}
}

// ClientCount returns the number of connected clients.
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		svc:  s,
		conn: conn,
		send: make(chan []byte, 64),
	}

	s.mu.Lock()
	s.clients[c] = true
	count := len(s.clients)
	s.mu.Unlock()
	logging.WebSocketEvent("client_connected", count)

	// The request context ends when this handler returns; the pumps
	// outlive it on the hijacked connection.
	go c.writePump()
	go c.readPump(context.Background())
}

func (s *Service) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	count := len(s.clients)
	s.mu.Unlock()
	logging.WebSocketEvent("client_disconnected", count)
}

// grammar returns a locus grammar for the named genome. The registry is
// consulted on every request so re-imports and deletes take effect
// immediately; grammars are cached by definition fingerprint.
func (s *Service) grammar(ctx context.Context, name string) (*literal.Grammar, error) {
	rg, err := s.reg.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	key := rg.Fingerprint()

	s.mu.RLock()
	g, ok := s.grammars[key]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	g = literal.NewGrammar(rg)
	s.mu.Lock()
	s.grammars[key] = g
	s.mu.Unlock()
	return g, nil
}

// handle parses one request and builds the response.
func (s *Service) handle(ctx context.Context, req Request) Response {
	start := time.Now()
	value, err := s.parse(ctx, req)

	resp := Response{ID: req.ID}
	if err != nil {
		resp.Error = err.Error()
	} else {
		data, merr := json.Marshal(value)
		if merr != nil {
			resp.Error = merr.Error()
		} else {
			resp.OK = true
			resp.Value = data
		}
	}
	logging.ParseEvent(req.Kind, len(req.Input), resp.OK, time.Since(start))
	return resp
}

func (s *Service) parse(ctx context.Context, req Request) (any, error) {
	switch req.Kind {
	case "path":
		root := req.Root
		if root == "" {
			root = "va"
		}
		return literal.ParsePath(req.Input, root)

	case "call":
		call, err := literal.ParseCall(req.Input)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"alleles": call.Alleles(),
			"phased":  call.Phased(),
			"display": call.String(),
		}, nil

	case "position":
		pos, err := literal.ParsePosition(req.Input)
		if err != nil {
			return nil, err
		}
		return map[string]any{"n": pos.N, "from_end": pos.FromEnd}, nil

	case "string":
		return literal.ParseStringLiteral(req.Input)

	case "locus":
		g, err := s.grammar(ctx, req.Genome)
		if err != nil {
			return nil, err
		}
		l, err := g.ParseLocus(req.Input)
		if err != nil {
			return nil, err
		}
		return map[string]any{"contig": l.Contig, "position": l.Position}, nil

	case "interval":
		g, err := s.grammar(ctx, req.Genome)
		if err != nil {
			return nil, err
		}
		iv, err := g.ParseInterval(req.Input)
		if err != nil {
			return nil, err
		}
		return intervalValue(iv), nil

	default:
		return nil, &unknownKindError{kind: req.Kind}
	}
}

func intervalValue(iv genome.LocusInterval) map[string]any {
	return map[string]any{
		"start": map[string]any{
			"contig":   iv.Start.Contig,
			"position": iv.Start.Position,
		},
		"end": map[string]any{
			"contig":   iv.End.Contig,
			"position": iv.End.Position,
		},
		"display": iv.String(),
	}
}

type unknownKindError struct {
	kind string
}

func (e *unknownKindError) Error() string {
	return "unknown literal kind: " + e.kind
}

// readPump reads parse requests and queues responses.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.svc.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			return
		}

		var req Request
		resp := Response{}
		if err := json.Unmarshal(data, &req); err != nil {
			resp.Error = "malformed request: " + err.Error()
		} else {
			resp = c.svc.handle(ctx, req)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			logging.Error("failed to marshal response", "error", err)
			continue
		}
		select {
		case c.send <- out:
		default:
			// Client is not keeping up, disconnect.
			return
		}
	}
}

// writePump writes queued responses and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handler returns the service wrapped in the standard middleware chain.
func (s *Service) Handler() http.Handler {
	return logging.RequestIDMiddleware(s)
}
