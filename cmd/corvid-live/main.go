// corvid-live bridges a DGT EBoard, read through LiveChess, to the engine: it
// mirrors physical moves into the engine's position and broadcasts the
// current position and last physical move to websocket spectators, while still
// serving the engine over UCI on stdin/stdout for a GUI to drive searches
// against whatever position the physical board is currently showing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/herohde/livechess-go/pkg/livechess"

	"github.com/seekerror/logw"

	"github.com/rookfile/corvid/pkg/board/fen"
	"github.com/rookfile/corvid/pkg/engine"
	"github.com/rookfile/corvid/pkg/engine/uci"
)

var (
	serial = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip   = flag.Bool("flip", false, "Flip board")
	addr   = flag.String("addr", ":8080", "Address to serve the spectator websocket on")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	id := livechess.EBoardSerial(*serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			logw.Exitf(ctx, "Autodetect failed: %v", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		logw.Exitf(ctx, "Feed for %v failed: %v", id, err)
	}
	if *flip {
		if err := client.Flip(ctx, true); err != nil {
			logw.Exitf(ctx, "Flip board %v failed: %v", id, err)
		}
	}
	if err := client.Setup(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Setup board %v failed: %v", id, err)
	}

	e := engine.New(ctx, "corvid-live", "rookfile", engine.WithOptions(engine.Options{Depth: 12}))

	hub := newSpectatorHub()
	go mirrorBoard(ctx, e, events, hub)

	http.HandleFunc("/spectate", hub.serveHTTP)
	go func() {
		logw.Infof(ctx, "Serving spectators on %v/spectate", *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			logw.Errorf(ctx, "Spectator server exited: %v", err)
		}
	}()

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}

// mirrorBoard applies every physical move reported by the EBoard feed to the
// engine's position, in San form as recognized by the feed, and republishes
// the resulting FEN to every spectator.
func mirrorBoard(ctx context.Context, e *engine.Engine, events <-chan livechess.EBoardEventResponse, hub *spectatorHub) {
	hub.broadcast(snapshot{FEN: e.Position()})

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.San == "" {
				continue
			}

			if err := e.MoveSAN(ctx, event.San); err != nil {
				logw.Warningf(ctx, "Physical move %v not applied: %v", event.San, err)
				continue
			}

			hub.broadcast(snapshot{FEN: e.Position(), LastMove: event.San})

		case <-ctx.Done():
			return
		}
	}
}

// snapshot is the JSON payload pushed to every connected spectator.
type snapshot struct {
	FEN      string `json:"fen"`
	LastMove string `json:"lastMove,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type spectatorHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    snapshot
}

func newSpectatorHub() *spectatorHub {
	return &spectatorHub{clients: map[*websocket.Conn]bool{}}
}

func (h *spectatorHub) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	last := h.last
	h.mu.Unlock()

	if err := conn.WriteJSON(last); err != nil {
		h.drop(conn)
		return
	}

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *spectatorHub) broadcast(s snapshot) {
	h.mu.Lock()
	h.last = s
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(c)
		}
	}
}

func (h *spectatorHub) drop(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Close()
}
