package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/async"
	"formfield-server/internal/infra/httpserver"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, you should validate the origin
		return true
	},
}

// FieldLifecycleMessage is what connected admin clients receive whenever a
// field changes lifecycle state.
type FieldLifecycleMessage struct {
	Type      string    `json:"type"`
	Event     string    `json:"event"`
	FieldID   string    `json:"field_id"`
	ParentID  string    `json:"parent_id"`
	Stage     string    `json:"stage,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FieldEventsWebSocketController streams field lifecycle events to admin UIs
// so open editors can refresh without polling.
type FieldEventsWebSocketController struct {
	broker     async.InternalBroker
	clients    map[*websocket.Conn]bool
	clientsMux sync.RWMutex
	broadcast  chan FieldLifecycleMessage
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewFieldEventsWebSocketController(broker async.InternalBroker) *FieldEventsWebSocketController {
	ctx, cancel := context.WithCancel(context.Background())

	wsc := &FieldEventsWebSocketController{
		broker:     broker,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan FieldLifecycleMessage, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		ctx:        ctx,
		cancel:     cancel,
	}

	// Start the hub
	go wsc.run()

	return wsc
}

var _ httpserver.Controller = (*FieldEventsWebSocketController)(nil)

func (wsc *FieldEventsWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws/field-events", wsc.handleWebSocket())
}

func (wsc *FieldEventsWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		slog.Info("new websocket connection established", slog.String("remote_addr", r.RemoteAddr))

		wsc.register <- conn

		go wsc.handlePingPong(conn)
		go wsc.handleClient(conn)
	}
}

func (wsc *FieldEventsWebSocketController) handleClient(conn *websocket.Conn) {
	defer func() {
		wsc.unregister <- conn
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.String("error", err.Error()))
			} else {
				slog.Debug("websocket connection closed", slog.String("error", err.Error()))
			}
			break
		}
	}
}

func (wsc *FieldEventsWebSocketController) handlePingPong(conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-wsc.ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (wsc *FieldEventsWebSocketController) run() {
	subscription, err := wsc.broker.Subscribe(usecases.TopicFieldLifecycle)
	if err != nil {
		slog.Error("failed to subscribe to field lifecycle events", slog.String("error", err.Error()))
		return
	}
	defer wsc.broker.Unsubscribe(usecases.TopicFieldLifecycle, subscription)

	for {
		select {
		case <-wsc.ctx.Done():
			return

		case client := <-wsc.register:
			wsc.clientsMux.Lock()
			wsc.clients[client] = true
			wsc.clientsMux.Unlock()
			slog.Info("websocket client registered", slog.Int("total_clients", len(wsc.clients)))

		case client := <-wsc.unregister:
			wsc.clientsMux.Lock()
			if _, ok := wsc.clients[client]; ok {
				delete(wsc.clients, client)
				client.Close()
			}
			wsc.clientsMux.Unlock()
			slog.Info("websocket client unregistered", slog.Int("total_clients", len(wsc.clients)))

		case message := <-wsc.broadcast:
			wsc.clientsMux.RLock()
			for client := range wsc.clients {
				client.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := client.WriteJSON(message); err != nil {
					slog.Error("failed to write message to websocket client", slog.String("error", err.Error()))
					client.Close()
					delete(wsc.clients, client)
				}
			}
			wsc.clientsMux.RUnlock()

		case brokerMsg, ok := <-subscription.Receiver:
			if !ok {
				return
			}
			event, isEvent := brokerMsg.Value.(usecases.FieldEvent)
			if !isEvent {
				continue
			}

			message := FieldLifecycleMessage{
				Type:      "field_lifecycle",
				Event:     brokerMsg.Event,
				FieldID:   event.FieldID.String(),
				ParentID:  event.ParentID.String(),
				Stage:     event.Stage,
				Timestamp: event.OccurredAt,
			}

			// Non-blocking send to broadcast channel
			select {
			case wsc.broadcast <- message:
			default:
				slog.Warn("broadcast channel full, dropping message")
			}
		}
	}
}

func (wsc *FieldEventsWebSocketController) Shutdown() {
	slog.Info("shutting down field events websocket controller")
	wsc.cancel()

	wsc.clientsMux.Lock()
	for client := range wsc.clients {
		client.Close()
	}
	wsc.clientsMux.Unlock()
}
