package handlers

import (
	"log"
	"net/http"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only feed
	},
}

type WebSocketHandler struct {
	hub          *brackets.Hub
	batchService services.BatchService
}

func NewWebSocketHandler(hub *brackets.Hub, bs services.BatchService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, batchService: bs}
}

// ServeWs подключает зрителя к комнате события. Клиент подключается к /ws/events/{eventID}
// и получает уведомления о каждом изменении результатов.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.batchService.GetBatches(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		log.Printf("Failed to upgrade connection for event %d: %v", eventID, err)
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.EventRoom(eventID),
	}
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	log.Printf("Client registered and pumps started for room %s.", client.Room)
}
