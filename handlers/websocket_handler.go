package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/rotation"
	"github.com/benchboss/lineup-system/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: в проде сверять Origin со списком доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub         *rotation.Hub
	gameService services.GameService
}

func NewWebSocketHandler(hub *rotation.Hub, gameService services.GameService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		gameService: gameService,
	}
}

// ServeWs подключает клиента к комнате игры: все сохранения расстановки и
// порядка отбивания этой игры будут приходить ему живьём.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		http.Error(w, "Missing or invalid gameID", http.StatusBadRequest)
		return
	}

	// Комнату открываем только владельцу игры.
	if _, err := h.gameService.GetGameByID(r.Context(), gameID, currentUserID); err != nil {
		if errors.Is(err, services.ErrGameNotFound) {
			http.NotFound(w, r)
			return
		}
		if errors.Is(err, services.ErrForbiddenOperation) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for game %d: %v", gameID, err)
		return
	}

	client := &rotation.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: rotation.GameRoomID(gameID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
