package handlers

import (
	"net/http"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/services"
)

type BattingOrderHandler struct {
	battingService services.BattingOrderService
}

func NewBattingOrderHandler(battingService services.BattingOrderService) *BattingOrderHandler {
	return &BattingOrderHandler{battingService: battingService}
}

func (h *BattingOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.battingService.GetOrder(r.Context(), gameID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"batting_order": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BattingOrderHandler) SaveOrder(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	gameID, err := readIDParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PlayerIDs []int `json:"player_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.battingService.SaveOrder(r.Context(), gameID, input.PlayerIDs, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"batting_order": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
