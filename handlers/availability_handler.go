package handlers

import (
	"net/http"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/services"
)

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
}

func NewAvailabilityHandler(availabilityService services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// ListAvailability возвращает сырые записи доступности на игру. Игроки без
// записи считаются доступными.
func (h *AvailabilityHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.availabilityService.ListByGame(r.Context(), gameID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"availability": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAvailablePlayers возвращает действующий состав на игру после применения
// политики по умолчанию и переопределений кетчера.
func (h *AvailabilityHandler) ListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
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

	_, players, err := h.availabilityService.ResolveForGame(r.Context(), gameID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AvailabilityHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
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
	playerID, err := readIDParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SetAvailabilityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	record, err := h.availabilityService.SetAvailability(r.Context(), gameID, playerID, input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"availability": record}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
