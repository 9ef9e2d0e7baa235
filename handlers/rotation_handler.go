package handlers

import (
	"net/http"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/services"
)

type RotationHandler struct {
	rotationService services.RotationService
}

func NewRotationHandler(rotationService services.RotationService) *RotationHandler {
	return &RotationHandler{rotationService: rotationService}
}

// GetRotation отдаёт сохранённую сетку расстановок всей игры.
func (h *RotationHandler) GetRotation(w http.ResponseWriter, r *http.Request) {
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

	assignments, err := h.rotationService.GetRotation(r.Context(), gameID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignPosition — точечная правка одной ячейки сетки.
func (h *RotationHandler) AssignPosition(w http.ResponseWriter, r *http.Request) {
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

	var input services.AssignPositionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignment, err := h.rotationService.AssignPosition(r.Context(), gameID, input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignment": assignment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplaceInning принимает полную расстановку одного иннинга и заменяет её
// атомарно.
func (h *RotationHandler) ReplaceInning(w http.ResponseWriter, r *http.Request) {
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
	inning, err := readIDParam(r, "inning")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		// player_id -> position
		Positions map[int]models.Position `json:"positions"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	assignments, err := h.rotationService.ReplaceInning(r.Context(), gameID, inning, input.Positions, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": assignments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateRotation запускает генератор справедливой ротации и сохраняет
// результат как расстановку всей игры.
func (h *RotationHandler) GenerateRotation(w http.ResponseWriter, r *http.Request) {
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

	var input services.GenerateRotationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.rotationService.GenerateRotation(r.Context(), gameID, input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"assignments": result.Assignments,
		"warnings":    result.Warnings,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
