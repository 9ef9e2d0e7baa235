package handlers

import (
	"net/http"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	teamID, err := readIDParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), teamID, input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) ListTeamGames(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	teamID, err := readIDParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.ListTeamGames(r.Context(), teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
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

	game, err := h.gameService.GetGameByID(r.Context(), gameID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
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

	var input services.UpdateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), gameID, input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
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

	if err := h.gameService.DeleteGame(r.Context(), gameID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
