package handlers

import (
	"net/http"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) GetTeamBattingAnalytics(w http.ResponseWriter, r *http.Request) {
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

	analytics, err := h.analyticsService.GetTeamBattingAnalytics(r.Context(), teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"batting_analytics": analytics}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetTeamFieldingAnalytics(w http.ResponseWriter, r *http.Request) {
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

	analytics, err := h.analyticsService.GetTeamFieldingAnalytics(r.Context(), teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fielding_analytics": analytics}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetTeamAnalytics(w http.ResponseWriter, r *http.Request) {
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

	analytics, err := h.analyticsService.GetTeamAnalytics(r.Context(), teamID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team_analytics": analytics}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
