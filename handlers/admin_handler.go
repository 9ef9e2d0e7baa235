package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/services"
)

type AdminUserHandler struct {
	adminUserService services.AdminUserService
	emailService     *services.EmailService
}

func NewAdminUserHandler(s services.AdminUserService, emailService *services.EmailService) *AdminUserHandler {
	return &AdminUserHandler{
		adminUserService: s,
		emailService:     emailService,
	}
}

func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.UserFilter{
		Page:  toInt(q.Get("page"), 1),
		Limit: toInt(q.Get("limit"), 20),
	}
	if status := q.Get("status"); status != "" {
		s := models.UserStatus(status)
		filter.Status = &s
	}

	res, err := h.adminUserService.ListUsers(r.Context(), filter)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminUserHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	userID, err := readIDParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminUserService.ApproveUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if h.emailService != nil {
		if err := h.emailService.SendAccountApprovedEmail(user.Email); err != nil {
			log.Printf("Ошибка отправки письма об одобрении аккаунта: %v", err)
		}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminUserHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	userID, err := readIDParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminUserService.BanUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminUserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := readIDParam(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Админ не может удалить сам себя.
	if currentUserID, err := middleware.GetUserIDFromContext(r.Context()); err == nil && currentUserID == userID {
		forbiddenResponse(w, r, "cannot delete your own account")
		return
	}

	if err := h.adminUserService.DeleteUser(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toInt(s string, def int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return def
}
