package services

import (
	"errors"
	"fmt"

	"github.com/benchboss/lineup-system/models"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrOpponentRequired    = errors.New("game opponent is required")
	ErrGameInvalidInnings  = errors.New("game innings must be between 1 and 9")
	ErrInningOutOfRange    = errors.New("inning is outside the game's innings range")
	ErrInvalidPosition     = errors.New("invalid fielding position")
	ErrPlayerNotAvailable  = errors.New("player is not available for this game")
	ErrCatcherNotEligible  = errors.New("player is not eligible to play catcher")
	ErrEmptyRoster         = errors.New("no available players for this game")
	ErrJerseyNumberTaken   = errors.New("jersey number is already taken on this team")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrAccountNotApproved  = errors.New("account is pending admin approval")
	ErrAccountBanned       = errors.New("account is banned")
	ErrEmailNotConfirmed   = errors.New("email address is not confirmed")
	ErrInvalidResetToken   = errors.New("invalid or expired password reset token")
	ErrInvalidConfirmToken = errors.New("invalid or expired confirmation token")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound   = errors.New("user not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
)

// PositionConflictError — попытка занять позицию, которую в этом иннинге уже
// держит другой игрок. Автоматического вытеснения нет: тренер сначала
// освобождает позицию, затем назначает нового игрока.
type PositionConflictError struct {
	Inning         int             `json:"inning"`
	Position       models.Position `json:"position"`
	OccupiedByID   int             `json:"occupied_by_id"`
	OccupiedByName string          `json:"occupied_by_name"`
}

func (e *PositionConflictError) Error() string {
	return fmt.Sprintf("position %s in inning %d is already held by %s (player %d)",
		e.Position, e.Inning, e.OccupiedByName, e.OccupiedByID)
}

// BattingOrderValidationError перечисляет id, нарушившие правила порядка
// отбивания: дубликаты и игроков чужой команды.
type BattingOrderValidationError struct {
	DuplicateIDs []int `json:"duplicate_ids,omitempty"`
	NotOnTeamIDs []int `json:"not_on_team_ids,omitempty"`
}

func (e *BattingOrderValidationError) Error() string {
	return fmt.Sprintf("batting order validation failed: duplicates=%v, not on team=%v",
		e.DuplicateIDs, e.NotOnTeamIDs)
}
