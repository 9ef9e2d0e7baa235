package services

import (
	"context"
	"sort"
	"time"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
)

// Простейшие in-memory реализации репозиториев для тестов сервисного слоя.

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(team *models.Team) *models.Team {
	if team.ID == 0 {
		team.ID = r.nextID
		r.nextID++
	} else if team.ID >= r.nextID {
		r.nextID = team.ID + 1
	}
	r.teams[team.ID] = team
	return team
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.CreatedAt = time.Now()
	r.add(team)
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByOwner(ctx context.Context, userID int) ([]*models.Team, error) {
	out := make([]*models.Team, 0)
	for _, t := range r.teams {
		if t.UserID == userID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) Count(ctx context.Context) (int, error) {
	return len(r.teams), nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (r *fakePlayerRepo) add(player *models.Player) *models.Player {
	if player.ID == 0 {
		player.ID = r.nextID
		r.nextID++
	} else if player.ID >= r.nextID {
		r.nextID = player.ID + 1
	}
	r.players[player.ID] = player
	return player
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	for _, p := range r.players {
		if p.TeamID == player.TeamID && p.JerseyNumber == player.JerseyNumber {
			return repositories.ErrPlayerNumberConflict
		}
	}
	player.CreatedAt = time.Now()
	r.add(player)
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	out := make([]*models.Player, 0)
	for _, p := range r.players {
		if p.TeamID == teamID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	copied := *player
	r.players[player.ID] = &copied
	return nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.PhotoKey = photoKey
	return nil
}

func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeGameRepo struct {
	games  map[int]*models.Game
	nextID int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[int]*models.Game), nextID: 1}
}

func (r *fakeGameRepo) add(game *models.Game) *models.Game {
	if game.ID == 0 {
		game.ID = r.nextID
		r.nextID++
	} else if game.ID >= r.nextID {
		r.nextID = game.ID + 1
	}
	r.games[game.ID] = game
	return game
}

func (r *fakeGameRepo) Create(ctx context.Context, game *models.Game) error {
	if game.Innings < models.MinInnings || game.Innings > models.MaxInnings {
		return repositories.ErrGameInningsInvalid
	}
	game.CreatedAt = time.Now()
	r.add(game)
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (r *fakeGameRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Game, error) {
	out := make([]*models.Game, 0)
	for _, g := range r.games {
		if g.TeamID == teamID {
			copied := *g
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameTime.Before(out[j].GameTime) })
	return out, nil
}

func (r *fakeGameRepo) Update(ctx context.Context, game *models.Game) error {
	if _, ok := r.games[game.ID]; !ok {
		return repositories.ErrGameNotFound
	}
	if game.Innings < models.MinInnings || game.Innings > models.MaxInnings {
		return repositories.ErrGameInningsInvalid
	}
	copied := *game
	r.games[game.ID] = &copied
	return nil
}

func (r *fakeGameRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *fakeGameRepo) CompletePastGames(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, g := range r.games {
		if g.Status == models.GameStatusScheduled && g.GameTime.Before(now) {
			g.Status = models.GameStatusCompleted
			n++
		}
	}
	return n, nil
}

func (r *fakeGameRepo) Count(ctx context.Context) (int, error) {
	return len(r.games), nil
}

type availabilityKey struct {
	gameID   int
	playerID int
}

type fakeAvailabilityRepo struct {
	records map[availabilityKey]*models.PlayerAvailability
	nextID  int
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{records: make(map[availabilityKey]*models.PlayerAvailability), nextID: 1}
}

func (r *fakeAvailabilityRepo) Upsert(ctx context.Context, a *models.PlayerAvailability) error {
	key := availabilityKey{a.GameID, a.PlayerID}
	if existing, ok := r.records[key]; ok {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		a.ID = r.nextID
		r.nextID++
		a.CreatedAt = time.Now()
	}
	copied := *a
	r.records[key] = &copied
	return nil
}

func (r *fakeAvailabilityRepo) ListByGame(ctx context.Context, gameID int) ([]*models.PlayerAvailability, error) {
	out := make([]*models.PlayerAvailability, 0)
	for _, rec := range r.records {
		if rec.GameID == gameID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *fakeAvailabilityRepo) GetByGameAndPlayer(ctx context.Context, gameID, playerID int) (*models.PlayerAvailability, error) {
	rec, ok := r.records[availabilityKey{gameID, playerID}]
	if !ok {
		return nil, repositories.ErrAvailabilityNotFound
	}
	copied := *rec
	return &copied, nil
}

type fakeBattingRepo struct {
	entries map[int][]*models.BattingOrderEntry // по game id
	games   *fakeGameRepo
	nextID  int
}

func newFakeBattingRepo(games *fakeGameRepo) *fakeBattingRepo {
	return &fakeBattingRepo{entries: make(map[int][]*models.BattingOrderEntry), games: games, nextID: 1}
}

func (r *fakeBattingRepo) ReplaceForGame(ctx context.Context, exec repositories.SQLExecutor, gameID int, playerIDs []int) ([]*models.BattingOrderEntry, error) {
	out := make([]*models.BattingOrderEntry, 0, len(playerIDs))
	for i, playerID := range playerIDs {
		out = append(out, &models.BattingOrderEntry{
			ID:        r.nextID,
			GameID:    gameID,
			PlayerID:  playerID,
			Slot:      i + 1,
			CreatedAt: time.Now(),
		})
		r.nextID++
	}
	r.entries[gameID] = out
	return out, nil
}

func (r *fakeBattingRepo) ListByGame(ctx context.Context, gameID int) ([]*models.BattingOrderEntry, error) {
	return append([]*models.BattingOrderEntry(nil), r.entries[gameID]...), nil
}

func (r *fakeBattingRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.BattingOrderEntry, error) {
	out := make([]*models.BattingOrderEntry, 0)
	for gameID, entries := range r.entries {
		game, ok := r.games.games[gameID]
		if !ok || game.TeamID != teamID {
			continue
		}
		out = append(out, entries...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeFieldingRepo struct {
	assignments []*models.FieldingAssignment
	games       *fakeGameRepo
	nextID      int
}

func newFakeFieldingRepo(games *fakeGameRepo) *fakeFieldingRepo {
	return &fakeFieldingRepo{games: games, nextID: 1}
}

func (r *fakeFieldingRepo) ListByGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) ([]*models.FieldingAssignment, error) {
	out := make([]*models.FieldingAssignment, 0)
	for _, a := range r.assignments {
		if a.GameID == gameID {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeFieldingRepo) ListByGameInning(ctx context.Context, exec repositories.SQLExecutor, gameID, inning int) ([]*models.FieldingAssignment, error) {
	out := make([]*models.FieldingAssignment, 0)
	for _, a := range r.assignments {
		if a.GameID == gameID && a.Inning == inning {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeFieldingRepo) LockGameInning(ctx context.Context, exec repositories.SQLExecutor, gameID, inning int) error {
	return nil
}

func (r *fakeFieldingRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, a *models.FieldingAssignment) error {
	for _, existing := range r.assignments {
		if existing.GameID == a.GameID && existing.Inning == a.Inning && existing.PlayerID == a.PlayerID {
			existing.Position = a.Position
			a.ID = existing.ID
			return nil
		}
	}
	a.ID = r.nextID
	r.nextID++
	copied := *a
	r.assignments = append(r.assignments, &copied)
	return nil
}

func (r *fakeFieldingRepo) ReplaceInning(ctx context.Context, exec repositories.SQLExecutor, gameID, inning int, assignments []*models.FieldingAssignment) error {
	kept := r.assignments[:0]
	for _, a := range r.assignments {
		if !(a.GameID == gameID && a.Inning == inning) {
			kept = append(kept, a)
		}
	}
	r.assignments = kept
	for _, a := range assignments {
		a.ID = r.nextID
		r.nextID++
		copied := *a
		r.assignments = append(r.assignments, &copied)
	}
	return nil
}

func (r *fakeFieldingRepo) ReplaceGame(ctx context.Context, exec repositories.SQLExecutor, gameID int, assignments []*models.FieldingAssignment) error {
	kept := r.assignments[:0]
	for _, a := range r.assignments {
		if a.GameID != gameID {
			kept = append(kept, a)
		}
	}
	r.assignments = kept
	for _, a := range assignments {
		a.ID = r.nextID
		r.nextID++
		copied := *a
		r.assignments = append(r.assignments, &copied)
	}
	return nil
}

func (r *fakeFieldingRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.FieldingAssignment, error) {
	out := make([]*models.FieldingAssignment, 0)
	for _, a := range r.assignments {
		game, ok := r.games.games[a.GameID]
		if !ok || game.TeamID != teamID {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeFieldingRepo) Count(ctx context.Context) (int, error) {
	return len(r.assignments), nil
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.CreatedAt = time.Now()
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.EmailConfirmationToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ConfirmEmail(ctx context.Context, id int) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.EmailConfirmed = true
	return nil
}

func (r *fakeUserRepo) SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PasswordResetToken = &token
	user.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id int, status models.UserStatus) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Status = status
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0)
	for _, u := range r.users {
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *fakeUserRepo) Count(ctx context.Context, status *models.UserStatus) (int, error) {
	if status == nil {
		return len(r.users), nil
	}
	n := 0
	for _, u := range r.users {
		if u.Status == *status {
			n++
		}
	}
	return n, nil
}
