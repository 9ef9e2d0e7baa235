package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/storage"
)

// fakeUploader пишет ключи в память вместо R2.
type fakeUploader struct {
	stored  map[string]string // key -> content type
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: make(map[string]string)}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.stored[key] = contentType
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	delete(u.stored, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestCreateTeam(t *testing.T) {
	teams := newFakeTeamRepo()
	svc := NewTeamService(teams, nil)
	ctx := context.Background()

	league := "Spring League"
	team, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "  Dragons  ", League: &league}, testCoachID)
	if err != nil {
		t.Fatalf("CreateTeam() error = %v", err)
	}
	if team.Name != "Dragons" {
		t.Errorf("name = %q, want trimmed %q", team.Name, "Dragons")
	}
	if team.League != league {
		t.Errorf("league = %q, want %q", team.League, league)
	}
	if team.UserID != testCoachID {
		t.Errorf("owner = %d, want %d", team.UserID, testCoachID)
	}

	if _, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "   "}, testCoachID); !errors.Is(err, ErrTeamNameRequired) {
		t.Fatalf("blank name: error = %v, want ErrTeamNameRequired", err)
	}
}

func TestUpdateTeamPartial(t *testing.T) {
	teams := newFakeTeamRepo()
	team := teams.add(&models.Team{UserID: testCoachID, Name: "Dragons", League: "Spring"})
	svc := NewTeamService(teams, nil)
	ctx := context.Background()

	coach := "Ivan Petrov"
	updated, err := svc.UpdateTeam(ctx, team.ID, UpdateTeamInput{HeadCoach: &coach}, testCoachID)
	if err != nil {
		t.Fatalf("UpdateTeam() error = %v", err)
	}
	// Не переданные поля не трогаем.
	if updated.Name != "Dragons" || updated.League != "Spring" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.HeadCoach != coach {
		t.Errorf("head coach = %q, want %q", updated.HeadCoach, coach)
	}

	blank := "  "
	if _, err := svc.UpdateTeam(ctx, team.ID, UpdateTeamInput{Name: &blank}, testCoachID); !errors.Is(err, ErrTeamNameRequired) {
		t.Fatalf("blank name: error = %v, want ErrTeamNameRequired", err)
	}
	if _, err := svc.UpdateTeam(ctx, team.ID, UpdateTeamInput{}, testOtherID); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("foreign coach: error = %v, want ErrForbiddenOperation", err)
	}
}

func TestListMyTeamsScopedToOwner(t *testing.T) {
	teams := newFakeTeamRepo()
	teams.add(&models.Team{UserID: testCoachID, Name: "Dragons"})
	teams.add(&models.Team{UserID: testOtherID, Name: "Tigers"})
	svc := NewTeamService(teams, nil)

	mine, err := svc.ListMyTeams(context.Background(), testCoachID)
	if err != nil {
		t.Fatalf("ListMyTeams() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Dragons" {
		t.Fatalf("got %+v, want only own team", mine)
	}
}

func TestUploadTeamLogoReplacesOldKey(t *testing.T) {
	teams := newFakeTeamRepo()
	uploader := newFakeUploader()
	oldKey := "team_logos/1/logo_old.png"
	uploader.stored[oldKey] = "image/png"
	team := teams.add(&models.Team{UserID: testCoachID, Name: "Dragons", LogoKey: &oldKey})

	svc := NewTeamService(teams, uploader)
	updated, err := svc.UploadTeamLogo(context.Background(), team.ID, testCoachID, strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("UploadTeamLogo() error = %v", err)
	}
	if updated.LogoKey == nil || *updated.LogoKey == oldKey {
		t.Fatalf("logo key not replaced: %v", updated.LogoKey)
	}
	if _, ok := uploader.stored[*updated.LogoKey]; !ok {
		t.Fatal("new logo missing from storage")
	}
	// Старый объект подчищен.
	if _, ok := uploader.stored[oldKey]; ok {
		t.Fatal("old logo left in storage")
	}
	if updated.LogoURL == nil || !strings.Contains(*updated.LogoURL, *updated.LogoKey) {
		t.Fatalf("logo URL = %v, want public URL of new key", updated.LogoURL)
	}
}

func TestUploadTeamLogoWithoutStorage(t *testing.T) {
	teams := newFakeTeamRepo()
	team := teams.add(&models.Team{UserID: testCoachID, Name: "Dragons"})
	svc := NewTeamService(teams, nil)

	if _, err := svc.UploadTeamLogo(context.Background(), team.ID, testCoachID, strings.NewReader("x"), "image/png"); err == nil {
		t.Fatal("expected error when storage is not configured")
	}
}

func TestGetExtensionFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
		wantErr     bool
	}{
		{"image/jpeg", ".jpg", false},
		{"image/png", ".png", false},
		{"image/webp", ".webp", false},
		{"image/svg+xml", ".svg", false},
		{"application/pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := GetExtensionFromContentType(tt.contentType)
		if tt.wantErr {
			if err == nil {
				t.Errorf("GetExtensionFromContentType(%q) expected error", tt.contentType)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("GetExtensionFromContentType(%q) = %q, %v; want %q", tt.contentType, got, err, tt.want)
		}
	}
}
