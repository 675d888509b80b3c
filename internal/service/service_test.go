package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/mocks"
	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/validation"
)

func newTestAssets(t *testing.T) *assets.Manager {
	t.Helper()
	store, err := assets.NewManager(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create asset manager: %v", err)
	}
	return store
}

func fileExists(t *testing.T, store *assets.Manager, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(store.Dir(), name))
	return err == nil
}

func validArticleInput() validation.ArticleInput {
	return validation.ArticleInput{
		Title:    "Nueva ley aprobada",
		Category: "POLITICA",
		Content:  "El congreso aprobó la ley.",
	}
}

func TestArticleCreateDefaultsAuthor(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newArticleService(repo, newTestAssets(t), zerolog.Nop())

	article, err := svc.Create(context.Background(), validArticleInput(), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if article.Author != models.DefaultAuthor {
		t.Errorf("expected default author %q, got %q", models.DefaultAuthor, article.Author)
	}
	if article.ID == 0 {
		t.Error("expected a persisted ID")
	}
}

func TestArticleCreateRejectsInvalidCategory(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newArticleService(repo, newTestAssets(t), zerolog.Nop())

	input := validArticleInput()
	input.Category = "DEPORTES"
	_, err := svc.Create(context.Background(), input, nil)

	var verrs validation.Errors
	if !errors.As(err, &verrs) || !verrs.Has("category") {
		t.Fatalf("expected a category validation error, got %v", err)
	}
}

func TestArticleCreateWithImage(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	store := newTestAssets(t)
	svc := newArticleService(repo, store, zerolog.Nop())

	article, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("imagebytes"),
		Filename: "portada.jpg",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !article.HasImage() {
		t.Fatal("expected the article to reference an image")
	}
	if !fileExists(t, store, *article.ImageFilename) {
		t.Errorf("stored image %q missing on disk", *article.ImageFilename)
	}
}

func TestArticleCreateRejectsBadExtension(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newArticleService(repo, newTestAssets(t), zerolog.Nop())

	_, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("x"),
		Filename: "script.exe",
	})
	if !errors.Is(err, assets.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if count, _ := repo.Count(context.Background()); count != 0 {
		t.Errorf("expected no article rows, got %d", count)
	}
}

func TestArticleCreateCleansUpImageOnInsertFailure(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	store := newTestAssets(t)
	svc := newArticleService(repo, store, zerolog.Nop())

	repo.FailWith = errors.New("db down")
	_, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("imagebytes"),
		Filename: "portada.png",
	})
	if err == nil {
		t.Fatal("expected an error")
	}

	entries, readErr := os.ReadDir(store.Dir())
	if readErr != nil {
		t.Fatalf("failed to read upload dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("expected the stored image to be cleaned up, found %d files", len(entries))
	}
}

func TestArticleUpdateNotFound(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newArticleService(repo, newTestAssets(t), zerolog.Nop())

	_, err := svc.Update(context.Background(), 42, validArticleInput(), nil, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArticleUpdateDeleteImage(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	store := newTestAssets(t)
	svc := newArticleService(repo, store, zerolog.Nop())

	created, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("imagebytes"),
		Filename: "portada.jpg",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	imageName := *created.ImageFilename

	updated, err := svc.Update(context.Background(), created.ID, validArticleInput(), nil, true)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.HasImage() {
		t.Error("expected the image reference to be cleared")
	}
	if fileExists(t, store, imageName) {
		t.Errorf("expected image file %q to be removed", imageName)
	}
}

func TestArticleUpdateReplacesImage(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	store := newTestAssets(t)
	svc := newArticleService(repo, store, zerolog.Nop())

	created, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("old"),
		Filename: "vieja.png",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	oldName := *created.ImageFilename

	updated, err := svc.Update(context.Background(), created.ID, validArticleInput(), &Upload{
		File:     strings.NewReader("new"),
		Filename: "nueva.png",
	}, false)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.HasImage() || *updated.ImageFilename == oldName {
		t.Fatal("expected a new image reference")
	}
	if fileExists(t, store, oldName) {
		t.Errorf("expected old image %q to be removed", oldName)
	}
	if !fileExists(t, store, *updated.ImageFilename) {
		t.Errorf("expected new image %q on disk", *updated.ImageFilename)
	}
}

func TestArticleUpdateRejectsBadExtensionBeforeTouchingImage(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	store := newTestAssets(t)
	svc := newArticleService(repo, store, zerolog.Nop())

	created, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("old"),
		Filename: "vieja.png",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(context.Background(), created.ID, validArticleInput(), &Upload{
		File:     strings.NewReader("x"),
		Filename: "script.exe",
	}, false)
	if !errors.Is(err, assets.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if !fileExists(t, store, *created.ImageFilename) {
		t.Error("the existing image must survive a rejected replacement")
	}
}

func TestArticleDeleteRemovesImage(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	store := newTestAssets(t)
	svc := newArticleService(repo, store, zerolog.Nop())

	created, err := svc.Create(context.Background(), validArticleInput(), &Upload{
		File:     strings.NewReader("imagebytes"),
		Filename: "portada.gif",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	imageName := *created.ImageFilename

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if fileExists(t, store, imageName) {
		t.Errorf("expected image %q to be removed with the article", imageName)
	}
}

func TestArticleListByCategoryNewestFirstWithLimit(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newArticleService(repo, newTestAssets(t), zerolog.Nop())

	base := time.Now()
	for i := 0; i < 6; i++ {
		article := &models.Article{
			Title:     "Noticia",
			Category:  models.CategoryOpinion,
			Content:   "x",
			Author:    models.DefaultAuthor,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), article); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	articles, err := svc.ListByCategory(context.Background(), models.CategoryOpinion, 4)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(articles) != 4 {
		t.Fatalf("expected 4 articles, got %d", len(articles))
	}
	for i := 1; i < len(articles); i++ {
		if articles[i].CreatedAt.After(articles[i-1].CreatedAt) {
			t.Fatal("articles are not ordered newest first")
		}
	}
}

func seedUser(t *testing.T, repo *mocks.MockUserRepository, username, password string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hash), IsAdmin: isAdmin}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func testConfig() *config.Config {
	return &config.Config{
		Admin: config.AdminConfig{Username: "admin", Password: "secreto123"},
	}
}

func TestAuthenticate(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	seedUser(t, repo, "admin", "secreto123", true)
	seedUser(t, repo, "editor", "secreto123", false)
	svc := newAuthService(repo, testConfig(), zerolog.Nop())

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid admin login", username: "admin", password: "secreto123"},
		{name: "wrong password", username: "admin", password: "incorrecta", wantErr: ErrInvalidCredentials},
		{name: "unknown username", username: "nadie", password: "secreto123", wantErr: ErrInvalidCredentials},
		{name: "non-admin account", username: "editor", password: "secreto123", wantErr: ErrInvalidCredentials},
		{name: "blank credentials", username: "", password: "", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(context.Background(), validation.LoginInput{
				Username: tt.username,
				Password: tt.password,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && (user == nil || user.Username != tt.username) {
				t.Errorf("expected user %q, got %+v", tt.username, user)
			}
		})
	}
}

func TestBootstrapCreatesFirstAdmin(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	svc := newAuthService(repo, testConfig(), zerolog.Nop())

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	user, err := repo.GetByUsername(context.Background(), "admin")
	if err != nil || user == nil {
		t.Fatalf("expected the bootstrap administrator to exist, got %v, %v", user, err)
	}
	if !user.IsAdmin {
		t.Error("bootstrap account must be an administrator")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto123")) != nil {
		t.Error("bootstrap password hash does not match the configured password")
	}
}

func TestBootstrapSkipsWhenUsersExist(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	seedUser(t, repo, "existente", "secreto123", true)
	svc := newAuthService(repo, testConfig(), zerolog.Nop())

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if count, _ := repo.Count(context.Background()); count != 1 {
		t.Errorf("expected 1 user after bootstrap on a populated store, got %d", count)
	}
}

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	seedUser(t, repo, "editor", "secreto123", false)
	svc := newUserService(repo, zerolog.Nop())

	_, err := svc.Create(context.Background(), validation.UserInput{
		Username:        "editor",
		Password:        "secreto123",
		ConfirmPassword: "secreto123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserUpdateKeepsPasswordWhenBlank(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	user := seedUser(t, repo, "editor", "secreto123", false)
	svc := newUserService(repo, zerolog.Nop())

	updated, err := svc.Update(context.Background(), user.ID, validation.UserInput{
		Username: "redactor",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "redactor" {
		t.Errorf("expected username to change, got %q", updated.Username)
	}
	if updated.PasswordHash != user.PasswordHash {
		t.Error("a blank password must keep the existing hash")
	}
}

func TestUserUpdateRejectsDemotingLastAdmin(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	admin := seedUser(t, repo, "admin", "secreto123", true)
	svc := newUserService(repo, zerolog.Nop())

	_, err := svc.Update(context.Background(), admin.ID, validation.UserInput{
		Username: "admin",
		IsAdmin:  false,
	})
	if !errors.Is(err, ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
}

func TestUserDeleteGuards(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	admin := seedUser(t, repo, "admin", "secreto123", true)
	other := seedUser(t, repo, "otro", "secreto123", true)
	svc := newUserService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), admin.ID, admin.ID); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("expected ErrSelfDelete, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), admin.ID, other.ID); err != nil {
		t.Fatalf("deleting a spare administrator failed: %v", err)
	}
	// admin is now the only administrator left
	third := seedUser(t, repo, "nuevo", "secreto123", false)
	if err := svc.Delete(context.Background(), third.ID, admin.ID); !errors.Is(err, ErrLastAdmin) {
		t.Errorf("expected ErrLastAdmin, got %v", err)
	}
}

func TestMessageSubmitAndModeration(t *testing.T) {
	repo := mocks.NewMockMessageRepository()
	svc := newMessageService(repo, zerolog.Nop())

	message, err := svc.Submit(context.Background(), validation.ContactInput{
		Name:    "Juan",
		Email:   "juan@example.com",
		Subject: "Hola",
		Message: "Un mensaje",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if message.Read {
		t.Error("a new message must start unread")
	}

	if err := svc.MarkRead(context.Background(), message.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	stored, err := repo.GetByID(context.Background(), message.ID)
	if err != nil || stored == nil {
		t.Fatalf("failed to reload message: %v", err)
	}
	if !stored.Read {
		t.Error("expected the message to be marked read")
	}

	if err := svc.Delete(context.Background(), message.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), message.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestMessageSubmitRejectsInvalidInput(t *testing.T) {
	repo := mocks.NewMockMessageRepository()
	svc := newMessageService(repo, zerolog.Nop())

	_, err := svc.Submit(context.Background(), validation.ContactInput{Email: "mal"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"name", "email", "message"} {
		if !verrs.Has(field) {
			t.Errorf("expected an error for field %q", field)
		}
	}
	if count, _ := repo.Count(context.Background()); count != 0 {
		t.Errorf("expected no stored messages, got %d", count)
	}
}
