package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/requestdata"
	"github.com/pressgen/pressgen-backend/internal/types"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Hand-written schema: the uuid_generate_v4() defaults in the model
	// tags are Postgres-only, and the auth service assigns IDs itself.
	ddl := []string{
		`CREATE TABLE user (
			id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password TEXT NOT NULL,
			display_name TEXT, role TEXT NOT NULL DEFAULT 'user',
			status TEXT NOT NULL DEFAULT 'active', created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE user_token (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, refresh_token TEXT NOT NULL,
			expires_at DATETIME NOT NULL, revoked_at DATETIME, created_at DATETIME)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	log := logger.NewNop()
	return NewAuthService(db, log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		"test-secret", time.Hour, 24*time.Hour)
}

func TestAuth_RegisterLoginRoundTrip(t *testing.T) {
	as := newTestAuthService(t)
	ctx := context.Background()

	user, err := as.RegisterUser(ctx, "User@Example.com", "password123", "张三")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "password123" {
		t.Fatal("password stored in plaintext")
	}

	access, refresh, err := as.LoginUser(ctx, "user@example.com", "password123")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty tokens")
	}

	authedCtx, err := as.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := requestdata.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("rd=%+v", rd)
	}
	if rd.Role != types.UserRoleUser {
		t.Fatalf("role=%q", rd.Role)
	}
}

func TestAuth_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	as := newTestAuthService(t)
	ctx := context.Background()

	if _, err := as.RegisterUser(ctx, "a@example.com", "password123", ""); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	_, _, errWrong := as.LoginUser(ctx, "a@example.com", "nope-nope")
	_, _, errUnknown := as.LoginUser(ctx, "missing@example.com", "password123")
	if errWrong == nil || errUnknown == nil {
		t.Fatal("expected both logins to fail")
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("messages differ: %q vs %q", errWrong, errUnknown)
	}
}

func TestAuth_DuplicateEmailRejected(t *testing.T) {
	as := newTestAuthService(t)
	ctx := context.Background()

	if _, err := as.RegisterUser(ctx, "a@example.com", "password123", ""); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := as.RegisterUser(ctx, "a@example.com", "password456", ""); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestAuth_RefreshRotatesSession(t *testing.T) {
	as := newTestAuthService(t)
	ctx := context.Background()

	if _, err := as.RegisterUser(ctx, "a@example.com", "password123", ""); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, refresh, err := as.LoginUser(ctx, "a@example.com", "password123")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	authedCtx, err := as.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}

	_, newRefresh, err := as.RefreshUser(authedCtx, refresh)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if newRefresh == refresh {
		t.Fatal("refresh token not rotated")
	}

	// The old refresh token is revoked; a replay must fail.
	if _, _, err := as.RefreshUser(authedCtx, refresh); err == nil {
		t.Fatal("replayed refresh token accepted")
	}
}

func TestAuth_LogoutRevokesSession(t *testing.T) {
	as := newTestAuthService(t)
	ctx := context.Background()

	if _, err := as.RegisterUser(ctx, "a@example.com", "password123", ""); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, refresh, err := as.LoginUser(ctx, "a@example.com", "password123")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	authedCtx, err := as.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}

	if err := as.LogoutUser(authedCtx); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, _, err := as.RefreshUser(authedCtx, refresh); err == nil {
		t.Fatal("refresh accepted after logout")
	}
}

func TestAuth_RejectsTamperedToken(t *testing.T) {
	as := newTestAuthService(t)
	ctx := context.Background()

	if _, err := as.RegisterUser(ctx, "a@example.com", "password123", ""); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, _, err := as.LoginUser(ctx, "a@example.com", "password123")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	tampered := access[:len(access)-2] + "xx"
	if _, err := as.SetContextFromToken(ctx, tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
}
