package repos

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique per-test name: a plain :memory: DSN gives every pooled
	// connection its own empty database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// The models declare uuid_generate_v4() column defaults, which only
	// Postgres can evaluate; sqlite test schemas are created by hand and
	// tests always assign IDs explicitly.
	ddl := []string{
		`CREATE TABLE user (
			id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password TEXT NOT NULL,
			display_name TEXT, role TEXT NOT NULL DEFAULT 'user',
			status TEXT NOT NULL DEFAULT 'active', created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE user_token (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, refresh_token TEXT NOT NULL,
			expires_at DATETIME NOT NULL, revoked_at DATETIME, created_at DATETIME)`,
		`CREATE TABLE template (
			id TEXT PRIMARY KEY, key TEXT NOT NULL UNIQUE, name TEXT NOT NULL,
			description TEXT, prompt_template TEXT NOT NULL, example_content TEXT,
			status TEXT NOT NULL DEFAULT 'active', created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE article (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, template_key TEXT NOT NULL,
			title TEXT, content TEXT, form_data TEXT, created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE feedback (
			id TEXT PRIMARY KEY, user_id TEXT NOT NULL, rating INTEGER NOT NULL,
			content TEXT, status TEXT NOT NULL DEFAULT 'open', created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE audit_log (
			id TEXT PRIMARY KEY, actor_id TEXT NOT NULL, action TEXT NOT NULL,
			entity TEXT NOT NULL, entity_id TEXT, detail TEXT, created_at DATETIME)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func TestTemplateRepo_GetActiveByKey(t *testing.T) {
	db := openTestDB(t)
	repo := NewTemplateRepo(db, logger.NewNop())
	ctx := context.Background()

	active := &types.Template{
		ID:             uuid.New(),
		Key:            "meeting",
		Name:           "会议纪要",
		PromptTemplate: "skeleton {title}",
		Status:         types.TemplateStatusActive,
	}
	inactive := &types.Template{
		ID:             uuid.New(),
		Key:            "training",
		Name:           "培训活动",
		PromptTemplate: "skeleton",
		Status:         types.TemplateStatusInactive,
	}
	for _, tpl := range []*types.Template{active, inactive} {
		if _, err := repo.Create(ctx, nil, tpl); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.GetActiveByKey(ctx, nil, "meeting")
	if err != nil {
		t.Fatalf("GetActiveByKey: %v", err)
	}
	if got == nil || got.ID != active.ID {
		t.Fatalf("got=%+v", got)
	}

	// Inactive template behaves like a miss.
	got, err = repo.GetActiveByKey(ctx, nil, "training")
	if err != nil {
		t.Fatalf("GetActiveByKey inactive: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive returned: %+v", got)
	}

	// Missing key is (nil, nil), not an error.
	got, err = repo.GetActiveByKey(ctx, nil, "nonexistent")
	if err != nil || got != nil {
		t.Fatalf("miss: got=%+v err=%v", got, err)
	}
}

func TestTemplateRepo_ListFiltersActive(t *testing.T) {
	db := openTestDB(t)
	repo := NewTemplateRepo(db, logger.NewNop())
	ctx := context.Background()

	for i, status := range []string{types.TemplateStatusActive, types.TemplateStatusInactive} {
		tpl := &types.Template{
			ID:             uuid.New(),
			Key:            []string{"a", "b"}[i],
			Name:           "n",
			PromptTemplate: "p",
			Status:         status,
		}
		if _, err := repo.Create(ctx, nil, tpl); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List(ctx, nil, false)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all=%d", len(all))
	}

	active, err := repo.List(ctx, nil, true)
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(active) != 1 || active[0].Key != "a" {
		t.Fatalf("active=%+v", active)
	}
}

func TestUserRepo_EmailLookups(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db, logger.NewNop())
	ctx := context.Background()

	user := &types.User{
		ID:       uuid.New(),
		Email:    "a@example.com",
		Password: "hash",
		Role:     types.UserRoleUser,
		Status:   types.UserStatusActive,
	}
	if _, err := repo.Create(ctx, nil, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := repo.EmailExists(ctx, nil, "a@example.com")
	if err != nil || !exists {
		t.Fatalf("exists=%v err=%v", exists, err)
	}
	exists, err = repo.EmailExists(ctx, nil, "b@example.com")
	if err != nil || exists {
		t.Fatalf("exists=%v err=%v", exists, err)
	}

	got, err := repo.GetByEmail(ctx, nil, "b@example.com")
	if err != nil || got != nil {
		t.Fatalf("miss: got=%+v err=%v", got, err)
	}
}

func TestUserTokenRepo_Revocation(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserTokenRepo(db, logger.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	first := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	second := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	for _, tok := range []*types.UserToken{first, second} {
		if _, err := repo.Create(ctx, nil, tok); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := repo.Revoke(ctx, nil, first.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got, err := repo.GetByID(ctx, nil, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.RevokedAt == nil {
		t.Fatal("first token not revoked")
	}

	if err := repo.RevokeAllForUser(ctx, nil, userID); err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	got, err = repo.GetByID(ctx, nil, second.ID)
	if err != nil {
		t.Fatalf("GetByID second: %v", err)
	}
	if got.RevokedAt == nil {
		t.Fatal("second token not revoked")
	}
}

func TestArticleRepo_ScopedDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepo(db, logger.NewNop())
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()
	article := &types.Article{
		ID:          uuid.New(),
		UserID:      owner,
		TemplateKey: "meeting",
		Content:     "body",
	}
	if _, err := repo.Create(ctx, nil, article); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A delete by someone else must not remove the row.
	if err := repo.Delete(ctx, nil, article.ID, intruder); err != nil {
		t.Fatalf("Delete intruder: %v", err)
	}
	mine, err := repo.ListByUser(ctx, nil, owner, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("article deleted by non-owner, len=%d", len(mine))
	}

	if err := repo.Delete(ctx, nil, article.ID, owner); err != nil {
		t.Fatalf("Delete owner: %v", err)
	}
	mine, err = repo.ListByUser(ctx, nil, owner, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("len=%d", len(mine))
	}
}

func TestArticleRepo_ListOrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepo(db, logger.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		a := &types.Article{
			ID:          uuid.New(),
			UserID:      userID,
			TemplateKey: "meeting",
			Title:       string(rune('a' + i)),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(ctx, nil, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListByUser(ctx, nil, userID, 2)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Title != "c" || got[1].Title != "b" {
		t.Fatalf("order=%s,%s", got[0].Title, got[1].Title)
	}
}
