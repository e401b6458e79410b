package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// fakeTemplateRepo serves a fixed map, optionally failing every call.
type fakeTemplateRepo struct {
	byKey map[string]*types.Template
	fail  bool
	calls int
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error) {
	return tpl, nil
}
func (f *fakeTemplateRepo) Update(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error) {
	return tpl, nil
}
func (f *fakeTemplateRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error { return nil }
func (f *fakeTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Template, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTemplateRepo) GetActiveByKey(ctx context.Context, tx *gorm.DB, key string) (*types.Template, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("db down")
	}
	return f.byKey[key], nil
}
func (f *fakeTemplateRepo) List(ctx context.Context, tx *gorm.DB, onlyActive bool) ([]*types.Template, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	out := make([]*types.Template, 0, len(f.byKey))
	for _, tpl := range f.byKey {
		out = append(out, tpl)
	}
	return out, nil
}

func TestResolve_PrefersStoredTemplate(t *testing.T) {
	repo := &fakeTemplateRepo{byKey: map[string]*types.Template{
		"meeting": {Key: "meeting", PromptTemplate: "custom {title}", ExampleContent: "ex"},
	}}
	ts := NewTemplateService(logger.NewNop(), repo, nil)

	tpl, ok := ts.Resolve(context.Background(), "meeting")
	if !ok {
		t.Fatal("resolve failed")
	}
	if tpl.Builtin {
		t.Fatal("stored template marked builtin")
	}
	if tpl.PromptTemplate != "custom {title}" || tpl.ExampleContent != "ex" {
		t.Fatalf("tpl=%+v", tpl)
	}
}

func TestResolve_DBMissFallsBackToBuiltin(t *testing.T) {
	repo := &fakeTemplateRepo{byKey: map[string]*types.Template{}}
	ts := NewTemplateService(logger.NewNop(), repo, nil)

	for _, key := range []string{"meeting", "training", "inspection", "bid_winning", "project_progress", "innovation"} {
		tpl, ok := ts.Resolve(context.Background(), key)
		if !ok {
			t.Fatalf("builtin %s not resolved", key)
		}
		if !tpl.Builtin {
			t.Fatalf("%s not marked builtin", key)
		}
		if tpl.PromptTemplate == "" {
			t.Fatalf("%s has empty skeleton", key)
		}
	}
}

func TestResolve_DBErrorFallsBackToBuiltin(t *testing.T) {
	repo := &fakeTemplateRepo{fail: true}
	ts := NewTemplateService(logger.NewNop(), repo, nil)

	tpl, ok := ts.Resolve(context.Background(), "meeting")
	if !ok || !tpl.Builtin {
		t.Fatalf("tpl=%+v ok=%v", tpl, ok)
	}
}

func TestResolve_UnknownKeyNowhere(t *testing.T) {
	repo := &fakeTemplateRepo{byKey: map[string]*types.Template{}}
	ts := NewTemplateService(logger.NewNop(), repo, nil)

	if tpl, ok := ts.Resolve(context.Background(), "nonexistent"); ok || tpl != nil {
		t.Fatalf("tpl=%+v ok=%v", tpl, ok)
	}
}

func TestResolve_NilRepoServesBuiltinsOnly(t *testing.T) {
	ts := NewTemplateService(logger.NewNop(), nil, nil)

	if _, ok := ts.Resolve(context.Background(), "meeting"); !ok {
		t.Fatal("builtin not resolved with nil repo")
	}
	if _, ok := ts.Resolve(context.Background(), "nonexistent"); ok {
		t.Fatal("unknown key resolved")
	}
}

func TestListActive_DBErrorServesBuiltins(t *testing.T) {
	ts := NewTemplateService(logger.NewNop(), &fakeTemplateRepo{fail: true}, nil)

	tpls, err := ts.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(tpls) != len(builtinTemplates) {
		t.Fatalf("len=%d want=%d", len(tpls), len(builtinTemplates))
	}
	for i := 1; i < len(tpls); i++ {
		if tpls[i-1].Key > tpls[i].Key {
			t.Fatalf("builtin list not sorted: %s > %s", tpls[i-1].Key, tpls[i].Key)
		}
	}
}
