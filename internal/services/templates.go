package services

import (
	"context"
	"sort"

	"golang.org/x/sync/singleflight"

	redisclient "github.com/pressgen/pressgen-backend/internal/clients/redis"
	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// ResolvedTemplate is the assembly-ready view of a template: its skeleton
// plus example content. Builtin marks the static-fallback origin.
type ResolvedTemplate struct {
	Key            string
	PromptTemplate string
	ExampleContent string
	Builtin        bool
}

type TemplateService interface {
	// Resolve maps a template key to its active skeleton. A missing key
	// is signaled by ok=false, never by an error: prompt assembly has a
	// defined fallback for it.
	Resolve(ctx context.Context, key string) (*ResolvedTemplate, bool)

	// ListActive returns the templates discoverable by end users.
	ListActive(ctx context.Context) ([]*types.Template, error)
}

type templateService struct {
	log          *logger.Logger
	templateRepo repos.TemplateRepo
	cache        redisclient.TemplateCache
	group        singleflight.Group
}

// NewTemplateService wires the DB-backed resolver. templateRepo and cache
// may be nil; a nil repo degrades to the built-in static table only.
func NewTemplateService(log *logger.Logger, templateRepo repos.TemplateRepo, cache redisclient.TemplateCache) TemplateService {
	return &templateService{
		log:          log.With("service", "TemplateService"),
		templateRepo: templateRepo,
		cache:        cache,
	}
}

func (ts *templateService) Resolve(ctx context.Context, key string) (*ResolvedTemplate, bool) {
	if ts.templateRepo != nil {
		if tpl, ok := ts.lookupStored(ctx, key); ok {
			return tpl, true
		}
	}

	if b, ok := builtinTemplates[key]; ok {
		return &ResolvedTemplate{
			Key:            b.Key,
			PromptTemplate: b.PromptTemplate,
			Builtin:        true,
		}, true
	}
	return nil, false
}

// lookupStored consults cache then Postgres. Concurrent lookups for the
// same key share one DB query.
func (ts *templateService) lookupStored(ctx context.Context, key string) (*ResolvedTemplate, bool) {
	if ts.cache != nil {
		if tpl, ok := ts.cache.Get(ctx, key); ok {
			return fromStored(tpl), true
		}
	}

	v, err, _ := ts.group.Do(key, func() (interface{}, error) {
		return ts.templateRepo.GetActiveByKey(ctx, nil, key)
	})
	if err != nil {
		ts.log.Warn("Template store lookup failed, falling back to builtins", "key", key, "error", err)
		return nil, false
	}

	tpl, _ := v.(*types.Template)
	if tpl == nil {
		return nil, false
	}
	if ts.cache != nil {
		ts.cache.Set(ctx, tpl)
	}
	return fromStored(tpl), true
}

func fromStored(tpl *types.Template) *ResolvedTemplate {
	return &ResolvedTemplate{
		Key:            tpl.Key,
		PromptTemplate: tpl.PromptTemplate,
		ExampleContent: tpl.ExampleContent,
	}
}

func (ts *templateService) ListActive(ctx context.Context) ([]*types.Template, error) {
	if ts.templateRepo == nil {
		return builtinAsStored(), nil
	}
	tpls, err := ts.templateRepo.List(ctx, nil, true)
	if err != nil {
		ts.log.Warn("Template list failed, serving builtins", "error", err)
		return builtinAsStored(), nil
	}
	return tpls, nil
}

func builtinAsStored() []*types.Template {
	out := make([]*types.Template, 0, len(builtinTemplates))
	for _, b := range builtinTemplates {
		out = append(out, &types.Template{
			Key:            b.Key,
			Name:           b.Name,
			PromptTemplate: b.PromptTemplate,
			Status:         types.TemplateStatusActive,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
