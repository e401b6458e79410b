package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/pressgen/pressgen-backend/internal/clients/redis"
	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/requestdata"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// TemplateInput is the admin-facing create/update payload.
type TemplateInput struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptTemplate string `json:"prompt_template"`
	ExampleContent string `json:"example_content"`
	Status         string `json:"status"`
}

// AdminService covers the management surface: template CRUD, user
// administration, feedback triage and the audit trail. Every mutation
// writes an audit row inside the same transaction.
type AdminService interface {
	CreateTemplate(ctx context.Context, in *TemplateInput) (*types.Template, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, in *TemplateInput) (*types.Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	ListTemplates(ctx context.Context) ([]*types.Template, error)

	ListUsers(ctx context.Context) ([]*types.User, error)
	SetUserStatus(ctx context.Context, userID uuid.UUID, status string) error

	ListFeedback(ctx context.Context, status string) ([]*types.Feedback, error)
	ResolveFeedback(ctx context.Context, id uuid.UUID) error

	ListAuditLogs(ctx context.Context, limit int) ([]*types.AuditLog, error)
}

type adminService struct {
	db            *gorm.DB
	log           *logger.Logger
	templateRepo  repos.TemplateRepo
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	feedbackRepo  repos.FeedbackRepo
	auditLogRepo  repos.AuditLogRepo
	cache         redisclient.TemplateCache
}

func NewAdminService(
	db *gorm.DB,
	log *logger.Logger,
	templateRepo repos.TemplateRepo,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	feedbackRepo repos.FeedbackRepo,
	auditLogRepo repos.AuditLogRepo,
	cache redisclient.TemplateCache,
) AdminService {
	return &adminService{
		db:            db,
		log:           log.With("service", "AdminService"),
		templateRepo:  templateRepo,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		feedbackRepo:  feedbackRepo,
		auditLogRepo:  auditLogRepo,
		cache:         cache,
	}
}

func validateTemplateInput(in *TemplateInput) error {
	if strings.TrimSpace(in.Key) == "" {
		return fmt.Errorf("template key is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("template name is required")
	}
	if strings.TrimSpace(in.PromptTemplate) == "" {
		return fmt.Errorf("prompt template is required")
	}
	if in.Status != "" && in.Status != types.TemplateStatusActive && in.Status != types.TemplateStatusInactive {
		return fmt.Errorf("invalid status %q", in.Status)
	}
	return nil
}

func (s *adminService) CreateTemplate(ctx context.Context, in *TemplateInput) (*types.Template, error) {
	if err := validateTemplateInput(in); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = types.TemplateStatusActive
	}
	tpl := &types.Template{
		ID:             uuid.New(),
		Key:            strings.TrimSpace(in.Key),
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		PromptTemplate: in.PromptTemplate,
		ExampleContent: in.ExampleContent,
		Status:         status,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.templateRepo.Create(ctx, tx, tpl); err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		return s.audit(ctx, tx, "template.create", "template", tpl.ID.String(), map[string]string{"key": tpl.Key})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, tpl.Key)
	return tpl, nil
}

func (s *adminService) UpdateTemplate(ctx context.Context, id uuid.UUID, in *TemplateInput) (*types.Template, error) {
	if err := validateTemplateInput(in); err != nil {
		return nil, err
	}
	var updated *types.Template
	var oldKey string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tpl, err := s.templateRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load template: %w", err)
		}
		oldKey = tpl.Key
		tpl.Key = strings.TrimSpace(in.Key)
		tpl.Name = strings.TrimSpace(in.Name)
		tpl.Description = in.Description
		tpl.PromptTemplate = in.PromptTemplate
		tpl.ExampleContent = in.ExampleContent
		if in.Status != "" {
			tpl.Status = in.Status
		}
		if _, err := s.templateRepo.Update(ctx, tx, tpl); err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}
		updated = tpl
		return s.audit(ctx, tx, "template.update", "template", id.String(), map[string]string{"key": tpl.Key})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, oldKey)
	if updated.Key != oldKey {
		s.invalidate(ctx, updated.Key)
	}
	return updated, nil
}

func (s *adminService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	var key string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tpl, err := s.templateRepo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load template: %w", err)
		}
		key = tpl.Key
		if err := s.templateRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		return s.audit(ctx, tx, "template.delete", "template", id.String(), map[string]string{"key": key})
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *adminService) ListTemplates(ctx context.Context) ([]*types.Template, error) {
	return s.templateRepo.List(ctx, nil, false)
}

func (s *adminService) ListUsers(ctx context.Context) ([]*types.User, error) {
	return s.userRepo.List(ctx, nil)
}

// SetUserStatus flips a user between active and disabled. Disabling also
// revokes every open session so the lockout is immediate at the next
// token refresh.
func (s *adminService) SetUserStatus(ctx context.Context, userID uuid.UUID, status string) error {
	if status != types.UserStatusActive && status != types.UserStatusDisabled {
		return fmt.Errorf("invalid status %q", status)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd != nil && rd.UserID == userID && status == types.UserStatusDisabled {
		return fmt.Errorf("cannot disable own account")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateStatus(ctx, tx, userID, status); err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}
		if status == types.UserStatusDisabled {
			if err := s.userTokenRepo.RevokeAllForUser(ctx, tx, userID); err != nil {
				return fmt.Errorf("failed to revoke user sessions: %w", err)
			}
		}
		return s.audit(ctx, tx, "user.set_status", "user", userID.String(), map[string]string{"status": status})
	})
}

func (s *adminService) ListFeedback(ctx context.Context, status string) ([]*types.Feedback, error) {
	return s.feedbackRepo.List(ctx, nil, status)
}

func (s *adminService) ResolveFeedback(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.feedbackRepo.UpdateStatus(ctx, tx, id, types.FeedbackStatusResolved); err != nil {
			return fmt.Errorf("failed to resolve feedback: %w", err)
		}
		return s.audit(ctx, tx, "feedback.resolve", "feedback", id.String(), nil)
	})
}

func (s *adminService) ListAuditLogs(ctx context.Context, limit int) ([]*types.AuditLog, error) {
	return s.auditLogRepo.List(ctx, nil, limit)
}

func (s *adminService) audit(ctx context.Context, tx *gorm.DB, action, entity, entityID string, detail map[string]string) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no actor in context for audit entry")
	}
	entry := &types.AuditLog{
		ActorID:  rd.UserID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if detail != nil {
		b, err := json.Marshal(detail)
		if err == nil {
			entry.Detail = datatypes.JSON(b)
		}
	}
	if _, err := s.auditLogRepo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

func (s *adminService) invalidate(ctx context.Context, key string) {
	if s.cache == nil || key == "" {
		return
	}
	s.cache.Invalidate(ctx, key)
}
