package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/replyhub/replyhub-backend/pkg/db/models"
	pkgerrors "github.com/replyhub/replyhub-backend/pkg/errors"
)

type rulesRepository interface {
	ListAll(ctx context.Context) ([]models.ReplyRule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReplyRule, error)
	Save(ctx context.Context, rule *models.ReplyRule) error
}

// Service exposes reply-rule operations. The list is operator/admin only and
// the detail operations are store-scoped; both gates run in the caller.
type Service interface {
	List(ctx context.Context) ([]RuleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RuleDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRuleRequest) (*RuleDTO, error)
	StoreCodeOf(ctx context.Context, id uuid.UUID) (string, error)
}

type service struct {
	repo rulesRepository
}

// NewService builds a rules service with the provided repository.
func NewService(repo rulesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rules repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]RuleDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reply rules")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RuleDTO, error) {
	rule, err := s.loadRule(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(rule), nil
}

// Update applies a partial patch to one rule. Only the fields present in the
// request change; the separate greeting/rating/tone forms each send their own
// subset.
func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRuleRequest) (*RuleDTO, error) {
	rule, err := s.loadRule(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GreetingStart != nil {
		rule.GreetingStart = *req.GreetingStart
	}
	if req.GreetingEnd != nil {
		rule.GreetingEnd = *req.GreetingEnd
	}
	if req.Rating1Reply != nil {
		rule.Rating1Reply = *req.Rating1Reply
	}
	if req.Rating2Reply != nil {
		rule.Rating2Reply = *req.Rating2Reply
	}
	if req.Rating3Reply != nil {
		rule.Rating3Reply = *req.Rating3Reply
	}
	if req.Rating4Reply != nil {
		rule.Rating4Reply = *req.Rating4Reply
	}
	if req.Rating5Reply != nil {
		rule.Rating5Reply = *req.Rating5Reply
	}
	if req.Tone != nil {
		rule.Tone = *req.Tone
	}
	if req.ProhibitedWords != nil {
		words := make(pq.StringArray, len(req.ProhibitedWords))
		copy(words, req.ProhibitedWords)
		rule.ProhibitedWords = words
	}
	if req.MaxLength != nil {
		if *req.MaxLength <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max_length must be positive")
		}
		rule.MaxLength = *req.MaxLength
	}

	if err := s.repo.Save(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save reply rule")
	}
	return FromModel(rule), nil
}

// StoreCodeOf resolves the owning store for one rule, used by the store-access
// gate before detail operations.
func (s *service) StoreCodeOf(ctx context.Context, id uuid.UUID) (string, error) {
	rule, err := s.loadRule(ctx, id)
	if err != nil {
		return "", err
	}
	return rule.StoreCode, nil
}

func (s *service) loadRule(ctx context.Context, id uuid.UUID) (*models.ReplyRule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reply rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reply rule")
	}
	return rule, nil
}
