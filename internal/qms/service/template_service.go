package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
)

// TemplateService checklist template store
type TemplateService struct {
	repo *repository.TemplateRepository
	rdb  *redis.Client
}

func NewTemplateService(repo *repository.TemplateRepository, rdb *redis.Client) *TemplateService {
	return &TemplateService{repo: repo, rdb: rdb}
}

const templateCacheTTL = 5 * time.Minute

// GetTemplate returns the module's template rows in declared order
func (s *TemplateService) GetTemplate(ctx context.Context, moduleType entity.ModuleType) ([]entity.ChecklistTemplateItem, error) {
	if !entity.ValidModule(moduleType) {
		return nil, &ValidationError{Field: "module_type", Message: "unknown inspection module"}
	}

	key := "qms:template:" + string(moduleType)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil && cached != "" {
			var items []entity.ChecklistTemplateItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		}
	}

	items, err := s.repo.FindByModule(ctx, moduleType)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	if s.rdb != nil {
		if buf, err := json.Marshal(items); err == nil {
			s.rdb.Set(ctx, key, buf, templateCacheTTL)
		}
	}
	return items, nil
}

// TemplateItemReq one template row in a replace request
type TemplateItemReq struct {
	Stage    string `json:"stage"`
	Category string `json:"category" binding:"required"`
	Label    string `json:"label" binding:"required"`
	Standard string `json:"standard"`
	Method   string `json:"method"`
}

// ReplaceTemplate template administration: swap the whole module template
func (s *TemplateService) ReplaceTemplate(ctx context.Context, moduleType entity.ModuleType, reqs []TemplateItemReq) ([]entity.ChecklistTemplateItem, error) {
	if !entity.ValidModule(moduleType) {
		return nil, &ValidationError{Field: "module_type", Message: "unknown inspection module"}
	}

	items := make([]entity.ChecklistTemplateItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, entity.ChecklistTemplateItem{
			Stage:    r.Stage,
			Category: r.Category,
			Label:    r.Label,
			Standard: r.Standard,
			Method:   r.Method,
		})
	}
	if err := s.repo.ReplaceModule(ctx, moduleType, items); err != nil {
		return nil, fmt.Errorf("replace template: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, "qms:template:"+string(moduleType))
	}
	return items, nil
}
