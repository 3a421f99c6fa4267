package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
)

// DefectService defect library lookup
type DefectService struct {
	repo *repository.DefectRepository
	rdb  *redis.Client
}

func NewDefectService(repo *repository.DefectRepository, rdb *redis.Client) *DefectService {
	return &DefectService{repo: repo, rdb: rdb}
}

const defectCacheTTL = 10 * time.Minute

// Search filters the library first by exact stage, then by case-insensitive
// substring over name, description and code. Empty stage skips the stage
// filter, empty text returns every candidate.
func (s *DefectService) Search(ctx context.Context, stage, text string) ([]entity.DefectLibraryItem, error) {
	candidates, err := s.candidates(ctx, stage)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return candidates, nil
	}

	needle := strings.ToLower(text)
	matched := make([]entity.DefectLibraryItem, 0, len(candidates))
	for _, item := range candidates {
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) ||
			strings.Contains(strings.ToLower(item.Code), needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Get loads one library entry
func (s *DefectService) Get(ctx context.Context, id string) (*entity.DefectLibraryItem, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateDefectReq new standardized defect definition
type CreateDefectReq struct {
	Code            string          `json:"code" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Stage           string          `json:"stage"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Severity        entity.Severity `json:"severity"`
	SuggestedAction string          `json:"suggested_action"`
}

// Create adds a library entry and drops the cached candidate lists
func (s *DefectService) Create(ctx context.Context, req CreateDefectReq, operatorID string) (*entity.DefectLibraryItem, error) {
	severity := req.Severity
	if severity == "" {
		severity = entity.SeverityMinor
	}
	item := &entity.DefectLibraryItem{
		Code:            req.Code,
		Name:            req.Name,
		Stage:           req.Stage,
		Category:        req.Category,
		Description:     req.Description,
		Severity:        severity,
		SuggestedAction: req.SuggestedAction,
		CreatedBy:       operatorID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create defect: %w", err)
	}
	s.invalidate(ctx, req.Stage)
	return item, nil
}

func (s *DefectService) candidates(ctx context.Context, stage string) ([]entity.DefectLibraryItem, error) {
	key := s.cacheKey(stage)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil && cached != "" {
			var items []entity.DefectLibraryItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		}
	}

	var items []entity.DefectLibraryItem
	var err error
	if stage == "" {
		items, err = s.repo.FindAll(ctx)
	} else {
		items, err = s.repo.FindByStage(ctx, stage)
	}
	if err != nil {
		return nil, fmt.Errorf("load defect library: %w", err)
	}

	if s.rdb != nil {
		if buf, err := json.Marshal(items); err == nil {
			s.rdb.Set(ctx, key, buf, defectCacheTTL)
		}
	}
	return items, nil
}

func (s *DefectService) cacheKey(stage string) string {
	if stage == "" {
		return "qms:defects:all"
	}
	return "qms:defects:stage:" + stage
}

func (s *DefectService) invalidate(ctx context.Context, stage string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, s.cacheKey(""), s.cacheKey(stage))
}
