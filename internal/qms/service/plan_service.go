package service

import (
	"context"
	"errors"
	"strings"

	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/entity"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/qms/repository"
)

// ErrLookupMiss scanned or typed identifier resolves to no plan line.
// Non-fatal; the form is simply left unpopulated.
var ErrLookupMiss = errors.New("no plan line matches the code")

// PlanService plan and unit lookup used to pre-fill a new inspection
type PlanService struct {
	repo *repository.PlanRepository
}

func NewPlanService(repo *repository.PlanRepository) *PlanService {
	return &PlanService{repo: repo}
}

const (
	headcodeLen = 9
	siteCodeLen = 12
)

// LookupUnit resolves an identifier to its plan line. Exact match is
// chosen by code length, any other shape falls back to the first
// partial match.
func (s *PlanService) LookupUnit(ctx context.Context, code string) (*entity.PlanItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrLookupMiss
	}

	var item *entity.PlanItem
	var err error
	switch len(code) {
	case headcodeLen:
		item, err = s.repo.FindByHeadcode(ctx, code)
	case siteCodeLen:
		item, err = s.repo.FindBySiteUnitCode(ctx, code)
	default:
		err = repository.ErrNotFound
	}

	if errors.Is(err, repository.ErrNotFound) {
		item, err = s.repo.FindByPartialCode(ctx, code)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLookupMiss
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
