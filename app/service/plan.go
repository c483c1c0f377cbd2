package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-plans/app/entity"
	"github.com/vibast-solutions/ms-go-plans/app/factory"
	"github.com/vibast-solutions/ms-go-plans/app/plan"
	"github.com/vibast-solutions/ms-go-plans/app/repository"
	"github.com/vibast-solutions/ms-go-plans/app/request"
	"github.com/vibast-solutions/ms-go-plans/app/schema"
	"github.com/vibast-solutions/ms-go-plans/config"
)

type createPlanRequest interface {
	Changes() schema.Changes
}

type updatePlanRequest interface {
	GetID() string
	Changes() schema.Changes
}

type listPlansRequest interface {
	GetLimit() int64
}

type planClient interface {
	Create(ctx context.Context, changes schema.Changes, opts ...request.Option) (*entity.Plan, error)
	Retrieve(ctx context.Context, id string, opts ...request.Option) (*entity.Plan, error)
	Update(ctx context.Context, id string, changes schema.Changes, opts ...request.Option) (*entity.Plan, error)
	Delete(ctx context.Context, id string, opts ...request.Option) (*entity.DeletedPlan, error)
	List(ctx context.Context, params plan.ListParams, opts ...request.Option) (*entity.PlanList, error)
}

type planRepository interface {
	Upsert(ctx context.Context, item *entity.Plan, syncedAt time.Time) error
	FindByID(ctx context.Context, id string) (*entity.MirroredPlan, error)
	List(ctx context.Context) ([]*entity.MirroredPlan, error)
	Delete(ctx context.Context, id string) error
}

type PlanService struct {
	plans  planClient
	repo   planRepository
	cache  *expirable.LRU[string, *entity.Plan]
	logger logrus.FieldLogger
}

func NewPlanService(plans planClient, repo planRepository, cfg config.CacheConfig) *PlanService {
	var cache *expirable.LRU[string, *entity.Plan]
	if cfg.Size > 0 {
		cache = expirable.NewLRU[string, *entity.Plan](cfg.Size, nil, cfg.TTL)
	}

	return &PlanService{
		plans:  plans,
		repo:   repo,
		cache:  cache,
		logger: factory.NewModuleLogger("plans-service"),
	}
}

func (s *PlanService) CreatePlan(ctx context.Context, req createPlanRequest) (*entity.Plan, error) {
	item, err := s.plans.Create(ctx, req.Changes(), request.WithIdempotencyKey(uuid.NewString()))
	if err != nil {
		return nil, mapProviderError(err)
	}

	s.remember(item)
	s.mirror(ctx, item)
	return item, nil
}

func (s *PlanService) GetPlan(ctx context.Context, id string) (*entity.Plan, error) {
	if s.cache != nil {
		if item, ok := s.cache.Get(id); ok {
			return item, nil
		}
	}

	item, err := s.plans.Retrieve(ctx, id)
	if err != nil {
		return nil, mapProviderError(err)
	}

	s.remember(item)
	s.mirror(ctx, item)
	return item, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, req updatePlanRequest) (*entity.Plan, error) {
	changes := req.Changes()
	if len(changes) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if err := plan.Schema.Check(changes, schema.Update); err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	if cast, _ := plan.Schema.Cast(changes, schema.Update, plan.NullableKeys); len(cast) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	item, err := s.plans.Update(ctx, req.GetID(), changes)
	if err != nil {
		return nil, mapProviderError(err)
	}

	s.remember(item)
	s.mirror(ctx, item)
	return item, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, id string) (*entity.DeletedPlan, error) {
	deleted, err := s.plans.Delete(ctx, id)
	if err != nil {
		return nil, mapProviderError(err)
	}

	if s.cache != nil {
		s.cache.Remove(id)
	}
	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrPlanNotFound) {
			s.logger.WithError(err).WithField("plan_id", id).Warn("Failed to remove plan from mirror")
		}
	}

	return deleted, nil
}

func (s *PlanService) ListPlans(ctx context.Context, req listPlansRequest) (*entity.PlanList, error) {
	list, err := s.plans.List(ctx, plan.ListParams{Limit: req.GetLimit()})
	if err != nil {
		return nil, mapProviderError(err)
	}
	return list, nil
}

func (s *PlanService) ListMirroredPlans(ctx context.Context) ([]*entity.MirroredPlan, error) {
	if s.repo == nil {
		return make([]*entity.MirroredPlan, 0), nil
	}
	return s.repo.List(ctx)
}

// GetMirroredPlan reads the local copy only. It never calls the provider.
func (s *PlanService) GetMirroredPlan(ctx context.Context, id string) (*entity.MirroredPlan, error) {
	if s.repo == nil {
		return nil, ErrPlanNotFound
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *PlanService) remember(item *entity.Plan) {
	if s.cache == nil || item == nil || item.ID == "" {
		return
	}
	s.cache.Add(item.ID, item)
}

// mirror stores item locally. The provider stays the source of truth, so a
// failed write is logged and otherwise ignored.
func (s *PlanService) mirror(ctx context.Context, item *entity.Plan) {
	if s.repo == nil || item == nil || item.ID == "" {
		return
	}
	if err := s.repo.Upsert(ctx, item, time.Now().UTC()); err != nil {
		s.logger.WithError(err).WithField("plan_id", item.ID).Warn("Failed to mirror plan")
	}
}
