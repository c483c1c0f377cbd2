package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-plans/app/factory"
	"github.com/vibast-solutions/ms-go-plans/app/plan"
)

const syncBatchLimit = 100

type PlanSyncService struct {
	plans  planClient
	repo   planRepository
	logger logrus.FieldLogger
}

func NewPlanSyncService(plans planClient, repo planRepository) *PlanSyncService {
	return &PlanSyncService{
		plans:  plans,
		repo:   repo,
		logger: factory.NewModuleLogger("plans-sync"),
	}
}

// RunSyncBatch copies the most recent provider plans into the local mirror.
func (s *PlanSyncService) RunSyncBatch(ctx context.Context) error {
	list, err := s.plans.List(ctx, plan.ListParams{Limit: syncBatchLimit})
	if err != nil {
		return mapProviderError(err)
	}

	now := time.Now().UTC()
	synced := 0
	for _, item := range list.Data {
		if item == nil || item.ID == "" {
			continue
		}
		if err := s.repo.Upsert(ctx, item, now); err != nil {
			s.logger.WithError(err).WithField("plan_id", item.ID).Error("Failed to sync plan")
			continue
		}
		synced++
	}

	entry := s.logger.WithFields(logrus.Fields{
		"received": len(list.Data),
		"synced":   synced,
	})
	if list.HasMore {
		entry.Warn("More plans available than a single sync batch covers")
		return nil
	}
	entry.Info("Plan sync batch finished")
	return nil
}
