package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-plans/app/dto"
	"github.com/vibast-solutions/ms-go-plans/app/entity"
)

func PlanToResponse(item *entity.Plan) dto.PlanResponse {
	if item == nil {
		return dto.PlanResponse{}
	}

	metadata := item.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	return dto.PlanResponse{
		ID:                  item.ID,
		Object:              item.Object,
		Amount:              item.Amount,
		AmountDisplay:       entity.FormatAmount(item.Amount, item.Currency),
		Currency:            item.Currency,
		Interval:            item.Interval,
		IntervalCount:       item.IntervalCount,
		Livemode:            item.Livemode,
		Metadata:            metadata,
		Name:                item.Name,
		StatementDescriptor: item.StatementDescriptor,
		TrialPeriodDays:     item.TrialPeriodDays,
		CreatedAt:           formatUnix(item.Created),
	}
}

func PlansToResponse(items []*entity.Plan) []dto.PlanResponse {
	result := make([]dto.PlanResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PlanToResponse(item))
	}
	return result
}

func MirroredPlanToResponse(item *entity.MirroredPlan) dto.MirroredPlanResponse {
	if item == nil {
		return dto.MirroredPlanResponse{}
	}
	return dto.MirroredPlanResponse{
		PlanResponse: PlanToResponse(&item.Plan),
		SyncedAt:     item.SyncedAt.UTC().Format(time.RFC3339),
	}
}

func MirroredPlansToResponse(items []*entity.MirroredPlan) []dto.MirroredPlanResponse {
	result := make([]dto.MirroredPlanResponse, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		result = append(result, MirroredPlanToResponse(item))
	}
	return result
}

func formatUnix(seconds int64) string {
	if seconds == 0 {
		return ""
	}
	return time.Unix(seconds, 0).UTC().Format(time.RFC3339)
}
