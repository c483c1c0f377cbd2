package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/vibast-solutions/ms-go-plans/app/dto"
	"github.com/vibast-solutions/ms-go-plans/app/mapper"
	"github.com/vibast-solutions/ms-go-plans/app/schema"
	"github.com/vibast-solutions/ms-go-plans/app/service"
	"github.com/vibast-solutions/ms-go-plans/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var _ PlansServiceServer = (*Server)(nil)

type Server struct {
	planService *service.PlanService
}

func NewServer(planService *service.PlanService) *Server {
	return &Server{planService: planService}
}

func (s *Server) CreatePlan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := types.NewCreatePlanRequestFromChanges(schema.Changes(in.AsMap()))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.planService.CreatePlan(ctx, req)
	if err != nil {
		return nil, s.serviceError(ctx, err, "Create plan failed")
	}
	return toStruct(&dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
}

func (s *Server) GetPlan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := &types.GetPlanRequest{ID: stringField(in, "id")}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.planService.GetPlan(ctx, req.GetID())
	if err != nil {
		return nil, s.serviceError(ctx, err, "Get plan failed")
	}
	return toStruct(&dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
}

func (s *Server) UpdatePlan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := schema.Changes(in.AsMap())
	delete(fields, "id")
	req := &types.UpdatePlanRequest{ID: stringField(in, "id"), Fields: fields}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.planService.UpdatePlan(ctx, req)
	if err != nil {
		return nil, s.serviceError(ctx, err, "Update plan failed")
	}
	return toStruct(&dto.PlanEnvelopeResponse{Plan: mapper.PlanToResponse(item)})
}

func (s *Server) DeletePlan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := &types.DeletePlanRequest{ID: stringField(in, "id")}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	deleted, err := s.planService.DeletePlan(ctx, req.GetID())
	if err != nil {
		return nil, s.serviceError(ctx, err, "Delete plan failed")
	}
	return toStruct(&dto.DeletePlanResponse{
		Message: "Plan deleted successfully",
		ID:      deleted.ID,
		Deleted: deleted.Deleted,
	})
}

func (s *Server) ListPlans(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := &types.ListPlansRequest{Limit: types.DefaultListLimit}
	if value, ok := in.GetFields()["limit"]; ok {
		limit := value.GetNumberValue()
		if limit != math.Trunc(limit) {
			return nil, status.Error(codes.InvalidArgument, "limit must be an integer")
		}
		req.Limit = int64(limit)
	}
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	list, err := s.planService.ListPlans(ctx, req)
	if err != nil {
		return nil, s.serviceError(ctx, err, "List plans failed")
	}
	return toStruct(&dto.ListPlansResponse{
		Plans:   mapper.PlansToResponse(list.Data),
		HasMore: list.HasMore,
	})
}

func (s *Server) serviceError(ctx context.Context, err error, logMessage string) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		if message := service.ProviderMessage(err); message != "" {
			return status.Error(codes.InvalidArgument, message)
		}
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrPlanNotFound):
		return status.Error(codes.NotFound, "plan not found")
	case errors.Is(err, service.ErrPlanAlreadyExists):
		return status.Error(codes.AlreadyExists, "plan already exists")
	case errors.Is(err, service.ErrProviderUnauthorized), errors.Is(err, service.ErrProviderUnavailable):
		loggerWithContext(ctx).WithError(err).Error(logMessage)
		return status.Error(codes.Unavailable, "payment provider error")
	default:
		loggerWithContext(ctx).WithError(err).Error(logMessage)
		return status.Error(codes.Internal, "internal server error")
	}
}

func stringField(in *structpb.Struct, key string) string {
	return strings.TrimSpace(in.GetFields()[key].GetStringValue())
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}
