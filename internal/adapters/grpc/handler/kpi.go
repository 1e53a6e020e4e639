package handler

import (
	"context"
	"strings"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/core/kpi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// KPIGrpcHandler は KPIService の gRPC 実装です。
type KPIGrpcHandler struct {
	svc kpi.UseCase
}

// NewKPIGrpcHandler は KPIGrpcHandler を生成します。
func NewKPIGrpcHandler(svc kpi.UseCase) *KPIGrpcHandler {
	return &KPIGrpcHandler{svc: svc}
}

// GetUserKPI は永続化済みの KPI を返します。未算出であればその場で算出します。
func (h *KPIGrpcHandler) GetUserKPI(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, err := userIDFromRequest(req)
	if err != nil {
		return nil, err
	}

	k, err := h.svc.GetOrCompute(ctx, userID)
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(kpiFields(k))
}

// GetUserKPIReport は KPI に 7 日間の指標と出勤率を加えて返します。
func (h *KPIGrpcHandler) GetUserKPIReport(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	userID, err := userIDFromRequest(req)
	if err != nil {
		return nil, err
	}

	report, err := h.svc.GetReport(ctx, userID)
	if err != nil {
		return nil, toStatusError(err)
	}

	fields := kpiFields(report.KPI)
	fields["rolling_avg_arrival_7"] = formatTime(report.Week.Arrival)
	fields["rolling_avg_departure_7"] = formatTime(report.Week.Departure)
	fields["rolling_avg_working_hours_7"] = report.Week.WorkingHours
	fields["presence_rate"] = report.Presence.Rate
	fields["working_days"] = report.Presence.WorkingDays
	fields["total_days"] = report.Presence.TotalDays

	return toStruct(fields)
}

func userIDFromRequest(req *wrapperspb.StringValue) (string, error) {
	if req == nil || strings.TrimSpace(req.GetValue()) == "" {
		return "", status.Error(codes.InvalidArgument, "user_id is required")
	}
	return req.GetValue(), nil
}

func kpiFields(k *kpi.UserKPI) map[string]any {
	return map[string]any{
		"id":                           k.ID,
		"user_id":                      k.UserID,
		"rolling_avg_arrival_14":       formatTime(k.RollingAvgArrival14),
		"rolling_avg_arrival_28":       formatTime(k.RollingAvgArrival28),
		"rolling_avg_departure_14":     formatTime(k.RollingAvgDeparture14),
		"rolling_avg_departure_28":     formatTime(k.RollingAvgDeparture28),
		"rolling_avg_working_hours_14": k.RollingAvgWorkingHours14,
		"rolling_avg_working_hours_28": k.RollingAvgWorkingHours28,
		"created_at":                   formatTime(k.CreatedAt),
	}
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
