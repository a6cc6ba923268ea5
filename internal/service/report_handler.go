package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/liquifier/internal/calculator"
	"github.com/mmynk/liquifier/internal/middleware"
	"github.com/mmynk/liquifier/internal/models"
	"github.com/mmynk/liquifier/internal/node"
	"github.com/mmynk/liquifier/internal/render"
	"github.com/mmynk/liquifier/internal/window"
)

const (
	// ReportServiceName is the fully-qualified name of the report service.
	ReportServiceName = "liquifier.v1.ReportService"

	// BuildReportProcedure is the full procedure path of BuildReport.
	BuildReportProcedure = "/" + ReportServiceName + "/BuildReport"
)

// NewReportServiceHandler builds an HTTP handler for the report service and
// returns the path to mount it on.
func NewReportServiceHandler(svc *ReportService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(BuildReportProcedure, connect.NewUnaryHandler(BuildReportProcedure, svc.BuildReport, opts...))
	return "/" + ReportServiceName + "/", mux
}

// BuildReport handles a report request with "start_date" and "end_date"
// (YYYY-MM-DD) and responds with the report document.
func (s *ReportService) BuildReport(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	start := fields["start_date"].GetStringValue()
	end := fields["end_date"].GetStringValue()

	w, err := window.New(start, end, s.cfg.Location)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	slog.Info("Report requested",
		"subject", middleware.GetSubject(ctx),
		"start_date", start,
		"end_date", end,
	)

	report, err := s.Build(ctx, w)
	if err != nil {
		return nil, reportError(err)
	}

	msg, err := reportMessage(report)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// reportMessage converts a report to a Struct with the same shape as the
// JSON renderer output.
func reportMessage(report *models.Report) (*structpb.Struct, error) {
	var buf bytes.Buffer
	if err := render.JSON(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(buf.Bytes(), msg); err != nil {
		return nil, fmt.Errorf("failed to convert report: %w", err)
	}
	return msg, nil
}

// reportError maps a failed run to a Connect code naming the failing dependency.
func reportError(err error) error {
	var qe *node.QueryError
	switch {
	case errors.Is(err, calculator.ErrInvalidMaximumPayment):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.As(err, &qe):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
