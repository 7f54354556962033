package server

import (
	"context"
	"encoding/base64"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/health-summary/internal/coach"
	"github.com/joseph-ayodele/health-summary/internal/explain"
	"github.com/joseph-ayodele/health-summary/internal/extract"
	"github.com/joseph-ayodele/health-summary/internal/pipeline"
	"github.com/joseph-ayodele/health-summary/internal/repository"
)

const dischargeNote = `DISCHARGE SUMMARY
Diagnoses:
1. Hypertension
2. Type 2 Diabetes
Medications:
- Lisinopril 20mg daily
Vitals:
BP: 150/95
A1C: 7.5%
Patient counseled on DM and HTN.`

func newClient(t *testing.T) (*SummaryServiceClient, *grpc.ClientConn) {
	t.Helper()
	p := pipeline.New(nil, pipeline.Config{AgentVersion: "v1.0", OutputDir: t.TempDir()},
		extract.NewRuleExtractor(nil), explain.New(nil), coach.NewRuleCoach(nil), repository.NewMemoryHistory(nil))

	grpcServer, _ := NewGRPCServer(NewSummaryService(p, nil, nil), 5*time.Second, nil)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewSummaryServiceClient(conn), conn
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestSummaryService_SummarizeFeedbackHistory(t *testing.T) {
	client, _ := newClient(t)
	ctx := t.Context()

	resp, err := client.Summarize(ctx, mustStruct(t, map[string]any{
		"text":            dischargeNote,
		"patient_name":    "Mary",
		"include_display": true,
	}))
	require.NoError(t, err)
	fields := resp.GetFields()
	assert.Equal(t, float64(0), fields["index"].GetNumberValue())
	summary := fields["summary"].GetStructValue().GetFields()
	assert.Equal(t, "Mary", summary["patient_name"].GetStringValue())
	dx := summary["section_1_diagnoses"].GetStructValue().GetFields()["diagnoses"].GetListValue().GetValues()
	assert.Len(t, dx, 2)
	assert.Contains(t, fields["display"].GetStringValue(), "YOUR HEALTH SUMMARY")

	fb, err := client.SubmitFeedback(ctx, mustStruct(t, map[string]any{
		"index": 0, "clarity": 5, "helpfulness": 5, "completeness": 4,
	}))
	require.NoError(t, err)
	assert.InDelta(t, 4.8, fb.GetFields()["reward"].GetNumberValue(), 1e-9)

	hist, err := client.ListHistory(ctx, &structpb.Struct{})
	require.NoError(t, err)
	entries := hist.GetFields()["entries"].GetListValue().GetValues()
	require.Len(t, entries, 1)
	entry := entries[0].GetStructValue().GetFields()
	assert.Equal(t, "free_text", entry["input_method"].GetStringValue())
	assert.InDelta(t, 4.8, entry["reward"].GetNumberValue(), 1e-9)
	_, hasSummary := entry["summary"]
	assert.False(t, hasSummary)

	exp, err := client.ExportHistory(ctx, &structpb.Struct{})
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(exp.GetFields()["xlsx_base64"].GetStringValue())
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), raw[:2])
}

func TestSummaryService_InvalidArguments(t *testing.T) {
	client, _ := newClient(t)
	ctx := t.Context()

	tests := []struct {
		name string
		call func() error
	}{
		{"missing text", func() error {
			_, err := client.Summarize(ctx, &structpb.Struct{})
			return err
		}},
		{"unknown input method", func() error {
			_, err := client.Summarize(ctx, mustStruct(t, map[string]any{"text": "x", "input_method": "fax"}))
			return err
		}},
		{"feedback index out of range", func() error {
			_, err := client.SubmitFeedback(ctx, mustStruct(t, map[string]any{"index": 3, "clarity": 5}))
			return err
		}},
		{"feedback index missing", func() error {
			_, err := client.SubmitFeedback(ctx, &structpb.Struct{})
			return err
		}},
		{"rating out of range", func() error {
			_, err := client.SubmitFeedback(ctx, mustStruct(t, map[string]any{"index": 0, "clarity": 9}))
			return err
		}},
		{"fractional index", func() error {
			_, err := client.SubmitFeedback(ctx, mustStruct(t, map[string]any{"index": 0.5}))
			return err
		}},
		{"bad export date", func() error {
			_, err := client.ExportHistory(ctx, mustStruct(t, map[string]any{"from_date": "03/04/2025"}))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestHealthService(t *testing.T) {
	_, conn := newClient(t)
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(t.Context(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestRequestIDEchoedInHeader(t *testing.T) {
	client, _ := newClient(t)
	ctx := metadata.AppendToOutgoingContext(t.Context(), RequestIDMetadataKey, "req-42")

	var header metadata.MD
	_, err := client.ListHistory(ctx, mustStruct(t, map[string]any{}), grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-42"}, header.Get(RequestIDMetadataKey))
}
