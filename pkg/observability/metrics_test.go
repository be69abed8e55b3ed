package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestOperationMetrics_Prometheus(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewOperationMetrics(registry, "leaderboard")
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "RecomputeLeaderboard")
	m.RecordOperationAttempt(ctx, "RecomputeLeaderboard")
	m.RecordOperationSuccess(ctx, "RecomputeLeaderboard")
	m.RecordOperationFailure(ctx, "RecomputeLeaderboard")
	m.RecordOperationDuration(ctx, "RecomputeLeaderboard", 20*time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	got := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				got[mf.GetName()] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				got[mf.GetName()] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}

	want := map[string]float64{
		"reelboard_leaderboard_operation_attempts_total":   2,
		"reelboard_leaderboard_operation_success_total":    1,
		"reelboard_leaderboard_operation_failures_total":   1,
		"reelboard_leaderboard_operation_duration_seconds": 1,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %v, want %v", name, got[name], v)
		}
	}
}

func TestOperationMetrics_NilRegistryIsNoop(t *testing.T) {
	m := NewOperationMetrics(nil, "video")
	if _, ok := m.(noopOperationMetrics); !ok {
		t.Fatalf("expected noop metrics, got %T", m)
	}
	m.RecordOperationAttempt(context.Background(), "LikeVideo")
}

func TestNewLogger_Level(t *testing.T) {
	var sb strings.Builder
	logger := NewLogger(&sb, Config{Environment: "production", LogLevel: "warn", ServiceName: "reelboard"})

	logger.Info("hidden")
	logger.Warn("shown")

	out := sb.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"service":"reelboard"`) {
		t.Errorf("expected JSON warn line with service attr, got %s", out)
	}
}
