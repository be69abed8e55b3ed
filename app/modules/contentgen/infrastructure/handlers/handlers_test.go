package contentgenhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contentgenservice "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/application"
	contentgendomain "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/domain"
	contentgenclient "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/infrastructure/generator"
	"github.com/Black-And-White-Club/reelboard/pkg/results"
	"github.com/go-chi/chi/v5"
)

type FakeContentService struct {
	GenerateFunc func(ctx context.Context, userID string, req contentgendomain.Request) (contentgenservice.GenerateResult, error)
}

func (f *FakeContentService) Generate(ctx context.Context, userID string, req contentgendomain.Request) (contentgenservice.GenerateResult, error) {
	return f.GenerateFunc(ctx, userID, req)
}

func serve(t *testing.T, svc contentgenservice.Service, body string) (*httptest.ResponseRecorder, contentgendomain.Response) {
	t.Helper()
	r := chi.NewRouter()
	NewContentHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Mount(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/content/generate", strings.NewReader(body)))

	var resp contentgendomain.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func TestHandleGenerate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		result      contentgenservice.GenerateResult
		err         error
		wantStatus  int
		wantSuccess bool
		wantResult  string
	}{
		{
			name:        "success",
			body:        `{"prompt":"ramp","type":"title"}`,
			result:      results.SuccessResult[contentgendomain.Generated, error](contentgendomain.Generated{Result: "Big air", Type: contentgendomain.TypeTitle}),
			wantStatus:  http.StatusOK,
			wantSuccess: true,
			wantResult:  "Big air",
		},
		{
			name:       "validation failure",
			body:       `{"prompt":"","type":"title"}`,
			result:     results.FailureResult[contentgendomain.Generated, error](contentgendomain.ErrInvalidPrompt),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "upstream declined",
			body:       `{"prompt":"x","type":"title"}`,
			result:     results.FailureResult[contentgendomain.Generated, error](contentgenclient.ErrGenerationFailed),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "transport error",
			body:       `{"prompt":"x","type":"title"}`,
			err:        errors.New("dial tcp"),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "not configured",
			body:       `{"prompt":"x","type":"title"}`,
			err:        contentgenclient.ErrNotConfigured,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown field",
			body:       `{"prompt":"x","type":"title","model":"big"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeContentService{GenerateFunc: func(context.Context, string, contentgendomain.Request) (contentgenservice.GenerateResult, error) {
				return tt.result, tt.err
			}}

			rec, resp := serve(t, svc, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if resp.Result != tt.wantResult {
				t.Errorf("result = %q, want %q", resp.Result, tt.wantResult)
			}
			if !tt.wantSuccess && resp.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}
