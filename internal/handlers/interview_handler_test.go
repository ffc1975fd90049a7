package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

func jobFields(extra map[string]string) map[string]string {
	fields := map[string]string{
		"job_title":        "Backend Engineer",
		"job_requirements": "Go, PostgreSQL",
		"job_description":  "Build APIs",
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

func TestGenerateTypeRejectsBadTypeBeforeLLM(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = itemsReply(t, 10, models.TypeTechnical)

	for _, bad := range []string{"", "trivia", "technical; drop table"} {
		req := multipartRequest(t, "/interview/generate-type", jobFields(map[string]string{"type": bad}),
			formFile{"cv_file", "cv.docx", docxCV(t, "Jane Doe", "Go engineer")})

		status, body := env.do(t, req)
		assert.Equal(t, http.StatusBadRequest, status, bad)
		assert.Equal(t, string(apperrors.KindInvalidInput), body["kind"])
	}
	assert.Zero(t, env.llm.calls)
}

func TestGenerateTypeTechnical(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = itemsReply(t, 10, models.TypeTechnical)

	req := multipartRequest(t, "/interview/generate-type", jobFields(map[string]string{"type": "technical"}),
		formFile{"cv_file", "cv.docx", docxCV(t, "Jane Doe", "Senior Go engineer")})

	status, body := env.do(t, req)
	require.Equal(t, http.StatusOK, status, body)

	items, ok := body["items"].([]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(items), 8)
	assert.LessOrEqual(t, len(items), 12)
	for _, raw := range items {
		item := raw.(map[string]any)
		assert.Equal(t, "technical", item["type"])
		assert.Contains(t, []any{"easy", "medium", "hard"}, item["difficulty"])
	}
	assert.NotContains(t, body, "result_id")
	assert.Empty(t, env.results.results, "generate-type is not persisted")
}

func TestGenerateTypeMixedModelOutputRejected(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = itemsReply(t, 8, models.TypeBehavioral)

	req := multipartRequest(t, "/interview/generate-type", jobFields(map[string]string{"type": "technical"}),
		formFile{"cv_file", "cv.txt", []byte("Go engineer")})

	status, body := env.do(t, req)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, string(apperrors.KindValidation), body["kind"])
}

func TestUploadStoresResult(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = itemsReply(t, 9, models.TypeScenario)

	req := multipartRequest(t, "/interview/upload", jobFields(map[string]string{"user_id": "user-42"}),
		formFile{"cv_file", "Jane.docx", docxCV(t, "Jane Doe", "Go engineer")})

	status, body := env.do(t, req)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["items"], 9)

	resultID, ok := body["result_id"].(string)
	require.True(t, ok)
	require.Len(t, env.results.results, 1)
	assert.Equal(t, "user-42", env.results.results[0].UserID)

	status, stored := env.do(t, httptest.NewRequest(http.MethodGet, "/interview/results/"+resultID, nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, resultID, stored["id"])
	assert.Len(t, stored["items"], 9)

	status, list := env.do(t, httptest.NewRequest(http.MethodGet, "/interview/results?user_id=user-42", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["results"], 1)
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	env.llm.reply = itemsReply(t, 8, models.TypeProject)
	cv := formFile{"cv_file", "cv.docx", docxCV(t, "Jane")}

	tests := []struct {
		name   string
		fields map[string]string
		files  []formFile
		status int
		kind   apperrors.Kind
	}{
		{"missing user", jobFields(nil), []formFile{cv}, http.StatusBadRequest, apperrors.KindInvalidInput},
		{"missing file", jobFields(map[string]string{"user_id": "u"}), nil, http.StatusBadRequest, apperrors.KindInvalidInput},
		{"unsupported file", jobFields(map[string]string{"user_id": "u"}), []formFile{{"cv_file", "cv.png", []byte("png")}}, http.StatusBadRequest, apperrors.KindUnsupportedFormat},
		{"corrupt pdf", jobFields(map[string]string{"user_id": "u"}), []formFile{{"cv_file", "cv.pdf", []byte("garbage")}}, http.StatusUnprocessableEntity, apperrors.KindExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, multipartRequest(t, "/interview/upload", tt.fields, tt.files...))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, string(tt.kind), body["kind"])
		})
	}
	assert.Zero(t, env.llm.calls)
}

func TestUploadLLMFailures(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		status  int
		kind    apperrors.Kind
		excerpt bool
	}{
		{"garbage output", "I'm sorry, I can't do that.", nil, http.StatusBadGateway, apperrors.KindNoRecoverableJSON, true},
		{"provider down", "", apperrors.Wrap(apperrors.KindUpstreamUnavailable, "gemini is unreachable", errDialFailed), http.StatusServiceUnavailable, apperrors.KindUpstreamUnavailable, false},
		{"provider error", "", apperrors.Upstream(500, "internal"), http.StatusBadGateway, apperrors.KindUpstream, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.llm.reply, env.llm.err = tt.reply, tt.err

			req := multipartRequest(t, "/interview/upload", jobFields(map[string]string{"user_id": "u"}),
				formFile{"cv_file", "cv.txt", []byte("Go engineer")})

			status, body := env.do(t, req)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, string(tt.kind), body["kind"])
			if tt.excerpt {
				assert.Equal(t, tt.reply, body["excerpt"])
			} else {
				assert.NotContains(t, body, "excerpt")
			}
			assert.NotContains(t, body["error"], "dial tcp")
			assert.Empty(t, env.results.results)
		})
	}
}

func TestGetResultErrors(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, httptest.NewRequest(http.MethodGet, "/interview/results/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/interview/results/6f1c2b9e-1f6b-4b8e-9a53-0d7d2b5c3a11", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, string(apperrors.KindNotFound), body["kind"])

	status, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/interview/results", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSimilarWithoutQuestionBank(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/interview/similar?q=goroutines", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, string(apperrors.KindUpstreamUnavailable), body["kind"])
}

func TestHealthAndCheckDB(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/check-db", nil))
	assert.Equal(t, http.StatusOK, status)

	env.db.err = errors.New("connection refused")
	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/check-db", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, string(apperrors.KindPersistence), body["kind"])
}
