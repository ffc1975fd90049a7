package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/config"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/services"
)

type stubLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(ctx context.Context, prompt services.Prompt, settings services.GenerationSettings) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

type memResults struct {
	mu      sync.Mutex
	results []models.StoredResult
}

func (m *memResults) Create(ctx context.Context, result *models.StoredResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, *result)
	return nil
}

func (m *memResults) FindByID(ctx context.Context, id uuid.UUID) (*models.StoredResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID == id {
			r := m.results[i]
			return &r, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "result not found")
}

func (m *memResults) FindByUser(ctx context.Context, userID string, limit int) ([]models.StoredResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StoredResult
	for _, r := range m.results {
		if r.UserID == userID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type memDocs struct {
	mu   sync.Mutex
	docs map[uuid.UUID]models.Document
	err  error
}

func (m *memDocs) Create(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memDocs) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "document not found")
	}
	return &doc, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func (m *memUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return apperrors.New(apperrors.KindDuplicateEmail, "email already registered")
	}
	m.users[user.Email] = *user
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}
	return &u, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

type testEnv struct {
	app     *fiber.App
	llm     *stubLLM
	results *memResults
	docs    *memDocs
	db      *stubPinger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	llm := &stubLLM{}
	results := &memResults{}
	docs := &memDocs{docs: map[uuid.UUID]models.Document{}}
	pinger := &stubPinger{}
	users := &memUsers{users: map[string]models.User{}}

	storage, err := services.NewStorageService(context.Background(), config.StorageConfig{Backend: "none"})
	require.NoError(t, err)

	prompts := services.NewPromptBuilder()
	extractor := services.NewTextExtractor()
	settings := services.GenerationSettings{Model: "test-model", Temperature: 0.3}

	interviews := services.NewInterviewService(llm, prompts, settings, time.Minute, results, docs, storage, nil)
	comparator := services.NewComparator(llm, prompts, settings, time.Minute)
	auth, err := services.NewAuthService(users, services.NewPasswordHasher(bcrypt.MinCost), services.NewTokenIssuer("test-secret", time.Hour))
	require.NoError(t, err)

	app := NewApp(Handlers{
		Interview: NewInterviewHandler(extractor, interviews, 1<<20),
		Results:   NewResultHandler(results, docs),
		Search:    NewSearchHandler(nil),
		Compare:   NewCompareHandler(comparator, extractor, 1<<20),
		Auth:      NewAuthHandler(auth),
		Health:    NewHealthHandler(pinger),
	}, AppConfig{
		BodyLimit:    4 << 20,
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
		AllowHeaders: "*",
	})

	return &testEnv{app: app, llm: llm, results: results, docs: docs, db: pinger}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func docxCV(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml":            document,
		"word/_rels/document.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	} {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func itemsReply(t *testing.T, n int, qt models.QuestionType) string {
	t.Helper()
	items := make([]models.InterviewItem, n)
	for i := range items {
		items[i] = models.InterviewItem{
			Question:   fmt.Sprintf("Question %d?", i+1),
			Answer:     "Answer.",
			Type:       qt,
			Difficulty: models.Difficulties[i%len(models.Difficulties)],
		}
	}
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return "Here you go:\n```json\n" + string(b) + "\n```"
}

var errDialFailed = errors.New("dial tcp: connection refused")
