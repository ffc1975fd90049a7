package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []Prompt
}

func (f *fakeLLM) Complete(ctx context.Context, prompt Prompt, settings GenerationSettings) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, exists := r.users[user.Email]; exists {
		return apperrors.New(apperrors.KindDuplicateEmail, "email already registered")
	}
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[email]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}
	copied := *user
	return &copied, nil
}

type fakeResultRepo struct {
	results []*models.StoredResult
	err     error
}

func (r *fakeResultRepo) Create(ctx context.Context, result *models.StoredResult) error {
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, result)
	return nil
}

func (r *fakeResultRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.StoredResult, error) {
	for _, res := range r.results {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "result not found")
}

func (r *fakeResultRepo) FindByUser(ctx context.Context, userID string, limit int) ([]models.StoredResult, error) {
	var out []models.StoredResult
	for _, res := range r.results {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

type fakeDocRepo struct {
	docs []*models.Document
	err  error
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.Document) error {
	if r.err != nil {
		return r.err
	}
	r.docs = append(r.docs, doc)
	return nil
}

func (r *fakeDocRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	for _, d := range r.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "document not found")
}

type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(ctx context.Context, data []byte, originalName, kind string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	key := objectName(originalName, kind)
	s.saved[key] = data
	return key, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.saved, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) Backend() string {
	return "memory"
}

type fakeBank struct {
	indexed map[string][]models.InterviewItem
	err     error
}

func (b *fakeBank) InitCollection(ctx context.Context) error { return nil }

func (b *fakeBank) Index(ctx context.Context, resultID string, items []models.InterviewItem) error {
	if b.err != nil {
		return b.err
	}
	if b.indexed == nil {
		b.indexed = map[string][]models.InterviewItem{}
	}
	b.indexed[resultID] = items
	return nil
}

func (b *fakeBank) Search(ctx context.Context, query string, questionType models.QuestionType, limit int) ([]models.SimilarQuestion, error) {
	return nil, nil
}
