package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

// QuestionBank keeps generated questions searchable by meaning.
type QuestionBank interface {
	InitCollection(ctx context.Context) error
	Index(ctx context.Context, resultID string, items []models.InterviewItem) error
	Search(ctx context.Context, query string, questionType models.QuestionType, limit int) ([]models.SimilarQuestion, error)
}

type questionBank struct {
	client         *qdrant.Client
	embedder       Embedder
	collectionName string
	vectorSize     uint64
}

func NewQuestionBank(urlStr, apiKey, collectionName string, embedder Embedder) (QuestionBank, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &questionBank{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements QuestionBank.
func (q *questionBank) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully", q.collectionName)
	return nil
}

// Index implements QuestionBank. All items go in one upsert.
func (q *questionBank) Index(ctx context.Context, resultID string, items []models.InterviewItem) error {
	points := make([]*qdrant.PointStruct, 0, len(items))
	for i, item := range items {
		embedding, err := q.embedder.Embed(ctx, item.Question)
		if err != nil {
			return fmt.Errorf("failed to embed question %d: %w", i, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(resultID, i)),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"result_id":  resultID,
				"question":   item.Question,
				"answer":     item.Answer,
				"type":       string(item.Type),
				"difficulty": string(item.Difficulty),
			}),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	log.Printf("📚 Indexed %d questions for result %s", len(points), resultID)
	return nil
}

// Search implements QuestionBank.
func (q *questionBank) Search(ctx context.Context, query string, questionType models.QuestionType, limit int) ([]models.SimilarQuestion, error) {
	embedding, err := q.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamUnavailable, "failed to embed search query", err)
	}

	var filter *qdrant.Filter
	if questionType != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("type", string(questionType)),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamUnavailable, "question bank search failed", err)
	}

	results := make([]models.SimilarQuestion, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, models.SimilarQuestion{
			ResultID:   payloadString(payload, "result_id"),
			Question:   payloadString(payload, "question"),
			Answer:     payloadString(payload, "answer"),
			Type:       models.QuestionType(payloadString(payload, "type")),
			Difficulty: models.Difficulty(payloadString(payload, "difficulty")),
			Score:      point.Score,
		})
	}

	return results, nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}

// Point IDs derive from the result so reindexing overwrites instead of
// duplicating.
func pointID(resultID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", resultID, index))).String()
}
