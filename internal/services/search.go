package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"smarthire/internal/models"
)

type SearchResult struct {
	ResponseID     string
	InterviewID    string
	QuestionNumber int
	Score          float32
	Text           string
}

// TranscriptIndex is the semantic index over processed answers that backs
// the HR transcript search. Indexing after aggregation is best effort and
// never fails the pipeline; the service runs only when qdrant is configured.
type TranscriptIndex interface {
	InitCollection() error
	IndexResponse(ctx context.Context, response *models.VideoResponse) error
	RemoveResponse(ctx context.Context, responseID uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type qdrantTranscriptIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
	maxChunkSize   int
}

func NewQdrantTranscriptIndex(urlStr, apiKey, collectionName string, gemini GeminiService) (TranscriptIndex, error) {
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

	return &qdrantTranscriptIndex{
		client:         client,
		gemini:         gemini,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768,
		maxChunkSize:   1500,
	}, nil
}

// InitCollection implements TranscriptIndex.
func (q *qdrantTranscriptIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Transcript collection already exists")
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

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// IndexResponse implements TranscriptIndex. Long answers are chunked before
// embedding; resubmitted slots drop their stale chunks first.
func (q *qdrantTranscriptIndex) IndexResponse(ctx context.Context, response *models.VideoResponse) error {
	text := strings.TrimSpace(response.TranscribedText)
	if text == "" {
		return nil
	}

	if err := q.RemoveResponse(ctx, response.ID); err != nil {
		return err
	}

	chunks := q.chunker.ChunkText(text, q.maxChunkSize, 100)

	var points []*qdrant.PointStruct
	for _, chunk := range chunks {
		embedding, err := q.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed transcript: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"response_id":     response.ID.String(),
				"interview_id":    response.InterviewID.String(),
				"question_number": response.QuestionNumber,
				"text":            chunk,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert transcript points: %w", err)
	}

	return nil
}

// RemoveResponse implements TranscriptIndex.
func (q *qdrantTranscriptIndex) RemoveResponse(ctx context.Context, responseID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("response_id", responseID.String()),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete transcript points: %w", err)
	}

	return nil
}

// Search implements TranscriptIndex.
func (q *qdrantTranscriptIndex) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	embedding, err := q.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", err)
	}

	var results []SearchResult
	for _, point := range searchResult {
		payload := point.Payload

		result := SearchResult{
			Score: point.Score,
		}

		if v, ok := payload["response_id"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.ResponseID = val.StringValue
			}
		}

		if v, ok := payload["interview_id"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.InterviewID = val.StringValue
			}
		}

		if v, ok := payload["question_number"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_IntegerValue); ok {
				result.QuestionNumber = int(val.IntegerValue)
			}
		}

		if v, ok := payload["text"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				result.Text = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}
