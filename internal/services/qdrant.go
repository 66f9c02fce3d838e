package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/hiring-pipeline/internal/logger"
)

// Payload keys stored with every career document chunk.
const (
	payloadDocID    = "doc_id"
	payloadDocType  = "doc_type"
	payloadCareerID = "career_id"
	payloadText     = "text"
)

type QdrantService interface {
	InitCollection(ctx context.Context) error
	UpsertChunk(ctx context.Context, chunk ChunkPoint) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, careerID string, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, docID string) error
}

// ChunkPoint is one embedded text chunk of a career document.
type ChunkPoint struct {
	DocID     string
	DocType   string
	CareerID  string
	Text      string
	Embedding []float32
}

type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	DocType  string
	CareerID string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Qdrant URL")
	}

	// The gRPC client listens on 6334 unless the URL says otherwise.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create qdrant client")
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return errors.Wrap(err, "failed to check collection")
	}

	if exists {
		logger.Infof("✅ Qdrant collection '%s' already exists", q.collectionName)
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
		return errors.Wrap(err, "failed to create collection")
	}

	logger.Infof("✅ Qdrant collection '%s' created successfully", q.collectionName)
	return nil
}

// UpsertChunk implements QdrantService.
func (q *qdrantService) UpsertChunk(ctx context.Context, chunk ChunkPoint) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.New().String()),
		Vectors: qdrant.NewVectors(chunk.Embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			payloadDocID:    chunk.DocID,
			payloadDocType:  chunk.DocType,
			payloadCareerID: chunk.CareerID,
			payloadText:     chunk.Text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return errors.Wrap(err, "failed to upsert point")
	}

	return nil
}

// SearchSimilar implements QdrantService. An empty careerID searches every
// career.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, careerID string, limit int) ([]SearchResult, error) {
	var filter *qdrant.Filter
	if careerID != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(payloadCareerID, careerID),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to search")
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, SearchResult{
			ID:       payloadString(point.Payload, payloadDocID),
			Score:    point.Score,
			Text:     payloadString(point.Payload, payloadText),
			DocType:  payloadString(point.Payload, payloadDocType),
			CareerID: payloadString(point.Payload, payloadCareerID),
		})
	}

	return results, nil
}

// DeleteDocument implements QdrantService.
func (q *qdrantService) DeleteDocument(ctx context.Context, docID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch(payloadDocID, docID),
					},
				},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete document")
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}
