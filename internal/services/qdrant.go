package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/logger"
)

// Document types stored in the collection.
const (
	DocTypeQuestion   = "question"
	DocTypeJob        = "job_description"
	DocTypeResume     = "resume"
	DocTypeTranscript = "transcript"
)

// pointNamespace seeds deterministic point ids so re-ingesting overwrites instead of duplicating.
var pointNamespace = uuid.MustParse("6f1c1c56-5a43-4c1e-9d2f-3f7c0f0c7a11")

type QdrantService interface {
	InitCollection(ctx context.Context) error
	UpsertPoints(ctx context.Context, points []Point) error
	Search(ctx context.Context, queryEmbedding []float32, filter SearchFilter, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, docID string) error
}

// Point is one embedded text fragment. DocID and Chunk identify it.
type Point struct {
	DocID     string
	DocType   string
	Chunk     int
	Text      string
	Embedding []float32
	Payload   map[string]string
}

// PointID returns the deterministic qdrant id of the fragment.
func (p Point) PointID() string {
	key := fmt.Sprintf("%s:%s:%d", p.DocType, p.DocID, p.Chunk)
	return uuid.NewSHA1(pointNamespace, []byte(key)).String()
}

type SearchFilter struct {
	DocType  string
	Category string
}

type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	DocType  string
	Metadata map[string]string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, vectorSize uint64, log *zap.Logger) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// The go client speaks gRPC, 6334 unless the URL says otherwise.
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

	if vectorSize == 0 {
		vectorSize = 768
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		log:            logger.OrNop(log),
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
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

	for _, field := range []string{"doc_type", "category"} {
		_, err := q.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: q.collectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to index payload field %s: %w", field, err)
		}
	}

	q.log.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// UpsertPoints implements QdrantService.
func (q *qdrantService) UpsertPoints(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		payload := map[string]any{
			"doc_id":   p.DocID,
			"doc_type": p.DocType,
			"text":     p.Text,
			"chunk":    int64(p.Chunk),
		}
		for k, v := range p.Payload {
			payload[k] = v
		}

		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.PointID()),
			Vectors: qdrant.NewVectors(p.Embedding...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// Search implements QdrantService.
func (q *qdrantService) Search(ctx context.Context, queryEmbedding []float32, filter SearchFilter, limit int) ([]SearchResult, error) {
	var must []*qdrant.Condition
	if filter.DocType != "" {
		must = append(must, qdrant.NewMatch("doc_type", filter.DocType))
	}
	if filter.Category != "" {
		must = append(must, qdrant.NewMatch("category", filter.Category))
	}

	var qfilter *qdrant.Filter
	if len(must) > 0 {
		qfilter = &qdrant.Filter{Must: must}
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         qfilter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult))
	for _, point := range searchResult {
		result := SearchResult{
			Score:    point.Score,
			Metadata: make(map[string]string),
		}

		for key, value := range point.Payload {
			if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
				result.Metadata[key] = val.StringValue
			}
		}
		result.ID = result.Metadata["doc_id"]
		result.Text = result.Metadata["text"]
		result.DocType = result.Metadata["doc_type"]

		results = append(results, result)
	}

	return results, nil
}

// DeleteDocument implements QdrantService.
func (q *qdrantService) DeleteDocument(ctx context.Context, docID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_id", docID),
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
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
