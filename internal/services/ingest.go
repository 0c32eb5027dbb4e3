package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/logger"
)

type IngestStats struct {
	Questions int
	Jobs      int
	Resumes   int
}

type Ingestor interface {
	IngestCatalog(ctx context.Context, cat *catalog.Catalog) (IngestStats, error)
	IndexTranscript(ctx context.Context, record interview.TranscriptRecord) (int, error)
	IndexDocument(ctx context.Context, docID, docType, text string, payload map[string]string) (int, error)
}

type ingestor struct {
	geminiService GeminiService
	qdrantService QdrantService
	chunker       TextChunker
	log           *zap.Logger
}

func NewIngestor(geminiService GeminiService, qdrantService QdrantService, log *zap.Logger) Ingestor {
	return &ingestor{
		geminiService: geminiService,
		qdrantService: qdrantService,
		chunker:       NewTextChunker(),
		log:           logger.OrNop(log),
	}
}

// IngestCatalog embeds every question, job description and resume profile of the catalog.
func (in *ingestor) IngestCatalog(ctx context.Context, cat *catalog.Catalog) (IngestStats, error) {
	var stats IngestStats
	var points []Point

	for _, q := range cat.Questions() {
		p, err := in.embed(ctx, Point{
			DocID:   q.ID,
			DocType: DocTypeQuestion,
			Text:    QuestionText(q),
			Payload: map[string]string{
				"category":   q.Category,
				"difficulty": q.Difficulty,
				"question":   q.Prompt,
				"follow_up":  q.FollowUp,
			},
		})
		if err != nil {
			return stats, err
		}
		points = append(points, p)
		stats.Questions++
	}

	for _, j := range cat.Jobs() {
		p, err := in.embed(ctx, Point{
			DocID:   j.ID,
			DocType: DocTypeJob,
			Text:    j.Text(),
			Payload: map[string]string{"title": j.Title, "company": j.Company, "level": j.Level},
		})
		if err != nil {
			return stats, err
		}
		points = append(points, p)
		stats.Jobs++
	}

	for _, r := range cat.Resumes() {
		p, err := in.embed(ctx, Point{
			DocID:   r.ID,
			DocType: DocTypeResume,
			Text:    r.Text(),
			Payload: map[string]string{"name": r.Name, "email": r.Email},
		})
		if err != nil {
			return stats, err
		}
		points = append(points, p)
		stats.Resumes++
	}

	if err := in.qdrantService.UpsertPoints(ctx, points); err != nil {
		return stats, fmt.Errorf("failed to store catalog: %w", err)
	}

	in.log.Info("✅ Catalog indexed",
		zap.Int("questions", stats.Questions),
		zap.Int("jobs", stats.Jobs),
		zap.Int("resumes", stats.Resumes),
	)
	return stats, nil
}

// IndexTranscript stores a finished transcript as searchable chunks.
func (in *ingestor) IndexTranscript(ctx context.Context, record interview.TranscriptRecord) (int, error) {
	chunks := in.chunker.ChunkTranscript(record.Transcription, transcriptChunkSize, transcriptChunkOverlap)

	points := make([]Point, 0, len(chunks))
	for i, chunk := range chunks {
		p, err := in.embed(ctx, Point{
			DocID:   record.InterviewID,
			DocType: DocTypeTranscript,
			Chunk:   i,
			Text:    chunk,
			Payload: map[string]string{"candidate_name": record.CandidateName},
		})
		if err != nil {
			return 0, err
		}
		points = append(points, p)
	}

	if err := in.qdrantService.UpsertPoints(ctx, points); err != nil {
		return 0, fmt.Errorf("failed to store transcript: %w", err)
	}

	in.log.Debug("📚 Transcript indexed",
		zap.String(logger.FieldInterviewID, record.InterviewID),
		zap.Int("chunks", len(points)),
	)
	return len(points), nil
}

// IndexDocument chunks free text, such as an extracted PDF, and stores every chunk.
// Chunks from an earlier version of the same document are removed first.
func (in *ingestor) IndexDocument(ctx context.Context, docID, docType, text string, payload map[string]string) (int, error) {
	chunks := in.chunker.ChunkText(text, documentChunkSize, documentChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %s has no text", docID)
	}

	if err := in.qdrantService.DeleteDocument(ctx, docID); err != nil {
		return 0, fmt.Errorf("failed to replace document %s: %w", docID, err)
	}

	points := make([]Point, 0, len(chunks))
	for i, chunk := range chunks {
		p, err := in.embed(ctx, Point{
			DocID:   docID,
			DocType: docType,
			Chunk:   i,
			Text:    chunk,
			Payload: payload,
		})
		if err != nil {
			return 0, err
		}
		points = append(points, p)
	}

	if err := in.qdrantService.UpsertPoints(ctx, points); err != nil {
		return 0, fmt.Errorf("failed to store document %s: %w", docID, err)
	}

	in.log.Info("📄 Document indexed",
		zap.String("doc_id", docID),
		zap.String("doc_type", docType),
		zap.Int("chunks", len(points)),
	)
	return len(points), nil
}

func (in *ingestor) embed(ctx context.Context, p Point) (Point, error) {
	embedding, err := in.geminiService.GenerateEmbedding(ctx, p.Text)
	if err != nil {
		return Point{}, fmt.Errorf("failed to embed %s %s: %w", p.DocType, p.DocID, err)
	}
	p.Embedding = embedding
	return p, nil
}
