package services

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/logger"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// IngestService embeds career reference material into the vector store.
type IngestService interface {
	IngestText(ctx context.Context, careerID uuid.UUID, docID, docType, text string) (int, error)
	IngestPDF(ctx context.Context, careerID uuid.UUID, docType, path string) (int, error)
}

type ingestService struct {
	geminiService GeminiService
	qdrantService QdrantService
	pdfParser     PDFParserService
	chunker       TextChunker
}

func NewIngestService(
	geminiService GeminiService,
	qdrantService QdrantService,
	pdfParser PDFParserService,
	chunker TextChunker,
) IngestService {
	return &ingestService{
		geminiService: geminiService,
		qdrantService: qdrantService,
		pdfParser:     pdfParser,
		chunker:       chunker,
	}
}

// IngestText chunks text and stores every chunk. It returns the number of
// chunks stored; a chunk that fails is logged and skipped.
func (s *ingestService) IngestText(ctx context.Context, careerID uuid.UUID, docID, docType, text string) (int, error) {
	chunks := s.chunker.ChunkText(CleanText(text), chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		return 0, invalidInput("document %s has no text to ingest", docID)
	}

	stored := 0
	for i, chunk := range chunks {
		embedding, err := s.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			logger.Warnf("❌ Failed to embed chunk %d of %s: %v", i+1, docID, err)
			continue
		}

		err = s.qdrantService.UpsertChunk(ctx, ChunkPoint{
			DocID:     fmt.Sprintf("%s_chunk_%d", docID, i),
			DocType:   docType,
			CareerID:  careerID.String(),
			Text:      chunk,
			Embedding: embedding,
		})
		if err != nil {
			logger.Warnf("❌ Failed to store chunk %d of %s: %v", i+1, docID, err)
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, errors.Newf("no chunks of %s could be stored", docID)
	}
	logger.Infof("📊 Stored %d/%d chunks of %s", stored, len(chunks), docID)
	return stored, nil
}

func (s *ingestService) IngestPDF(ctx context.Context, careerID uuid.UUID, docType, path string) (int, error) {
	content, err := s.pdfParser.ExtractTextWithMetaData(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to extract %s", path)
	}
	logger.Infof("📖 Extracted %d pages, %d characters from %s", content.PageCount, len(content.Text), path)

	return s.IngestText(ctx, careerID, uuid.New().String(), docType, content.Text)
}
