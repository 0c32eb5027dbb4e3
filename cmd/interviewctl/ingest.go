package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Embed the question catalog and optional PDF documents into the vector store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pdfs, err := cmd.Flags().GetStringSlice("pdf")
		if err != nil {
			return err
		}
		return ingest(cmd.Context(), pdfs)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringSlice("pdf", nil, "additional PDF to index as <path>[:<doc type>], doc type defaults to resume")
}

func ingest(ctx context.Context, pdfs []string) error {
	log := newLogger()
	defer log.Sync()

	cliConfig, err := getConfig()
	if err != nil {
		return err
	}

	b, err := connect(ctx, cliConfig, log)
	if err != nil {
		log.Error("❌ Failed to connect services", zap.Error(err))
		return err
	}

	ingestor := services.NewIngestor(b.gemini, b.qdrant, log)
	stats, err := ingestor.IngestCatalog(ctx, b.catalog)
	if err != nil {
		log.Error("❌ Catalog ingestion failed", zap.Error(err))
		return err
	}
	fmt.Printf("📊 Indexed %d questions, %d job descriptions, %d resumes\n", stats.Questions, stats.Jobs, stats.Resumes)

	pdfParser := services.NewPDFParserService()
	failed := 0
	for _, spec := range pdfs {
		path, docType := parsePDFSpec(spec)
		docLog := log.With(zap.String("path", path), zap.String("doc_type", docType))

		if _, err := os.Stat(path); err != nil {
			docLog.Warn("⚠️ File not found, skipping", zap.Error(err))
			failed++
			continue
		}

		text, err := pdfParser.ExtractText(path)
		if err != nil {
			docLog.Warn("❌ Failed to extract text", zap.Error(err))
			failed++
			continue
		}

		docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		chunks, err := ingestor.IndexDocument(ctx, docID, docType, services.CleanText(text), map[string]string{"source": filepath.Base(path)})
		if err != nil {
			docLog.Warn("❌ Failed to index document", zap.Error(err))
			failed++
			continue
		}
		fmt.Printf("📄 %s: %d chunks\n", path, chunks)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", failed, len(pdfs))
	}
	return nil
}

func parsePDFSpec(spec string) (string, string) {
	path, docType, ok := strings.Cut(spec, ":")
	if !ok || docType == "" {
		return path, services.DocTypeResume
	}
	return path, docType
}
