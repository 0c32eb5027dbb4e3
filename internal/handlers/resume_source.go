package handlers

import (
	"fmt"

	"github.com/google/uuid"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
)

// resumeSource turns a resume_id or resume_document_id into plain resume text.
// A resume_id is a stored resume when it parses as a UUID and a catalog
// profile otherwise. An uploaded document wins over both.
type resumeSource struct {
	catalog    *catalog.Catalog
	resumeRepo repositories.ResumeRepository
	docRepo    repositories.DocumentRepository
	pdfParser  services.ResumeTextExtractor
}

type resolvedResume struct {
	Name string
	Text string
}

func (s resumeSource) resolve(resumeID, documentID string) (resolvedResume, error) {
	var out resolvedResume

	if resumeID != "" {
		if id, err := uuid.Parse(resumeID); err == nil {
			resume, err := s.resumeRepo.FindFull(id)
			if err != nil {
				return out, err
			}
			out.Name = resume.FullName()
			out.Text = resume.ProfileText()
		} else {
			profile, ok := s.catalog.Resume(resumeID)
			if !ok {
				return out, fmt.Errorf("resume %s: %w", resumeID, repositories.ErrNotFound)
			}
			out.Name = profile.Name
			out.Text = profile.Text()
		}
	}

	if documentID != "" {
		id, err := uuid.Parse(documentID)
		if err != nil {
			return out, fmt.Errorf("%w: invalid resume_document_id", models.ErrValidation)
		}
		doc, err := s.docRepo.FindByID(id)
		if err != nil {
			return out, err
		}
		text, err := s.pdfParser.ExtractText(doc.FilePath)
		if err != nil {
			return out, err
		}
		out.Text = services.CleanText(text)
	}

	return out, nil
}
