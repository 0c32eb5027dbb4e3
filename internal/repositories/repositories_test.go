package repositories_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/interview-copilot/internal/models"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestCRUDRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	resumes := repositories.NewResumeRepository(db)
	domains := repositories.NewRepository[models.Domain](db)

	resume := &models.Resume{FirstName: "John", LastName: "Smith", Email: strPtr("john@example.com")}
	if err := resumes.Create(resume); err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if resume.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	domain := &models.Domain{ResumeID: resume.ID, Name: "Fintech", Year: 3}
	if err := domains.Create(domain); err != nil {
		t.Fatalf("create domain: %v", err)
	}

	got, err := domains.FindByID(domain.ID)
	if err != nil {
		t.Fatalf("find domain: %v", err)
	}
	if got.Name != "Fintech" || got.Year != 3 {
		t.Errorf("unexpected domain %+v", got)
	}

	got.Month = 6
	if err := domains.Update(got); err != nil {
		t.Fatalf("update domain: %v", err)
	}

	byResume, err := domains.ListByResume(resume.ID)
	if err != nil {
		t.Fatalf("list by resume: %v", err)
	}
	if len(byResume) != 1 || byResume[0].Month != 6 {
		t.Errorf("unexpected domains %+v", byResume)
	}

	if err := domains.Delete(domain.ID); err != nil {
		t.Fatalf("delete domain: %v", err)
	}
	if _, err := domains.FindByID(domain.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := domains.Delete(domain.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateRejectsUnknownResume(t *testing.T) {
	db := testutil.NewDB(t)
	certs := repositories.NewRepository[models.Certificate](db)

	err := certs.Create(&models.Certificate{ResumeID: uuid.New(), Certificate: "AWS SA"})
	if !errors.Is(err, repositories.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	err = certs.Create(&models.Certificate{Certificate: "AWS SA"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	all, err := certs.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("rejected writes must not persist, got %d rows", len(all))
	}
}

func TestResumeFullAndCascadeDelete(t *testing.T) {
	db := testutil.NewDB(t)
	resumes := repositories.NewResumeRepository(db)
	educations := repositories.NewRepository[models.Education](db)
	languages := repositories.NewRepository[models.Language](db)
	skills := repositories.NewRepository[models.LanguageSkill](db)
	projects := repositories.NewRepository[models.Project](db)

	resume := &models.Resume{FirstName: "Sarah", LastName: "Johnson"}
	if err := resumes.Create(resume); err != nil {
		t.Fatal(err)
	}

	full, err := resumes.FindFull(resume.ID)
	if err != nil {
		t.Fatalf("find full: %v", err)
	}
	if len(full.Educations) != 0 || len(full.LanguageSkills) != 0 {
		t.Fatalf("expected empty collections, got %+v", full)
	}

	edu := &models.Education{ResumeID: resume.ID, School: "Stanford", Degree: "MSc", Major: "Statistics", Start: models.NewDate(time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC))}
	english := &models.Language{Name: "English"}
	if err := educations.Create(edu); err != nil {
		t.Fatal(err)
	}
	if err := languages.Create(english); err != nil {
		t.Fatal(err)
	}
	skill := &models.LanguageSkill{ResumeID: resume.ID, LanguageID: english.ID, Proficiency: 5}
	if err := skills.Create(skill); err != nil {
		t.Fatal(err)
	}
	project := &models.Project{ResumeID: resume.ID, Name: "Churn model", Technology: datatypes.JSON(`["python","xgboost"]`)}
	if err := projects.Create(project); err != nil {
		t.Fatal(err)
	}

	full, err = resumes.FindFull(resume.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(full.Educations) != 1 || full.Educations[0].School != "Stanford" {
		t.Errorf("unexpected educations %+v", full.Educations)
	}
	if len(full.LanguageSkills) != 1 || full.LanguageSkills[0].Language == nil || full.LanguageSkills[0].Language.Name != "English" {
		t.Errorf("language skill must include the nested language: %+v", full.LanguageSkills)
	}
	if len(full.Projects) != 1 || string(full.Projects[0].Technology) != `["python","xgboost"]` {
		t.Errorf("unexpected projects %+v", full.Projects)
	}

	if err := resumes.Delete(resume.ID); err != nil {
		t.Fatalf("delete resume: %v", err)
	}
	if _, err := educations.FindByID(edu.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("education must be gone, got %v", err)
	}
	if _, err := skills.FindByID(skill.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("language skill must be gone, got %v", err)
	}
	if _, err := projects.FindByID(project.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("project must be gone, got %v", err)
	}
	if _, err := languages.FindByID(english.ID); err != nil {
		t.Errorf("shared language must survive resume deletion, got %v", err)
	}
	if _, err := resumes.FindFull(resume.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInterviewRecordLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewInterviewRepository(db)
	id := uuid.New()

	record := &models.InterviewRecord{
		ID:            id,
		CandidateName: "John Smith",
		State:         "concluding",
		StartTime:     time.Now().Add(-10 * time.Minute),
		Transcription: datatypes.JSON(`[]`),
	}
	if err := repo.SaveTranscript(record); err != nil {
		t.Fatalf("save transcript: %v", err)
	}
	// Saving again (finalize retry) must not fail on the primary key.
	record.Transcription = datatypes.JSON(`[{"message":"hi"}]`)
	if err := repo.SaveTranscript(record); err != nil {
		t.Fatalf("save transcript again: %v", err)
	}

	err := repo.SaveAnalysis(id, &repositories.AnalysisUpdateData{
		State:               "finished",
		Assessment:          "Solid fundamentals.",
		QuestionsAndAnswers: datatypes.JSON(`[]`),
		Metrics:             models.InterviewMetrics{TotalQuestions: 4, QuestionsAnswered: 4, DurationMinutes: 9.5},
	})
	if err != nil {
		t.Fatalf("save analysis: %v", err)
	}

	got, err := repo.FindByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != "finished" || got.Assessment == nil || *got.Assessment != "Solid fundamentals." {
		t.Errorf("unexpected record %+v", got)
	}
	if got.Metrics == nil || got.Metrics.TotalQuestions != 4 {
		t.Errorf("expected metrics, got %+v", got.Metrics)
	}
	if string(got.Transcription) != `[{"message":"hi"}]` {
		t.Errorf("transcript not refreshed: %s", got.Transcription)
	}

	if err := repo.SaveAnalysis(uuid.New(), &repositories.AnalysisUpdateData{}); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown interview, got %v", err)
	}
}

func TestDocumentsByInterview(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewDocumentRepository(db)
	interviewID := uuid.New()

	for _, kind := range []models.DocumentKind{models.DocumentAudio, models.DocumentResume, models.DocumentAudio} {
		doc := &models.Document{Kind: kind, InterviewID: &interviewID, Filename: "x"}
		if err := repo.Create(doc); err != nil {
			t.Fatal(err)
		}
	}

	audio, err := repo.FindByInterview(interviewID, models.DocumentAudio)
	if err != nil {
		t.Fatal(err)
	}
	if len(audio) != 2 {
		t.Errorf("expected 2 audio documents, got %d", len(audio))
	}
}
