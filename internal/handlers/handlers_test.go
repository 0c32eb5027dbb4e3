package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/handlers"
	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
	"alfredoptarigan/interview-copilot/internal/testutil"
)

type stubPlanner struct{ plan interview.Plan }

func (p stubPlanner) BuildPlan(ctx context.Context, req interview.PlanRequest) (interview.Plan, error) {
	return p.plan, nil
}

type failingWriter struct{}

func (failingWriter) WriteFollowUp(ctx context.Context, question, answer string) (string, error) {
	return "", errors.New("model unavailable")
}

type stubEvaluator struct{}

func (stubEvaluator) Evaluate(ctx context.Context, transcript []interview.TranscriptEntry, plan interview.Plan) (string, error) {
	return "Recommendation: hire", nil
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T, plan interview.Plan) *testServer {
	t.Helper()
	db := testutil.NewDB(t)

	cat, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}

	resumeRepo := repositories.NewResumeRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	storage := services.NewStorageService(t.TempDir())

	manager := services.NewInterviewManager(services.ManagerDeps{
		Planner:   stubPlanner{plan: plan},
		Writer:    failingWriter{},
		Evaluator: stubEvaluator{},
		Sink:      services.NewDatabaseSink(interviewRepo),
		// Answers under five words earn a follow-up.
		Session: interview.Config{Policy: interview.FollowUpPolicy{MinAnswerWords: 5}},
	})

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.Register(app.Group("/api/v1"), db, handlers.Handlers{
		Resume: handlers.NewResumeHandler(resumeRepo),
		Interview: handlers.NewInterviewHandler(handlers.InterviewHandlerDeps{
			Manager:        manager,
			Catalog:        cat,
			ResumeRepo:     resumeRepo,
			DocRepo:        docRepo,
			InterviewRepo:  interviewRepo,
			StorageService: storage,
			PDFParser:      services.NewPDFParserService(),
			MaxFileSize:    1 << 20,
		}),
		Catalog: handlers.NewCatalogHandler(cat),
		Upload:  handlers.NewUploadHandler(docRepo, storage, 1<<20),
		Result:  handlers.NewResultHandler(interviewRepo),
		StudyPlan: handlers.NewStudyPlanHandler(handlers.StudyPlanHandlerDeps{
			Planner:    services.NewStudyPlanner(nil, cat, nil),
			Catalog:    cat,
			ResumeRepo: resumeRepo,
			DocRepo:    docRepo,
			PDFParser:  services.NewPDFParserService(),
		}),
	})

	return &testServer{app: app, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("invalid json %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func (s *testServer) list(t *testing.T, path string) []map[string]any {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func multipartRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func behavioralPlan() interview.Plan {
	return interview.Plan{
		Categories: []string{catalog.CategoryBehavioral},
		Questions: []catalog.Question{
			{ID: "behavioral-1", Category: catalog.CategoryBehavioral, Difficulty: "General", Prompt: "Tell me about yourself."},
			{ID: "behavioral-2", Category: catalog.CategoryBehavioral, Difficulty: "General", Prompt: "Why this team?", FollowUp: "What would you change first?"},
		},
	}
}
