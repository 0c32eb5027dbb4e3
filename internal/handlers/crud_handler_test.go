package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestResumeCRUD(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	status, resume := s.do(t, http.MethodPost, "/api/v1/resumes", map[string]any{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "grace@example.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: status %d %v", status, resume)
	}
	id := resume["id"].(string)

	status, _ = s.do(t, http.MethodPut, "/api/v1/resumes/"+id, map[string]any{"summary": "Compiler pioneer"})
	if status != http.StatusOK {
		t.Fatalf("update: status %d", status)
	}
	status, got := s.do(t, http.MethodGet, "/api/v1/resumes/"+id, nil)
	if status != http.StatusOK {
		t.Fatalf("get: status %d", status)
	}
	if got["first_name"] != "Grace" || got["summary"] != "Compiler pioneer" || got["email"] != "grace@example.com" {
		t.Errorf("partial update lost fields: %v", got)
	}

	if n := len(s.list(t, "/api/v1/resumes")); n != 1 {
		t.Errorf("expected 1 resume, got %d", n)
	}

	if status, _ := s.do(t, http.MethodDelete, "/api/v1/resumes/"+id, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/v1/resumes/"+id, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

func TestCRUDErrors(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing required field", http.MethodPost, "/api/v1/resumes", map[string]any{"first_name": "Ada"}, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/api/v1/resumes/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/v1/domains/5b3f8f5e-3c8b-4a8e-9c61-0d5b8c2e9f10", nil, http.StatusNotFound},
		{"unknown id on delete", http.MethodDelete, "/api/v1/projects/5b3f8f5e-3c8b-4a8e-9c61-0d5b8c2e9f10", nil, http.StatusNotFound},
		{
			"unknown foreign key",
			http.MethodPost,
			"/api/v1/domains",
			map[string]any{"resume_id": "5b3f8f5e-3c8b-4a8e-9c61-0d5b8c2e9f10", "name": "Fintech"},
			http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if status, body := s.do(t, tc.method, tc.path, tc.body); status != tc.want {
				t.Errorf("status = %d, want %d (%v)", status, tc.want, body)
			}
		})
	}
}

func TestResumeFullView(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	_, resume := s.do(t, http.MethodPost, "/api/v1/resumes", map[string]any{"first_name": "Linus", "last_name": "T"})
	resumeID := resume["id"].(string)

	_, lang := s.do(t, http.MethodPost, "/api/v1/languages", map[string]any{"name": "English"})
	status, _ := s.do(t, http.MethodPost, "/api/v1/languages/skills", map[string]any{
		"resume_id":   resumeID,
		"language_id": lang["id"],
		"proficiency": 5,
	})
	if status != http.StatusCreated {
		t.Fatalf("create language skill: status %d", status)
	}
	status, _ = s.do(t, http.MethodPost, "/api/v1/education", map[string]any{
		"resume_id": resumeID,
		"school":    "University of Helsinki",
		"degree":    "MSc",
		"major":     "Computer Science",
		"start":     "1988-09-01T00:00:00Z",
	})
	if status != http.StatusCreated {
		t.Fatalf("create education: status %d", status)
	}

	if n := len(s.list(t, "/api/v1/languages/skills/resume/"+resumeID)); n != 1 {
		t.Errorf("expected 1 language skill for resume, got %d", n)
	}

	status, full := s.do(t, http.MethodGet, "/api/v1/resumes/"+resumeID+"/full", nil)
	if status != http.StatusOK {
		t.Fatalf("full: status %d", status)
	}
	for _, key := range []string{"educations", "certificates", "languages", "domains", "projects", "professional_skills"} {
		if _, ok := full[key].([]any); !ok {
			t.Errorf("%s must be an array, got %T", key, full[key])
		}
	}
	languages := full["languages"].([]any)
	if len(languages) != 1 {
		t.Fatalf("expected one language skill, got %d", len(languages))
	}
	nested, _ := languages[0].(map[string]any)["language"].(map[string]any)
	if nested["name"] != "English" {
		t.Errorf("language skill must include the language, got %v", languages[0])
	}
	if len(full["educations"].([]any)) != 1 || len(full["projects"].([]any)) != 0 {
		t.Errorf("unexpected collections %v", full)
	}

	if status, _ := s.do(t, http.MethodDelete, "/api/v1/resumes/"+resumeID, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if n := len(s.list(t, "/api/v1/education")); n != 0 {
		t.Errorf("education must be deleted with the resume, got %d", n)
	}
	if n := len(s.list(t, "/api/v1/languages")); n != 1 {
		t.Errorf("languages are shared and must survive, got %d", n)
	}
}

func TestCRUDAcceptsZonelessDates(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	_, resume := s.do(t, http.MethodPost, "/api/v1/resumes", map[string]any{"first_name": "John", "last_name": "Smith"})
	resumeID := resume["id"].(string)

	cases := []struct {
		path string
		body map[string]any
		key  string
	}{
		{
			"/api/v1/education",
			map[string]any{
				"resume_id": resumeID,
				"school":    "Stanford University",
				"degree":    "Bachelor of Science",
				"major":     "Computer Science",
				"start":     "2018-09-01T00:00:00",
				"end":       "2022-06-01T00:00:00",
			},
			"start",
		},
		{
			"/api/v1/certificates",
			map[string]any{
				"resume_id":   resumeID,
				"certificate": "AWS Certified Solutions Architect",
				"issue_date":  "2023-01-15T00:00:00",
			},
			"issue_date",
		},
		{
			"/api/v1/projects",
			map[string]any{
				"resume_id":  resumeID,
				"name":       "E-commerce Platform",
				"start_date": "2023-01-01T00:00:00",
				"end_date":   "2023-12-31",
			},
			"start_date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			status, created := s.do(t, http.MethodPost, tc.path, tc.body)
			if status != http.StatusCreated {
				t.Fatalf("create: status %d %v", status, created)
			}

			status, got := s.do(t, http.MethodGet, tc.path+"/"+created["id"].(string), nil)
			if status != http.StatusOK {
				t.Fatalf("get: status %d", status)
			}
			if v, _ := got[tc.key].(string); !strings.HasPrefix(v, tc.body[tc.key].(string)[:10]) {
				t.Errorf("%s = %v, want date %s", tc.key, got[tc.key], tc.body[tc.key])
			}
		})
	}

	status, _ := s.do(t, http.MethodPost, "/api/v1/education", map[string]any{
		"resume_id": resumeID,
		"school":    "MIT",
		"degree":    "BSc",
		"major":     "CS",
		"start":     "sometime in 2018",
	})
	if status != http.StatusBadRequest {
		t.Errorf("unparseable date: status %d, want 400", status)
	}
}
