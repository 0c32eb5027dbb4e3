package handlers_test

import (
	"net/http"
	"testing"

	"alfredoptarigan/interview-copilot/internal/interview"
)

const detailedAnswer = "I have spent six years building payment services in Go and leading a small platform team"

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	status, started := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{
		"candidate_name": "Ada",
		"job_id":         "",
		"categories":     []string{"Behavioral"},
	})
	if status != http.StatusCreated {
		t.Fatalf("start: status %d %v", status, started)
	}
	if started["state"] != string(interview.StateInProgress) || started["prompt"] != "Tell me about yourself." {
		t.Fatalf("unexpected start response %v", started)
	}
	base := "/api/v1/interviews/" + started["id"].(string)

	if status, _ := s.do(t, http.MethodPost, base+"/turns", map[string]any{"answer": "  "}); status != http.StatusBadRequest {
		t.Errorf("empty answer: status %d", status)
	}

	status, turn := s.do(t, http.MethodPost, base+"/turns", map[string]any{"answer": detailedAnswer})
	if status != http.StatusOK || turn["prompt"] != "Why this team?" {
		t.Fatalf("turn: status %d %v", status, turn)
	}

	// A short answer earns the stored follow-up.
	status, turn = s.do(t, http.MethodPost, base+"/turns", map[string]any{"answer": "Good people."})
	if status != http.StatusOK || turn["follow_up"] != true || turn["prompt"] != "What would you change first?" {
		t.Fatalf("follow-up turn: status %d %v", status, turn)
	}

	status, turn = s.do(t, http.MethodPost, base+"/turns", map[string]any{"answer": "The release process."})
	if status != http.StatusOK || turn["state"] != string(interview.StateConcluding) {
		t.Fatalf("last turn: status %d %v", status, turn)
	}

	if status, _ := s.do(t, http.MethodPost, base+"/turns", map[string]any{"answer": detailedAnswer}); status != http.StatusConflict {
		t.Errorf("answer after conclusion: status %d", status)
	}

	status, final := s.do(t, http.MethodPost, base+"/finalize", nil)
	if status != http.StatusOK || final["assessment"] != "Recommendation: hire" {
		t.Fatalf("finalize: status %d %v", status, final)
	}

	status, stored := s.do(t, http.MethodGet, base, nil)
	if status != http.StatusOK || stored["state"] != string(interview.StateFinished) {
		t.Fatalf("get finished: status %d %v", status, stored)
	}
	if status, result := s.do(t, http.MethodGet, "/api/v1/results/"+started["id"].(string), nil); status != http.StatusOK || result["metrics"] == nil {
		t.Errorf("result: status %d %v", status, result)
	}
	if n := len(s.list(t, "/api/v1/results")); n != 1 {
		t.Errorf("expected one stored result, got %d", n)
	}
}

func TestInterviewFollowUpWriterFailure(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	_, started := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{"candidate_name": "Ada"})
	base := "/api/v1/interviews/" + started["id"].(string)

	// The first question has no stored follow-up, so the failing writer is consulted.
	status, body := s.do(t, http.MethodPost, base+"/turns", map[string]any{"answer": "Not much."})
	if status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d %v", status, body)
	}
	if body["state"] != string(interview.StateInProgress) || body["prompt"] != "Tell me about yourself." {
		t.Errorf("state must be unchanged, got %v", body)
	}

	_, snap := s.do(t, http.MethodGet, base, nil)
	if entries := snap["transcription"].([]any); len(entries) != 2 {
		t.Errorf("failed turn must not be recorded, got %d entries", len(entries))
	}
}

func TestInterviewConcludeManually(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	_, started := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{"candidate_name": "Ada"})
	base := "/api/v1/interviews/" + started["id"].(string)

	status, body := s.do(t, http.MethodPost, base+"/conclude", nil)
	if status != http.StatusOK || body["state"] != string(interview.StateConcluding) {
		t.Fatalf("conclude: status %d %v", status, body)
	}
	status, body = s.do(t, http.MethodGet, base, nil)
	if status != http.StatusOK || body["conclusion_reason"] != interview.ReasonManual {
		t.Errorf("unexpected snapshot %v", body)
	}
}

func TestInterviewStartFailures(t *testing.T) {
	s := newTestServer(t, interview.Plan{})

	status, body := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{"candidate_name": "Ada"})
	if status != http.StatusUnprocessableEntity || body["state"] != string(interview.StateFailed) {
		t.Errorf("no questions: status %d %v", status, body)
	}

	if status, _ := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{}); status != http.StatusBadRequest {
		t.Errorf("missing candidate: status %d", status)
	}
	if status, _ := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{"candidate_name": "Ada", "job_id": "missing"}); status != http.StatusNotFound {
		t.Errorf("unknown job: status %d", status)
	}
	if status, _ := s.do(t, http.MethodGet, "/api/v1/interviews/5b3f8f5e-3c8b-4a8e-9c61-0d5b8c2e9f10", nil); status != http.StatusNotFound {
		t.Errorf("unknown interview: status %d", status)
	}
}

func TestInterviewStartsFromStoredResume(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	_, resume := s.do(t, http.MethodPost, "/api/v1/resumes", map[string]any{"first_name": "Grace", "last_name": "Hopper"})

	status, started := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{"resume_id": resume["id"]})
	if status != http.StatusCreated {
		t.Fatalf("start: status %d %v", status, started)
	}
	_, snap := s.do(t, http.MethodGet, "/api/v1/interviews/"+started["id"].(string), nil)
	if snap["candidate_name"] != "Grace Hopper" {
		t.Errorf("candidate name must default to the resume, got %v", snap["candidate_name"])
	}
}

func TestInterviewAudioUpload(t *testing.T) {
	s := newTestServer(t, behavioralPlan())

	_, started := s.do(t, http.MethodPost, "/api/v1/interviews", map[string]any{"candidate_name": "Ada"})
	base := "/api/v1/interviews/" + started["id"].(string)

	status, body := s.send(t, multipartRequest(t, base+"/audio", "audio", "turn-1.wav", []byte("RIFF....WAVE")))
	if status != http.StatusCreated || body["kind"] != "audio" {
		t.Fatalf("upload audio: status %d %v", status, body)
	}
	if status, _ := s.send(t, multipartRequest(t, base+"/audio", "audio", "notes.txt", []byte("x"))); status != http.StatusBadRequest {
		t.Errorf("unsupported audio: status %d", status)
	}
	if n := len(s.list(t, base+"/audio")); n != 1 {
		t.Errorf("expected one recording, got %d", n)
	}

	unknown := "/api/v1/interviews/5b3f8f5e-3c8b-4a8e-9c61-0d5b8c2e9f10/audio"
	if status, _ := s.send(t, multipartRequest(t, unknown, "audio", "a.wav", []byte("x"))); status != http.StatusNotFound {
		t.Errorf("audio for unknown interview: status %d", status)
	}
}
