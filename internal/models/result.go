package models

type UploadResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type StartInterviewRequest struct {
	CandidateName    string   `json:"candidate_name"`
	ResumeID         string   `json:"resume_id"`
	JobID            string   `json:"job_id"`
	ResumeText       string   `json:"resume_text"`
	JobDescription   string   `json:"job_description"`
	ResumeDocumentID string   `json:"resume_document_id"`
	Categories       []string `json:"categories"`
	TimeLimitMinutes int      `json:"time_limit_minutes"`
}

type TurnRequest struct {
	Answer string `json:"answer"`
}

type InterviewResponse struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	Prompt        string `json:"prompt"`
	QuestionIndex int    `json:"question_index"`
	FollowUp      bool   `json:"follow_up"`
	Error         string `json:"error,omitempty"`
}

type FinalizeResponse struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Assessment string `json:"assessment"`
}

// ResumeFull is the aggregate view of a resume and all of its child collections.
type ResumeFull struct {
	Resume
	Educations         []Education         `json:"educations"`
	Certificates       []Certificate       `json:"certificates"`
	Languages          []LanguageSkill     `json:"languages"`
	Domains            []Domain            `json:"domains"`
	Projects           []Project           `json:"projects"`
	ProfessionalSkills []ProfessionalSkill `json:"professional_skills"`
}

// NewResumeFull builds the aggregate from a resume with preloaded relations.
// Missing collections are rendered as empty arrays.
func NewResumeFull(r *Resume) ResumeFull {
	full := ResumeFull{
		Resume:             *r,
		Educations:         nonNil(r.Educations),
		Certificates:       nonNil(r.Certificates),
		Languages:          nonNil(r.LanguageSkills),
		Domains:            nonNil(r.Domains),
		Projects:           nonNil(r.Projects),
		ProfessionalSkills: nonNil(r.ProfessionalSkills),
	}
	return full
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
