package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const resumeTable = "resume"

type Resume struct {
	Base
	FirstName string  `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string  `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     *string `gorm:"type:varchar(255)" json:"email"`
	Phone     *string `gorm:"type:varchar(20)" json:"phone"`
	Summary   *string `gorm:"type:text" json:"summary"`

	// Relations, only loaded for the full view
	Educations         []Education         `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
	Certificates       []Certificate       `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
	LanguageSkills     []LanguageSkill     `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
	Domains            []Domain            `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
	Projects           []Project           `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
	ProfessionalSkills []ProfessionalSkill `gorm:"foreignKey:ResumeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Resume) TableName() string {
	return resumeTable
}

func (r Resume) Validate() error {
	return required(map[string]string{"first_name": r.FirstName, "last_name": r.LastName})
}

// FullName is used as the candidate name when an interview starts from a stored resume.
func (r Resume) FullName() string {
	return r.FirstName + " " + r.LastName
}

// ProfileText renders a resume loaded with FindFull as plain text for interview planning.
func (r Resume) ProfileText() string {
	parts := []string{r.FullName()}
	if r.Summary != nil && *r.Summary != "" {
		parts = append(parts, "Summary: "+*r.Summary)
	}
	for _, s := range r.ProfessionalSkills {
		parts = append(parts, fmt.Sprintf("Role: %s (%d years %d months)", s.JobTitleName, s.ExperienceYear, s.ExperienceMonth))
	}
	for _, p := range r.Projects {
		line := "Project: " + p.Name
		if p.ProjectDescription != nil && *p.ProjectDescription != "" {
			line += " - " + *p.ProjectDescription
		}
		parts = append(parts, line)
	}
	for _, d := range r.Domains {
		parts = append(parts, "Domain: "+d.Name)
	}
	for _, e := range r.Educations {
		parts = append(parts, fmt.Sprintf("Education: %s, %s in %s", e.School, e.Degree, e.Major))
	}
	for _, c := range r.Certificates {
		parts = append(parts, "Certificate: "+c.Certificate)
	}
	return strings.Join(parts, "\n")
}

// ResumeChildren returns one zero value per table owned by a resume, in delete order.
func ResumeChildren() []any {
	return []any{
		&ProfessionalSkill{},
		&Project{},
		&Domain{},
		&LanguageSkill{},
		&Certificate{},
		&Education{},
	}
}

type Education struct {
	Base
	ResumeID       uuid.UUID `gorm:"type:uuid;not null;index" json:"resume_id"`
	School         string    `gorm:"type:varchar(200);not null" json:"school"`
	Degree         string    `gorm:"type:varchar(100);not null" json:"degree"`
	Major          string    `gorm:"type:varchar(100);not null" json:"major"`
	Start          Date      `gorm:"not null" json:"start"`
	End            *Date     `json:"end"`
	Grade          *string   `gorm:"type:varchar(20)" json:"grade"`
	CompleteDegree *bool     `gorm:"default:true" json:"complete_degree"`
}

func (Education) TableName() string {
	return "education"
}

func (e Education) Validate() error {
	if err := requiredID("resume_id", e.ResumeID); err != nil {
		return err
	}
	if e.Start.IsZero() {
		return required(map[string]string{"start": ""})
	}
	return required(map[string]string{"school": e.School, "degree": e.Degree, "major": e.Major})
}

func (e Education) References() []Reference {
	return []Reference{{Table: resumeTable, ID: e.ResumeID}}
}

type Certificate struct {
	Base
	ResumeID              uuid.UUID  `gorm:"type:uuid;not null;index" json:"resume_id"`
	Certificate           string     `gorm:"type:varchar(200);not null" json:"certificate"`
	CertificateAuthority  *string    `gorm:"type:varchar(200)" json:"certificate_authority"`
	NotExpired            *bool      `gorm:"default:true" json:"not_expired"`
	IssueDate             *Date      `json:"issue_date"`
	ExpirationDate        *Date      `json:"expiration_date"`
	Score                 *string    `gorm:"type:varchar(20)" json:"score"`
	LicenseNo             *string    `gorm:"type:varchar(100)" json:"license_no"`
	CertificateURL        *string    `gorm:"type:varchar(500)" json:"certificate_url"`
	ForeignLanguage       *string    `gorm:"type:varchar(50)" json:"foreign_language"`
	Subject               *string    `gorm:"type:varchar(200)" json:"subject"`
	IsCTCSponsor          bool       `gorm:"default:false" json:"is_ctc_sponsor"`
	Grade                 *string    `gorm:"type:varchar(20)" json:"grade"`
	CertificateCatalogID  *string    `gorm:"type:varchar(36)" json:"certificate_catalog_id"`
	ProviderID            *string    `gorm:"type:varchar(36)" json:"provider_id"`
	Provider              *string    `gorm:"type:varchar(200)" json:"provider"`
	FieldID               *string    `gorm:"type:varchar(36)" json:"field_id"`
	Field                 *string    `gorm:"type:varchar(200)" json:"field"`
	SubFieldID            *string    `gorm:"type:varchar(36)" json:"sub_field_id"`
	SubField              *string    `gorm:"type:varchar(200)" json:"sub_field"`
	LevelID               *string    `gorm:"type:varchar(36)" json:"level_id"`
	Level                 *string    `gorm:"type:varchar(100)" json:"level"`
	Status                int        `gorm:"default:0" json:"status"`
	Attendance            *bool      `gorm:"default:true" json:"attendance"`
	FileName              *string    `gorm:"type:varchar(255)" json:"file_name"`
	IsSynced              bool       `gorm:"default:false" json:"is_synced"`
	IsEducation           bool       `gorm:"default:false" json:"is_education"`
	TechType              *string    `gorm:"type:varchar(100)" json:"tech_type"`
	RejectReason          *string    `gorm:"type:varchar(500)" json:"reject_reason"`
	IsNotHasLicenseNumber bool       `gorm:"default:false" json:"is_not_has_license_number"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c Certificate) Validate() error {
	if err := requiredID("resume_id", c.ResumeID); err != nil {
		return err
	}
	return required(map[string]string{"certificate": c.Certificate})
}

func (c Certificate) References() []Reference {
	return []Reference{{Table: resumeTable, ID: c.ResumeID}}
}

// Language is a shared dictionary entry, not owned by a resume.
type Language struct {
	Base
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

func (Language) TableName() string {
	return "languages"
}

func (l Language) Validate() error {
	return required(map[string]string{"name": l.Name})
}

type LanguageSkill struct {
	Base
	ResumeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"resume_id"`
	LanguageID  uuid.UUID `gorm:"type:uuid;not null;index" json:"language_id"`
	Proficiency int       `gorm:"default:0" json:"proficiency"`

	Language *Language `gorm:"foreignKey:LanguageID;constraint:OnDelete:CASCADE" json:"language,omitempty"`
}

func (LanguageSkill) TableName() string {
	return "language_skills"
}

func (s LanguageSkill) Validate() error {
	if err := requiredID("resume_id", s.ResumeID); err != nil {
		return err
	}
	return requiredID("language_id", s.LanguageID)
}

func (s LanguageSkill) References() []Reference {
	return []Reference{
		{Table: resumeTable, ID: s.ResumeID},
		{Table: Language{}.TableName(), ID: s.LanguageID},
	}
}

type Domain struct {
	Base
	ResumeID uuid.UUID `gorm:"type:uuid;not null;index" json:"resume_id"`
	Name     string    `gorm:"type:varchar(200);not null" json:"name"`
	Year     int       `gorm:"default:0" json:"year"`
	Month    int       `gorm:"default:0" json:"month"`
}

func (Domain) TableName() string {
	return "domains"
}

func (d Domain) Validate() error {
	if err := requiredID("resume_id", d.ResumeID); err != nil {
		return err
	}
	return required(map[string]string{"name": d.Name})
}

func (d Domain) References() []Reference {
	return []Reference{{Table: resumeTable, ID: d.ResumeID}}
}

type Project struct {
	Base
	ResumeID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"resume_id"`
	ResumeProjectID    *string        `gorm:"type:varchar(36)" json:"resume_project_id"`
	ProjectID          *string        `gorm:"type:varchar(36)" json:"project_id"`
	Name               string         `gorm:"type:varchar(200);not null" json:"name"`
	ProjectKey         *string        `gorm:"type:varchar(100)" json:"project_key"`
	ProjectCode        *string        `gorm:"type:varchar(100)" json:"project_code"`
	ProjectRank        *string        `gorm:"type:varchar(10)" json:"project_rank"`
	ProjectLead        *string        `gorm:"type:varchar(200)" json:"project_lead"`
	ProjectCategory    *string        `gorm:"type:varchar(100)" json:"project_category"`
	CustomerCode       *string        `gorm:"type:varchar(100)" json:"customer_code"`
	ContractType       *string        `gorm:"type:varchar(50)" json:"contract_type"`
	URL                *string        `gorm:"type:varchar(500)" json:"url"`
	Company            *string        `gorm:"type:varchar(200)" json:"company"`
	Type               *string        `gorm:"type:varchar(50)" json:"type"`
	TeamSize           int            `gorm:"default:0" json:"team_size"`
	SearchSkill        int            `gorm:"default:0" json:"search_skill"`
	Technology         datatypes.JSON `json:"technology"`
	ProjectDescription *string        `gorm:"type:text" json:"project_description"`
	GroupName          *string        `gorm:"column:groupname;type:varchar(200)" json:"groupname"`
	Status             *string        `gorm:"type:varchar(50)" json:"status"`
	Domain             *string        `gorm:"type:varchar(200)" json:"domain"`
	StartDate          *Date          `json:"start_date"`
	EndDate            *Date          `json:"end_date"`
	PainPoints         *string        `gorm:"type:text" json:"pain_points"`
	KeyFindings        *string        `gorm:"type:text" json:"key_findings"`
	WorkingProcess     *string        `gorm:"type:text" json:"working_process"`
	Responsibility     *string        `gorm:"type:text" json:"responsibility"`
	TechnologyByPM     *string        `gorm:"column:technology_by_pm;type:varchar(500)" json:"technology_by_pm"`
	DescriptionByPM    *string        `gorm:"column:description_by_pm;type:text" json:"description_by_pm"`
	IsUpdateTeam       bool           `gorm:"default:false" json:"is_update_team"`
	ApplyIncompleted   bool           `gorm:"default:false" json:"apply_incompleted"`
	Skill              *string        `gorm:"type:varchar(200)" json:"skill"`
	SkillCode          *string        `gorm:"type:varchar(100)" json:"skill_code"`
	Seniority          *string        `gorm:"type:varchar(100)" json:"seniority"`
}

func (Project) TableName() string {
	return "projects"
}

func (p Project) Validate() error {
	if err := requiredID("resume_id", p.ResumeID); err != nil {
		return err
	}
	return required(map[string]string{"name": p.Name})
}

func (p Project) References() []Reference {
	return []Reference{{Table: resumeTable, ID: p.ResumeID}}
}

type ProfessionalSkill struct {
	Base
	ResumeID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"resume_id"`
	JobTitleName    string         `gorm:"type:varchar(200);not null" json:"job_title_name"`
	ExperienceMonth int            `gorm:"default:0" json:"experience_month"`
	ExperienceYear  int            `gorm:"default:0" json:"experience_year"`
	JobFillByUser   *string        `gorm:"type:varchar(200)" json:"job_fill_by_user"`
	IsMainSkill     bool           `gorm:"default:false" json:"is_main_skill"`
	ProjectInfo     datatypes.JSON `json:"project_info"`
}

func (ProfessionalSkill) TableName() string {
	return "professional_skills"
}

func (s ProfessionalSkill) Validate() error {
	if err := requiredID("resume_id", s.ResumeID); err != nil {
		return err
	}
	return required(map[string]string{"job_title_name": s.JobTitleName})
}

func (s ProfessionalSkill) References() []Reference {
	return []Reference{{Table: resumeTable, ID: s.ResumeID}}
}
