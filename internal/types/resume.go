// Package types provides type definitions for the payloads exchanged with the hiring-assistant service.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ParsedResume is the full candidate record the service extracts from an uploaded PDF.
type ParsedResume struct {
	Filename       string           `json:"filename,omitempty"`
	FullName       string           `json:"full_name,omitempty"`
	Email          string           `json:"email,omitempty"`
	PhoneNumber    string           `json:"phone_number,omitempty"`
	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
	Certifications []Certification  `json:"certifications,omitempty"`
	Timestamp      string           `json:"timestamp,omitempty"`
}

// WorkExperience is one position listed on a resume.
type WorkExperience struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one qualification listed on a resume.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
	Field       string `json:"field,omitempty"`
}

// Certification is one certificate listed on a resume.
type Certification struct {
	Title  string `json:"title,omitempty"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// UploadResponse is the body returned by POST /resume/upload.
type UploadResponse struct {
	ParsedResume *ParsedResume `json:"parsed_resume"`
}

// ResumeSummary is the condensed listing entry for one parsed candidate.
type ResumeSummary struct {
	Filename        string `json:"filename"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	SkillsCount     int    `json:"skills_count"`
	ExperienceCount int    `json:"experience_count"`
	EducationCount  int    `json:"education_count"`
	Timestamp       string `json:"timestamp"`
}

// ResumeSummaryResponse is the body returned by GET /resume/resume-summary.
// When no resumes exist the service only sends Message.
type ResumeSummaryResponse struct {
	Resumes      []ResumeSummary `json:"resumes"`
	TotalResumes int             `json:"total_resumes"`
	Message      string          `json:"message,omitempty"`
}

// NotificationRequest asks the service to email HR about the latest upload.
type NotificationRequest struct {
	HREmail       string `json:"hr_email" validate:"required,email"`
	CandidateName string `json:"candidate_name,omitempty"`
}

// Validate validates the NotificationRequest using the validator.
func (r *NotificationRequest) Validate() error {
	return validate.Struct(r)
}

// NotificationResponse is the body returned by POST /resume/send-notification.
type NotificationResponse struct {
	Message   string `json:"message"`
	Candidate string `json:"candidate,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TestEmailRequest identifies the recipient of a service test email.
type TestEmailRequest struct {
	RecipientEmail string `validate:"required,email"`
}

// Validate validates the TestEmailRequest using the validator.
func (r *TestEmailRequest) Validate() error {
	return validate.Struct(r)
}

// TestEmailResponse is the body returned by POST /resume/test-email.
type TestEmailResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
	Status    string `json:"status,omitempty"`
}
