package gateway

import (
	"net/http"
	"strconv"

	"github.com/jonathan/staffpilot/internal/schemas"
)

// Endpoint describes one service route and the schema its 2xx body must satisfy.
type Endpoint struct {
	Method string
	Path   string // Relative to the client base URL
	Schema string // Empty skips schema validation
}

// Service routes.
var (
	ResumeUpload      = Endpoint{Method: http.MethodPost, Path: "/resume/upload", Schema: schemas.Upload}
	ResumeSummary     = Endpoint{Method: http.MethodGet, Path: "/resume/resume-summary", Schema: schemas.ResumeSummary}
	Chat              = Endpoint{Method: http.MethodPost, Path: "/resume/chat", Schema: schemas.Chat}
	ClearMemory       = Endpoint{Method: http.MethodPost, Path: "/resume/clear-memory", Schema: schemas.Message}
	EmailLogs         = Endpoint{Method: http.MethodGet, Path: "/resume/email-logs", Schema: schemas.EmailLogs}
	SendNotification  = Endpoint{Method: http.MethodPost, Path: "/resume/send-notification", Schema: schemas.Message}
	TestEmail         = Endpoint{Method: http.MethodPost, Path: "/resume/test-email", Schema: schemas.Message}
	SendReachOutEmail = Endpoint{Method: http.MethodPost, Path: "/resume/send-reach-out-email", Schema: schemas.Message}
	MatchCandidates   = Endpoint{Method: http.MethodPost, Path: "/jobs/match-candidates", Schema: schemas.JobMatches}
	ListJobs          = Endpoint{Method: http.MethodGet, Path: "/jobs/jobs", Schema: schemas.Jobs}
	SearchJobs        = Endpoint{Method: http.MethodGet, Path: "/jobs/jobs/search", Schema: schemas.Jobs}
	JobStatistics     = Endpoint{Method: http.MethodGet, Path: "/jobs/statistics", Schema: schemas.Statistics}
	QuickMatch        = Endpoint{Method: http.MethodPost, Path: "/jobs/quick-match", Schema: schemas.JobMatch}
)

// JobByID returns the route for a single job.
func JobByID(id int) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: "/jobs/jobs/" + strconv.Itoa(id), Schema: schemas.Job}
}
