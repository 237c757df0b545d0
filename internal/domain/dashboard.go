package domain

import (
	"context"

	"github.com/go-playground/validator/v10"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

var validatorInstance = validator.New()

// Validate runs struct tag validation on any of the domain input types.
func Validate(v any) error {
	return validatorInstance.Struct(v)
}

// Prompt statuses.
const (
	PromptPending   = "pending"
	PromptConfirmed = "confirmed"
)

// Company is a tracked brand owned by a user.
type Company struct {
	ID      *surrealmodels.RecordID `json:"id,omitempty"`
	Owner   *surrealmodels.RecordID `json:"owner,omitempty"`
	Name    string                  `json:"name" validate:"required,min=1,max=120"`
	Website string                  `json:"website,omitempty" validate:"omitempty,url"`
}

// Location is a market a company is tracked in.
type Location struct {
	ID      *surrealmodels.RecordID `json:"id,omitempty"`
	Company string                  `json:"company" validate:"required"`
	City    string                  `json:"city" validate:"required,max=120"`
	Country string                  `json:"country" validate:"required,len=2"`
}

// Prompt is a question sent to language models on behalf of a company.
type Prompt struct {
	ID      *surrealmodels.RecordID `json:"id,omitempty"`
	Company string                  `json:"company" validate:"required"`
	Text    string                  `json:"text" validate:"required,min=3,max=500"`
	Status  string                  `json:"status,omitempty"`
}

// PromptResponse is a model answer to a prompt. Read only in this application.
type PromptResponse struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	Prompt    string                        `json:"prompt"`
	Model     string                        `json:"model"`
	Content   string                        `json:"content"`
	Mentioned bool                          `json:"mentioned"`
	Position  int                           `json:"position"`
	CreatedAt *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
}

// DashboardMetrics are precomputed aggregates. They are displayed as-is.
type DashboardMetrics struct {
	VisibilityScore float64 `json:"visibility_score"`
	MentionRate     float64 `json:"mention_rate"`
	AveragePosition float64 `json:"average_position"`
	TotalResponses  int     `json:"total_responses"`
}

// CompetitorRanking is one row of the precomputed competitor table.
type CompetitorRanking struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
	Rank     int    `json:"rank"`
}

// CitationCount is the precomputed number of citations for a source domain.
type CitationCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// DashboardSnapshot bundles everything the dashboard page renders.
type DashboardSnapshot struct {
	Metrics   DashboardMetrics
	Companies []Company
	Prompts   []Prompt
	Responses []PromptResponse
	Rankings  []CompetitorRanking
	Citations []CitationCount
}

// DashboardRepository loads and stores the dashboard records of a user.
// Writes are scoped to owner: a company or prompt owned by someone else is
// reported as ErrNotFound.
type DashboardRepository interface {
	Snapshot(ctx context.Context, owner string) (*DashboardSnapshot, error)
	AddCompany(ctx context.Context, owner string, company *Company) (*Company, error)
	AddLocation(ctx context.Context, owner string, location *Location) (*Location, error)
	AddPrompt(ctx context.Context, owner string, prompt *Prompt) (*Prompt, error)
	ConfirmPrompt(ctx context.Context, owner, id string) (*Prompt, error)
	GetResponse(ctx context.Context, id string) (*PromptResponse, error)
}
