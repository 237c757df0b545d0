package database

import (
	"context"
	"errors"
	"strings"

	"github.com/nfrund/insightboard/internal/config"
	"github.com/nfrund/insightboard/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// DashboardClients groups the typed clients the dashboard store reads through.
type DashboardClients struct {
	Companies *Client[domain.Company]
	Locations *Client[domain.Location]
	Prompts   *Client[domain.Prompt]
	Responses *Client[domain.PromptResponse]
	Metrics   *Client[domain.DashboardMetrics]
	Rankings  *Client[domain.CompetitorRanking]
	Citations *Client[domain.CitationCount]
}

// DashboardStore implements domain.DashboardRepository.
// Metrics, rankings and citations are precomputed elsewhere; they are only read here.
type DashboardStore struct {
	c DashboardClients
}

// NewDashboardStore creates a store from prepared clients.
func NewDashboardStore(clients DashboardClients) *DashboardStore {
	return &DashboardStore{c: clients}
}

// NewSurrealDashboardStore builds every typed client on top of source.
func NewSurrealDashboardStore(source DBSource, cfg config.Provider) (*DashboardStore, error) {
	var (
		clients DashboardClients
		err     error
	)
	if clients.Companies, err = NewClient[domain.Company](source, cfg); err != nil {
		return nil, err
	}
	if clients.Locations, err = NewClient[domain.Location](source, cfg); err != nil {
		return nil, err
	}
	if clients.Prompts, err = NewClient[domain.Prompt](source, cfg); err != nil {
		return nil, err
	}
	if clients.Responses, err = NewClient[domain.PromptResponse](source, cfg); err != nil {
		return nil, err
	}
	if clients.Metrics, err = NewClient[domain.DashboardMetrics](source, cfg); err != nil {
		return nil, err
	}
	if clients.Rankings, err = NewClient[domain.CompetitorRanking](source, cfg); err != nil {
		return nil, err
	}
	if clients.Citations, err = NewClient[domain.CitationCount](source, cfg); err != nil {
		return nil, err
	}
	return NewDashboardStore(clients), nil
}

const (
	queryCompanies = "SELECT * FROM company WHERE owner = type::thing($owner) ORDER BY name"
	queryPrompts   = "SELECT * FROM prompt WHERE company IN $companies ORDER BY text"
	queryResponses = "SELECT * FROM prompt_response WHERE prompt IN $prompts ORDER BY created_at DESC LIMIT 50"
	queryMetrics   = "SELECT * FROM dashboard_metrics WHERE owner = type::thing($owner)"
	queryRankings  = "SELECT * FROM competitor_ranking WHERE owner = type::thing($owner) ORDER BY rank"
	queryCitations = "SELECT * FROM citation_count WHERE owner = type::thing($owner) ORDER BY count DESC"

	queryOwnedCompany = "SELECT * FROM company WHERE id = type::thing($company) AND owner = type::thing($owner)"
)

// Snapshot loads every record the dashboard renders for owner.
func (s *DashboardStore) Snapshot(ctx context.Context, owner string) (*domain.DashboardSnapshot, error) {
	if owner == "" {
		return nil, NewDBError(ErrInvalidInput, "owner cannot be empty")
	}
	ownerParams := map[string]any{"owner": owner}

	companies, err := s.c.Companies.Query(ctx, queryCompanies, ownerParams)
	if err != nil {
		return nil, WrapError(err, "load companies")
	}

	snap := &domain.DashboardSnapshot{Companies: companies}

	if len(companies) > 0 {
		snap.Prompts, err = s.c.Prompts.Query(ctx, queryPrompts, map[string]any{"companies": recordIDs(companies, func(c domain.Company) string {
			return idOf(c.ID)
		})})
		if err != nil {
			return nil, WrapError(err, "load prompts")
		}
	}

	if len(snap.Prompts) > 0 {
		snap.Responses, err = s.c.Responses.Query(ctx, queryResponses, map[string]any{"prompts": recordIDs(snap.Prompts, func(p domain.Prompt) string {
			return idOf(p.ID)
		})})
		if err != nil {
			return nil, WrapError(err, "load responses")
		}
	}

	metrics, err := s.c.Metrics.QueryOne(ctx, queryMetrics, ownerParams)
	if err != nil {
		return nil, WrapError(err, "load metrics")
	}
	if metrics != nil {
		snap.Metrics = *metrics
	}

	if snap.Rankings, err = s.c.Rankings.Query(ctx, queryRankings, ownerParams); err != nil {
		return nil, WrapError(err, "load competitor rankings")
	}
	if snap.Citations, err = s.c.Citations.Query(ctx, queryCitations, ownerParams); err != nil {
		return nil, WrapError(err, "load citation counts")
	}

	return snap, nil
}

// AddCompany creates a company owned by owner.
func (s *DashboardStore) AddCompany(ctx context.Context, owner string, company *domain.Company) (*domain.Company, error) {
	if err := domain.Validate(company); err != nil {
		return nil, NewDBError(ErrInvalidInput, err.Error())
	}
	created, err := s.c.Companies.QueryOne(ctx,
		"CREATE company CONTENT { name: $name, website: $website, owner: type::thing($owner) }",
		map[string]any{"name": company.Name, "website": company.Website, "owner": owner})
	if err != nil {
		return nil, WrapError(err, "create company")
	}
	return created, nil
}

// AddLocation creates a location for a company owned by owner.
func (s *DashboardStore) AddLocation(ctx context.Context, owner string, location *domain.Location) (*domain.Location, error) {
	if err := domain.Validate(location); err != nil {
		return nil, NewDBError(ErrInvalidInput, err.Error())
	}
	if err := s.requireCompany(ctx, owner, location.Company); err != nil {
		return nil, err
	}
	return s.c.Locations.Create(ctx, "location", location)
}

// AddPrompt creates a pending prompt for a company owned by owner.
func (s *DashboardStore) AddPrompt(ctx context.Context, owner string, prompt *domain.Prompt) (*domain.Prompt, error) {
	if err := domain.Validate(prompt); err != nil {
		return nil, NewDBError(ErrInvalidInput, err.Error())
	}
	if err := s.requireCompany(ctx, owner, prompt.Company); err != nil {
		return nil, err
	}
	prompt.Status = domain.PromptPending
	return s.c.Prompts.Create(ctx, "prompt", prompt)
}

// ConfirmPrompt marks one of owner's prompts as confirmed.
// Ids outside the prompt table and prompts of other owners are not found.
func (s *DashboardStore) ConfirmPrompt(ctx context.Context, owner, id string) (*domain.Prompt, error) {
	if !inTable("prompt", id) {
		return nil, domain.ErrNotFound
	}
	prompt, err := s.c.Prompts.Select(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := s.requireCompany(ctx, owner, prompt.Company); err != nil {
		return nil, err
	}

	updated, err := s.c.Prompts.Update(ctx, id, map[string]any{"status": domain.PromptConfirmed})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// requireCompany returns domain.ErrNotFound unless company is a company record owned by owner.
func (s *DashboardStore) requireCompany(ctx context.Context, owner, company string) error {
	if owner == "" || !inTable("company", company) {
		return domain.ErrNotFound
	}
	found, err := s.c.Companies.QueryOne(ctx, queryOwnedCompany, map[string]any{"company": company, "owner": owner})
	if err != nil {
		return WrapError(err, "check company owner")
	}
	if found == nil {
		return domain.ErrNotFound
	}
	return nil
}

// inTable reports whether id is a record id of table, e.g. "prompt:p1".
func inTable(table, id string) bool {
	rest, ok := strings.CutPrefix(id, table+":")
	return ok && rest != ""
}

// GetResponse loads one prompt response by record id.
func (s *DashboardStore) GetResponse(ctx context.Context, id string) (*domain.PromptResponse, error) {
	if !inTable("prompt_response", id) {
		return nil, domain.ErrNotFound
	}
	resp, err := s.c.Responses.Select(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return resp, nil
}

func recordIDs[T any](items []T, id func(T) string) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if v := id(item); v != "" {
			ids = append(ids, v)
		}
	}
	return ids
}

func idOf(id *surrealmodels.RecordID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
