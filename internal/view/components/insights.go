package components

import (
	"github.com/nfrund/insightboard/internal/domain"
	g "maragu.dev/gomponents"
)

// InsightsProps is the data the insights panel accepts.
type InsightsProps struct {
	Metrics     domain.DashboardMetrics
	Responses   []domain.PromptResponse
	Competitors []domain.CompetitorRanking
	Citations   []domain.CitationCount
}

// InsightsPanel renders nothing. The panel was removed from the product, but callers
// keep passing the full data set so the signature stays stable.
func InsightsPanel(InsightsProps) g.Node {
	return g.Group{}
}
