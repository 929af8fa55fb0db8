// ABOUTME: Benchmark scenarios for extraction accuracy
// ABOUTME: Each scenario pairs a financial document with the field values a correct run reports

package accuracy

import (
	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/models"
)

// Scenario is one benchmark document with its ground truth
type Scenario struct {
	ID          string
	Name        string
	Description string
	Document    string
	Mode        core.Mode
	GroundTruth GroundTruth
}

// GroundTruth defines the expected outcome of extracting a scenario
type GroundTruth struct {
	// Fields maps every schema field to its expected value.
	// models.NotAvailable marks fields the document does not state.
	Fields map[string]string

	// RetrievalQuery and ExpectedContextItems drive the recall metric.
	// An empty query skips it.
	RetrievalQuery       string
	ExpectedContextItems []string
}

// GetQ4Letter returns the fully populated quarterly letter
func GetQ4Letter() Scenario {
	return Scenario{
		ID:          "q4",
		Name:        "Q4 shareholder letter",
		Description: "Every line item is stated once in plain prose",
		Mode:        core.ModeDirect,
		Document: `Dear shareholders,

Acme Corp closed the fourth quarter of 2024 with total revenue of $12,400,000.
Product sales contributed $7,100,000, service revenue was $3,200,000 and
subscription revenue reached $2,100,000.

Total expenses for the quarter were $9,300,000. Cost of goods sold (COGS)
came to $4,000,000, while marketing and R&D expenses totalled $2,600,000.

Net profit was $3,100,000, a profit margin of 25%. We project revenue of
$13,500,000 for next quarter. During the quarter the company raised
$5,000,000 in a Series B investment round.`,
		GroundTruth: GroundTruth{
			Fields: map[string]string{
				"Total Revenue":             "$12,400,000",
				"Product Sales Revenue":     "$7,100,000",
				"Service Revenue":           "$3,200,000",
				"Subscription Revenue":      "$2,100,000",
				"Total Expenses":            "$9,300,000",
				"COGS":                      "$4,000,000",
				"Marketing & R&D Expenses":  "$2,600,000",
				"Net Profit":                "$3,100,000",
				"Profit Margin":             "25%",
				"Future Revenue Projection": "$13,500,000",
				"Investment Raised":         "$5,000,000",
			},
			RetrievalQuery:       "net profit and profit margin",
			ExpectedContextItems: []string{"Net profit was $3,100,000"},
		},
	}
}

// GetSparseUpdate returns a short update that omits most line items
func GetSparseUpdate() Scenario {
	return Scenario{
		ID:          "sparse",
		Name:        "Sparse investor update",
		Description: "Only revenue and funding are stated; everything else must be N/A",
		Mode:        core.ModeDirect,
		Document: `Quick update for investors: revenue for the quarter landed at $840,000
and we closed a $1,500,000 seed extension last week. Full financials will
follow with the annual report.`,
		GroundTruth: GroundTruth{
			Fields: map[string]string{
				"Total Revenue":             "$840,000",
				"Product Sales Revenue":     models.NotAvailable,
				"Service Revenue":           models.NotAvailable,
				"Subscription Revenue":      models.NotAvailable,
				"Total Expenses":            models.NotAvailable,
				"COGS":                      models.NotAvailable,
				"Marketing & R&D Expenses":  models.NotAvailable,
				"Net Profit":                models.NotAvailable,
				"Profit Margin":             models.NotAvailable,
				"Future Revenue Projection": models.NotAvailable,
				"Investment Raised":         "$1,500,000",
			},
		},
	}
}

// GetLongFiling returns a filing long enough that retrieval mode must pick chunks
func GetLongFiling() Scenario {
	return Scenario{
		ID:          "filing",
		Name:        "Long quarterly filing",
		Description: "Figures are scattered through boilerplate; retrieval mode narrows the context",
		Mode:        core.ModeRetrieval,
		Document: `Forward-looking statements. This filing contains statements about future
events that involve risks and uncertainties. Actual results may differ
materially from those described here. We undertake no obligation to update
these statements.

Business overview. The company designs industrial sensors and sells them
together with monitoring services and annual software subscriptions. Our
customers are manufacturers in North America and Europe.

Results of operations. Total revenue for the quarter was $48,000,000, of
which product sales were $30,000,000, service revenue was $11,000,000 and
subscription revenue was $7,000,000.

Costs. Total expenses were $41,000,000. Cost of goods sold (COGS) was
$19,000,000 and marketing and R&D expenses were $9,500,000.

Profitability. Net profit for the quarter was $7,000,000, a profit margin
of 14.6%.

Outlook. Management projects revenue of $50,000,000 for next quarter.

Liquidity. No equity was raised during the quarter; operations were funded
from cash on hand.`,
		GroundTruth: GroundTruth{
			Fields: map[string]string{
				"Total Revenue":             "$48,000,000",
				"Product Sales Revenue":     "$30,000,000",
				"Service Revenue":           "$11,000,000",
				"Subscription Revenue":      "$7,000,000",
				"Total Expenses":            "$41,000,000",
				"COGS":                      "$19,000,000",
				"Marketing & R&D Expenses":  "$9,500,000",
				"Net Profit":                "$7,000,000",
				"Profit Margin":             "14.6%",
				"Future Revenue Projection": "$50,000,000",
				"Investment Raised":         models.NotAvailable,
			},
			RetrievalQuery: "total revenue product sales service subscription",
			ExpectedContextItems: []string{
				"Total revenue for the quarter was $48,000,000",
				"subscription revenue was $7,000,000",
			},
		},
	}
}

// GetAllScenarios returns every benchmark scenario
func GetAllScenarios() []Scenario {
	return []Scenario{
		GetQ4Letter(),
		GetSparseUpdate(),
		GetLongFiling(),
	}
}

// ScenarioByID looks up a scenario by its ID
func ScenarioByID(id string) (Scenario, bool) {
	for _, s := range GetAllScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
