package advisor

import (
	"math/rand"
	"time"

	"spendtrack/internal/core"
)

// ScanResult is the simulated output of receipt OCR. A real deployment
// would call a vision service here; this returns plausible mock data so the
// client flow can be exercised end to end.
type ScanResult struct {
	Amount     core.Money    `json:"amount"`
	Merchant   string        `json:"merchant"`
	Date       string        `json:"date"`
	Category   core.Category `json:"category"`
	Confidence int           `json:"confidence"`
}

var (
	scanMerchants  = []string{"Starbucks", "McDonald's", "Target", "Walmart", "Gas Station"}
	scanCategories = []core.Category{core.CategoryFood, core.CategoryShopping, core.CategoryTransportation}
)

// Scanner fabricates receipt scans. The random source is injected so tests
// can pin the output.
type Scanner struct {
	rng *rand.Rand
}

func NewScanner(rng *rand.Rand) *Scanner {
	return &Scanner{rng: rng}
}

// Scan returns a mock result: amount 10..109 whole dollars, a merchant from
// the fixed list, today's date, and confidence 80..99.
func (s *Scanner) Scan(now time.Time) ScanResult {
	return ScanResult{
		Amount:     core.Money{Cents: int64(s.rng.Intn(100)+10) * 100},
		Merchant:   scanMerchants[s.rng.Intn(len(scanMerchants))],
		Date:       now.Format("2006-01-02"),
		Category:   scanCategories[s.rng.Intn(len(scanCategories))],
		Confidence: 80 + s.rng.Intn(20),
	}
}
