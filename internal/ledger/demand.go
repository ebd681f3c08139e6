package ledger

import "supply-route-service/internal/domain"

// Demand is the per-demand-point need table of a run.
type Demand struct {
	t *table
}

func NewDemand(points []domain.DemandPoint) *Demand {
	t := newTable(len(points))
	for _, p := range points {
		t.add(p.ID, p.Name, p.Needs)
	}
	return &Demand{t: t}
}

// Remaining returns the unmet need of a product at a demand point, 0 when absent.
func (l *Demand) Remaining(pointID, key string) float64 { return l.t.volume(pointID, key) }

func (l *Demand) Label(pointID, key string) string { return l.t.label(pointID, key) }

// Needs returns the product keys still needed at a point, in input order.
func (l *Demand) Needs(pointID string) []string { return l.t.keys(pointID) }

// Decrement records a delivery. Deliveries of a product the point no longer
// needs are ignored.
func (l *Demand) Decrement(pointID, key string, volume float64) {
	l.t.subtract(pointID, key, volume)
}

// Balances lists every unmet need, in input order.
func (l *Demand) Balances() []domain.Balance { return l.t.balances() }
