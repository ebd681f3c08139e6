package ledger

import "supply-route-service/internal/domain"

// Inventory is the per-supply-point stock table of a run.
type Inventory struct {
	t *table
}

// NewInventory copies the stocks of the given points. Non-positive volumes
// are not tracked; labels that normalize to the same key are merged.
func NewInventory(points []domain.SupplyPoint) *Inventory {
	t := newTable(len(points))
	for _, p := range points {
		t.add(p.ID, p.Name, p.Stocks)
	}
	return &Inventory{t: t}
}

// Available returns the stock of a product at a supply point, 0 when absent.
func (l *Inventory) Available(pointID, key string) float64 { return l.t.volume(pointID, key) }

// Label returns the original product label recorded for the entry.
func (l *Inventory) Label(pointID, key string) string { return l.t.label(pointID, key) }

// Products returns the product keys still in stock at a point, in input order.
func (l *Inventory) Products(pointID string) []string { return l.t.keys(pointID) }

// Decrement removes volume from a point's stock. An entry that drops to zero
// or below is removed.
func (l *Inventory) Decrement(pointID, key string, volume float64) {
	l.t.subtract(pointID, key, volume)
}

// Balances lists every non-zero stock left, in input order.
func (l *Inventory) Balances() []domain.Balance { return l.t.balances() }
