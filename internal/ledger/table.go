// Package ledger holds the mutable remaining-quantity tables of one
// allocation run: stock at supply points and need at demand points.
//
// A ledger is built once per run, owned by that run and discarded with it.
// It is not safe for concurrent use.
package ledger

import "supply-route-service/internal/domain"

type entry struct {
	volume float64
	label  string
}

type point struct {
	name    string
	order   []string
	entries map[string]*entry
}

// table maps point id -> product key -> remaining volume, remembering the
// input order of both points and products.
type table struct {
	ids    []string
	points map[string]*point
}

func newTable(size int) *table {
	return &table{
		ids:    make([]string, 0, size),
		points: make(map[string]*point, size),
	}
}

func (t *table) add(id, name string, items []domain.ProductVolume) {
	p, ok := t.points[id]
	if !ok {
		p = &point{name: name, entries: make(map[string]*entry, len(items))}
		t.points[id] = p
		t.ids = append(t.ids, id)
	}

	for _, item := range items {
		key := domain.ProductKey(item.Product)
		if key == "" || !(item.Volume > 0) {
			continue
		}
		if e, ok := p.entries[key]; ok {
			e.volume += item.Volume
			continue
		}
		p.entries[key] = &entry{volume: item.Volume, label: item.Product}
		p.order = append(p.order, key)
	}
}

func (t *table) volume(id, key string) float64 {
	if p, ok := t.points[id]; ok {
		if e, ok := p.entries[key]; ok {
			return e.volume
		}
	}
	return 0
}

func (t *table) label(id, key string) string {
	if p, ok := t.points[id]; ok {
		if e, ok := p.entries[key]; ok {
			return e.label
		}
	}
	return ""
}

func (t *table) keys(id string) []string {
	p, ok := t.points[id]
	if !ok || len(p.order) == 0 {
		return nil
	}
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// subtract decrements a tracked entry and drops it once it reaches zero.
// Untracked entries and non-positive or NaN volumes are left alone.
func (t *table) subtract(id, key string, volume float64) {
	if !(volume > 0) {
		return
	}
	p, ok := t.points[id]
	if !ok {
		return
	}
	e, ok := p.entries[key]
	if !ok {
		return
	}

	e.volume -= volume
	if e.volume > 0 {
		return
	}

	delete(p.entries, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (t *table) balances() []domain.Balance {
	out := make([]domain.Balance, 0)
	for _, id := range t.ids {
		p := t.points[id]
		for _, key := range p.order {
			e := p.entries[key]
			out = append(out, domain.Balance{
				PointID:    id,
				PointName:  p.name,
				ProductKey: key,
				Product:    e.label,
				Volume:     e.volume,
			})
		}
	}
	return out
}
