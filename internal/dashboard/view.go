package dashboard

import "FxSignals/internal/domain/models"

// SignalView keeps the latest record per pair in first-seen order.
// It only grows: pairs missing from a later batch keep their last record.
type SignalView struct {
	order []string
	byKey map[string]models.SignalRecord
}

func NewSignalView() *SignalView {
	return &SignalView{byKey: make(map[string]models.SignalRecord)}
}

// Merge replaces records in place by pair and appends unseen pairs.
func (v *SignalView) Merge(batch []models.SignalRecord) {
	for _, rec := range batch {
		if _, ok := v.byKey[rec.Pair]; !ok {
			v.order = append(v.order, rec.Pair)
		}
		v.byKey[rec.Pair] = rec
	}
}

// Records returns a copy of the view in display order.
func (v *SignalView) Records() []models.SignalRecord {
	out := make([]models.SignalRecord, len(v.order))
	for i, pair := range v.order {
		out[i] = v.byKey[pair]
	}
	return out
}

func (v *SignalView) Len() int { return len(v.order) }
