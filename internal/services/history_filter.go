package services

import (
	"condoparcel/internal/models"

	"github.com/google/uuid"
)

// HistoryFilter narrows an already loaded history listing.
type HistoryFilter struct {
	// MineOnly keeps packages received by DoorstaffID.
	MineOnly    bool
	DoorstaffID uuid.UUID
	Status      *models.PackageStatus
}

type FilteredHistory struct {
	Records []*models.HistoryRecord `json:"records"`
	Count   int                     `json:"count"`
}

// FilterHistory keeps the records matching every active criterion, in their original order.
func FilterHistory(records []*models.HistoryRecord, filter HistoryFilter) FilteredHistory {
	out := make([]*models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if filter.MineOnly && (rec.ReceivedBy == nil || *rec.ReceivedBy != filter.DoorstaffID) {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		out = append(out, rec)
	}
	return FilteredHistory{Records: out, Count: len(out)}
}
