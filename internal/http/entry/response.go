package entry

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

type entryResponse struct {
	ID          uuid.UUID   `json:"id"`
	Date        string      `json:"date"`
	Type        ledger.Kind `json:"type"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Amount      string      `json:"amount"`
	CreatedBy   string      `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
}

func toResponse(e *ledger.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Date:        e.Date.Format(time.DateOnly),
		Type:        e.Kind,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toResponseList(entries []*ledger.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
