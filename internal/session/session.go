// Package session keeps per-viewer catalog state: the filter, the comparison
// set, the open detail part and pending notices.
package session

import (
	"time"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// StockRequestNotice is delivered once a stock request has been forwarded
const StockRequestNotice = "Request sent to Iraqi suppliers!"

// Notice is a message queued for the viewer
type Notice struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	PartID    string    `json:"partId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const NoticeStockRequest = "stock_request"

// Snapshot is the persisted form of a session
type Snapshot struct {
	ID             string             `json:"id"`
	Filter         models.FilterState `json:"filter"`
	Compare        []string           `json:"compare"`
	DetailID       string             `json:"detailId,omitempty"`
	DetailCursor   int                `json:"detailCursor"`
	StockRequested []string           `json:"stockRequested"`
	Notices        []Notice           `json:"notices"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

func newSnapshot(id string, now time.Time) *Snapshot {
	return &Snapshot{
		ID:             id,
		Filter:         models.DefaultFilter(),
		Compare:        []string{},
		StockRequested: []string{},
		Notices:        []Notice{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *Snapshot) HasRequestedStock(partID string) bool {
	for _, id := range s.StockRequested {
		if id == partID {
			return true
		}
	}
	return false
}
