// Package domain holds the stock ledger model. Entries are immutable facts;
// the ledger only ever grows.
package domain

import "time"

// Direction distinguishes goods coming into the facility from goods leaving
// it. Both directions share one ledger table.
type Direction string

const (
	DirectionAcceptance Direction = "acceptance"
	DirectionDelivery   Direction = "delivery"
)

// Entry is one ledger record. ClientID and CommodityCode are stored as given;
// they are not checked against the client or commodity tables, so an entry
// outlives a later delete of either.
type Entry struct {
	ID            int64     `json:"id"`
	Direction     Direction `json:"direction"`
	ClientID      int64     `json:"client_id"`
	CommodityCode string    `json:"commodity_code"`
	Variety       string    `json:"variety"`
	Quantity      float64   `json:"quantity"`
	HandledBy     string    `json:"handled_by"`
	CreatedAt     time.Time `json:"created_at"`
}
