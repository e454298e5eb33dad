// Package domain holds the commodity taxonomy model: commodities own
// varieties, varieties own grades.
package domain

// Commodity is the top level of the taxonomy. HSNCode may be empty.
type Commodity struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HSNCode string `json:"hsn_code,omitempty"`
}

// Variety belongs to exactly one commodity.
type Variety struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CommodityID int64  `json:"commodity_id"`
}

// Grade belongs to exactly one variety.
type Grade struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	VarietyID int64  `json:"variety_id"`
}

// ImportRow is one row of a bulk taxonomy import. Variety, Grade, and HSNCode
// may be blank; a blank Commodity marks the row as skippable.
type ImportRow struct {
	Commodity string
	Variety   string
	Grade     string
	HSNCode   string
}
