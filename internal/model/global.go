package model

import "github.com/google/uuid"

// Well-known GlobalConfig identifiers for the invoice sender block.
const (
	GlobalFrom    = "from"
	GlobalAddress = "address"
	GlobalPhone   = "phone"
	GlobalEmail   = "email"
)

// GlobalConfig is a per-user name/value configuration record.
type GlobalConfig struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Value  string    `json:"value"`
	UserID uuid.UUID `json:"user_id"`
}

// SenderInfo is the company block printed at the top of every invoice,
// assembled from GlobalConfig records.
type SenderInfo struct {
	From    string
	Address string
	Phone   string
	Email   string
}

func SenderInfoFromGlobals(globals []GlobalConfig) SenderInfo {
	var info SenderInfo
	for _, g := range globals {
		switch g.Name {
		case GlobalFrom:
			info.From = g.Value
		case GlobalAddress:
			info.Address = g.Value
		case GlobalPhone:
			info.Phone = g.Value
		case GlobalEmail:
			info.Email = g.Value
		}
	}
	return info
}
