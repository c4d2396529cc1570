package models

import "time"

type ClientType string

const (
	ClientPersonal  ClientType = "personal"
	ClientBusiness  ClientType = "business"
	ClientWholesale ClientType = "wholesale"
)

func (t ClientType) Valid() bool {
	switch t {
	case ClientPersonal, ClientBusiness, ClientWholesale:
		return true
	}
	return false
}

// Label is the display name used on client cards.
func (t ClientType) Label() string {
	switch t {
	case ClientPersonal:
		return "Personal"
	case ClientBusiness:
		return "Business"
	default:
		return "Wholesale"
	}
}

type Client struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Zip       string     `json:"zip"`
	Country   string     `json:"country"`
	Type      ClientType `json:"type"`
	Note      string     `json:"note"`
	CreatedAt time.Time  `json:"createdAt"`
}
