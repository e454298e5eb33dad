package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// ClientType distinguishes the two counterparty kinds of the facility.
type ClientType string

const (
	TypeFarmer ClientType = "Farmer"
	TypeTrader ClientType = "Trader"
)

// Valid reports whether t is a known client type.
func (t ClientType) Valid() bool {
	return t == TypeFarmer || t == TypeTrader
}

// Client is a Farmer or Trader counterparty. Name-like fields are stored in
// capitalized-word form; phone is globally unique, email unique when set.
type Client struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	ClientType ClientType `json:"client_type"`
	OrgName    string     `json:"org_name"`
	SO         string     `json:"s_o"`
	Address    string     `json:"address"`
	Village    string     `json:"village"`
	Mandal     string     `json:"mandal"`
	District   string     `json:"district"`
	State      string     `json:"state"`
	City       string     `json:"city"`
	Pincode    string     `json:"pincode"`
	Phone      string     `json:"phone"`
	AltPhone   string     `json:"alt_phone"`
	Email      string     `json:"email"`
}

var emailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// ValidPhone reports whether s is exactly 10 digits.
func ValidPhone(s string) bool {
	return allDigits(s) && len(s) == 10
}

// ValidPincode reports whether s is exactly 6 digits.
func ValidPincode(s string) bool {
	return allDigits(s) && len(s) == 6
}

// ValidEmail reports whether s has a simple local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CapitalizeWords upper-cases the first rune and lower-cases the rest of each
// whitespace-separated token: "ravi  KUMAR" → "Ravi Kumar".
func CapitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// CapitalizeFields normalizes every name-like field in place. Phone numbers,
// pincode, and email are left untouched.
func (c *Client) CapitalizeFields() {
	c.FirstName = CapitalizeWords(c.FirstName)
	c.LastName = CapitalizeWords(c.LastName)
	c.SO = CapitalizeWords(c.SO)
	c.Address = CapitalizeWords(c.Address)
	c.Village = CapitalizeWords(c.Village)
	c.Mandal = CapitalizeWords(c.Mandal)
	c.District = CapitalizeWords(c.District)
	c.State = CapitalizeWords(c.State)
	c.City = CapitalizeWords(c.City)
	c.OrgName = CapitalizeWords(c.OrgName)
}
