package domain

import "testing"

func TestCapitalizeWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ravi", "Ravi"},
		{"ravi kumar", "Ravi Kumar"},
		{"RAVI KUMAR", "Ravi Kumar"},
		{"  ravi   kumar  ", "Ravi Kumar"},
		{"", ""},
		{"o", "O"},
	}
	for _, tt := range tests {
		if got := CapitalizeWords(tt.in); got != tt.want {
			t.Errorf("CapitalizeWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"987654321", false},
		{"98765432100", false},
		{"98765abcde", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPhone(tt.in); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidPincode(t *testing.T) {
	if !ValidPincode("500001") {
		t.Error("500001 should be a valid pincode")
	}
	for _, bad := range []string{"50001", "5000011", "50O001", ""} {
		if ValidPincode(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", "ravi.kumar@example.com", "x_y-z@mail.example.in"} {
		if !ValidEmail(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"", "plain", "a@b", "@b.co", "a@.co"} {
		if ValidEmail(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestCapitalizeFields(t *testing.T) {
	c := &Client{
		FirstName: "ravi",
		LastName:  "kumar",
		OrgName:   "ravi kumar",
		Village:   "gollapadu",
		Phone:     "9876543210",
		Email:     "ravi@example.com",
	}
	c.CapitalizeFields()
	if c.FirstName != "Ravi" || c.LastName != "Kumar" || c.OrgName != "Ravi Kumar" || c.Village != "Gollapadu" {
		t.Errorf("name fields not capitalized: %+v", c)
	}
	if c.Phone != "9876543210" {
		t.Errorf("phone should be untouched, got %q", c.Phone)
	}
	if c.Email != "ravi@example.com" {
		t.Errorf("email should be untouched, got %q", c.Email)
	}
}
