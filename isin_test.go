package sharestax

import "testing"

func TestISINCountry(t *testing.T) {
	cases := []struct {
		isin string
		want string
	}{
		{"US67066G1040", "United States"},
		{"DE0007164600", "Germany"},
		{"ie00b4bnmy34", "Ireland"},
		{"XS0205545840", "International"},
		{"ZZ0000000000", UnknownCountry},
		{"U", UnknownCountry},
		{"", UnknownCountry},
	}
	for _, c := range cases {
		if got := ISINCountry(c.isin); got != c.want {
			t.Errorf("ISINCountry(%q) = %q, want %q", c.isin, got, c.want)
		}
	}
}

func TestIsValidISIN(t *testing.T) {
	valid := []string{"US67066G1040", "DE0007164600", "GB00B03MLX29"}
	for _, isin := range valid {
		if !IsValidISIN(isin) {
			t.Errorf("IsValidISIN(%q) = false, want true", isin)
		}
	}
	invalid := []string{
		"",
		"US67066G104",    // too short
		"US67066G10400",  // too long
		"1S67066G1040",   // numeric country prefix
		"US67066G104X",   // non-numeric check digit
		"US67066G!040",   // illegal character
	}
	for _, isin := range invalid {
		if IsValidISIN(isin) {
			t.Errorf("IsValidISIN(%q) = true, want false", isin)
		}
	}
}

func TestNewCompanyResolvesCountry(t *testing.T) {
	c, err := NewCompany("NVDA", "US67066G1040")
	if err != nil {
		t.Fatalf("NewCompany() = %v, want nil", err)
	}
	if c.Country != "United States" {
		t.Errorf("Country = %q, want United States", c.Country)
	}

	unknown, err := NewCompany("ZZZZ", "")
	if err != nil {
		t.Fatalf("NewCompany() without ISIN = %v, want nil", err)
	}
	if unknown.Country != UnknownCountry {
		t.Errorf("Country without ISIN = %q, want %q", unknown.Country, UnknownCountry)
	}
}
