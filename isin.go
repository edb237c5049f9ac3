package sharestax

import "strings"

// isinLength is the fixed length of an ISIN: 2-letter country prefix,
// 9-character national identifier, 1 check digit.
const isinLength = 12

// isinCountries maps ISO 3166-1 alpha-2 prefixes to country names.
// XS is the special prefix for international securities cleared through
// Euroclear/Clearstream.
var isinCountries = map[string]string{
	"AE": "United Arab Emirates",
	"AR": "Argentina",
	"AT": "Austria",
	"AU": "Australia",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"BM": "Bermuda",
	"BR": "Brazil",
	"BS": "Bahamas",
	"CA": "Canada",
	"CH": "Switzerland",
	"CL": "Chile",
	"CN": "China",
	"CO": "Colombia",
	"CY": "Cyprus",
	"CZ": "Czechia",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GB": "United Kingdom",
	"GG": "Guernsey",
	"GI": "Gibraltar",
	"GR": "Greece",
	"HK": "Hong Kong",
	"HR": "Croatia",
	"HU": "Hungary",
	"ID": "Indonesia",
	"IE": "Ireland",
	"IL": "Israel",
	"IM": "Isle of Man",
	"IN": "India",
	"IS": "Iceland",
	"IT": "Italy",
	"JE": "Jersey",
	"JP": "Japan",
	"KR": "Korea, Republic of",
	"KY": "Cayman Islands",
	"LI": "Liechtenstein",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"MC": "Monaco",
	"MH": "Marshall Islands",
	"MT": "Malta",
	"MX": "Mexico",
	"MY": "Malaysia",
	"NL": "Netherlands",
	"NO": "Norway",
	"NZ": "New Zealand",
	"PA": "Panama",
	"PE": "Peru",
	"PH": "Philippines",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"RU": "Russian Federation",
	"SA": "Saudi Arabia",
	"SE": "Sweden",
	"SG": "Singapore",
	"SI": "Slovenia",
	"SK": "Slovakia",
	"TH": "Thailand",
	"TR": "Turkey",
	"TW": "Taiwan, Province of China",
	"US": "United States",
	"VG": "Virgin Islands, British",
	"XS": "International",
	"ZA": "South Africa",
}

// ISINCountryCode extracts the 2-letter country code from an ISIN, or
// [UnknownCountry] when the ISIN is too short.
func ISINCountryCode(isin string) string {
	if len(isin) < 2 {
		return UnknownCountry
	}
	return strings.ToUpper(isin[:2])
}

// ISINCountry resolves an ISIN to its country of issuance name, or
// [UnknownCountry] when the prefix is not a known country code.
func ISINCountry(isin string) string {
	if name, ok := isinCountries[ISINCountryCode(isin)]; ok {
		return name
	}
	return UnknownCountry
}

// IsValidISIN performs a basic format check: 12 characters, alphabetic
// country prefix, alphanumeric identifier, numeric check digit. It does
// not verify the check digit.
func IsValidISIN(isin string) bool {
	if len(isin) != isinLength {
		return false
	}
	for i := 0; i < 2; i++ {
		if !isLetter(isin[i]) {
			return false
		}
	}
	for i := 2; i < 11; i++ {
		if !isLetter(isin[i]) && !isDigit(isin[i]) {
			return false
		}
	}
	return isDigit(isin[11])
}

func isLetter(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
