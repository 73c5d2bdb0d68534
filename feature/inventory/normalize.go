package inventory

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// defaultEngineCode is substituted when the partner leaves the field blank;
// the platform rejects vehicles without one.
const defaultEngineCode = "-"

// CleanRow returns a copy of row with partner-specific quirks normalised:
// whitespace and literal NULLs scrubbed, enums mapped to platform values,
// numbers and dates canonicalised.
func CleanRow(row map[string]string) map[string]string {
	cleaned := make(map[string]string, len(row))
	for key, value := range row {
		cleaned[key] = prepareValue(value)
	}

	cleaned["category"] = mapEnum(cleaned["category"], categoryMap, true)
	cleaned["fuelType"] = mapEnum(cleaned["fuelType"], fuelMap, true)
	cleaned["transmissionType"] = mapEnum(cleaned["transmissionType"], transmissionMap, true)
	cleaned["driveWheels"] = mapEnum(cleaned["driveWheels"], driveWheelsMap, true)
	cleaned["type"] = mapEnum(cleaned["type"], vehicleTypeMap, true)
	cleaned["carClass"] = mapEnum(cleaned["carClass"], carClassMap, false)

	if cleaned["engineCode"] == "" {
		cleaned["engineCode"] = defaultEngineCode
	}

	cleaned["manufactureYear"] = normalizeInteger(cleaned["manufactureYear"], false)
	cleaned["mileage"] = normalizeInteger(cleaned["mileage"], false)
	cleaned["power"] = normalizeInteger(cleaned["power"], false)
	cleaned["doors"] = normalizeInteger(cleaned["doors"], true)

	cleaned["cubicCapacity"] = normalizeDecimal(cleaned["cubicCapacity"])
	cleaned["acceleration"] = normalizeDecimal(cleaned["acceleration"])
	cleaned["pricing_listPrice"] = normalizeDecimal(cleaned["pricing_listPrice"])
	cleaned["pricing_salesPrice"] = normalizeDecimal(cleaned["pricing_salesPrice"])

	cleaned["availableFrom"] = normalizeDate(cleaned["availableFrom"])
	cleaned["firstRegistrationDate"] = normalizeDate(cleaned["firstRegistrationDate"])

	if cleaned["description"] != "" {
		cleaned["description"] = normalizeDescription(cleaned["description"])
	}

	return cleaned
}

// prepareValue trims the value and treats the literal "NULL" as missing;
// partner exports frequently contain it.
func prepareValue(value string) string {
	result := strings.TrimSpace(value)
	if strings.EqualFold(result, "NULL") {
		return ""
	}
	return result
}

// normalizeInteger canonicalises an integer-ish value, rounding half-up.
// With allowZero false a zero is treated as missing.
func normalizeInteger(raw string, allowZero bool) string {
	fallback := ""
	if allowZero {
		fallback = "0"
	}
	if raw == "" {
		return fallback
	}
	value := prepareNumeric(raw)
	if value == "" {
		return fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fallback
	}
	if !allowZero && d.IsZero() {
		return ""
	}
	return d.Round(0).String()
}

// normalizeDecimal canonicalises a decimal value; unparseable input becomes
// empty so required-field validation reports it.
func normalizeDecimal(raw string) string {
	if raw == "" {
		return ""
	}
	value := prepareNumeric(raw)
	if value == "" {
		return ""
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return ""
	}
	return d.String()
}

// prepareNumeric strips grouping spaces and maps comma decimals to dots.
func prepareNumeric(raw string) string {
	value := strings.ReplaceAll(raw, " ", "")
	value = strings.ReplaceAll(value, ",", ".")
	return value
}

// normalizeDate accepts YYYY-MM-DD or a timestamp with a time component and
// keeps only the date part.
func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	date, _, _ := strings.Cut(raw, " ")
	return date
}

// mapEnum translates a partner value through the mapping table. Unknown
// values fall back to upper-casing when defaultUpper is set, otherwise they
// are dropped.
func mapEnum(value string, mapping map[string]string, defaultUpper bool) string {
	if value == "" {
		return ""
	}
	if mapped, ok := mapping[normalizeKey(value)]; ok {
		return mapped
	}
	if defaultUpper {
		return strings.ToUpper(strings.TrimSpace(value))
	}
	return ""
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// normalizeKey folds diacritics and strips everything but ASCII letters and
// digits, so "Olej napędowy" and "olejnapedowy" hit the same table entry.
func normalizeKey(value string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	ascii := make([]rune, 0, len(folded))
	for _, r := range folded {
		if r < 128 {
			ascii = append(ascii, r)
		}
	}
	return nonAlnum.ReplaceAllString(strings.ToLower(string(ascii)), "")
}

// normalizeDescription splits pipe-separated fragments, removes duplicates
// case-insensitively and rejoins them one per line.
func normalizeDescription(value string) string {
	parts := strings.Split(value, "|")
	seen := make(map[string]struct{}, len(parts))
	var out []string
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	if len(out) == 0 {
		return strings.TrimSpace(value)
	}
	return strings.Join(out, "\n")
}

var categoryMap = map[string]string{
	"osobowy":   "PASSENGER",
	"dostawczy": "DELIVERY",
}

var fuelMap = map[string]string{
	"etylina":                           "PETROL",
	"benzyna":                           "PETROL",
	"olejnapedowy":                      "DIESEL",
	"diesel":                            "DIESEL",
	"hybrydaetylnanapedelektryczny":     "HYBRID",
	"hybrydaetylinanapedelektr":         "HYBRID",
	"hybrydapluginelektric":             "HYBRID",
	"hybrydaetylnaplusnapedelektryczny": "HYBRID",
	"hybrydowy":                         "HYBRID",
	"lpg":                               "LPG",
	"elektryczny":                       "ELECTRIC",
}

var transmissionMap = map[string]string{
	"automatycznahydraulicznaklasyczna": "AUTOMATIC",
	"automatyczna":                      "AUTOMATIC",
	"automat":                           "AUTOMATIC",
	"manualna":                          "MANUAL",
}

var driveWheelsMap = map[string]string{
	"naprzedniekola":      "FRONT",
	"naprzedniekoa":       "FRONT",
	"naprzod":             "FRONT",
	"naautonomiczneprzod": "FRONT",
	"natylniekola":        "REAR",
	"4x4":                 "FOUR",
	"4x4staly":            "FOUR",
	"4x4stay":             "FOUR",
	"4x4automatyczny":     "FOUR",
	"4wd":                 "FOUR",
}

var vehicleTypeMap = map[string]string{
	"suv":          "SUV",
	"kombi":        "ESTATE",
	"hatchback":    "HATCHBACK",
	"van":          "VAN",
	"sedan":        "SALOON",
	"limuzyna":     "SALOON",
	"autamiejskie": "HATCHBACK",
	"kompakt":      "HATCHBACK",
}

var carClassMap = map[string]string{
	"business":   "BUSINESS",
	"family":     "FAMILY",
	"sweet":      "SWEET",
	"adrenaline": "ADRENALINE",
}
