// internal/domain/tax/states.go
package tax

import "strings"

// gstStateCodes maps Indian state/UT names to their GST place-of-supply
// codes as used in GSTR-1 filings.
var gstStateCodes = map[string]string{
	"Jammu and Kashmir":                        "01",
	"Himachal Pradesh":                         "02",
	"Punjab":                                   "03",
	"Chandigarh":                               "04",
	"Uttarakhand":                              "05",
	"Haryana":                                  "06",
	"Delhi":                                    "07",
	"Rajasthan":                                "08",
	"Uttar Pradesh":                            "09",
	"Bihar":                                    "10",
	"Sikkim":                                   "11",
	"Arunachal Pradesh":                        "12",
	"Nagaland":                                 "13",
	"Manipur":                                  "14",
	"Mizoram":                                  "15",
	"Tripura":                                  "16",
	"Meghalaya":                                "17",
	"Assam":                                    "18",
	"West Bengal":                              "19",
	"Jharkhand":                                "20",
	"Odisha":                                   "21",
	"Chhattisgarh":                             "22",
	"Madhya Pradesh":                           "23",
	"Gujarat":                                  "24",
	"Daman and Diu":                            "25",
	"Dadra and Nagar Haveli and Daman and Diu": "26",
	"Maharashtra":                              "27",
	"Andhra Pradesh":                           "37",
	"Karnataka":                                "29",
	"Goa":                                      "30",
	"Lakshadweep":                              "31",
	"Kerala":                                   "32",
	"Tamil Nadu":                               "33",
	"Puducherry":                               "34",
	"Andaman and Nicobar Islands":              "35",
	"Telangana":                                "36",
	"Ladakh":                                   "38",
}

// UnknownPOSCode is returned when a state name cannot be resolved to a GST
// place-of-supply code.
const UnknownPOSCode = "00"

// PlaceOfSupplyCode resolves a free-form state name to its GST place-of-supply
// code. It first tries an exact match, then a case-insensitive containment
// scan so that values like "rajasthan" or "Maharashtra, India" still resolve.
// Unresolvable names map to UnknownPOSCode.
func PlaceOfSupplyCode(stateName string) string {
	if code, ok := gstStateCodes[stateName]; ok {
		return code
	}
	needle := strings.ToLower(stateName)
	for name, code := range gstStateCodes {
		if strings.Contains(needle, strings.ToLower(name)) {
			return code
		}
	}
	return UnknownPOSCode
}
