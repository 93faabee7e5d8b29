package table

import (
	"regexp"
	"strconv"
	"strings"
)

// parseNumeric parses a cell as a float, tolerating locale variations:
// comma decimals, thousands separators, non-breaking spaces and trailing
// percent signs. Detection is per value unless Options pins the separators.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Headers frequently carry units, either bracketed ("Dust (ppb)",
// "Depth [m]") or as a suffix token ("Age_kyr"). The suffix list covers the
// units common in ice-core datasets.
var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)\s*$`),
	regexp.MustCompile(`^(.*?)\s*\[([^\]]+)\]\s*$`),
	regexp.MustCompile(`^(.*?)[_\s-]+(m|cm|mm|kyr|ka|yr BP|yrs?|ppb|ppm|ng/g|ug/L|mg/L|°C|%)$`),
}

func splitUnits(name string) (clean, unit string) {
	s := strings.TrimSpace(name)
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) == 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[2])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}
