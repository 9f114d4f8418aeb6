// Package drivers maps three-letter driver codes onto full names. The
// mapping is a static registry: the dashboard resolves codes through it
// instead of discovering per-driver logic at runtime.
package drivers

import (
	"fmt"
	"sort"
)

// names is the 2025 grid. Codes absent from the map still work everywhere;
// they just render with a generic name.
var names = map[string]string{
	"VER": "Max_Verstappen",
	"HAM": "Lewis_Hamilton",
	"LEC": "Charles_Leclerc",
	"TSU": "Yuki_Tsunoda",
	"NOR": "Lando_Norris",
	"PIA": "Oscar_Piastri",
	"RUS": "George_Russell",
	"SAI": "Carlos_Sainz",
	"ALO": "Fernando_Alonso",
	"STR": "Lance_Stroll",
	"GAS": "Pierre_Gasly",
	"OCO": "Esteban_Ocon",
	"ALB": "Alex_Albon",
	"HUL": "Nico_Hulkenberg",
	"LAW": "Liam_Lawson",
	"BEA": "Oliver_Bearman",
	"ANT": "Kimi_Antonelli",
	"DOO": "Jack_Doohan",
	"BOR": "Gabriel_Bortoleto",
	"HAD": "Isack_Hadjar",
}

// FullName resolves a driver code to the full name used for report files.
// Unknown codes fall back to "Driver_<code>".
func FullName(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return fmt.Sprintf("Driver_%s", code)
}

// Known reports whether the code is on the registered grid.
func Known(code string) bool {
	_, ok := names[code]
	return ok
}

// Codes returns every registered driver code, sorted.
func Codes() []string {
	out := make([]string, 0, len(names))
	for code := range names {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
