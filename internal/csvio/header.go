package csvio

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"eventclean/internal/event"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// headerAliases binds folded header spellings to canonical column names.
// Legacy exports from the event generator use short snake_case headers
// (event_id, timestamp, device, country); the documented export uses the
// CamelCase names. Both must open cleanly.
var headerAliases = map[string]string{
	"event_id":        "EventID",
	"eventid":         "EventID",
	"player_id":       "PlayerID",
	"playerid":        "PlayerID",
	"event_timestamp": "EventTimestamp",
	"eventtimestamp":  "EventTimestamp",
	"timestamp":       "EventTimestamp",
	"event_type":      "EventType",
	"eventtype":       "EventType",
	"type":            "EventType",
	"event_details":   "EventDetails",
	"eventdetails":    "EventDetails",
	"details":         "EventDetails",
	"device_type":     "DeviceType",
	"devicetype":      "DeviceType",
	"device":          "DeviceType",
	"location":        "Location",
	"country":         "Location",
}

// foldHeader reduces arbitrary header text to a lowercase ASCII identifier:
// trim, strip accents (NFD → remove Mn → NFC), lowercase, and map separator
// runes to underscores.
func foldHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// resolveHeader maps a raw header row onto the canonical column order.
// It returns colIdx such that colIdx[i] is the source index of
// event.Columns[i]. Every canonical column except EventDetails must be
// present; EventDetails binds to -1 (always empty) when missing, matching
// how legacy exports omitted the column.
func resolveHeader(raw []string) ([]int, error) {
	srcByName := make(map[string]int, len(raw))
	for i, col := range raw {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		name, ok := headerAliases[foldHeader(c)]
		if !ok {
			continue
		}
		if _, dup := srcByName[name]; dup {
			return nil, fmt.Errorf("duplicate column %q in header", name)
		}
		srcByName[name] = i
	}

	colIdx := make([]int, len(event.Columns))
	for i, name := range event.Columns {
		src, ok := srcByName[name]
		if !ok {
			if name == "EventDetails" {
				colIdx[i] = -1
				continue
			}
			return nil, fmt.Errorf("missing required column %q in header", name)
		}
		colIdx[i] = src
	}
	return colIdx, nil
}
