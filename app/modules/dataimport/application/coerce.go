package importservice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
)

// Coercion helpers for the record transformer. Spreadsheet cells are
// untrusted free text; every helper degrades to an explicit default on
// malformed input and never returns an error.

var numericStrip = regexp.MustCompile(`[^0-9.\-]`)

// coerceFloat strips everything except digits, '.', and '-' before
// parsing; def on failure.
func coerceFloat(raw string, def float64) float64 {
	cleaned := numericStrip.ReplaceAllString(raw, "")
	if cleaned == "" {
		return def
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return def
	}
	return f
}

func coerceInt(raw string, def int) int {
	return int(coerceFloat(raw, float64(def)))
}

// optionalInt distinguishes 0 from "not recorded": empty, "NULL", and
// whitespace-only cells return nil, anything else coerces with a zero
// default.
func optionalInt(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	v := coerceInt(trimmed, 0)
	return &v
}

func optionalFloat(raw string) *float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	v := coerceFloat(trimmed, 0)
	return &v
}

// coerceBool treats {true, yes, 1, y} (case-insensitive) as true and
// everything else as false.
func coerceBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "y":
		return true
	default:
		return false
	}
}

var resultAliases = map[string]fighttypes.Result{
	"win":        fighttypes.ResultWin,
	"w":          fighttypes.ResultWin,
	"won":        fighttypes.ResultWin,
	"loss":       fighttypes.ResultLoss,
	"l":          fighttypes.ResultLoss,
	"lost":       fighttypes.ResultLoss,
	"lose":       fighttypes.ResultLoss,
	"draw":       fighttypes.ResultDraw,
	"d":          fighttypes.ResultDraw,
	"nc":         fighttypes.ResultNoContest,
	"no contest": fighttypes.ResultNoContest,
	"nocontest":  fighttypes.ResultNoContest,
	"pending":    fighttypes.ResultPending,
	"upcoming":   fighttypes.ResultPending,
}

// normalizeResult maps loose result strings onto the Result enum;
// unrecognized input defaults to PENDING rather than erroring the row.
func normalizeResult(raw string) fighttypes.Result {
	if r, ok := resultAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return r
	}
	return fighttypes.ResultPending
}

var methodAliases = map[string]string{
	"ko":                   "KO",
	"knockout":             "KO",
	"tko":                  "TKO",
	"technical knockout":   "TKO",
	"ko/tko":               "KO/TKO",
	"sub":                  "Submission",
	"submission":           "Submission",
	"dec":                  "Decision",
	"decision":             "Decision",
	"ud":                   "Decision (unanimous)",
	"unanimous decision":   "Decision (unanimous)",
	"decision (unanimous)": "Decision (unanimous)",
	"sd":                   "Decision (split)",
	"split decision":       "Decision (split)",
	"decision (split)":     "Decision (split)",
	"md":                   "Decision (majority)",
	"majority decision":    "Decision (majority)",
	"decision (majority)":  "Decision (majority)",
	"dq":                   "DQ",
	"disqualification":     "DQ",
	"nc":                   "NC",
	"no contest":           "NC",
}

// normalizeMethod maps known finish strings to canonical labels;
// unrecognized input passes through verbatim so cosmetic differences
// never block an import.
func normalizeMethod(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m, ok := methodAliases[strings.ToLower(trimmed)]; ok {
		return m
	}
	return trimmed
}

// roundTime passes "M:SS" through and reformats a raw second count
// otherwise.
func roundTime(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, ":") {
		return trimmed
	}
	seconds := coerceInt(trimmed, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// controlSeconds accepts "M:SS" or a raw second count and returns
// total seconds.
func controlSeconds(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	if minutes, secs, ok := strings.Cut(trimmed, ":"); ok {
		return coerceInt(minutes, 0)*60 + coerceInt(secs, 0)
	}
	return coerceInt(trimmed, 0)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

var looseDateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// coerceDate tries the explicit layouts first, then hands loose inputs
// ("May 5 2024") to the natural-language parser. Unparseable input
// degrades to the zero time.
func coerceDate(raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	if r, err := looseDateParser.Parse(trimmed, time.Now().UTC()); err == nil && r != nil {
		return r.Time
	}
	return time.Time{}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// combinedStatPattern matches "<landed> of <attempted> - <pct>%"; the
// percent sign is optional and matching is case-insensitive.
var combinedStatPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s+of\s+(\d+)\s*-\s*(\d+(?:\.\d+)?)\s*%?\s*$`)

// parseCombinedStat decomposes a combined significant-strikes cell
// into landed/attempted/pct.
func parseCombinedStat(raw string) (landed, attempted int, pct float64, ok bool) {
	m := combinedStatPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, 0, false
	}
	landed, _ = strconv.Atoi(m[1])
	attempted, _ = strconv.Atoi(m[2])
	pct, _ = strconv.ParseFloat(m[3], 64)
	return landed, attempted, pct, true
}

var leadingIntPattern = regexp.MustCompile(`^\s*(\d+)`)

// leadingInt pulls the leading integer out of a combined percentage
// cell ("45% head, 30% body"); nil when none is present.
func leadingInt(raw string) *int {
	m := leadingIntPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}
