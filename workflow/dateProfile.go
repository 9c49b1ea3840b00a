package workflow

import (
	"regexp"
	"strconv"

	"github.com/aguo890/linesight/config"
	"github.com/sirupsen/logrus"
)

type DateFormat string

const (
	DateFormatISO     DateFormat = "YYYY-MM-DD"
	DateFormatSwap    DateFormat = "YYYY-DD-MM"
	DateFormatUnknown DateFormat = "UNKNOWN"
)

// DateFormatProfile is advisory metadata for one ingestion run. It selects
// the format handed to the row-level parser but is never persisted as a
// binding schema decision.
type DateFormatProfile struct {
	Format           DateFormat
	Confidence       float64 // 1.0 certain, 0.5 ambiguous, 0.0 contradictory
	SampleSize       int
	EliminatingValue *string
}

// ProfileSampleLimit bounds how many matching values one profile scans.
const ProfileSampleLimit = 100

var yearFirstPattern = regexp.MustCompile(`^\s*(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)

// ProfileDateColumn disambiguates YYYY-?-? date columns by constraint
// elimination instead of per-row guessing. Two hypotheses start out valid —
// ISO (month in the middle) and swapped (day in the middle) — and each
// sampled value can only eliminate, never confirm: a middle component > 12
// rules out ISO, a last component > 12 rules out the swap. Scanning stops as
// soon as exactly one hypothesis survives.
func ProfileDateColumn(values []string) DateFormatProfile {
	isoValid, swapValid := true, true
	var eliminating *string
	sampled := 0

	for _, raw := range values {
		if sampled >= ProfileSampleLimit {
			break
		}
		m := yearFirstPattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		sampled++

		middle, _ := strconv.Atoi(m[2])
		last, _ := strconv.Atoi(m[3])

		if middle > 12 && isoValid {
			isoValid = false
			if eliminating == nil {
				v := raw
				eliminating = &v
			}
		}
		if last > 12 && swapValid {
			swapValid = false
			if eliminating == nil {
				v := raw
				eliminating = &v
			}
		}

		// one survivor (proven) or none (contradiction): further scanning
		// cannot change the outcome
		if isoValid != swapValid || (!isoValid && !swapValid) {
			break
		}
	}

	profile := DateFormatProfile{SampleSize: sampled, EliminatingValue: eliminating}
	switch {
	case isoValid && !swapValid:
		profile.Format = DateFormatISO
		profile.Confidence = 1.0
	case swapValid && !isoValid:
		profile.Format = DateFormatSwap
		profile.Confidence = 1.0
	case isoValid && swapValid:
		// every sampled day/month pair was <= 12; default to ISO
		profile.Format = DateFormatISO
		profile.Confidence = 0.5
		config.GetLogger().WithFields(logrus.Fields{
			"sample_size": sampled,
		}).Warn("[ingest.date_profile] column is ambiguous, defaulting to ISO")
	default:
		profile.Format = DateFormatUnknown
		profile.Confidence = 0.0
	}
	return profile
}

// ParserFormat maps a profile onto the explicit format the row parser uses.
// UNKNOWN still parses as ISO so a contradictory column degrades to per-row
// diagnostics instead of crashing the batch.
func (p DateFormatProfile) ParserFormat() TimeFormat {
	if p.Format == DateFormatSwap {
		return TimeFormatYearDayMonth
	}
	return TimeFormatISO
}
