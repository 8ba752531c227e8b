package records

import (
	"fmt"
	"time"
)

// AuditReport summarizes data-quality findings over a loaded record set.
// These are warnings, not load failures: the rows parse and satisfy the hard
// invariants, but look suspect (e.g. more conversions than sessions).
type AuditReport struct {
	TotalRecords int
	From         time.Time
	To           time.Time

	DuplicateRows             int
	ZeroSessionRows           int
	ConversionsExceedSessions int
	SessionsBelowUsers        int
	FutureDates               int

	TotalSessions         int64
	TotalUsers            int64
	TotalConversions      int64
	AvgBounceRate         float64
	AvgSessionDuration    float64
	OverallConversionRate float64

	Issues []string
}

// Clean returns true when the audit found nothing suspicious.
func (r *AuditReport) Clean() bool {
	return len(r.Issues) == 0
}

// Audit inspects a validated record set for data-quality issues and computes
// its summary statistics. now anchors the future-date check.
func Audit(recs []TrafficRecord, now time.Time) *AuditReport {
	report := &AuditReport{TotalRecords: len(recs)}
	if len(recs) == 0 {
		return report
	}

	seen := make(map[string]bool, len(recs))
	var bounceSum, durationSum float64

	report.From = recs[0].Timestamp
	report.To = recs[0].Timestamp

	for _, rec := range recs {
		if rec.Timestamp.Before(report.From) {
			report.From = rec.Timestamp
		}
		if rec.Timestamp.After(report.To) {
			report.To = rec.Timestamp
		}

		if seen[dedupeKey(rec)] {
			report.DuplicateRows++
		}
		seen[dedupeKey(rec)] = true

		if rec.Sessions == 0 {
			report.ZeroSessionRows++
		}
		if rec.Conversions > rec.Sessions {
			report.ConversionsExceedSessions++
		}
		if rec.Sessions < rec.Users {
			report.SessionsBelowUsers++
		}
		if rec.Timestamp.After(now) {
			report.FutureDates++
		}

		report.TotalSessions += rec.Sessions
		report.TotalUsers += rec.Users
		report.TotalConversions += rec.Conversions
		bounceSum += rec.BounceRate
		durationSum += float64(rec.AvgSessionDuration)
	}

	n := float64(len(recs))
	report.AvgBounceRate = bounceSum / n
	report.AvgSessionDuration = durationSum / n
	if report.TotalSessions > 0 {
		report.OverallConversionRate = float64(report.TotalConversions) / float64(report.TotalSessions)
	}

	if report.DuplicateRows > 0 {
		report.addIssue("%d duplicate rows", report.DuplicateRows)
	}
	if report.ZeroSessionRows > 0 {
		report.addIssue("%d rows with zero sessions", report.ZeroSessionRows)
	}
	if report.ConversionsExceedSessions > 0 {
		report.addIssue("%d rows where conversions exceed sessions", report.ConversionsExceedSessions)
	}
	if report.SessionsBelowUsers > 0 {
		report.addIssue("%d rows where sessions are below users", report.SessionsBelowUsers)
	}
	if report.FutureDates > 0 {
		report.addIssue("%d rows dated in the future", report.FutureDates)
	}

	return report
}

func (r *AuditReport) addIssue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// CleanRecords applies the standard cleaning rules: drop duplicate rows,
// drop rows with zero sessions, and cap conversions at the session count.
// The input slice is not modified.
func CleanRecords(recs []TrafficRecord) []TrafficRecord {
	seen := make(map[string]bool, len(recs))
	cleaned := make([]TrafficRecord, 0, len(recs))

	for _, rec := range recs {
		key := dedupeKey(rec)
		if seen[key] {
			continue
		}
		seen[key] = true

		if rec.Sessions == 0 {
			continue
		}
		if rec.Conversions > rec.Sessions {
			rec.Conversions = rec.Sessions
		}
		cleaned = append(cleaned, rec)
	}

	return cleaned
}

func dedupeKey(rec TrafficRecord) string {
	return fmt.Sprintf("%d|%s|%s|%s|%d|%d|%g|%d|%d",
		rec.Timestamp.Unix(), rec.Page, rec.Device, rec.Country,
		rec.Sessions, rec.Users, rec.BounceRate, rec.Conversions, rec.AvgSessionDuration)
}
