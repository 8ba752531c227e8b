package timeframe

import (
	"fmt"
	"time"
)

// DateLayout is the accepted format for from/to query parameters.
const DateLayout = "2006-01-02"

// ParserParams carries the raw date range inputs together with the dataset
// bounds used as defaults when a side is omitted.
type ParserParams struct {
	FromDate     string
	ToDate       string
	DatasetFirst time.Time
	DatasetLast  time.Time
}

// Parser turns raw from/to parameters into a TimeFrame.
type Parser struct{}

// NewParser creates a time frame parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse resolves the requested range. An omitted from defaults to the first
// record in the dataset, an omitted to defaults to the last; the to date is
// extended to the end of its day so single-day ranges are inclusive.
func (p *Parser) Parse(params ParserParams) (*TimeFrame, error) {
	from := params.DatasetFirst
	to := endOfDay(params.DatasetLast)

	if params.FromDate != "" {
		parsed, err := time.Parse(DateLayout, params.FromDate)
		if err != nil {
			return nil, fmt.Errorf("invalid 'from' date %q: expected %s", params.FromDate, DateLayout)
		}
		from = parsed
	}

	if params.ToDate != "" {
		parsed, err := time.Parse(DateLayout, params.ToDate)
		if err != nil {
			return nil, fmt.Errorf("invalid 'to' date %q: expected %s", params.ToDate, DateLayout)
		}
		to = endOfDay(parsed)
	}

	return NewTimeFrame(from, to)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
