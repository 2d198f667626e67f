// Package feed replays recorded market data as the event stream a live
// terminal would produce. Each CSV row is one completed bar; every bar is
// followed by a tick at the bar's close price.
package feed

import (
	"encoding/csv"
	"io"
	"iter"
	"os"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

const barFieldCount = 6

// CSVFeed replays bars from a CSV file with rows of the form
// start_ts,open,high,low,close,volume. Timestamps may be RFC 3339 or unix
// seconds. Blank lines are skipped.
type CSVFeed struct {
	path   string
	spread float64
}

// NewCSVFeed creates a feed over the given file. The spread is added to each
// close price to synthesize an ask for the replayed quote.
func NewCSVFeed(path string, spread float64) *CSVFeed {
	return &CSVFeed{
		path:   path,
		spread: spread,
	}
}

// Snapshots iterates the feed. Each row yields one Snapshot whose LastBar is
// the row's bar and whose quote is taken from the bar close. A malformed row
// yields its error and iteration continues with the next row; an unreadable
// file yields a single error.
func (f *CSVFeed) Snapshots() iter.Seq2[types.Snapshot, error] {
	return func(yield func(types.Snapshot, error) bool) {
		file, err := os.Open(f.path)
		if err != nil {
			yield(types.Snapshot{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to open feed %s", f.path))

			return
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1

		for line := 1; ; line++ {
			row, err := reader.Read()
			if err == io.EOF {
				return
			}

			if err != nil {
				if !yield(types.Snapshot{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "row %d", line)) {
					return
				}

				continue
			}

			if len(row) == 1 && row[0] == "" {
				continue
			}

			snapshot, err := f.parseRow(row)
			if err != nil {
				err = errors.Wrapf(errors.ErrCodeInvalidBar, err, "row %d", line)
			}

			if !yield(snapshot, err) {
				return
			}
		}
	}
}

func (f *CSVFeed) parseRow(row []string) (types.Snapshot, error) {
	if len(row) != barFieldCount {
		return types.Snapshot{}, errors.Newf(errors.ErrCodeInvalidBar, "expected %d fields, got %d", barFieldCount, len(row))
	}

	startTime, err := parseTimestamp(row[0])
	if err != nil {
		return types.Snapshot{}, err
	}

	values := make([]float64, 0, barFieldCount-1)

	for _, field := range row[1:] {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return types.Snapshot{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "invalid number %q", field)
		}

		values = append(values, value)
	}

	bar := types.Bar{
		StartTime: startTime,
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}

	if err := bar.Validate(); err != nil {
		return types.Snapshot{}, err
	}

	return types.Snapshot{
		Time:    bar.StartTime,
		Bid:     bar.Close,
		Ask:     bar.Close + f.spread,
		LastBar: bar,
	}, nil
}

func parseTimestamp(field string) (time.Time, error) {
	if unix, err := strconv.ParseInt(field, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}

	parsed, err := time.Parse(time.RFC3339, field)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "invalid timestamp %q", field)
	}

	return parsed.UTC(), nil
}
