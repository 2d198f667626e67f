package types

import (
	"time"

	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// Tick is a single real-time price update.
type Tick struct {
	Time  time.Time `yaml:"time" json:"time" csv:"time"`
	Price float64   `yaml:"price" json:"price" csv:"price"`
}

// Bar is an OHLCV summary of price activity over a fixed time window.
type Bar struct {
	StartTime time.Time `yaml:"start_time" json:"start_time" csv:"start_time"`
	Open      float64   `yaml:"open" json:"open" csv:"open"`
	High      float64   `yaml:"high" json:"high" csv:"high"`
	Low       float64   `yaml:"low" json:"low" csv:"low"`
	Close     float64   `yaml:"close" json:"close" csv:"close"`
	Volume    float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Validate validates the Bar struct.
func (b *Bar) Validate() error {
	if b.High < b.Low {
		return errors.Newf(errors.ErrCodeInvalidBar, "high (%v) is less than low (%v)", b.High, b.Low)
	}

	return nil
}

// Snapshot is a read-only view of the terminal's market state, taken at call
// time. LastBar is the most recently completed bar for the traded instrument.
type Snapshot struct {
	Time    time.Time
	Bid     float64
	Ask     float64
	LastBar Bar
}
