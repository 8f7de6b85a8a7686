package market

import (
	"fmt"
	"time"
)

// OptionSide is the option type in NSE notation: CE for calls, PE for puts.
type OptionSide string

const (
	Call OptionSide = "CE"
	Put  OptionSide = "PE"
)

func (s OptionSide) Valid() bool {
	return s == Call || s == Put
}

// Instrument identifies one tradable option contract.
// Values are immutable once created; compare with Equal.
type Instrument struct {
	Underlying string
	Strike     float64
	Side       OptionSide
	Expiry     time.Time // date only, time-of-day ignored
	LotSize    int
}

// Symbol returns the display symbol, e.g. "NIFTY25000CE".
func (i Instrument) Symbol() string {
	return fmt.Sprintf("%s%.0f%s", i.Underlying, i.Strike, i.Side)
}

// Equal reports whether two instruments refer to the same contract.
// Lot size is a contract attribute, not part of identity.
func (i Instrument) Equal(other Instrument) bool {
	return i.Underlying == other.Underlying &&
		i.Strike == other.Strike &&
		i.Side == other.Side &&
		sameDate(i.Expiry, other.Expiry)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
