package market

import "time"

// TimeSlot partitions the trading day the way intraday strategies think
// about it.
type TimeSlot string

const (
	SlotPreMarket TimeSlot = "PRE_MARKET" // 9:00 - 9:15
	SlotOpening   TimeSlot = "OPENING"    // 9:15 - 9:30
	SlotMorning   TimeSlot = "MORNING"    // 9:30 - 11:00
	SlotMidDay    TimeSlot = "MID_DAY"    // 11:00 - 14:00
	SlotAfternoon TimeSlot = "AFTERNOON"  // 14:00 - 15:00
	SlotClosing   TimeSlot = "CLOSING"    // 15:00 - 15:30
)

// Calendar answers market-hours questions for the NSE session.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) *Calendar {
	return &Calendar{loc: loc}
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// IsOpen reports whether the main session is open at t.
// NSE main session: 9:15 - 15:30 IST, Monday to Friday.
func (c *Calendar) IsOpen(t time.Time) bool {
	now := t.In(c.loc)

	weekday := now.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return false
	}

	totalMinutes := now.Hour()*60 + now.Minute()
	return totalMinutes >= 9*60+15 && totalMinutes <= 15*60+30
}

// Slot returns the intraday time slot containing t. Outside the session
// (including weekends) it reports PRE_MARKET.
func (c *Calendar) Slot(t time.Time) TimeSlot {
	now := t.In(c.loc)
	minutes := now.Hour()*60 + now.Minute()

	switch {
	case minutes >= 9*60 && minutes < 9*60+15:
		return SlotPreMarket
	case minutes >= 9*60+15 && minutes < 9*60+30:
		return SlotOpening
	case minutes >= 9*60+30 && minutes < 11*60:
		return SlotMorning
	case minutes >= 11*60 && minutes < 14*60:
		return SlotMidDay
	case minutes >= 14*60 && minutes < 15*60:
		return SlotAfternoon
	case minutes >= 15*60 && minutes <= 15*60+30:
		return SlotClosing
	default:
		return SlotPreMarket
	}
}

// SameTradingDay reports whether a and b fall on the same calendar day in
// the exchange timezone. Used for daily counter rollover.
func (c *Calendar) SameTradingDay(a, b time.Time) bool {
	return sameDate(a.In(c.loc), b.In(c.loc))
}
