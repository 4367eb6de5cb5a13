package query

import "time"

// monthWindow returns the [start, end) aggregation window. Start is the first
// day of the month rewindMonths back from now; rewind 0 means the current
// month and forces to-date mode. In to-date mode the window runs through
// tomorrow, otherwise it stops at the start of the current month.
func monthWindow(rewindMonths int, toDate bool, now time.Time) (time.Time, time.Time) {
	if rewindMonths == 0 {
		toDate = true
	}

	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfCurrent.AddDate(0, -rewindMonths, 0)

	var end time.Time
	if toDate {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = today.AddDate(0, 0, 1)
	} else {
		end = firstOfCurrent
	}
	return start, end
}
