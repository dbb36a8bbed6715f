package controller

import "time"

// LastMessageLabel derives the time label for a conversation row from
// the last message's UNIX timestamp. Same calendar day shows the clock
// time, the last week shows the short weekday, anything older shows
// month and day. A missing timestamp shows nothing.
func LastMessageLabel(sentAt int64, now time.Time) string {
	if sentAt <= 0 {
		return ""
	}

	ts := time.Unix(sentAt, 0).In(now.Location())

	if sameDay(ts, now) {
		return ts.Format("15:04")
	}
	if now.Sub(ts) < 7*24*time.Hour {
		return ts.Format("Mon")
	}
	return ts.Format("Jan 2")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
