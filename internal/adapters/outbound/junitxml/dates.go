package junitxml

import "time"

// dateLayouts lists the accepted timestamp shapes. Naive layouts (no zone
// designator) are interpreted as UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// dateParser parses JUnit timestamps. Files use one timestamp format
// throughout, so the last matching layout is tried first.
type dateParser struct {
	lastLayout string
}

func (p *dateParser) parse(value string) (time.Time, bool) {
	if p.lastLayout != "" {
		if t, err := time.ParseInLocation(p.lastLayout, value, time.UTC); err == nil {
			return t, true
		}
	}
	for _, layout := range dateLayouts {
		if layout == p.lastLayout {
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			p.lastLayout = layout
			return t, true
		}
	}
	return time.Time{}, false
}
