package feedback

import "fmt"

// LogCapacity is the number of hits kept by ActivityLog.
const LogCapacity = 10

// Hit identifies a triggered sensor.
type Hit struct {
	// Group is the sensor group letter 'A'..'E'.
	Group byte
	// Sensor is the sensor number 1..16 within the group.
	Sensor int
}

// String implements fmt.Stringer.
func (h Hit) String() string {
	return fmt.Sprintf("%c%d", h.Group, h.Sensor)
}

// ActivityLog keeps the most recent hits, overwriting the oldest.
type ActivityLog struct {
	entries [LogCapacity]Hit
	count   int
	latest  int
}

// Add records a hit.
func (l *ActivityLog) Add(h Hit) {
	if l.count == 0 {
		l.latest = 0
	} else {
		l.latest = (l.latest + 1) % LogCapacity
	}
	l.entries[l.latest] = h
	if l.count < LogCapacity {
		l.count++
	}
}

// Len returns the number of filled slots.
func (l *ActivityLog) Len() int {
	return l.count
}

// Slot returns the hit stored at slot i, false if the slot is unfilled.
func (l *ActivityLog) Slot(i int) (Hit, bool) {
	if i < 0 || i >= l.count {
		return Hit{}, false
	}
	return l.entries[i], true
}

// LatestIndex returns the slot of the most recent hit, -1 if empty.
func (l *ActivityLog) LatestIndex() int {
	if l.count == 0 {
		return -1
	}
	return l.latest
}

// Latest returns the most recent hit.
func (l *ActivityLog) Latest() (Hit, bool) {
	if l.count == 0 {
		return Hit{}, false
	}
	return l.entries[l.latest], true
}

// Recent lists the hits newest first.
func (l *ActivityLog) Recent() []Hit {
	hits := make([]Hit, 0, l.count)
	for i := 0; i < l.count; i++ {
		hits = append(hits, l.entries[(l.latest-i+LogCapacity)%LogCapacity])
	}
	return hits
}
