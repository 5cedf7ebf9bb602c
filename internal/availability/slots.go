package availability

import "time"

const (
	// MaxSlotChunk bounds the duration of any single returned slot.
	// Longer gaps are split into consecutive chunks that tile the gap.
	MaxSlotChunk = 12 * time.Hour

	// TailWindow is how far past the last buffered booking (or past "now"
	// when there are no bookings) the final open-ended slot extends.
	TailWindow = 2 * time.Hour

	// AnyResource labels gaps that are not adjacent to a specific
	// resource's booking.
	AnyResource = "Any"

	slotTitle = "Available"
)

// Booking is the minimal view of a stored booking the generator needs.
// Start and End are absolute UTC instants.
type Booking struct {
	Resource string
	Start    time.Time
	End      time.Time
}

// Slot is a bookable gap between buffered bookings.
type Slot struct {
	Title    string
	Resource string
	Start    time.Time
	End      time.Time
}

// Slots computes the availability windows between now and the end of the
// given bookings, with each booking expanded by buffer on both sides.
//
// Preconditions the caller must guarantee: every booking ends strictly
// after now, and the slice is ordered ascending by start time. The
// generator does not sort and never mutates its input.
func Slots(now time.Time, buffer time.Duration, bookings []Booking) []Slot {
	if len(bookings) == 0 {
		return appendChunked(nil, now, now.Add(TailWindow), AnyResource)
	}

	var slots []Slot
	lastEnd := now

	for _, b := range bookings {
		bufferedStart := b.Start.Add(-buffer)
		bufferedEnd := b.End.Add(buffer)

		if lastEnd.Before(bufferedStart) {
			slots = appendChunked(slots, lastEnd, bufferedStart, b.Resource)
		}
		// Overlapping buffered windows are absorbed by the running max,
		// so a booking fully inside an already-covered window emits nothing.
		if bufferedEnd.After(lastEnd) {
			lastEnd = bufferedEnd
		}
	}

	return appendChunked(slots, lastEnd, lastEnd.Add(TailWindow), AnyResource)
}

// appendChunked emits the gap [start, end) as one or more slots of at most
// MaxSlotChunk each. The chunks exactly tile the gap: boundaries touch and
// the durations sum to the gap duration.
func appendChunked(slots []Slot, start, end time.Time, resource string) []Slot {
	for cur := start; cur.Before(end); {
		chunkEnd := cur.Add(MaxSlotChunk)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		slots = append(slots, Slot{
			Title:    slotTitle,
			Resource: resource,
			Start:    cur,
			End:      chunkEnd,
		})
		cur = chunkEnd
	}
	return slots
}
