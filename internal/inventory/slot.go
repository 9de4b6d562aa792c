package inventory

import (
	"slices"
	"strings"
	"time"
)

const slotLayout = "15:04"

// NormalizeSlot parses a wall-clock time such as "9:00", "09:00" or "09:00:00"
// and renders it as "HH:MM". Seconds must be zero.
func NormalizeSlot(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Second() != 0 {
			return "", ErrInvalidTimeSlot
		}
		return t.Format(slotLayout), nil
	}
	return "", ErrInvalidTimeSlot
}

// SlotsByIndex returns slots[start..end] inclusive.
func SlotsByIndex(slots []string, start, end int) ([]string, error) {
	if start < 0 || end >= len(slots) {
		return nil, ErrTimeSlotNotFound
	}
	if start > end {
		return nil, ErrInvalidRange
	}
	return slices.Clone(slots[start : end+1]), nil
}

// SlotsBetween resolves start and end to their positions in the sorted slot
// list and returns every slot between them inclusive.
func SlotsBetween(slots []string, start, end string) ([]string, error) {
	i := slices.Index(slots, start)
	j := slices.Index(slots, end)
	if i < 0 || j < 0 {
		return nil, ErrTimeSlotNotFound
	}
	return SlotsByIndex(slots, i, j)
}
