package h2

import (
	"sort"
)

// Streams is a sorted-by-id collection of a connection's active
// streams, addressed by binary search rather than a map: stream ids
// are assigned in strictly increasing order, so Insert almost always
// appends and Get/Del almost always land near the end.
type Streams struct {
	list []*Stream
}

// Insert adds s, keeping the list sorted by stream id. Relies on
// append's overlap-safe copy (backed by memmove) to shift the tail
// right when s doesn't simply append at the end.
func (strms *Streams) Insert(s *Stream) {
	i := sort.Search(len(strms.list), func(i int) bool {
		return strms.list[i].id >= s.id
	})

	if i == len(strms.list) {
		strms.list = append(strms.list, s)
	} else {
		strms.list = append(strms.list[:i+1], strms.list[i:]...)
		strms.list[i] = s
	}
}

func (strms *Streams) Del(id uint32) *Stream {
	i := sort.Search(len(strms.list), func(i int) bool {
		return strms.list[i].id >= id
	})

	if i < len(strms.list) && strms.list[i].id == id {
		strm := strms.list[i]
		strms.list = append(strms.list[:i], strms.list[i+1:]...)
		return strm
	}

	return nil
}

func (strms *Streams) Get(id uint32) *Stream {
	i := sort.Search(len(strms.list), func(i int) bool {
		return strms.list[i].id >= id
	})
	if i < len(strms.list) && strms.list[i].id == id {
		return strms.list[i]
	}

	return nil
}

// Len returns the number of streams currently tracked.
func (strms *Streams) Len() int {
	return len(strms.list)
}

// CountOpen returns the number of streams in a state that counts
// against SETTINGS_MAX_CONCURRENT_STREAMS (RFC 7540 §5.1.2: open or
// half-closed, not idle/reserved/closed).
func (strms *Streams) CountOpen() int {
	n := 0
	for _, s := range strms.list {
		switch s.state {
		case StreamStateOpen, StreamStateHalfClosedLocal, StreamStateHalfClosedRemote:
			n++
		}
	}
	return n
}

// Range calls fn for every tracked stream in ascending id order, until
// fn returns false.
func (strms *Streams) Range(fn func(*Stream) bool) {
	for _, s := range strms.list {
		if !fn(s) {
			return
		}
	}
}
