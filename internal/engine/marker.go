package engine

import (
	"github.com/google/uuid"

	"github.com/dshills/textstore/internal/engine/interval"
)

// Marker is a tracked offset range that follows the text it covers across
// edits. Edits before a marker shift it; edits inside it shrink it toward
// the edit start; force-move edits push it past inserted text.
type Marker struct {
	ID    string
	Start int
	End   int
}

// AddMarker tracks the half-open-looking offset pair [start, end] and
// returns the marker's ID. An empty marker (start == end) behaves as a
// sticky point.
func (d *Document) AddMarker(start, end int) (string, error) {
	if start < 0 || end < start {
		return "", ErrInvalidRange
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if end > d.buf.Length() {
		return "", ErrInvalidRange
	}

	id := uuid.NewString()
	n := d.markers.Insert(interval.Interval{Start: start, End: end})
	d.markerByID[id] = n
	d.markerIDs[n] = id
	return id, nil
}

// RemoveMarker stops tracking a marker.
func (d *Document) RemoveMarker(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.markerByID[id]
	if !ok {
		return ErrMarkerNotFound
	}
	d.markers.Delete(n)
	delete(d.markerByID, id)
	delete(d.markerIDs, n)
	return nil
}

// MarkerRange returns a marker's current offsets.
func (d *Document) MarkerRange(id string) (Marker, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n, ok := d.markerByID[id]
	if !ok {
		return Marker{}, ErrMarkerNotFound
	}
	iv := d.markers.Resolve(n)
	return Marker{ID: id, Start: iv.Start, End: iv.End}, nil
}

// MarkersIn returns the markers intersecting [start, end] (touching
// endpoints included), in document order.
//
// Search refreshes node offset caches, so this takes the write lock.
func (d *Document) MarkersIn(start, end int) []Marker {
	d.mu.Lock()
	defer d.mu.Unlock()

	nodes := d.markers.Search(interval.Interval{Start: start, End: end})
	return d.toMarkers(nodes)
}

// Markers returns every tracked marker in document order.
func (d *Document) Markers() []Marker {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.toMarkers(d.markers.All())
}

// MarkerCount returns the number of tracked markers.
func (d *Document) MarkerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.markers.Count()
}

func (d *Document) toMarkers(nodes []*interval.Node) []Marker {
	result := make([]Marker, len(nodes))
	for i, n := range nodes {
		iv := n.Interval()
		result[i] = Marker{ID: d.markerIDs[n], Start: iv.Start, End: iv.End}
	}
	return result
}
