package liveness

import (
	"ferrite/internal/mir"
	"ferrite/internal/regions"
)

// Values maps each region variable to the program points where it must be
// live. The mapping only ever grows during a pass.
type Values struct {
	live map[regions.Vid]map[mir.Location]struct{}
}

func NewValues() *Values {
	return &Values{live: make(map[regions.Vid]map[mir.Location]struct{})}
}

// AddLiveAt forces v live at loc. Returns whether the point was new.
func (vs *Values) AddLiveAt(v regions.Vid, loc mir.Location) bool {
	if v == regions.NoVid {
		return false
	}
	points, ok := vs.live[v]
	if !ok {
		points = make(map[mir.Location]struct{})
		vs.live[v] = points
	}
	if _, ok := points[loc]; ok {
		return false
	}
	points[loc] = struct{}{}
	return true
}

// Contains reports whether v must be live at loc.
func (vs *Values) Contains(v regions.Vid, loc mir.Location) bool {
	_, ok := vs.live[v][loc]
	return ok
}

// PointCount returns how many points v must be live at.
func (vs *Values) PointCount(v regions.Vid) int {
	return len(vs.live[v])
}

// EachPoint invokes f for every live point of v.
func (vs *Values) EachPoint(v regions.Vid, f func(loc mir.Location)) {
	for loc := range vs.live[v] {
		f(loc)
	}
}

// EachRegion invokes f for every region with at least one live point.
func (vs *Values) EachRegion(f func(v regions.Vid)) {
	for v := range vs.live {
		f(v)
	}
}
