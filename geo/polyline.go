package geo

import "math"

// Polyline is an ordered path of [lon,lat] points with precomputed cumulative
// metric distances at each vertex.
type Polyline struct {
	pts [][2]float64
	cum []float64
}

// NewPolyline wraps ordered [lon,lat] points. Paths with fewer than two
// points have zero length and cannot be projected onto.
func NewPolyline(pts [][2]float64) *Polyline {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + HaversineMeters(pts[i-1][1], pts[i-1][0], pts[i][1], pts[i][0])
	}
	return &Polyline{pts: pts, cum: cum}
}

// Len returns the number of vertices.
func (p *Polyline) Len() int { return len(p.pts) }

// LengthMeters returns the total path length.
func (p *Polyline) LengthMeters() float64 {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// Projectable reports whether the path has enough vertices to project onto.
func (p *Polyline) Projectable() bool { return len(p.pts) >= 2 }

// DistanceAlong projects a [lon,lat] point onto its nearest segment and
// returns the metric distance from the start of the path to the projection.
func (p *Polyline) DistanceAlong(lon, lat float64) float64 {
	idx, t, _ := p.nearestSegmentProjection([2]float64{lon, lat})
	if idx < 0 {
		return 0
	}
	segLen := p.cum[idx+1] - p.cum[idx]
	return p.cum[idx] + t*segLen
}

// nearestSegmentProjection finds the segment index i (between pts[i] and
// pts[i+1]) closest to coord and returns the clamped projection parameter
// t in [0,1] along that segment and the snapped lon/lat point.
func (p *Polyline) nearestSegmentProjection(coord [2]float64) (int, float64, [2]float64) {
	bestIdx := -1
	bestT := 0.0
	var bestSnap [2]float64
	bestDist2 := math.MaxFloat64
	cx := coord[0]
	cy := coord[1]
	for i := 0; i+1 < len(p.pts); i++ {
		ax := p.pts[i][0]
		ay := p.pts[i][1]
		vx := p.pts[i+1][0] - ax
		vy := p.pts[i+1][1] - ay
		wx := cx - ax
		wy := cy - ay
		denom := vx*vx + vy*vy
		t := 0.0
		if denom > 0 {
			t = (wx*vx + wy*vy) / denom
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		sx := ax + t*vx
		sy := ay + t*vy
		dx := cx - sx
		dy := cy - sy
		dist2 := dx*dx + dy*dy
		if dist2 < bestDist2 {
			bestDist2 = dist2
			bestIdx = i
			bestT = t
			bestSnap = [2]float64{sx, sy}
		}
	}
	return bestIdx, bestT, bestSnap
}
