package mapview

import "math"

// tileCols is the width of the world in character cells at zoom 0.
// Each zoom step doubles it, mirroring slippy-map tile zoom semantics.
const tileCols = 32

// maxLat is the Web Mercator latitude clamp.
const maxLat = 85.05112878

// Viewport maps geographic coordinates onto a character grid centered
// on a coordinate at a given zoom level. Terminal cells are roughly
// twice as tall as wide, so the world is half as many rows as columns.
type Viewport struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
	Width     int
	Height    int
}

// worldCols returns the width of the whole world in cells at the
// viewport's zoom.
func (v Viewport) worldCols() float64 {
	zoom := v.Zoom
	if zoom < 0 {
		zoom = 0
	}
	if zoom > 18 {
		zoom = 18
	}
	return float64(int(tileCols) * (1 << uint(zoom)))
}

// worldX projects a longitude onto the world's horizontal cell axis.
func (v Viewport) worldX(lng float64) float64 {
	return (lng + 180) / 360 * v.worldCols()
}

// worldY projects a latitude onto the world's vertical cell axis using
// the Web Mercator transform.
func (v Viewport) worldY(lat float64) float64 {
	lat = clampLat(lat)
	rad := lat * math.Pi / 180
	merc := math.Log(math.Tan(rad) + 1/math.Cos(rad))
	return (1 - merc/math.Pi) / 2 * v.worldCols() / 2
}

// Cell projects a coordinate into viewport cell space. ok is false when
// the point falls outside the visible grid.
func (v Viewport) Cell(lat, lng float64) (col, row int, ok bool) {
	dx := v.worldX(lng) - v.worldX(v.CenterLng)
	dy := v.worldY(lat) - v.worldY(v.CenterLat)

	col = v.Width/2 + int(math.Round(dx))
	row = v.Height/2 + int(math.Round(dy))

	if col < 0 || col >= v.Width || row < 0 || row >= v.Height {
		return col, row, false
	}
	return col, row, true
}

func clampLat(lat float64) float64 {
	if lat > maxLat {
		return maxLat
	}
	if lat < -maxLat {
		return -maxLat
	}
	return lat
}
