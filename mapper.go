package pdfink

// Coordinate mapping between screen space and PDF page space.
//
// Screen space is CSS pixels with the origin at the top-left of a page's
// rendered surface; page space is PDF points with the origin at the
// bottom-left of the page media box. Each page may render at a different
// surface size, so all conversions take the per-page surface pixel size
// and page point size.

// scaleFactors returns the per-axis pixel-to-point factors.
func scaleFactors(surface, page Size) (sx, sy float64) {
	return page.W / surface.W, page.H / surface.H
}

// ToPage maps a point-anchored screen position to page space.
func ToPage(p Point, surface, page Size) (x, y float64) {
	sx, sy := scaleFactors(surface, page)
	return p.X * sx, page.H - p.Y*sy
}

// ToSurface is the inverse of [ToPage].
func ToSurface(x, y float64, surface, page Size) Point {
	sx, sy := scaleFactors(surface, page)
	return Point{X: x / sx, Y: (page.H - y) / sy}
}

// BoxToPage maps a box anchored at its screen top-left corner to page
// space. The returned origin is the box's bottom-left corner in points, so
// the box occupies the same region of the page that it covered on screen.
func BoxToPage(pos Point, box Size, surface, page Size) (x, y, w, h float64) {
	sx, sy := scaleFactors(surface, page)
	w, h = box.W*sx, box.H*sy
	return pos.X * sx, page.H - pos.Y*sy - h, w, h
}

// ScaleScalar maps a scalar magnitude (stroke width, font size) from
// pixels to points using the mean of the axis factors, keeping it roughly
// isotropic when the surface and page aspect ratios differ.
func ScaleScalar(v float64, surface, page Size) float64 {
	sx, sy := scaleFactors(surface, page)
	return v * (sx + sy) / 2
}
