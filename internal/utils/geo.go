package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// coordinate pairs given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// BoundingBoxDeltas returns the latitude and longitude half-widths in degrees
// of a box that contains every point within radiusKm of a point at the given
// latitude. The longitude delta widens toward the poles; near them the box
// degenerates to the full circle.
func BoundingBoxDeltas(lat, radiusKm float64) (latDelta, lonDelta float64) {
	latDelta = radiusKm / earthRadiusKm * (180 / math.Pi)

	cos := math.Cos(radians(lat))
	if cos < 1e-6 {
		return latDelta, 180
	}
	lonDelta = latDelta / cos
	if lonDelta > 180 {
		lonDelta = 180
	}
	return latDelta, lonDelta
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
