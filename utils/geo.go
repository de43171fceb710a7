package utils

import (
	"math"
	"sort"

	models "github.com/daansetu/daansetu-backend/models"
)

const earthRadiusKm = 6371

// CalculateDistance returns the haversine great-circle distance in
// kilometers between two lat/lng points.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WithinRadius reports whether the two points are at most radiusKm apart.
func WithinRadius(lat1, lng1, lat2, lng2, radiusKm float64) bool {
	return CalculateDistance(lat1, lng1, lat2, lng2) <= radiusKm
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// NearbyDonations keeps the candidates within radiusKm of the query point,
// annotated with their distance and sorted nearest first. Candidates without
// a stored location are kept unconditionally and carry no distance.
func NearbyDonations(candidates []models.Donation, lat, lng, radiusKm float64) []models.Donation {
	nearby := []models.Donation{}
	for _, d := range candidates {
		if d.Location == nil {
			nearby = append(nearby, d)
			continue
		}
		distance := CalculateDistance(lat, lng, d.Location.Lat, d.Location.Lng)
		if distance <= radiusKm {
			d.Distance = &distance
			nearby = append(nearby, d)
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		if nearby[i].Distance == nil || nearby[j].Distance == nil {
			return false
		}
		return *nearby[i].Distance < *nearby[j].Distance
	})

	return nearby
}

// NearbyRequests is the request-side counterpart of NearbyDonations.
func NearbyRequests(candidates []models.Request, lat, lng, radiusKm float64) []models.Request {
	nearby := []models.Request{}
	for _, r := range candidates {
		if r.Location == nil {
			nearby = append(nearby, r)
			continue
		}
		distance := CalculateDistance(lat, lng, r.Location.Lat, r.Location.Lng)
		if distance <= radiusKm {
			r.Distance = &distance
			nearby = append(nearby, r)
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		if nearby[i].Distance == nil || nearby[j].Distance == nil {
			return false
		}
		return *nearby[i].Distance < *nearby[j].Distance
	})

	return nearby
}
