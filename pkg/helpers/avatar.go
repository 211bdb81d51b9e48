package helpers

import (
	"hash/fnv"
	"math"
	"net/url"
)

// AvatarURL builds the deterministic placeholder avatar for a new user,
// seeded by their display name.
func AvatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name) + "&backgroundColor=b6e3f4"
}

// RadarPosition maps a stable id onto a point inside the unit-radius radar
// circle. The same id always lands on the same spot, so attendee dots stay
// put across renders without any stored coordinates.
func RadarPosition(id string) (x, y float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	sum := h.Sum64()

	angle := float64(sum%3600) / 3600 * 2 * math.Pi
	radius := 0.25 + float64((sum/3600)%700)/1000 // keep dots off the exact center and rim
	return radius * math.Cos(angle), radius * math.Sin(angle)
}
