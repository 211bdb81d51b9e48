// Package fixtures holds the demo records seeded into an empty store on
// first start, mirroring the data the mobile client ships with.
package fixtures

import (
	"time"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/pkg/helpers"
)

// DemoPassword is the login password for every seeded account.
const DemoPassword = "password"

func user(id, name, avatar, bio, snap string, verified bool, email, phone string, hash string) entity.User {
	return entity.User{
		PublicUser: entity.PublicUser{
			ID:             id,
			Name:           name,
			Avatar:         "https://api.dicebear.com/7.x/avataaars/svg?seed=" + avatar,
			Bio:            bio,
			SnapchatHandle: snap,
			IsVerified:     verified,
		},
		Email:    email,
		Password: hash,
		Phone:    phone,
	}
}

// Users returns the seed users. The shared demo password is hashed once and
// reused so seeding stays fast.
func Users() ([]entity.User, error) {
	hash, err := helpers.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	return []entity.User{
		user("u1", "Sarah Jenks", "Sarah&backgroundColor=b6e3f4", "Love techno and rooftop vibes 🎵", "sarah_j_vibes", true, "sarah@example.com", "555-0000", hash),
		user("u2", "Mike Chen", "Mike&backgroundColor=c0aede", "Photographer looking for shoots 📸", "mike.snaps", true, "mike@example.com", "555-0000", hash),
		user("u3", "Jessica Alva", "Jessica&backgroundColor=ffdfbf", "Just here for the tacos 🌮", "jess_tacos", false, "jessica@example.com", "555-0000", hash),
		user("u4", "Davide B", "Davide&backgroundColor=d1d4f9", "Skating and coding.", "dave_sk8", true, "davide@example.com", "555-0000", hash),
		user("me", "Alex Rider", "Alex&backgroundColor=ffdfbf", "Ready to meet new people! ✨", "alex_rider_x", true, "alex@example.com", "555-1234", hash),
	}, nil
}

// Events returns the seed events, dated relative to now like the client's
// demo data. Attendee snapshots reference the seed users.
func Events(users []entity.User) []entity.Event {
	byID := map[string]entity.PublicUser{}
	for _, u := range users {
		byID[u.ID] = u.Public()
	}
	now := time.Now()
	return []entity.Event{
		{
			ID:          "e1",
			Title:       "Neon Rooftop Party",
			Date:        now.Add(2 * 24 * time.Hour),
			Location:    "Skybar, Downtown",
			ImageURL:    "https://images.unsplash.com/photo-1566737236500-c8ac43014a67?auto=format&fit=crop&q=80&w=800",
			Description: "The brightest night of the year. Wear neon, bring good vibes.",
			Attendees:   []entity.PublicUser{byID["u1"], byID["u2"]},
			Category:    entity.CategoryParty,
			HostID:      "u1",
			Price:       25,
		},
		{
			ID:          "e2",
			Title:       "Sunday Sunset Jazz",
			Date:        now.Add(5 * 24 * time.Hour),
			Location:    "The Blue Note",
			ImageURL:    "https://images.unsplash.com/photo-1514525253440-b393452e8d03?auto=format&fit=crop&q=80&w=800",
			Description: "Smooth tunes and smooth drinks. A chill end to the week.",
			Attendees:   []entity.PublicUser{byID["u3"], byID["u4"]},
			Category:    entity.CategoryChill,
			HostID:      "u2",
			Price:       0,
		},
		{
			ID:          "e3",
			Title:       "Indie Art Pop-up",
			Date:        now.Add(10 * 24 * time.Hour),
			Location:    "Warehouse District",
			ImageURL:    "https://images.unsplash.com/photo-1531058020387-3be344556be6?auto=format&fit=crop&q=80&w=800",
			Description: "Support local artists and find unique pieces.",
			Attendees:   []entity.PublicUser{byID["u2"]},
			Category:    entity.CategoryArt,
			HostID:      "u1",
			Price:       5,
		},
	}
}
