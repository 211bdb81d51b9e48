package entity

// PublicUser is the credential-free profile snapshot that is safe to hand to
// callers and to embed inside event attendee lists. Attendee snapshots are
// denormalized copies; they go stale until the next propagation pass.
type PublicUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	Bio            string `json:"bio"`
	SnapchatHandle string `json:"snapchatHandle"`
	IsVerified     bool   `json:"isVerified"`
	IsCurrentUser  bool   `json:"isCurrentUser,omitempty"`
}

// User is the full persisted record. Password holds a bcrypt hash.
// Email, Password and Phone must never leave the identity service.
type User struct {
	PublicUser
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Public strips the credential fields.
func (u User) Public() PublicUser {
	return u.PublicUser
}

// Merge overlays non-empty public fields of in onto the snapshot.
// Credential fields are untouched.
func (u *User) Merge(in PublicUser) {
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.SnapchatHandle != "" {
		u.SnapchatHandle = in.SnapchatHandle
	}
}
