package domain

import "time"

// DefaultAvatarURL is used when a user has not uploaded an avatar.
const DefaultAvatarURL = "https://placehold.co/200x200"

// User models an account holder. Username and email are globally unique and
// stored lowercase/trimmed. Secret fields carry the json:"-" tag so a User
// rendered in a response never leaks credentials or token state.
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"fullName,omitempty"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified"`

	PasswordHash string `json:"-"`

	// RefreshToken holds the single currently valid refresh token. Login and
	// refresh overwrite it, so only one session per user survives: any
	// previously issued refresh token stops matching and is rejected.
	RefreshToken string `json:"-"`

	// Hashes of pending single-use tokens; the raw values are only ever sent
	// out-of-band by email.
	EmailVerificationToken  string    `json:"-"`
	EmailVerificationExpiry time.Time `json:"-"`
	ForgotPasswordToken     string    `json:"-"`
	ForgotPasswordExpiry    time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
