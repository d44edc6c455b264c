package store

// User is an account row. Hash is a bcrypt digest, never the password.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Hash     string `json:"-"`
}

// Club is a piece of equipment in a user's bag. BagOrder is always derived
// from (Name, Loft) by the bag classifier at write time, never supplied by
// the user.
type Club struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"-"`
	Name     string   `json:"name"`
	Loft     *float64 `json:"loft,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	BagOrder int      `json:"bag_order"`
}

// ShotWithClub is a logged shot joined with its club, the row shape the
// stats and chart layers consume. Result and Context are empty strings when
// the shot was logged without them.
type ShotWithClub struct {
	ID        int64   `json:"id"`
	ClubID    int64   `json:"club_id"`
	Date      string  `json:"date"`
	Distance  float64 `json:"distance"`
	Result    string  `json:"result,omitempty"`
	Context   string  `json:"context,omitempty"`
	ClubName  string  `json:"club_name"`
	ClubNotes string  `json:"club_notes,omitempty"`
	BagOrder  int     `json:"bag_order"`
}
