package domain

// WishlistItem is one entry in a participant's wishlist. The whole list
// is replaced on every save; there is no partial merge.
type WishlistItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Participant is a registered member of the gift exchange.
//
// The first registrant becomes the admin. TargetID is nil until the
// raffle has run and never changes afterwards. The password is kept in
// plain text (demo credentials, called out in the README) and must
// never appear in API responses.
type Participant struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Password string         `json:"-"`
	Wishlist []WishlistItem `json:"wishlist"`
	TargetID *string        `json:"targetId"`
	IsAdmin  bool           `json:"isAdmin"`
}

// PublicParticipant is the view exposed by the participant listing.
type PublicParticipant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
