package model

// User is the authenticated profile as returned by the remote API. The
// password never appears here; only its hash lives in the offline demo
// registry.
type User struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile,omitempty"`
	Address string `json:"address,omitempty"`
}
