package models

import "time"

// Session is the client-held login record. Nothing on the server trusts it;
// it only decides whether the CLI shows the login prompt.
type Session struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
