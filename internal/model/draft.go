package model

import "time"

// Draft is unsent compose-form content kept locally so a cancelled message
// can be resumed later. Drafts never touch the server.
type Draft struct {
	ID        string    `json:"id" db:"id"`
	Sender    string    `json:"sender" db:"sender"`
	Recipient string    `json:"recipient" db:"recipient"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Empty reports whether the draft carries no user content worth saving.
func (d Draft) Empty() bool {
	return d.Recipient == "" && d.Subject == "" && d.Body == ""
}
