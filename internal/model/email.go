package model

import "time"

// NoSelection is the sentinel Selection value meaning no email is open.
const NoSelection int64 = 0

// Email is a single message as exposed by the backend collection.
type Email struct {
	// ID is the unique identifier. Server-assigned for fetched records;
	// provisional records created locally use the current Unix-millis
	// timestamp until the authoritative copy arrives on the next poll.
	ID int64 `json:"id"`

	// Sender is the origin address, opaque to the client.
	Sender string `json:"sender"`

	// Recipient is the destination address, opaque to the client.
	Recipient string `json:"recipient"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Body is the message body text.
	Body string `json:"body"`

	// Date is when the message was created.
	Date time.Time `json:"date"`

	// Unread reports whether the message has been opened yet.
	Unread bool `json:"unread"`
}

// NewProvisional synthesizes a local placeholder for an email that was just
// accepted by the server but not yet observed through a poll. The id is the
// current Unix-millis clock; the real record silently replaces it when the
// next poll delivers a differing snapshot.
func NewProvisional(sender, recipient, subject, body string, now time.Time) Email {
	return Email{
		ID:        now.UnixMilli(),
		Sender:    sender,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Date:      now,
		Unread:    true,
	}
}

// FindByID returns the email with the given id and true, or a zero Email and
// false when the id is absent. A linear scan is fine at mailbox scale.
func FindByID(emails []Email, id int64) (Email, bool) {
	for _, e := range emails {
		if e.ID == id {
			return e, true
		}
	}
	return Email{}, false
}

// Prepend returns a new slice with e first, leaving the input untouched.
func Prepend(emails []Email, e Email) []Email {
	out := make([]Email, 0, len(emails)+1)
	out = append(out, e)
	return append(out, emails...)
}

// Remove returns a new slice without the email matching id. The input slice
// is never mutated.
func Remove(emails []Email, id int64) []Email {
	out := make([]Email, 0, len(emails))
	for _, e := range emails {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// SetUnread returns a new slice where the email matching id has its unread
// flag set to v. All other records are carried over unchanged.
func SetUnread(emails []Email, id int64, v bool) []Email {
	out := make([]Email, len(emails))
	copy(out, emails)
	for i := range out {
		if out[i].ID == id {
			out[i].Unread = v
		}
	}
	return out
}
