package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkarlsen/mailterm/internal/model"
)

// composeRequest is the POST /emails body.
type composeRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// unreadRequest is the PUT /emails/{id} body.
type unreadRequest struct {
	Unread bool `json:"unread"`
}

// ListEmails fetches the full message collection. Ordering is whatever
// the server returns.
func (c *Client) ListEmails(ctx context.Context) ([]model.Email, error) {
	var emails []model.Email
	if err := c.do(ctx, http.MethodGet, "/emails", nil, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// CreateEmail submits a new message. The server assigns the id; the
// caller is expected to insert a provisional record locally.
func (c *Client) CreateEmail(
	ctx context.Context,
	sender, recipient, subject, body string,
) error {
	return c.doStatus(ctx, http.MethodPost, "/emails", composeRequest{
		Sender:    sender,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
}

// SetUnread updates the unread flag of a single message.
func (c *Client) SetUnread(ctx context.Context, id int64, unread bool) error {
	path := fmt.Sprintf("/emails/%d", id)
	return c.doStatus(ctx, http.MethodPut, path, unreadRequest{Unread: unread})
}

// DeleteEmail removes a message by id.
func (c *Client) DeleteEmail(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/emails/%d", id)
	return c.doStatus(ctx, http.MethodDelete, path, nil)
}
