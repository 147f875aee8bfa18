package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmails(t *testing.T) {
	t.Run("decodes the collection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/emails", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `[
					{"id": 2, "sender": "b@example.com", "recipient": "me@example.com",
					 "subject": "Second", "body": "hello", "unread": true},
					{"id": 1, "sender": "a@example.com", "recipient": "me@example.com",
					 "subject": "First", "body": "hi", "unread": false}
				]`)
			},
		))
		defer server.Close()

		client := NewClient(server.URL)
		emails, err := client.ListEmails(context.Background())
		require.NoError(t, err)
		require.Len(t, emails, 2)
		assert.Equal(t, int64(2), emails[0].ID)
		assert.Equal(t, "Second", emails[0].Subject)
		assert.True(t, emails[0].Unread)
		assert.False(t, emails[1].Unread)
	})

	t.Run("returns an error for non-2xx responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.ListEmails(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestCreateEmail(t *testing.T) {
	t.Run("posts the compose fields", func(t *testing.T) {
		var got composeRequest
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/emails", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				io.WriteString(w, `{"success": true}`)
			},
		))
		defer server.Close()

		client := NewClient(server.URL)
		err := client.CreateEmail(
			context.Background(),
			"me@example.com", "you@example.com", "Hi", "Body text",
		)
		require.NoError(t, err)
		assert.Equal(t, "me@example.com", got.Sender)
		assert.Equal(t, "you@example.com", got.Recipient)
		assert.Equal(t, "Hi", got.Subject)
		assert.Equal(t, "Body text", got.Body)
	})

	t.Run("maps success:false onto RejectedError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"success": false}`)
			},
		))
		defer server.Close()

		client := NewClient(server.URL)
		err := client.CreateEmail(
			context.Background(), "a@b.c", "d@e.f", "s", "b",
		)
		require.Error(t, err)
		assert.True(t, IsRejected(err))
	})
}

func TestSetUnread(t *testing.T) {
	var gotPath string
	var got unreadRequest
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			io.WriteString(w, `{"success": true}`)
		},
	))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SetUnread(context.Background(), 42, false)
	require.NoError(t, err)
	assert.Equal(t, "/emails/42", gotPath)
	assert.False(t, got.Unread)
}

func TestDeleteEmail(t *testing.T) {
	t.Run("issues DELETE by id", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				io.WriteString(w, `{"success": true}`)
			},
		))
		defer server.Close()

		client := NewClient(server.URL)
		require.NoError(t, client.DeleteEmail(context.Background(), 7))
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/emails/7", gotPath)
	})

	t.Run("propagates transport errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {},
		))
		server.Close() // connection refused from here on

		client := NewClient(server.URL)
		err := client.DeleteEmail(context.Background(), 7)
		require.Error(t, err)
		assert.False(t, IsRejected(err))
	})
}

func TestContextCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
		},
	))
	defer server.Close()

	client := NewClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		_, err := client.ListEmails(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("request did not observe cancellation")
	}
}
