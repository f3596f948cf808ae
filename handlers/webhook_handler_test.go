package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inzichtCoachAPI/internal/user"
	"inzichtCoachAPI/services"
)

type fakeUserSync struct {
	created []*user.CreateProfileRequest
	deleted []string
}

func (f *fakeUserSync) CreateProfile(ctx context.Context, req *user.CreateProfileRequest) (*user.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.created = append(f.created, req)
	return &user.Profile{ID: uuid.New(), ClerkID: req.ClerkID, Email: req.Email}, nil
}

func (f *fakeUserSync) DeleteProfileByClerkID(ctx context.Context, clerkID string) error {
	if clerkID == "user_gone" {
		return services.ErrUserNotFound
	}
	f.deleted = append(f.deleted, clerkID)
	return nil
}

const userCreatedEvent = `{
	"type": "user.created",
	"object": "event",
	"data": {
		"id": "user_2abc",
		"first_name": "Sam",
		"last_name": "de Vries",
		"image_url": "https://img.clerk.com/abc.png",
		"primary_email_address_id": "idn_2",
		"email_addresses": [
			{"id": "idn_1", "email_address": "old@example.com"},
			{"id": "idn_2", "email_address": "sam@example.com"}
		]
	}
}`

func signedRequest(t *testing.T, key []byte, body string, at time.Time) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(at.Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body))
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", ts)
	req.Header.Set("svix-signature", "v1,bogus v1,"+SignWebhook(key, "msg_1", ts, []byte(body)))
	return req
}

func TestClerkWebhookUserCreated(t *testing.T) {
	key := []byte("super-secret-signing-key")
	secret := "whsec_" + base64.StdEncoding.EncodeToString(key)
	now := time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)

	users := &fakeUserSync{}
	h := NewWebhookHandler(users, secret)
	h.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, signedRequest(t, key, userCreatedEvent, now))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.created, 1)
	created := users.created[0]
	assert.Equal(t, "user_2abc", created.ClerkID)
	assert.Equal(t, "sam@example.com", created.Email)
	require.NotNil(t, created.FullName)
	assert.Equal(t, "Sam de Vries", *created.FullName)
}

func TestClerkWebhookPhoneOnlyUser(t *testing.T) {
	users := &fakeUserSync{}
	h := NewWebhookHandler(users, "")

	body := `{"type": "user.created", "object": "event", "data": {"id": "user_2phone", "email_addresses": []}}`
	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.created, 1)
	assert.Equal(t, "user_2phone", users.created[0].ClerkID)
	assert.Empty(t, users.created[0].Email)
}

func TestClerkWebhookRejectsBadSignatures(t *testing.T) {
	key := []byte("super-secret-signing-key")
	secret := "whsec_" + base64.StdEncoding.EncodeToString(key)
	now := time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{"wrong key", func() *http.Request { return signedRequest(t, []byte("other"), userCreatedEvent, now) }},
		{"stale timestamp", func() *http.Request { return signedRequest(t, key, userCreatedEvent, now.Add(-10*time.Minute)) }},
		{"missing headers", func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(userCreatedEvent))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserSync{}
			h := NewWebhookHandler(users, secret)
			h.now = func() time.Time { return now }

			rec := httptest.NewRecorder()
			h.HandleClerkWebhook(rec, tt.req())

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, users.created)
		})
	}
}

func TestClerkWebhookUserDeleted(t *testing.T) {
	users := &fakeUserSync{}
	h := NewWebhookHandler(users, "")

	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk",
		strings.NewReader(`{"type":"user.deleted","data":{"id":"user_2abc"}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"user_2abc"}, users.deleted)

	rec = httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk",
		strings.NewReader(`{"type":"user.deleted","data":{"id":"user_gone"}}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClerkWebhookMalformedBody(t *testing.T) {
	h := NewWebhookHandler(&fakeUserSync{}, "")

	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", strings.NewReader(`{"type":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
