package clerk

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/users/user_1":
			w.Write([]byte(`{"id":"user_1","first_name":"Ada","last_name":"Lovelace",
				"primary_email_address_id":"e2",
				"email_addresses":[{"id":"e1","email_address":"old@example.com"},{"id":"e2","email_address":"ada@example.com"}]}`))
		case "/users/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "sk_test")

	u, err := c.GetUser(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "ada@example.com", u.PrimaryEmail())

	_, err = c.GetUser(context.Background(), "user_2")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = c.GetUser(context.Background(), "broken")
	assert.Error(t, err)

	_, err = NewClient(server.URL, "").GetUser(context.Background(), "user_1")
	assert.Error(t, err)
}

func TestUser_PrimaryEmailFallback(t *testing.T) {
	u := User{EmailAddresses: []EmailAddress{{ID: "e1", EmailAddress: "first@example.com"}}}
	assert.Equal(t, "first@example.com", u.PrimaryEmail())
	assert.Empty(t, (&User{}).PrimaryEmail())
}

func newTestVerifier(t *testing.T, now time.Time) *WebhookVerifier {
	t.Helper()
	v, err := NewWebhookVerifier("whsec_" + base64.StdEncoding.EncodeToString([]byte("super-secret-key")))
	require.NoError(t, err)
	v.now = func() time.Time { return now }
	return v
}

func TestWebhookVerifier(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := newTestVerifier(t, now)
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)

	headers := func(at time.Time, sig string) http.Header {
		h := http.Header{}
		h.Set(HeaderID, "msg_1")
		h.Set(HeaderTimestamp, strconv.FormatInt(at.Unix(), 10))
		h.Set(HeaderSignature, sig)
		return h
	}

	good := v.Sign("msg_1", now, body)
	assert.NoError(t, v.Verify(headers(now, good), body))
	assert.NoError(t, v.Verify(headers(now, "v1,bm9wZQ== "+good), body), "any listed signature may match")

	assert.ErrorIs(t, v.Verify(headers(now, good), []byte(`{"tampered":true}`)), ErrInvalidSignature)
	assert.ErrorIs(t, v.Verify(headers(now, "v2,"+good[3:]), body), ErrInvalidSignature)

	stale := now.Add(-6 * time.Minute)
	assert.ErrorIs(t, v.Verify(headers(stale, v.Sign("msg_1", stale, body)), body), ErrInvalidTimestamp)

	assert.ErrorIs(t, v.Verify(http.Header{}, body), ErrMissingHeaders)
}

func TestNewWebhookVerifier_BadSecret(t *testing.T) {
	_, err := NewWebhookVerifier("whsec_!!!")
	assert.Error(t, err)
}

func rsaKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestSessionVerifier(t *testing.T) {
	key, pemKey := rsaKeyPair(t)
	v, err := NewSessionVerifier(pemKey)
	require.NoError(t, err)

	sign := func(claims jwt.StandardClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	sub, err := v.Verify(sign(jwt.StandardClaims{Subject: "user_1", ExpiresAt: time.Now().Add(time.Minute).Unix()}))
	require.NoError(t, err)
	assert.Equal(t, "user_1", sub)

	_, err = v.Verify(sign(jwt.StandardClaims{Subject: "user_1", ExpiresAt: time.Now().Add(-time.Minute).Unix()}))
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = v.Verify(sign(jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Minute).Unix()}))
	assert.ErrorIs(t, err, ErrInvalidSession)

	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "user_1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.Verify(hs)
	assert.ErrorIs(t, err, ErrInvalidSession)

	other, _ := rsaKeyPair(t)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.StandardClaims{Subject: "user_1"}).SignedString(other)
	require.NoError(t, err)
	_, err = v.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = NewSessionVerifier("not a key")
	assert.Error(t, err)
}
