package middleware

import (
	"bytes"
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
)

func newAuthRig(t *testing.T) (*gin.Engine, *ecdsa.PrivateKey, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	echo := func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no caller")
			return
		}
		c.String(http.StatusOK, caller.Hex())
	}
	r.POST("/a", CallerAuth(), echo)
	r.POST("/b", CallerAuth(), echo)
	return r, key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signedRequest(t *testing.T, key *ecdsa.PrivateKey, method, signedPath, sentPath, timestamp string, body []byte) *http.Request {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash(signingPayload(method, signedPath, timestamp, body)), key)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, sentPath, bytes.NewReader(body))
	req.Header.Set(signatureHeader, hexutil.Encode(sig))
	req.Header.Set(timestampHeader, timestamp)
	return req
}

func nowTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func TestCallerAuthRecoversSigner(t *testing.T) {
	r, key, want := newAuthRig(t)

	body := []byte(`{"active":false}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, key, http.MethodPost, "/a", "/a", nowTimestamp(), body))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != want {
		t.Fatalf("recovered %s, want %s", w.Body.String(), want)
	}
}

func TestCallerAuthBindsPath(t *testing.T) {
	r, key, want := newAuthRig(t)

	// A signature captured for one endpoint must not authenticate the same
	// principal on another: the recovered address degrades to a stranger.
	body := []byte(`{"active":false}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, key, http.MethodPost, "/a", "/b", nowTimestamp(), body))
	if w.Code == http.StatusOK && w.Body.String() == want {
		t.Fatalf("signature for /a authenticated the signer on /b")
	}
}

func TestCallerAuthRejectsStaleTimestamp(t *testing.T) {
	r, key, want := newAuthRig(t)

	stale := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	body := []byte(`{"active":false}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedRequest(t, key, http.MethodPost, "/a", "/a", stale, body))
	if w.Code == http.StatusOK && w.Body.String() == want {
		t.Fatal("hour-old signature accepted")
	}
}

func TestCallerAuthRejectsMissingHeaders(t *testing.T) {
	r, _, _ := newAuthRig(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/a", bytes.NewReader([]byte(`{}`)))
	r.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Fatal("unsigned request accepted")
	}

	// Signature present but no timestamp.
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte("x")), key)
	if err != nil {
		t.Fatal(err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/a", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(signatureHeader, hexutil.Encode(sig))
	r.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Fatal("request without timestamp accepted")
	}
}

func TestCallerAuthTamperedBodyRecoversStranger(t *testing.T) {
	r, key, want := newAuthRig(t)

	ts := nowTimestamp()
	sig, err := crypto.Sign(accounts.TextHash(signingPayload(http.MethodPost, "/a", ts, []byte(`{"active":false}`))), key)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/a", bytes.NewReader([]byte(`{"active":true}`)))
	req.Header.Set(signatureHeader, hexutil.Encode(sig))
	req.Header.Set(timestampHeader, ts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code == http.StatusOK && w.Body.String() == want {
		t.Fatal("tampered body still recovered the signer")
	}
}
