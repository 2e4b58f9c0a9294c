package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"

	"github.com/questforge/cubevault/pkg/errcode"
	"github.com/questforge/cubevault/pkg/xhttp"
)

const (
	signatureHeader = "X-Signature"
	timestampHeader = "X-Timestamp"
	callerKey       = "caller"

	// Accepted clock drift between caller and server.
	timestampSkew = 5 * time.Minute
)

// signingPayload is what the caller personal-signs. Method, path and
// timestamp are part of the message, so a captured signature cannot be
// replayed against another endpoint or outside the freshness window.
func signingPayload(method, path, timestamp string, body []byte) []byte {
	payload := make([]byte, 0, len(method)+len(path)+len(timestamp)+len(body)+3)
	payload = append(payload, method...)
	payload = append(payload, '\n')
	payload = append(payload, path...)
	payload = append(payload, '\n')
	payload = append(payload, timestamp...)
	payload = append(payload, '\n')
	payload = append(payload, body...)
	return payload
}

// CallerAuth establishes WHO is calling a mutating endpoint: the caller
// personal-signs method, path, a unix-seconds timestamp and the raw body,
// and sends the 65-byte signature in X-Signature with the timestamp in
// X-Timestamp. The middleware recovers the address and stores it in the
// gin context; whether that address may do anything is decided by the
// engine's role checks, not here.
func CallerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(signatureHeader)
		if raw == "" {
			xhttp.Error(c, errcode.ErrUnauthorized)
			c.Abort()
			return
		}
		sig, err := hexutil.Decode(raw)
		if err != nil || len(sig) != crypto.SignatureLength {
			xhttp.Error(c, errcode.ErrUnauthorized)
			c.Abort()
			return
		}
		if sig[64] >= 27 {
			sig = append([]byte(nil), sig...)
			sig[64] -= 27
		}

		timestamp := c.GetHeader(timestampHeader)
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			xhttp.Error(c, errcode.ErrUnauthorized)
			c.Abort()
			return
		}
		drift := time.Since(time.Unix(ts, 0))
		if drift > timestampSkew || drift < -timestampSkew {
			xhttp.Error(c, errcode.ErrUnauthorized)
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			xhttp.Error(c, errcode.NewCustomErr("read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		payload := signingPayload(c.Request.Method, c.Request.URL.Path, timestamp, body)
		pub, err := crypto.SigToPub(accounts.TextHash(payload), sig)
		if err != nil {
			xhttp.Error(c, errcode.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(callerKey, crypto.PubkeyToAddress(*pub))
		c.Next()
	}
}

// CallerFromContext returns the authenticated caller address.
func CallerFromContext(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}

// MustCaller fetches the caller or aborts with 401. Handlers behind
// CallerAuth can rely on it.
func MustCaller(c *gin.Context) (common.Address, bool) {
	addr, ok := CallerFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	return addr, ok
}
