package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "Webhook-Signature"

// WebhookSignature rejects gateway notifications whose body signature does
// not match the shared secret. The body is restored for downstream binding.
func WebhookSignature(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		provided, err := hex.DecodeString(c.GetHeader(SignatureHeader))
		if err != nil || len(provided) == 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		mac := hmac.New(sha256.New, key)
		mac.Write(body)
		if !hmac.Equal(mac.Sum(nil), provided) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
