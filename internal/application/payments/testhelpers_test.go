package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret_123"

func signPayloadAt(payload []byte, secret string, ts time.Time) string {
	t := fmt.Sprintf("%d", ts.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(t + "." + string(payload)))
	return fmt.Sprintf("t=%s,v1=%s", t, hex.EncodeToString(mac.Sum(nil)))
}

func signPayload(payload []byte, secret string) string {
	return signPayloadAt(payload, secret, time.Now())
}

func checkoutCompletedEvent(t *testing.T, eventID, sessionID, mode string, metadata map[string]string) []byte {
	body, err := json.Marshal(map[string]interface{}{
		"id":     eventID,
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             sessionID,
				"object":         "checkout.session",
				"mode":           mode,
				"payment_status": "paid",
				"amount_total":   700,
				"currency":       "usd",
				"metadata":       metadata,
			},
		},
	})
	require.NoError(t, err)
	return body
}
