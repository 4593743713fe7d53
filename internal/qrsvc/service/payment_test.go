package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	s := NewPaymentService(nil, nil, nil, "whsec_test", "", "")

	payload := []byte(`{"type":"checkout.session.completed"}`)
	assert.True(t, s.VerifySignature(payload, sign("whsec_test", payload)))
	assert.False(t, s.VerifySignature(payload, sign("whsec_other", payload)))
	assert.False(t, s.VerifySignature(payload, ""))
	assert.False(t, s.VerifySignature([]byte(`tampered`), sign("whsec_test", payload)))
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	s := NewPaymentService(nil, nil, nil, "whsec_test", "", "")

	payload := []byte(`{"type":"checkout.session.completed"}`)
	err := s.HandleWebhook(context.Background(), payload, "deadbeef")
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestHandleWebhookRejectsMalformedPayload(t *testing.T) {
	s := NewPaymentService(nil, nil, nil, "whsec_test", "", "")

	payload := []byte(`{not json`)
	err := s.HandleWebhook(context.Background(), payload, sign("whsec_test", payload))
	assert.ErrorIs(t, err, ErrMalformedWebhook)
}

func TestHandleWebhookIgnoresOtherEventTypes(t *testing.T) {
	s := NewPaymentService(nil, nil, nil, "whsec_test", "", "")

	payload := []byte(`{"type":"checkout.session.expired"}`)
	err := s.HandleWebhook(context.Background(), payload, sign("whsec_test", payload))
	assert.NoError(t, err)
}

func TestHandleWebhookRejectsBadMetadata(t *testing.T) {
	s := NewPaymentService(nil, nil, nil, "whsec_test", "", "")

	tests := []struct {
		name    string
		payload string
	}{
		{"missing user id", `{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"scans":"100"}}}}`},
		{"bad user id", `{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"userId":"nope","scans":"100"}}}}`},
		{"bad scans", `{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"userId":"507f1f77bcf86cd799439011","scans":"many"}}}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := []byte(tc.payload)
			err := s.HandleWebhook(context.Background(), payload, sign("whsec_test", payload))
			assert.ErrorIs(t, err, ErrMalformedWebhook)
		})
	}
}

func TestPacks(t *testing.T) {
	tests := []struct {
		pack  string
		price string
		scans int64
	}{
		{"small", "2.00", 100},
		{"medium", "9.00", 500},
		{"large", "30.00", 2000},
	}

	for _, tc := range tests {
		p, ok := Packs[tc.pack]
		assert.True(t, ok, tc.pack)
		assert.True(t, p.PriceUSD.Equal(decimal.RequireFromString(tc.price)), tc.pack)
		assert.Equal(t, tc.scans, p.Scans, tc.pack)
	}
}
