package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/store"
)

var (
	ErrInvalidPack      = errors.New("invalid pack selected")
	ErrBadSignature     = errors.New("webhook signature verification failed")
	ErrMalformedWebhook = errors.New("malformed webhook payload")
)

// Scan credit packs. Prices are what the hosted checkout charges in USD.
var Packs = map[string]models.Pack{
	"small":  {Name: "small", PriceUSD: decimal.RequireFromString("2.00"), Scans: 100},
	"medium": {Name: "medium", PriceUSD: decimal.RequireFromString("9.00"), Scans: 500},
	"large":  {Name: "large", PriceUSD: decimal.RequireFromString("30.00"), Scans: 2000},
}

// ProviderSessionRequest is what the external checkout provider needs to host
// a payment page. Billing itself stays outside this service.
type ProviderSessionRequest struct {
	SessionId   string            `json:"session_id"`
	ProductName string            `json:"product_name"`
	Description string            `json:"description"`
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

type ProviderSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, req *ProviderSessionRequest) (*ProviderSession, error)
}

type PaymentService struct {
	users         *store.UserStore
	sessions      *store.CheckoutStore
	provider      CheckoutProvider
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewPaymentService(users *store.UserStore, sessions *store.CheckoutStore,
	provider CheckoutProvider, webhookSecret, successURL, cancelURL string) *PaymentService {
	return &PaymentService{
		users:         users,
		sessions:      sessions,
		provider:      provider,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// CreateCheckout opens a provider session for the pack and tracks it until
// the webhook confirms payment. Returns the hosted payment page URL.
func (s *PaymentService) CreateCheckout(ctx context.Context, packName string, userId primitive.ObjectID) (string, error) {
	pack, ok := Packs[packName]
	if !ok {
		return "", ErrInvalidPack
	}

	amountCents := pack.PriceUSD.Mul(decimal.NewFromInt(100)).IntPart()

	session, err := s.provider.CreateSession(ctx, &ProviderSessionRequest{
		ProductName: "QR Code Scan Credits",
		Description: fmt.Sprintf("%d QR code scans", pack.Scans),
		AmountCents: amountCents,
		Currency:    "usd",
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
		Metadata: map[string]string{
			"userId": userId.Hex(),
			"scans":  strconv.FormatInt(pack.Scans, 10),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create provider session: %w", err)
	}

	err = s.sessions.Insert(ctx, &models.CheckoutSession{
		ID:          session.ID,
		UserId:      userId,
		Pack:        pack.Name,
		AmountCents: amountCents,
		Scans:       pack.Scans,
		Status:      models.CheckoutPending,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	log.Infof("checkout session %s created for user %s (%s pack)", session.ID, userId.Hex(), pack.Name)
	return session.URL, nil
}

// WebhookEvent is the provider's event envelope.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// VerifySignature checks the hex HMAC-SHA256 of the raw body.
func (s *PaymentService) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook verifies and applies a provider event. Completed checkouts
// upgrade the buyer to premium and credit the purchased scans; session state
// makes redelivered events a no-op.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.VerifySignature(payload, signature) {
		return ErrBadSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ErrMalformedWebhook
	}

	if event.Type != "checkout.session.completed" {
		log.Infof("ignoring webhook event type %s", event.Type)
		return nil
	}

	userId, err := primitive.ObjectIDFromHex(event.Data.Object.Metadata["userId"])
	if err != nil {
		return ErrMalformedWebhook
	}
	scans, err := strconv.ParseInt(event.Data.Object.Metadata["scans"], 10, 64)
	if err != nil {
		return ErrMalformedWebhook
	}

	flipped, err := s.sessions.MarkCompleted(ctx, event.Data.Object.ID)
	if err != nil {
		return err
	}
	if !flipped {
		log.Infof("checkout session %s already settled, skipping credit", event.Data.Object.ID)
		return nil
	}

	if err := s.users.ApplyScanCredit(ctx, userId, scans); err != nil {
		return err
	}

	log.Infof("user %s upgraded to premium with %d scans", userId.Hex(), scans)
	return nil
}
