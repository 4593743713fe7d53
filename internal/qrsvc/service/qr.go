package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qrcodesmart/qr-services/internal/qr"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/store"
)

var (
	ErrMissingData     = errors.New("missing required data")
	ErrPremiumRequired = errors.New("this feature requires a premium subscription")
	ErrCustomNeedsUser = errors.New("custom QR must have at least one user")
	ErrFreeUserLimit   = errors.New("free plan allows only 1 user in custom QR")
)

type CreateQrRequest struct {
	Type              string         `json:"type"`
	Content           any            `json:"content"`
	AndroidLink       string         `json:"androidLink"`
	IosLink           string         `json:"iosLink"`
	Logo              string         `json:"logo"`
	CompanyInfo       map[string]any `json:"companyInfo"`
	CompanySocial     map[string]any `json:"companySocial"`
	GlobalHeading     string         `json:"globalHeading"`
	GlobalDescription string         `json:"globalDescription"`
}

type QrService struct {
	records *store.RecordStore
	users   *store.UserStore
	scans   *store.ScanLogStore
}

func NewQrService(records *store.RecordStore, users *store.UserStore, scans *store.ScanLogStore) *QrService {
	return &QrService{records: records, users: users, scans: scans}
}

// premium-only record types get the explicit 300-scan ceiling at creation;
// everything else resolves against the default ceiling.
func isPremiumFeature(qrType string) bool {
	return qrType == qr.TypeText || qrType == qr.TypeApp
}

// Create validates and persists a new record for the owner, and bumps the
// owner's totalQrs counter.
func (s *QrService) Create(ctx context.Context, ownerId primitive.ObjectID, subscription string, req *CreateQrRequest) (string, error) {
	if req.Type == "" || req.Content == nil {
		return "", ErrMissingData
	}

	if isPremiumFeature(req.Type) && subscription != models.SubscriptionPremium {
		return "", ErrPremiumRequired
	}

	content := req.Content
	if req.Type == qr.TypeCustom {
		users, err := cleanCustomUsers(req.Content, subscription)
		if err != nil {
			return "", err
		}
		content = map[string]any{"users": users}

		if req.CompanyInfo == nil {
			req.CompanyInfo = map[string]any{
				"formName":       "",
				"companyName":    "",
				"companyEmail":   "",
				"companyPhone":   "",
				"companyAddress": "",
			}
		}
		if req.CompanySocial == nil {
			req.CompanySocial = map[string]any{
				"instagram": "",
				"facebook":  "",
				"whatsapp":  "",
				"snapchat":  "",
				"twitter":   "",
			}
		}
	}

	var scanLimit *int64
	if isPremiumFeature(req.Type) {
		limit := qr.DefaultScanLimit
		scanLimit = &limit
	}

	rec := &qr.QrRecord{
		ID:                uuid.New().String(),
		Type:              req.Type,
		Content:           content,
		GlobalHeading:     req.GlobalHeading,
		GlobalDescription: req.GlobalDescription,
		AndroidLink:       req.AndroidLink,
		IosLink:           req.IosLink,
		Logo:              req.Logo,
		CompanyInfo:       req.CompanyInfo,
		CompanySocial:     req.CompanySocial,
		ScanCount:         0,
		ScanLimit:         scanLimit,
		Active:            true,
		CreatedAt:         time.Now(),
		OwnerId:           ownerId,
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		return "", err
	}

	if err := s.users.IncTotalQrs(ctx, ownerId); err != nil {
		// the record exists either way, the counter is advisory
		log.Errorf("failed to bump totalQrs for %s: %v", ownerId.Hex(), err)
	}

	return rec.ID, nil
}

// cleanCustomUsers enforces the custom-card rules and normalizes each entry
// to the current {name,email,phone,links[]} shape.
func cleanCustomUsers(content any, subscription string) ([]map[string]any, error) {
	doc, _ := content.(map[string]any)
	rawUsers, _ := doc["users"].([]any)
	if len(rawUsers) == 0 {
		return nil, ErrCustomNeedsUser
	}

	if subscription != models.SubscriptionPremium && len(rawUsers) > 1 {
		return nil, ErrFreeUserLimit
	}

	users := make([]map[string]any, 0, len(rawUsers))
	for _, entry := range rawUsers {
		u, _ := entry.(map[string]any)

		str := func(key string) string {
			s, _ := u[key].(string)
			return s
		}
		links, _ := u["links"].([]any)
		if links == nil {
			links = []any{}
		}

		users = append(users, map[string]any{
			"name":  str("name"),
			"email": str("email"),
			"phone": str("phone"),
			"links": links,
		})
	}

	return users, nil
}

type DashboardData struct {
	TotalQrs int           `json:"totalQrs"`
	Qrs      []qr.QrRecord `json:"qrs"`
}

func (s *QrService) Dashboard(ctx context.Context, ownerId primitive.ObjectID) (*DashboardData, error) {
	records, err := s.records.FindByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	return &DashboardData{TotalQrs: len(records), Qrs: records}, nil
}

type QrStats struct {
	ScanCount  int64      `json:"scanCount"`
	LastScanAt *time.Time `json:"lastScanAt,omitempty"`
}

// Stats returns the current scan count for a record, with the time of the
// latest scan when the history has one.
func (s *QrService) Stats(ctx context.Context, id string) (*QrStats, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &QrStats{ScanCount: rec.ScanCount}

	// history is best effort, the count alone is still a valid answer
	last, err := s.scans.LastScan(ctx, id)
	if err != nil {
		log.Errorf("failed to load last scan for %s: %v", id, err)
	} else if last != nil {
		stats.LastScanAt = &last.CreatedAt
	}

	return stats, nil
}
