package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/qrcodesmart/qr-services/internal/qr"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
	"github.com/qrcodesmart/qr-services/internal/qrsvc/store"
)

var ErrInvalidSubscription = errors.New("invalid subscription value")

type AdminService struct {
	users   *store.UserStore
	records *store.RecordStore
	scans   *store.ScanLogStore
}

func NewAdminService(users *store.UserStore, records *store.RecordStore, scans *store.ScanLogStore) *AdminService {
	return &AdminService{users: users, records: records, scans: scans}
}

type AdminUser struct {
	models.User
	TotalQrs int64 `json:"totalQrs"`
}

// ListUsers returns every account with its actual record count, not the
// advisory counter on the user document.
func (s *AdminService) ListUsers(ctx context.Context) ([]AdminUser, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		count, err := s.records.CountByOwner(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, AdminUser{User: u, TotalQrs: count})
	}
	return out, nil
}

func (s *AdminService) SetSubscription(ctx context.Context, userId primitive.ObjectID, subscription string) error {
	if subscription != models.SubscriptionFree && subscription != models.SubscriptionPremium {
		return ErrInvalidSubscription
	}
	return s.users.SetSubscription(ctx, userId, subscription)
}

// FormattedQr is the admin view of a record with its remaining allowance.
type FormattedQr struct {
	ID             string `json:"_id"`
	Type           string `json:"type"`
	Content        any    `json:"content"`
	AndroidLink    string `json:"androidLink,omitempty"`
	IosLink        string `json:"iosLink,omitempty"`
	ScanCount      int64  `json:"scanCount"`
	ScanLimit      int64  `json:"scanLimit"`
	RemainingScans int64  `json:"remainingScans"`
	Active         bool   `json:"active"`
	CreatedAt      any    `json:"createdAt"`
}

func (s *AdminService) ListUserQrs(ctx context.Context, userId primitive.ObjectID) ([]FormattedQr, error) {
	records, err := s.records.FindByOwner(ctx, userId)
	if err != nil {
		return nil, err
	}

	out := make([]FormattedQr, 0, len(records))
	for _, rec := range records {
		limit := qr.EffectiveLimit(rec.ScanLimit)
		out = append(out, FormattedQr{
			ID:             rec.ID,
			Type:           rec.Type,
			Content:        rec.Content,
			AndroidLink:    rec.AndroidLink,
			IosLink:        rec.IosLink,
			ScanCount:      rec.ScanCount,
			ScanLimit:      limit,
			RemainingScans: limit - rec.ScanCount,
			Active:         rec.Active,
			CreatedAt:      rec.CreatedAt,
		})
	}
	return out, nil
}

// ToggleQr flips a record's active flag. This is the administrative path that
// may re-enable a record the engine disabled.
func (s *AdminService) ToggleQr(ctx context.Context, id string) (bool, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	updated := !rec.Active
	if err := s.records.SetFields(ctx, id, map[string]any{"active": updated}); err != nil {
		return false, err
	}
	return updated, nil
}

// RecentScans exposes the Postgres scan history for one record.
func (s *AdminService) RecentScans(ctx context.Context, qrId string, limit int) ([]*models.ScanLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.scans.ListByQr(ctx, qrId, limit)
}
