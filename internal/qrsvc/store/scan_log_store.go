package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qrcodesmart/qr-services/internal/qrsvc/models"
)

type ScanLogStore struct {
	db *pgxpool.Pool
}

func NewScanLogStore(db *pgxpool.Pool) *ScanLogStore {
	return &ScanLogStore{db: db}
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Insert records one resolution attempt. The unique (qr_id, scan_no)
// constraint makes redelivered events collapse into the existing row instead
// of double-recording a scan.
func (s *ScanLogStore) Insert(ctx context.Context, entry *models.ScanLog) error {
	const query = `
		INSERT INTO scan_logs (qr_id, qr_type, scan_no, outcome, reason, user_agent, remote_ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at;
	`

	err := s.db.QueryRow(ctx, query,
		entry.QrId,
		entry.QrType,
		entry.ScanNo,
		entry.Outcome,
		entry.Reason,
		entry.UserAgent,
		entry.RemoteIp,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		// duplicate key: this scan attempt is already recorded
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to insert scan log: %w", err)
	}

	return nil
}

func (s *ScanLogStore) ListByQr(ctx context.Context, qrId string, limit int) ([]*models.ScanLog, error) {
	const query = `
		SELECT id, qr_id, qr_type, scan_no, outcome, reason, user_agent, remote_ip, created_at
		FROM scan_logs
		WHERE qr_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, qrId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ScanLog
	for rows.Next() {
		var l models.ScanLog
		err := rows.Scan(
			&l.ID,
			&l.QrId,
			&l.QrType,
			&l.ScanNo,
			&l.Outcome,
			&l.Reason,
			&l.UserAgent,
			&l.RemoteIp,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}

	return logs, nil
}

// LastScan returns the most recent history row for a record, or nil when the
// record has never been scanned.
func (s *ScanLogStore) LastScan(ctx context.Context, qrId string) (*models.ScanLog, error) {
	const query = `
		SELECT id, qr_id, qr_type, scan_no, outcome, reason, user_agent, remote_ip, created_at
		FROM scan_logs
		WHERE qr_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	l := &models.ScanLog{}
	err := s.db.QueryRow(ctx, query, qrId).Scan(
		&l.ID,
		&l.QrId,
		&l.QrType,
		&l.ScanNo,
		&l.Outcome,
		&l.Reason,
		&l.UserAgent,
		&l.RemoteIp,
		&l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last scan: %w", err)
	}

	return l, nil
}
