package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"partnerhub/internal/model"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrPartnerNotFound       = errors.New("business partner not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrOfferNotFound         = errors.New("offer not found")
	ErrEventFull             = errors.New("event is full")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrDuplicateEmail        = errors.New("email already registered")
)

type Repository interface {
	CreateUser(ctx context.Context, u *model.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	CreatePartner(ctx context.Context, p *model.BusinessPartner) (int64, error)
	GetPartnerByID(ctx context.Context, id int64) (*model.BusinessPartner, error)
	GetPartnerByUserID(ctx context.Context, userID int64) (*model.BusinessPartner, error)
	UpdatePartner(ctx context.Context, p *model.BusinessPartner) error

	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetEventsByPartner(ctx context.Context, partnerID int64) ([]model.Event, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	// CancelEvent flips an event to cancelled in one conditional statement,
	// so two concurrent cancellations cannot both report success.
	CancelEvent(ctx context.Context, id int64, reason string, now time.Time) (bool, error)
	PublishEvent(ctx context.Context, id int64) error
	SetEventOffer(ctx context.Context, eventID int64, offerID *int64) error
	LinkOfferToPartnerEvents(ctx context.Context, offerID, partnerID int64) error
	GetEventsByOffer(ctx context.Context, offerID int64) ([]model.Event, error)

	CreateOffer(ctx context.Context, o *model.Offer) (int64, error)
	GetOfferByID(ctx context.Context, id int64) (*model.Offer, error)
	GetOffersByPartner(ctx context.Context, partnerID int64) ([]model.Offer, error)
	UpdateOffer(ctx context.Context, o *model.Offer) error
	// DeleteOffer nulls out every event reference before removing the row.
	DeleteOffer(ctx context.Context, id int64) error

	CreateRegistration(ctx context.Context, eventID, partnerID int64) (int64, error)
	CountRegistrations(ctx context.Context, eventID int64) (int, error)
	GetRegistrationsByEvent(ctx context.Context, eventID int64) ([]model.Registration, error)
	GetParticipantEmails(ctx context.Context, eventID int64) ([]string, error)
	GetRegistrationTimes(ctx context.Context, partnerID int64, from time.Time) ([]time.Time, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}
		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1`, u.Email,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists > 0 {
		return 0, ErrDuplicateEmail
	}

	query := `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, u.Email, u.Username, u.PasswordHash).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE email = $1
	`
	var u model.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE id = $1
	`
	var u model.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *repository) CreatePartner(ctx context.Context, p *model.BusinessPartner) (int64, error) {
	query := `
		INSERT INTO partners (user_id, name, contact_mail, phone, city, about, interests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.ContactMail, p.Phone, p.City, p.About, p.Interests,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert partner: %w", err)
	}
	return id, nil
}

func (r *repository) scanPartner(row *sql.Row) (*model.BusinessPartner, error) {
	var p model.BusinessPartner
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.ContactMail, &p.Phone,
		&p.City, &p.About, &p.Interests, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return &p, nil
}

func (r *repository) GetPartnerByID(ctx context.Context, id int64) (*model.BusinessPartner, error) {
	query := `
		SELECT id, user_id, name, contact_mail, phone, city, about, interests, created_at, updated_at
		FROM partners WHERE id = $1
	`
	return r.scanPartner(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) GetPartnerByUserID(ctx context.Context, userID int64) (*model.BusinessPartner, error) {
	query := `
		SELECT id, user_id, name, contact_mail, phone, city, about, interests, created_at, updated_at
		FROM partners WHERE user_id = $1
	`
	return r.scanPartner(r.db.QueryRowContext(ctx, query, userID))
}

func (r *repository) UpdatePartner(ctx context.Context, p *model.BusinessPartner) error {
	query := `
		UPDATE partners
		SET name = $1, contact_mail = $2, phone = $3, city = $4, about = $5, interests = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.ContactMail, p.Phone, p.City, p.About, p.Interests, p.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPartnerNotFound
		}
		return fmt.Errorf("failed to update partner: %w", err)
	}
	return nil
}

const eventColumns = `id, partner_id, name, description, banner_url, start_date, end_date,
	capacity, price, currency, draft_mode, status, cancellation_reason, cancelled_at,
	offer_id, created_at, updated_at`

func scanEvent(scan func(...any) error) (*model.Event, error) {
	var e model.Event
	var reason sql.NullString
	err := scan(
		&e.ID, &e.PartnerID, &e.Name, &e.Description, &e.BannerURL,
		&e.StartDate, &e.EndDate, &e.Capacity, &e.Price, &e.Currency,
		&e.DraftMode, &e.Status, &reason, &e.CancelledAt,
		&e.OfferID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CancellationReason = reason.String
	return &e, nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (partner_id, name, description, banner_url, start_date, end_date,
			capacity, price, currency, draft_mode, status, offer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		e.PartnerID, e.Name, e.Description, e.BannerURL, e.StartDate, e.EndDate,
		e.Capacity, e.Price, e.Currency, e.DraftMode, model.EventStatusActive, e.OfferID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

func (r *repository) queryEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *repository) GetEventsByPartner(ctx context.Context, partnerID int64) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE partner_id = $1 ORDER BY start_date ASC`
	return r.queryEvents(ctx, query, partnerID)
}

func (r *repository) GetEventsByOffer(ctx context.Context, offerID int64) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE offer_id = $1 ORDER BY start_date ASC`
	return r.queryEvents(ctx, query, offerID)
}

func (r *repository) UpdateEvent(ctx context.Context, e *model.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, banner_url = $3, start_date = $4, end_date = $5,
			capacity = $6, price = $7, currency = $8, draft_mode = $9, offer_id = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Description, e.BannerURL, e.StartDate, e.EndDate,
		e.Capacity, e.Price, e.Currency, e.DraftMode, e.OfferID, e.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *repository) DeleteEvent(ctx context.Context, id int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete registrations: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrEventNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *repository) CancelEvent(ctx context.Context, id int64, reason string, now time.Time) (bool, error) {
	query := `
		UPDATE events
		SET status = $1, cancellation_reason = $2, cancelled_at = $3, updated_at = NOW()
		WHERE id = $4 AND status <> $1
	`
	res, err := r.db.ExecContext(ctx, query, model.EventStatusCancelled, reason, now, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *repository) PublishEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET draft_mode = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) SetEventOffer(ctx context.Context, eventID int64, offerID *int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET offer_id = $1, updated_at = NOW() WHERE id = $2`, offerID, eventID)
	if err != nil {
		return fmt.Errorf("failed to set event offer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) LinkOfferToPartnerEvents(ctx context.Context, offerID, partnerID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET offer_id = $1, updated_at = NOW() WHERE partner_id = $2`, offerID, partnerID)
	if err != nil {
		return fmt.Errorf("failed to link offer to partner events: %w", err)
	}
	return nil
}

func (r *repository) CreateOffer(ctx context.Context, o *model.Offer) (int64, error) {
	query := `
		INSERT INTO offers (partner_id, percentage, text, start_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		o.PartnerID, o.Percentage, o.Text, o.StartDate, o.ExpiryDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert offer: %w", err)
	}
	return id, nil
}

func (r *repository) GetOfferByID(ctx context.Context, id int64) (*model.Offer, error) {
	query := `
		SELECT id, partner_id, percentage, text, start_date, expiry_date, created_at, updated_at
		FROM offers WHERE id = $1
	`
	var o model.Offer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.PartnerID, &o.Percentage, &o.Text, &o.StartDate, &o.ExpiryDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &o, nil
}

func (r *repository) GetOffersByPartner(ctx context.Context, partnerID int64) ([]model.Offer, error) {
	query := `
		SELECT id, partner_id, percentage, text, start_date, expiry_date, created_at, updated_at
		FROM offers WHERE partner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offers: %w", err)
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(
			&o.ID, &o.PartnerID, &o.Percentage, &o.Text, &o.StartDate, &o.ExpiryDate,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *repository) UpdateOffer(ctx context.Context, o *model.Offer) error {
	query := `
		UPDATE offers
		SET percentage = $1, text = $2, start_date = $3, expiry_date = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		o.Percentage, o.Text, o.StartDate, o.ExpiryDate, o.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("failed to update offer: %w", err)
	}
	return nil
}

func (r *repository) DeleteOffer(ctx context.Context, id int64) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	// Unlink first so no event is left pointing at a deleted offer.
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET offer_id = NULL, updated_at = NOW() WHERE offer_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to unlink offer from events: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrOfferNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *repository) CreateRegistration(ctx context.Context, eventID, partnerID int64) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&capacity)
	if err != nil {
		_ = tx.Rollback()
		return 0, ErrEventNotFound
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	if count >= capacity {
		_ = tx.Rollback()
		return 0, ErrEventFull
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND partner_id = $2`,
		eventID, partnerID).Scan(&existing)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to check duplicate registration: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback()
		return 0, ErrDuplicateRegistration
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (event_id, partner_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`, eventID, partnerID).Scan(&id)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to create registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func (r *repository) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *repository) GetRegistrationsByEvent(ctx context.Context, eventID int64) ([]model.Registration, error) {
	query := `
		SELECT id, event_id, partner_id, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.PartnerID, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *repository) GetParticipantEmails(ctx context.Context, eventID int64) ([]string, error) {
	query := `
		SELECT COALESCE(NULLIF(p.contact_mail, ''), u.email)
		FROM registrations r
		JOIN partners p ON p.id = r.partner_id
		JOIN users u ON u.id = p.user_id
		WHERE r.event_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *repository) GetRegistrationTimes(ctx context.Context, partnerID int64, from time.Time) ([]time.Time, error) {
	query := `
		SELECT r.created_at
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE e.partner_id = $1 AND r.created_at >= $2
		ORDER BY r.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, partnerID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration times: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan registration time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
