package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinetix/cinetix/internal/model"
)

const promotionCols = `id, title, description, code, discount_type, discount_value, min_purchase, max_discount,
	start_date, end_date, usage_limit, current_usage, status, cinema_id, created_at`

// PromotionRepo manages persistence for discount codes.  Redemption (the
// usage-counter increment) lives on the booking store so it commits with
// the ticket; everything here is plain CRUD.
type PromotionRepo struct {
	db *sql.DB
}

// NewPromotionRepo constructs a PromotionRepo with the given DB handle.
func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

func scanPromotion(row interface{ Scan(...interface{}) error }) (*model.Promotion, error) {
	var (
		p           model.Promotion
		value       string
		minPurchase sql.NullString
		maxDiscount sql.NullString
		usageLimit  sql.NullInt64
		cinemaID    sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Code, &p.DiscountType, &value,
		&minPurchase, &maxDiscount, &p.StartDate, &p.EndDate, &usageLimit, &p.CurrentUsage,
		&p.Status, &cinemaID, &p.CreatedAt); err != nil {
		return nil, err
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	p.DiscountValue = v
	if minPurchase.Valid {
		d, err := decimal.NewFromString(minPurchase.String)
		if err != nil {
			return nil, err
		}
		p.MinPurchase = &d
	}
	if maxDiscount.Valid {
		d, err := decimal.NewFromString(maxDiscount.String)
		if err != nil {
			return nil, err
		}
		p.MaxDiscount = &d
	}
	if usageLimit.Valid {
		l := uint32(usageLimit.Int64)
		p.UsageLimit = &l
	}
	if cinemaID.Valid {
		c := uint64(cinemaID.Int64)
		p.CinemaID = &c
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

// Create inserts a promotion.  Codes are stored upper-cased; a duplicate
// code yields ErrCodeExists.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	var usageLimit interface{}
	if p.UsageLimit != nil {
		usageLimit = *p.UsageLimit
	}
	var cinemaID interface{}
	if p.CinemaID != nil {
		cinemaID = *p.CinemaID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO promotions (title, description, code, discount_type, discount_value, min_purchase, max_discount,
		 start_date, end_date, usage_limit, status, cinema_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Code, p.DiscountType, p.DiscountValue.String(),
		nullDecimal(p.MinPurchase), nullDecimal(p.MaxDiscount), p.StartDate, p.EndDate,
		usageLimit, p.Status, cinemaID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM promotions WHERE id = ?`, p.ID).Scan(&p.CreatedAt)
}

// GetByID returns a promotion or ErrPromotionNotFound.
func (r *PromotionRepo) GetByID(ctx context.Context, id uint64) (*model.Promotion, error) {
	p, err := scanPromotion(r.db.QueryRowContext(ctx, `SELECT `+promotionCols+` FROM promotions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByCode looks a promotion up by its code, case-insensitively.  It
// returns (nil, nil) when the code does not exist, which is the contract
// the promotion evaluator expects.
func (r *PromotionRepo) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	p, err := scanPromotion(r.db.QueryRowContext(ctx, `SELECT `+promotionCols+` FROM promotions WHERE code = ?`, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns promotions, optionally only those currently active
// (status active and now within the validity window).
func (r *PromotionRepo) List(ctx context.Context, activeOnly bool) ([]model.Promotion, error) {
	q := `SELECT ` + promotionCols + ` FROM promotions`
	args := []interface{}{}
	if activeOnly {
		q += ` WHERE status = ? AND start_date <= ? AND end_date >= ?`
		now := time.Now().UTC()
		args = append(args, model.PromotionActive, now, now)
	}
	q += ` ORDER BY end_date`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Promotion, 0)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of a promotion.  The usage
// counter is not touched here; only redemption moves it.
func (r *PromotionRepo) Update(ctx context.Context, p *model.Promotion) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	var usageLimit interface{}
	if p.UsageLimit != nil {
		usageLimit = *p.UsageLimit
	}
	var cinemaID interface{}
	if p.CinemaID != nil {
		cinemaID = *p.CinemaID
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE promotions SET title = ?, description = ?, code = ?, discount_type = ?, discount_value = ?,
		 min_purchase = ?, max_discount = ?, start_date = ?, end_date = ?, usage_limit = ?, status = ?, cinema_id = ?
		 WHERE id = ?`,
		p.Title, p.Description, p.Code, p.DiscountType, p.DiscountValue.String(),
		nullDecimal(p.MinPurchase), nullDecimal(p.MaxDiscount), p.StartDate, p.EndDate,
		usageLimit, p.Status, cinemaID, p.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCodeExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM promotions WHERE id = ?`, p.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrPromotionNotFound
		}
	}
	return nil
}
