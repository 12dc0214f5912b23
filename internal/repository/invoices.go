package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/entity"
)

const invoiceColumns = `id, file_id, file_name, vendor, invoice_info, line_items, extracted_at, last_updated_at`

type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Search(ctx context.Context, filter entity.SearchFilter) ([]*entity.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, patch *entity.InvoiceUpdate) (*entity.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewInvoiceRepository(pool *pgxpool.Pool, logger *slog.Logger) InvoiceRepository {
	return &invoiceRepo{pool: pool, logger: logger}
}

// Create persists a new record and assigns its identity. The caller sets both
// timestamps; a duplicate fileId surfaces as a validation failure.
func (r *invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error) {
	vendor, info, items, err := marshalDocs(inv.Vendor, inv.InvoiceInfo, inv.LineItems)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO invoices (file_id, file_name, vendor, invoice_info, line_items, extracted_at, last_updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+invoiceColumns,
		inv.FileID, inv.FileName, vendor, info, items, inv.ExtractedAt, inv.LastUpdatedAt)

	out, err := scanInvoice(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: an invoice already exists for fileId %s", common.ErrValidation, inv.FileID)
		}
		r.logger.Error("failed to create invoice", "file_id", inv.FileID, "error", err)
		return nil, fmt.Errorf("%w: create invoice: %v", common.ErrStorage, err)
	}
	return out, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)

	out, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get invoice", "invoice_id", id, "error", err)
		return nil, fmt.Errorf("%w: get invoice: %v", common.ErrStorage, err)
	}
	return out, nil
}

// Search translates the filter struct into ILIKE predicates in one place.
// Both filters are ANDed when present; no filters returns everything in
// insertion order.
func (r *invoiceRepo) Search(ctx context.Context, filter entity.SearchFilter) ([]*entity.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices`
	var conds []string
	var args []any

	if filter.VendorName != "" {
		args = append(args, "%"+filter.VendorName+"%")
		conds = append(conds, fmt.Sprintf(`vendor->>'name' ILIKE $%d`, len(args)))
	}
	if filter.InvoiceNumber != "" {
		args = append(args, "%"+filter.InvoiceNumber+"%")
		conds = append(conds, fmt.Sprintf(`invoice_info->>'number' ILIKE $%d`, len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY extracted_at, id"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to search invoices", "error", err)
		return nil, fmt.Errorf("%w: search invoices: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	result := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan invoice: %v", common.ErrStorage, err)
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: search invoices: %v", common.ErrStorage, err)
	}
	return result, nil
}

// Update applies a partial patch. fileId, fileName and extractedAt are not
// part of the patch shape, so they stay untouched no matter what the caller
// sent over the wire; lastUpdatedAt always refreshes.
func (r *invoiceRepo) Update(ctx context.Context, id uuid.UUID, patch *entity.InvoiceUpdate) (*entity.Invoice, error) {
	var vendor, info, items []byte
	var err error
	if patch.Vendor != nil {
		if vendor, err = json.Marshal(patch.Vendor); err != nil {
			return nil, fmt.Errorf("%w: encode vendor: %v", common.ErrStorage, err)
		}
	}
	if patch.InvoiceInfo != nil {
		if info, err = json.Marshal(patch.InvoiceInfo); err != nil {
			return nil, fmt.Errorf("%w: encode invoiceInfo: %v", common.ErrStorage, err)
		}
	}
	if patch.LineItems != nil {
		if items, err = json.Marshal(*patch.LineItems); err != nil {
			return nil, fmt.Errorf("%w: encode lineItems: %v", common.ErrStorage, err)
		}
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE invoices
		 SET vendor          = COALESCE($2, vendor),
		     invoice_info    = COALESCE($3, invoice_info),
		     line_items      = COALESCE($4, line_items),
		     last_updated_at = now()
		 WHERE id = $1
		 RETURNING `+invoiceColumns,
		id, vendor, info, items)

	out, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to update invoice", "invoice_id", id, "error", err)
		return nil, fmt.Errorf("%w: update invoice: %v", common.ErrStorage, err)
	}
	return out, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete invoice", "invoice_id", id, "error", err)
		return fmt.Errorf("%w: delete invoice: %v", common.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func marshalDocs(vendor entity.Vendor, info entity.InvoiceInfo, items []entity.LineItem) (v, i, li []byte, err error) {
	if items == nil {
		items = []entity.LineItem{}
	}
	if v, err = json.Marshal(vendor); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: encode vendor: %v", common.ErrStorage, err)
	}
	if i, err = json.Marshal(info); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: encode invoiceInfo: %v", common.ErrStorage, err)
	}
	if li, err = json.Marshal(items); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: encode lineItems: %v", common.ErrStorage, err)
	}
	return v, i, li, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var vendor, info, items []byte
	if err := row.Scan(&inv.ID, &inv.FileID, &inv.FileName, &vendor, &info, &items,
		&inv.ExtractedAt, &inv.LastUpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(vendor, &inv.Vendor); err != nil {
		return nil, fmt.Errorf("decode vendor: %w", err)
	}
	if err := json.Unmarshal(info, &inv.InvoiceInfo); err != nil {
		return nil, fmt.Errorf("decode invoiceInfo: %w", err)
	}
	if err := json.Unmarshal(items, &inv.LineItems); err != nil {
		return nil, fmt.Errorf("decode lineItems: %w", err)
	}
	return &inv, nil
}
