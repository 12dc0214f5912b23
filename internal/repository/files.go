package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/entity"
)

// FileRepository is the blob store: original PDF bytes keyed by an opaque id.
type FileRepository interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (*entity.InvoiceFile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceFile, error)
	GetMetadata(ctx context.Context, id uuid.UUID) (*entity.InvoiceFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type fileRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFileRepository(pool *pgxpool.Pool, logger *slog.Logger) FileRepository {
	return &fileRepo{pool: pool, logger: logger}
}

func (r *fileRepo) Save(ctx context.Context, filename, contentType string, data []byte) (*entity.InvoiceFile, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO invoice_files (filename, content_type, size_bytes, data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, uploaded_at`,
		filename, contentType, int64(len(data)), data)

	f := &entity.InvoiceFile{
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Data:        data,
	}
	if err := row.Scan(&f.ID, &f.UploadedAt); err != nil {
		r.logger.Error("failed to save invoice file", "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: save file: %v", common.ErrStorage, err)
	}
	return f, nil
}

func (r *fileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceFile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, filename, content_type, size_bytes, data, uploaded_at
		 FROM invoice_files WHERE id = $1`, id)

	var f entity.InvoiceFile
	if err := row.Scan(&f.ID, &f.Filename, &f.ContentType, &f.SizeBytes, &f.Data, &f.UploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get invoice file", "file_id", id, "error", err)
		return nil, fmt.Errorf("%w: get file: %v", common.ErrStorage, err)
	}
	return &f, nil
}

// GetMetadata resolves a blob reference without pulling the bytes.
func (r *fileRepo) GetMetadata(ctx context.Context, id uuid.UUID) (*entity.InvoiceFile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, filename, content_type, size_bytes, uploaded_at
		 FROM invoice_files WHERE id = $1`, id)

	var f entity.InvoiceFile
	if err := row.Scan(&f.ID, &f.Filename, &f.ContentType, &f.SizeBytes, &f.UploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to get invoice file metadata", "file_id", id, "error", err)
		return nil, fmt.Errorf("%w: get file metadata: %v", common.ErrStorage, err)
	}
	return &f, nil
}

func (r *fileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoice_files WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete invoice file", "file_id", id, "error", err)
		return fmt.Errorf("%w: delete file: %v", common.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
