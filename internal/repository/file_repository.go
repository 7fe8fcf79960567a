package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Sheet names come straight out of user workbooks, so they are stored as a
// JSON array rather than a delimited string.
func joinSheetNames(names []string) *string {
	if len(names) == 0 {
		return nil
	}
	encoded, err := json.Marshal(names)
	if err != nil {
		return nil
	}
	joined := string(encoded)
	return &joined
}

func splitSheetNames(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(*raw), &names); err != nil {
		return nil
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

func (r *FileRepository) Create(ctx context.Context, file *model.File) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	file.SheetNamesRaw = joinSheetNames(file.SheetNames)

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO files (id, spreadsheet_key, document_key, sheet_names, invoice_id, bill_to_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, file.ID, file.SpreadsheetKey, file.DocumentKey, file.SheetNamesRaw,
		file.InvoiceID, file.BillToID, file.UserID, file.CreatedAt).Error
}

func (r *FileRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, spreadsheet_key, document_key, sheet_names AS sheet_names_raw, invoice_id, bill_to_id, user_id, created_at
		FROM files
		WHERE id = ? AND user_id = ?
		LIMIT 1
	`, id, userID).Scan(&file).Error
	if err != nil {
		return nil, err
	}
	if file.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	file.SheetNames = splitSheetNames(file.SheetNamesRaw)
	return &file, nil
}

func (r *FileRepository) ListByInvoice(ctx context.Context, invoiceID, userID uuid.UUID) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, spreadsheet_key, document_key, sheet_names AS sheet_names_raw, invoice_id, bill_to_id, user_id, created_at
		FROM files
		WHERE invoice_id = ? AND user_id = ?
		ORDER BY created_at DESC
	`, invoiceID, userID).Scan(&files).Error
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].SheetNames = splitSheetNames(files[i].SheetNamesRaw)
	}
	return files, nil
}

func (r *FileRepository) List(ctx context.Context, userID uuid.UUID) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, spreadsheet_key, document_key, sheet_names AS sheet_names_raw, invoice_id, bill_to_id, user_id, created_at
		FROM files
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID).Scan(&files).Error
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].SheetNames = splitSheetNames(files[i].SheetNamesRaw)
	}
	return files, nil
}

// PatchDocumentKey sets the rendered document location, the only file column
// mutated after creation.
func (r *FileRepository) PatchDocumentKey(ctx context.Context, id, userID uuid.UUID, documentKey string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE files SET document_key = ? WHERE id = ? AND user_id = ?
	`, documentKey, id, userID).Error
}

func (r *FileRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM files WHERE id = ? AND user_id = ?
	`, id, userID).Error
}

func (r *FileRepository) DeleteByInvoice(ctx context.Context, invoiceID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM files WHERE invoice_id = ? AND user_id = ?
	`, invoiceID, userID).Error
}
