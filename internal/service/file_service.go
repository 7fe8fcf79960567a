package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/spreadsheet"
	"github.com/aocampo/invoicer/internal/storage"
)

const downloadExpiry = 15 * time.Minute

// FileService owns file reads, the per-file delete cascade and spreadsheet
// inspection for uploads.
type FileService struct {
	files    FileStore
	services ServiceStore
	store    storage.Storage
	log      zerolog.Logger
}

func NewFileService(files FileStore, services ServiceStore, store storage.Storage, log zerolog.Logger) *FileService {
	return &FileService{files: files, services: services, store: store, log: log}
}

func (s *FileService) Get(ctx context.Context, id, userID uuid.UUID) (*model.File, error) {
	file, err := s.files.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return file, nil
}

func (s *FileService) List(ctx context.Context, userID uuid.UUID) ([]model.File, error) {
	return s.files.List(ctx, userID)
}

func (s *FileService) ListByInvoice(ctx context.Context, invoiceID, userID uuid.UUID) ([]model.File, error) {
	return s.files.ListByInvoice(ctx, invoiceID, userID)
}

func (s *FileService) Services(ctx context.Context, id, userID uuid.UUID) ([]model.Service, error) {
	if _, err := s.files.Get(ctx, id, userID); err != nil {
		return nil, mapErr(err)
	}
	return s.services.ListByFile(ctx, id, userID)
}

// DocumentURL returns a time-limited download link for the rendered invoice
// document of a file.
func (s *FileService) DocumentURL(ctx context.Context, id, userID uuid.UUID) (string, error) {
	file, err := s.files.Get(ctx, id, userID)
	if err != nil {
		return "", mapErr(err)
	}
	if file.DocumentKey == nil {
		return "", ErrNotFound
	}
	return s.store.PresignGet(ctx, *file.DocumentKey, downloadExpiry)
}

// Delete removes the file, its services and its stored objects.
func (s *FileService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	file, err := s.files.Get(ctx, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if err := s.services.DeleteByFile(ctx, id, userID); err != nil {
		return err
	}
	if keys := objectKeys(*file); len(keys) > 0 {
		if err := s.store.Delete(ctx, keys...); err != nil {
			s.log.Error().Err(err).Strs("keys", keys).Msg("delete stored objects")
		}
	}
	return mapErr(s.files.Delete(ctx, id, userID))
}

// SheetNames opens an uploaded workbook and lists its sheets, without
// persisting anything.
func (s *FileService) SheetNames(r io.Reader) ([]string, error) {
	workbook, err := spreadsheet.Open(r)
	if err != nil {
		return nil, ErrInvalidInput
	}
	defer workbook.Close()
	return workbook.SheetNames(), nil
}
