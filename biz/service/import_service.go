package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yi-nology/itam/biz/catalog"
	"github.com/yi-nology/itam/biz/dal/model"
	"github.com/yi-nology/itam/pkg/common"
	"github.com/yi-nology/itam/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const importArchivePrefix = "imports"

// ImportInput carries one uploaded CSV file.
type ImportInput struct {
	TypeSlug string
	FileName string
	Data     []byte
}

// ImportCSV parses the file and runs it through the ingestion engine. A
// missing schema returns catalog.ErrSchemaNotFound before any row is counted.
// On a storage failure the partial Result is returned with a
// *catalog.StorageWriteError. The raw file is archived and an ImportRecord is
// written whenever rows were classified; failures there are only logged.
func (s *Service) ImportCSV(ctx context.Context, input *ImportInput) (*catalog.Result, error) {
	if input == nil {
		return nil, invalid("input required")
	}
	slug := strings.TrimSpace(input.TypeSlug)
	if slug == "" {
		return nil, invalid("typeSlug is required")
	}
	if err := s.upload.ValidateFileSize(int64(len(input.Data))); err != nil {
		return nil, invalid(err.Error())
	}
	table, err := catalog.ParseCSV(bytes.NewReader(input.Data))
	if err != nil {
		return nil, invalid(err.Error())
	}

	result, err := s.ingester.Ingest(ctx, slug, table.Rows)
	if result == nil {
		return nil, err
	}

	var swe *catalog.StorageWriteError
	if errors.As(err, &swe) {
		s.logger.Error("csv import write failed",
			zap.String("type", slug),
			zap.Int("attempted", swe.Attempted),
			zap.Error(swe.Err))
	} else {
		s.logger.Info("csv import finished",
			zap.String("type", slug),
			zap.Int("success", result.SuccessCount),
			zap.Int("fail", result.FailCount))
	}

	s.recordImport(ctx, input, result)
	return result, err
}

func (s *Service) recordImport(ctx context.Context, input *ImportInput, result *catalog.Result) {
	fileName := filepath.Base(strings.TrimSpace(input.FileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		fileName = "import.csv"
	}

	var key string
	if s.storage != nil {
		candidate := importArchivePrefix + "/" + storage.ObjectKey(uuid.NewString(), fileName)
		if err := s.storage.PutObject(ctx, candidate, bytes.NewReader(input.Data), "text/csv", int64(len(input.Data))); err != nil {
			s.logger.Warn("archive csv failed", zap.String("file", fileName), zap.Error(err))
		} else {
			key = candidate
		}
	}

	errs, err := json.Marshal(result.Errors)
	if err != nil {
		errs = []byte("[]")
	}
	record := &model.ImportRecord{
		TypeSlug:     result.TypeSlug,
		FileName:     fileName,
		StorageKey:   key,
		SuccessCount: result.SuccessCount,
		FailCount:    result.FailCount,
		Errors:       datatypes.JSON(errs),
	}
	if id, ok := common.AdminIDFromContext(ctx); ok {
		record.CreatedByID = &id
	}
	if err := s.logic.importRecordDAO.Create(ctx, s.logic.db, record); err != nil {
		s.logger.Warn("save import record failed", zap.String("file", fileName), zap.Error(err))
	}
}

// ListImportRecords returns the newest import audits, optionally for one type.
func (s *Service) ListImportRecords(ctx context.Context, typeSlug string, limit int) ([]model.ImportRecord, error) {
	return s.logic.importRecordDAO.ListRecent(ctx, s.logic.db, strings.TrimSpace(typeSlug), limit)
}
