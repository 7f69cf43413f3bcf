package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"webslayer-go/pkg/cache"
	"webslayer-go/pkg/export"
	"webslayer-go/pkg/metrics"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/schemas"
)

// ErrArchiveDisabled is returned by Archive when no object storage is configured.
var ErrArchiveDisabled = errors.New("report archive is not configured")

// Archive stores exported report files. *storage.ReportArchive implements it.
type Archive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ReportService reads reports through a cache and renders them for download.
type ReportService struct {
	backend Backend
	cache   cache.Repository
	ttl     time.Duration
	archive Archive
	logger  *zap.Logger
}

// ReportServiceOptions bundles dependencies for NewReportService. Cache and
// Archive are optional.
type ReportServiceOptions struct {
	Backend Backend
	Cache   cache.Repository
	TTL     time.Duration
	Archive Archive
	Logger  *zap.Logger
}

func NewReportService(opts ReportServiceOptions) *ReportService {
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryRepo()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &ReportService{
		backend: opts.Backend,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		archive: opts.Archive,
		logger:  opts.Logger.Named("reports"),
	}
}

// Get returns a report, serving it from the cache when possible. Cache
// failures fall through to the backend.
func (s *ReportService) Get(ctx context.Context, name string) (*models.Report, error) {
	key := cache.ReportKey(name)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.IncreaseReportCache("error")
		s.logger.Warn("report cache read failed", zap.String("report", name), zap.Error(err))
	case cached != nil:
		var r models.Report
		if err := json.Unmarshal(cached, &r); err == nil {
			metrics.IncreaseReportCache("hit")
			return &r, nil
		}
		s.logger.Warn("discarding corrupt cached report", zap.String("report", name))
	default:
		metrics.IncreaseReportCache("miss")
	}

	report, err := s.backend.GetReport(ctx, name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("report cache write failed", zap.String("report", name), zap.Error(err))
		}
	}
	return report, nil
}

// List passes the filter through to the backend.
func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	return s.backend.ListReports(ctx, filter)
}

// Delete removes a report from the backend and the cache.
func (s *ReportService) Delete(ctx context.Context, name string) error {
	if err := s.backend.DeleteReport(ctx, name); err != nil {
		return err
	}
	if _, err := s.cache.Delete(ctx, cache.ReportKey(name)); err != nil {
		s.logger.Warn("report cache evict failed", zap.String("report", name), zap.Error(err))
	}
	return nil
}

// Download is a rendered report file.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Download renders a report in format f. Spreadsheet columns follow the
// report schema's field order when the schema can be loaded.
func (s *ReportService) Download(ctx context.Context, name string, f export.Format) (*Download, error) {
	report, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	var columns []string
	if f == export.FormatXLSX && report.SchemaName != "" {
		if schema, err := s.backend.GetSchema(ctx, report.SchemaName); err == nil {
			for _, field := range schema.Fields {
				columns = append(columns, field.Name)
			}
		} else {
			s.logger.Debug("schema unavailable for column order", zap.String("schema", report.SchemaName), zap.Error(err))
		}
	}

	data, err := export.Render(report, f, columns...)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename:    export.Filename(report.Name, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// ArchiveResult locates an archived report file.
type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// Archive uploads the rendered report to object storage and returns a
// presigned link valid for a day.
func (s *ReportService) Archive(ctx context.Context, name string, f export.Format) (*ArchiveResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	dl, err := s.Download(ctx, name, f)
	if err != nil {
		return nil, err
	}

	key := "reports/" + dl.Filename
	if err := s.archive.Upload(ctx, key, dl.Data, dl.ContentType); err != nil {
		return nil, fmt.Errorf("failed to archive report %s: %w", name, err)
	}
	res := &ArchiveResult{Key: key}
	if u, err := s.archive.PresignedURL(ctx, key, 24*time.Hour); err == nil {
		res.URL = u
	} else {
		s.logger.Warn("presigning archived report failed", zap.String("key", key), zap.Error(err))
	}
	s.logger.Info("report archived", zap.String("report", name), zap.String("key", key))
	return res, nil
}

// Check validates report content against schemaName, or against the schema
// the report was produced with when schemaName is empty.
func (s *ReportService) Check(ctx context.Context, name, schemaName string) (*schemas.CheckResult, error) {
	report, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if schemaName == "" {
		schemaName = report.SchemaName
	}
	if schemaName == "" {
		return nil, fmt.Errorf("report %s does not name a schema", name)
	}
	schema, err := s.backend.GetSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	return schemas.Check(*schema, report.Content)
}
