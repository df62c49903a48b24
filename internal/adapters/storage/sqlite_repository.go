package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"bugbot/internal/domain"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// SQLiteRepository implements ports.ReportRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.ReportRepository = (*SQLiteRepository)(nil)

// gormLogger wraps the bugbot logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("BUGBOT_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository creates a new SQLiteRepository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	if err := db.AutoMigrate(&ReportModel{}, &PromptMessageModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Create the child tables manually (AutoMigrate has issues with foreign
	// keys in SQLite)
	migrator := db.Migrator()
	if !migrator.HasTable(&AttachmentModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS attachments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				report_id INTEGER NOT NULL,
				url TEXT NOT NULL,
				created_at DATETIME,
				FOREIGN KEY (report_id) REFERENCES bug_reports(id) ON DELETE CASCADE
			)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create attachments table: %w", err)
		}
		db.Exec("CREATE INDEX IF NOT EXISTS idx_attachment_report ON attachments(report_id)")
	}

	if !migrator.HasTable(&ReproModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS repros (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				report_id INTEGER NOT NULL,
				user TEXT NOT NULL,
				created_at DATETIME,
				FOREIGN KEY (report_id) REFERENCES bug_reports(id) ON DELETE CASCADE
			)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create repros table: %w", err)
		}
		db.Exec("CREATE INDEX IF NOT EXISTS idx_repro_report ON repros(report_id)")
	}

	// SQLite with WAL mode can handle multiple readers + 1 writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &SQLiteRepository{db: db}, nil
}

// Close closes the underlying database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create persists a finished draft and returns the stored report with its
// assigned identifier
func (r *SQLiteRepository) Create(ctx context.Context, draft *domain.DraftReport) (*domain.Report, error) {
	model := draftToReportModel(draft)

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Create(&model).Error
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	report := reportModelToDomain(model, nil)
	return &report, nil
}

// Attach stores one attachment URL for a report
func (r *SQLiteRepository) Attach(ctx context.Context, reportID int64, url string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Create(&AttachmentModel{
			ReportID: reportID,
			URL:      url,
		}).Error
	}, 3)
}

// MarkDelivered records the delivered message IDs on a report
func (r *SQLiteRepository) MarkDelivered(ctx context.Context, reportID int64, messageID, attachmentMessageID string) error {
	return withRetry(func() error {
		result := r.db.WithContext(ctx).Model(&ReportModel{}).
			Where("id = ?", reportID).
			Updates(map[string]any{
				"message_id":            messageID,
				"attachment_message_id": attachmentMessageID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrReportNotFound
		}
		return nil
	}, 3)
}

// Get loads one report with its attachments
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*domain.Report, error) {
	var model ReportModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var attachments []AttachmentModel
	if err := r.db.WithContext(ctx).
		Where("report_id = ?", id).
		Order("id").
		Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}

	report := reportModelToDomain(model, attachments)
	return &report, nil
}

// List returns the most recent reports, newest first
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]domain.Report, error) {
	var models []ReportModel
	query := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]domain.Report, len(models))
	for i, m := range models {
		reports[i] = reportModelToDomain(m, nil)
	}
	return reports, nil
}

// GetPrompt loads a persisted prompt message pointer. Returns nil (no error)
// when none is stored for the destination/kind pair.
func (r *SQLiteRepository) GetPrompt(ctx context.Context, destination string, kind domain.PromptKind) (*domain.PromptMessage, error) {
	var model PromptMessageModel
	err := r.db.WithContext(ctx).
		Where("destination = ? AND kind = ?", destination, string(kind)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load prompt message: %w", err)
	}

	prompt := promptModelToDomain(model)
	return &prompt, nil
}

// SetPrompt stores (or replaces) a prompt message pointer
func (r *SQLiteRepository) SetPrompt(ctx context.Context, prompt domain.PromptMessage) error {
	model := PromptMessageModel{
		Destination: prompt.Destination,
		Kind:        string(prompt.Kind),
		ChannelID:   prompt.ChannelID,
		MessageID:   prompt.MessageID,
	}
	return withRetry(func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&model).Error
	}, 3)
}

// ClearPrompt removes a prompt message pointer. Clearing an absent pointer
// is a no-op.
func (r *SQLiteRepository) ClearPrompt(ctx context.Context, destination string, kind domain.PromptKind) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).
			Where("destination = ? AND kind = ?", destination, string(kind)).
			Delete(&PromptMessageModel{}).Error
	}, 3)
}

// withRetry retries an operation on SQLite busy/locked errors
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
