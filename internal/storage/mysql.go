package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nurse-ats-go/internal/config"
	applogger "nurse-ats-go/internal/logger"
	"nurse-ats-go/internal/processor"
	"nurse-ats-go/internal/storage/models"
)

var mysqlTracer = otel.Tracer("nurse-ats-go/storage/mysql")

type gormSpanKey struct{}

// GormTracingPlugin adds an OpenTelemetry span around every GORM operation.
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{tracer: mysqlTracer, dbName: dbName}
}

func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize registers before/after callbacks for every CRUD family.
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after()); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after())
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		newCtx, _ := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		)
		db.Statement.Context = newCtx
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span := trace.SpanFromContext(db.Statement.Context)
		if !span.IsRecording() {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		switch {
		case db.Error == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			// Not-found is an ordinary outcome, not a database fault.
			span.SetAttributes(attribute.String("error.type", "record_not_found"))
			span.SetStatus(codes.Ok, "record not found")
		default:
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}

// MySQL is the relational persistence backend.
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL connects, configures the pool, registers tracing, and migrates the
// schema.
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mysql config must not be nil")
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		PrepareStmt:                              true,
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil && lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
	}

	m := &MySQL{db: db, cfg: cfg}
	if err := m.autoMigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	applogger.Info().Str("database", cfg.Database).Msg("mysql connected and migrated")
	return m, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (m *MySQL) autoMigrateSchema() error {
	// Migration runs silent; startup SQL noise has no value.
	silentLogger := gormlogger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)
	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	return silentDB.AutoMigrate(
		&models.NurseProfile{},
		&models.Resume{},
		&models.NurseExperience{},
		&models.NurseEducation{},
		&models.NurseSkill{},
		&models.NurseCertification{},
	)
}

// DB exposes the GORM handle for tests and migrations.
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// GetProfile loads one profile.
func (m *MySQL) GetProfile(ctx context.Context, profileID string) (*models.NurseProfile, error) {
	var profile models.NurseProfile
	err := m.db.WithContext(ctx).First(&profile, "profile_id = ?", profileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, processor.NewNotFoundError(profileID, "profile not found")
		}
		return nil, processor.NewPersistenceError(profileID, err.Error())
	}
	return &profile, nil
}

// UpdateProfileFields applies a partial update.
func (m *MySQL) UpdateProfileFields(ctx context.Context, profileID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := m.db.WithContext(ctx).Model(&models.NurseProfile{}).
		Where("profile_id = ?", profileID).
		Updates(fields).Error
	if err != nil {
		return wrapWriteError(profileID, err)
	}
	return nil
}

// ReplaceResume swaps the single active resume row of a profile and returns
// the row it displaced.
func (m *MySQL) ReplaceResume(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	var previous *models.Resume

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Resume
		err := tx.First(&existing, "profile_id = ?", resume.ProfileID).Error
		switch {
		case err == nil:
			previous = &existing
			if err := tx.Delete(&models.Resume{}, "profile_id = ?", resume.ProfileID).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First upload for this profile.
		default:
			return err
		}
		return tx.Create(resume).Error
	})
	if err != nil {
		return nil, wrapWriteError(resume.ProfileID, err)
	}
	return previous, nil
}

// GetResumeByProfile loads the active resume row.
func (m *MySQL) GetResumeByProfile(ctx context.Context, profileID string) (*models.Resume, error) {
	var resume models.Resume
	err := m.db.WithContext(ctx).First(&resume, "profile_id = ?", profileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, processor.NewNotFoundError(profileID, "resume not found")
		}
		return nil, processor.NewPersistenceError(profileID, err.Error())
	}
	return &resume, nil
}

// ReplaceExtractedEntities clears and re-inserts every extracted row of a
// profile inside one transaction, so readers never see a half-replaced set.
func (m *MySQL) ReplaceExtractedEntities(ctx context.Context, profileID string, entities *models.ExtractedEntities) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.NurseExperience{},
			&models.NurseEducation{},
			&models.NurseSkill{},
			&models.NurseCertification{},
		} {
			if err := tx.Delete(model, "profile_id = ?", profileID).Error; err != nil {
				return err
			}
		}

		if len(entities.Experience) > 0 {
			if err := tx.Create(&entities.Experience).Error; err != nil {
				return err
			}
		}
		if len(entities.Education) > 0 {
			if err := tx.Create(&entities.Education).Error; err != nil {
				return err
			}
		}
		if len(entities.Skills) > 0 {
			if err := tx.Create(&entities.Skills).Error; err != nil {
				return err
			}
		}
		if len(entities.Certifications) > 0 {
			if err := tx.Create(&entities.Certifications).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapWriteError(profileID, err)
	}
	return nil
}

// wrapWriteError maps duplicate-key violations onto the conflict error.
// MySQL reports 1062; "23505" covers deployments fronted by a
// Postgres-compatible proxy.
func wrapWriteError(profileID string, err error) error {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return processor.NewConflictError(profileID, err.Error())
	}
	if strings.Contains(err.Error(), "23505") {
		return processor.NewConflictError(profileID, err.Error())
	}
	return processor.NewPersistenceError(profileID, err.Error())
}
