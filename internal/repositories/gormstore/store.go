// Package gormstore - реализация repositories.Store поверх GORM
// (PostgreSQL или MySQL, выбирается драйвером при запуске).
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/internal/repositories"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var _ repositories.Store = (*Store)(nil)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	Logger          gormlogger.Interface
}

type Store struct {
	db   *gorm.DB
	inTx bool
}

// New оборачивает уже открытое соединение.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open открывает соединение выбранным драйвером, настраивает пул и, если
// включено, выполняет AutoMigrate.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN)
	case DriverMySQL:
		dialector = gormmysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormCfg := &gorm.Config{}
	if cfg.Logger != nil {
		gormCfg.Logger = cfg.Logger
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := New(db)
	if err := s.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DB отдает *gorm.DB для тестов и служебных задач.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) isMySQL() bool {
	return s.db.Dialector.Name() == DriverMySQL
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

// DeleteAllUsers удаляет данные от листьев к корню, чтобы не нарушать внешние ключи.
func (s *Store) DeleteAllUsers(ctx context.Context) error {
	ordered := []interface{}{
		&chat.Message{},
		&chat.Conversation{},
		&models.Rating{},
		&models.Application{},
		&models.Job{},
		&models.VerificationDocument{},
		&models.WorkerProfile{},
		&models.User{},
	}
	return s.WithTx(ctx, func(txs repositories.Store) error {
		tx := txs.(*Store).conn(ctx)
		for _, m := range ordered {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("delete %T: %w", m, err)
			}
		}
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- ошибки драйверов ---

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// uniqueViolation сообщает, нарушен ли уникальный индекс, и имя индекса, если драйвер его отдал.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return myErr.Message, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// likePattern строит шаблон подстроки для LIKE, экранируя служебные символы.
// Обратная косая черта - экранирующий символ по умолчанию и в PostgreSQL, и в MySQL.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = utcNow()
	}
}
