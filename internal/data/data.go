package data

import (
	"context"
	"fmt"
	"time"

	"moviehub/internal/biz"
	"moviehub/internal/conf"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewTransaction,
	NewMovieRepo,
	NewGenreRepo,
	NewReviewRepo,
	NewWatchlistRepo,
	NewUserRepo,
	NewMetadataClient,
)

const defaultCacheTTL = 15 * time.Minute

// Data encapsulates database and cache connections
type Data struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	log      *log.Helper
}

type contextTxKey struct{}

const slowQueryThreshold = 200 * time.Millisecond

// gormWriter routes gorm's own messages through the service logger.
type gormWriter struct {
	log *log.Helper
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

// newGormLogger reports slow queries and errors. A lookup that finds no row
// is an ordinary 404, not something to log.
func newGormLogger(l *log.Helper) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: l}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// NewData creates Data instance with database and Redis connections
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)

	dialector, err := openDialector(c.Database)
	if err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(l),
		TranslateError: true,
	})
	if err != nil {
		l.Errorf("failed to connect to database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, err
	}

	// Configure connection pool
	if c.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	l.Infof("database connected successfully (%s)", c.Database.Driver)

	if c.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			l.Errorf("failed to migrate database: %v", err)
			return nil, nil, err
		}
	}

	data := &Data{
		db:       db,
		cacheTTL: defaultCacheTTL,
		log:      l,
	}

	// Redis is optional, continue without it
	if c.Redis != nil && c.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			Password:     c.Redis.Password,
			DB:           c.Redis.DB,
			ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
			WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			l.Warnf("failed to connect to redis: %v", err)
			_ = rdb.Close()
		} else {
			l.Info("redis connected successfully")
			data.rdb = rdb
		}
		if ttl := c.Redis.CacheTTL.AsDuration(); ttl > 0 {
			data.cacheTTL = ttl
		}
	}

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

func openDialector(c *conf.Data_Database) (gorm.Dialector, error) {
	if c == nil {
		return nil, fmt.Errorf("database config is missing")
	}
	switch c.Driver {
	case "postgres", "":
		return postgres.Open(c.Source), nil
	case "mysql":
		return mysql.Open(c.Source), nil
	case "sqlite":
		return sqlite.Open(c.Source), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Profile{},
		&Genre{},
		&Movie{},
		&Review{},
		&Watchlist{},
	)
}

// DB returns the transaction carried by ctx, or the root handle.
func (d *Data) DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// InTx runs fn in a transaction. Nested calls join the outer transaction.
func (d *Data) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(contextTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, contextTxKey{}, tx))
	})
}

// NewTransaction exposes Data as a biz.Transaction.
func NewTransaction(d *Data) biz.Transaction {
	return d
}
