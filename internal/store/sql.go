package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/i474232898/weather-records/internal/weather"
)

// recordRow is the persisted shape of a weather.Record.
type recordRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Location    string    `gorm:"size:100;not null"`
	StartDate   string    `gorm:"size:10;not null"`
	EndDate     string    `gorm:"size:10;not null"`
	Temperature *string   `gorm:"size:50"`
	Description string    `gorm:"size:200"`
	CreatedAt   time.Time `gorm:"index;not null"`
}

func (recordRow) TableName() string { return "weather_records" }

// SQLStore persists records through gorm.
type SQLStore struct {
	db *gorm.DB
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(log.New(os.Stderr, "gorm: ", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// OpenSQLite opens (creating if needed) a file-backed sqlite database.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// OpenPostgres connects to postgres using a DSN or URL.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewSQLStore migrates the records table and returns a store over db.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate weather_records: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Create(ctx context.Context, rec weather.NewRecord) (weather.Record, error) {
	row := recordRow{
		Location:    rec.Location,
		StartDate:   rec.StartDate.String(),
		EndDate:     rec.EndDate.String(),
		Temperature: rec.Temperature,
		Description: rec.Description,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return weather.Record{}, err
	}
	return row.toRecord()
}

func (s *SQLStore) List(ctx context.Context) ([]weather.Record, error) {
	order := clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "created_at"}, Desc: true},
		{Column: clause.Column{Name: "id"}, Desc: true},
	}}

	var rows []recordRow
	if err := s.db.WithContext(ctx).Clauses(order).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]weather.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&recordRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r recordRow) toRecord() (weather.Record, error) {
	start, err := weather.ParseDate(r.StartDate)
	if err != nil {
		return weather.Record{}, fmt.Errorf("record %d start_date: %w", r.ID, err)
	}
	end, err := weather.ParseDate(r.EndDate)
	if err != nil {
		return weather.Record{}, fmt.Errorf("record %d end_date: %w", r.ID, err)
	}
	return weather.Record{
		ID:          r.ID,
		Location:    r.Location,
		StartDate:   start,
		EndDate:     end,
		Temperature: r.Temperature,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}, nil
}
