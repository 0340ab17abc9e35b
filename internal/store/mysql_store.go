package store

import (
	"fmt"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CityModel is the GORM model for the cities table
type CityModel struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement"`
	CountryCode string `gorm:"column:country_code;size:2;index:idx_country_state"`
	StateCode   string `gorm:"column:state_code;size:8;index:idx_country_state"`
	Name        string `gorm:"column:name;size:128"`
}

// TableName specifies the table name for GORM
func (CityModel) TableName() string {
	return "cities"
}

// MySQLStore implements CityStore using MySQL with GORM
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a new MySQL store using GORM
//
// DSN format: user:password@tcp(host:port)/dbname?parseTime=true
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// Migrate creates the cities table if it does not exist
func (s *MySQLStore) Migrate() error {
	if err := s.db.AutoMigrate(&CityModel{}); err != nil {
		return fmt.Errorf("failed to migrate cities table: %w", err)
	}
	return nil
}

// FindCities looks up the cities of a state
//
// SELECT * FROM cities WHERE country_code = ? AND state_code = ? ORDER BY name
func (s *MySQLStore) FindCities(countryCode, stateCode string) ([]models.City, error) {
	country, state := normalizeCodes(countryCode, stateCode)

	var records []CityModel
	result := s.db.Where("country_code = ? AND state_code = ?", country, state).
		Order("name").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("database query failed: %w", result.Error)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}

	cities := make([]models.City, 0, len(records))
	for _, record := range records {
		cities = append(cities, models.City{
			Name:        record.Name,
			StateCode:   record.StateCode,
			CountryCode: record.CountryCode,
		})
	}

	return cities, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
