package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/solarpvlab/irradiance/internal/log"
	"github.com/solarpvlab/irradiance/pkg/timeseries"
	"go.uber.org/zap"
)

// Client holds the connection to a TimescaleDB database.
type Client struct {
	connectionString string
	DB               *gorm.DB
	logger           *zap.SugaredLogger
}

// NewClient creates a new TimescaleDB client.
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the TimescaleDB database and migrates the schema.
func (c *Client) Connect() error {
	dbLogger := logger.New(
		zap.NewStdLog(c.logger.Desugar()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	log.Info("connecting to TimescaleDB...")
	db, err := gorm.Open(postgres.Open(c.connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return err
	}
	if err := db.AutoMigrate(&AnalysisRun{}, &SeriesPoint{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	c.DB = db
	log.Info("TimescaleDB connection successful")
	return nil
}

// SaveRun persists a run plus its derived series in one transaction.
func (c *Client) SaveRun(run *AnalysisRun, series map[string]*timeseries.Series) error {
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("inserting run %s: %w", run.ID, err)
		}
		for name, s := range series {
			points := toPoints(run.ID, name, s)
			if len(points) == 0 {
				continue
			}
			if err := tx.CreateInBatches(points, 1000).Error; err != nil {
				return fmt.Errorf("inserting series %s for run %s: %w", name, run.ID, err)
			}
		}
		return nil
	})
}

// ListRuns returns all stored runs, newest first.
func (c *Client) ListRuns() ([]AnalysisRun, error) {
	var runs []AnalysisRun
	if err := c.DB.Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun fetches one run by ID.
func (c *Client) GetRun(id string) (*AnalysisRun, error) {
	var run AnalysisRun
	if err := c.DB.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// GetSeries fetches a named series of a run in time order.
func (c *Client) GetSeries(runID, name string) (*timeseries.Series, error) {
	var points []SeriesPoint
	err := c.DB.Where("run_id = ? AND name = ?", runID, name).Order("ts ASC").Find(&points).Error
	if err != nil {
		return nil, err
	}
	return fromPoints(points)
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
