package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dormops-backend/config"
	"dormops-backend/internal/model"
)

// Models lists every persisted type in migration order.
var Models = []any{
	&model.User{},
	&model.Dorm{},
	&model.DormMembership{},
	&model.Room{},
	&model.Occupant{},
	&model.RoomAssignment{},
	&model.FineRule{},
	&model.Fine{},
	&model.LedgerEntry{},
	&model.Committee{},
	&model.CommitteeMember{},
	&model.CommitteeExpense{},
	&model.DormSemester{},
	&model.SemesterArchive{},
	&model.Event{},
	&model.EventTeam{},
	&model.EventScoreCategory{},
	&model.EventScore{},
	&model.EvaluationCycle{},
	&model.EvaluationCriterion{},
	&model.EvaluationSubmission{},
	&model.CleaningTask{},
	&model.AuditLog{},
	&model.PushSubscription{},
}

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}
