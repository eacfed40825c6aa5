package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/envutil"
	"github.com/coursora/coursora-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.Str("POSTGRES_HOST", "localhost")
	postgresPort := envutil.Str("POSTGRES_PORT", "5432")
	postgresUser := envutil.Str("POSTGRES_USER", "postgres")
	postgresPassword := envutil.Str("POSTGRES_PASSWORD", "")
	postgresName := envutil.Str("POSTGRES_NAME", "coursora")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.Operator{},
		&domain.Institution{},
		&domain.Course{},
		&domain.Student{},
		&domain.MetricBucket{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	stmts := []struct {
		name string
		sql  string
	}{
		{"fk_institution_operator_id", `
			ALTER TABLE "institution"
			ADD CONSTRAINT "fk_institution_operator_id"
			FOREIGN KEY ("operator_id")
			REFERENCES "operator"("id")
			ON DELETE CASCADE`},
		{"fk_course_institution_id", `
			ALTER TABLE "course"
			ADD CONSTRAINT "fk_course_institution_id"
			FOREIGN KEY ("institution_id")
			REFERENCES "institution"("id")
			ON DELETE CASCADE`},
		{"fk_student_institution_id", `
			ALTER TABLE "student"
			ADD CONSTRAINT "fk_student_institution_id"
			FOREIGN KEY ("institution_id")
			REFERENCES "institution"("id")
			ON DELETE CASCADE`},
		{"fk_metric_bucket_course_id", `
			ALTER TABLE "metric_bucket"
			ADD CONSTRAINT "fk_metric_bucket_course_id"
			FOREIGN KEY ("course_id")
			REFERENCES "course"("id")
			ON DELETE CASCADE`},
	}
	for _, st := range stmts {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, st.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("check constraint %s: %w", st.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("add %s: %w", st.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
