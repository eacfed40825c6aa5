package app

import (
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/repos"
)

type Repos struct {
	Operator     repos.OperatorRepo
	Institution  repos.InstitutionRepo
	Course       repos.CourseRepo
	Student      repos.StudentRepo
	MetricBucket repos.MetricBucketRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Operator:     repos.NewOperatorRepo(db, log),
		Institution:  repos.NewInstitutionRepo(db, log),
		Course:       repos.NewCourseRepo(db, log),
		Student:      repos.NewStudentRepo(db, log),
		MetricBucket: repos.NewMetricBucketRepo(db, log),
	}
}
