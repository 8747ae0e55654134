package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/spc-registrar/records-api/internal/models"
	"github.com/spc-registrar/records-api/internal/repository"
)

// Fixed first-run credentials; changeable through the password endpoint.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "Admin@123"
)

// SeedService performs the one-time first-run population of the database.
type SeedService interface {
	EnsureDefaults(ctx context.Context) error
}

type seedService struct {
	operators repository.OperatorRepository
	records   repository.RecordRepository
	hasher    PasswordHasher
	logger    zerolog.Logger
}

// NewSeedService constructs the seeding service.
func NewSeedService(operators repository.OperatorRepository, records repository.RecordRepository, hasher PasswordHasher, logger zerolog.Logger) SeedService {
	return &seedService{
		operators: operators,
		records:   records,
		hasher:    hasher,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// EnsureDefaults creates the default administrator and a few example records
// when the users table is empty. Safe to call on every start; a populated
// database is left untouched.
func (s *seedService) EnsureDefaults(ctx context.Context) error {
	count, err := s.operators.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := models.Operator{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		Role:         "admin",
		Email:        "admin@system.com",
		FullName:     "System Administrator",
	}
	if err := s.operators.Create(ctx, &admin); err != nil {
		return err
	}

	samples := []models.StudentRecord{
		{IDNumber: "S001", FirstName: "John", LastName: "Smith", Status: models.StatusActive},
		{IDNumber: "S002", FirstName: "Jane", LastName: "Doe", Status: models.StatusActive},
		{IDNumber: "S003", FirstName: "Robert", MiddleName: "James", LastName: "Johnson", Status: models.StatusGraduate},
	}
	for i := range samples {
		samples[i].OwnerID = admin.ID
		samples[i].LegacyName = samples[i].FirstName
		samples[i].Title = samples[i].DeriveTitle()
		if err := s.records.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}

	s.logger.Info().
		Str("username", admin.Username).
		Int("sample_records", len(samples)).
		Msg("default administrator seeded")

	return nil
}
