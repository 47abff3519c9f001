package config

import (
	"log"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedDemoSites(); err != nil {
		log.Printf("⚠️ Site seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds a default admin user for development.
// In production staff accounts come from the identity provider.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@solarhub.example",
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("🌱 Seeded default admin user")
	return nil
}

// seedDemoSites seeds a handful of installation sites so transfers can be
// initiated against something in a fresh dev database
func (s *Seeder) seedDemoSites() error {
	var count int64
	s.db.Model(&models.Site{}).Count(&count)
	if count > 0 {
		return nil
	}

	sites := []models.Site{
		{
			Name:        "Willow Grove 12",
			Address:     "12 Willow Grove, Leeds LS6 3AB",
			OwnerEmail:  "previous.owner@example.com",
			InstallDate: time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Harbour View 4",
			Address:     "4 Harbour View, Plymouth PL1 2QR",
			OwnerEmail:  "old.occupant@example.com",
			InstallDate: time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:        "Orchard Close 27",
			Address:     "27 Orchard Close, Norwich NR4 7TJ",
			OwnerEmail:  "",
			InstallDate: time.Date(2017, 11, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	if err := s.db.Create(&sites).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded %d demo sites", len(sites))
	return nil
}

// SeedData runs seeders (called from main)
func SeedData(db *gorm.DB) error {
	return NewSeeder(db).Run()
}
