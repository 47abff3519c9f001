package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/domain"
)

// ExpiryService periodically flips past-expiry transfers to expired so that
// listings and analytics stay consistent without waiting for the next read.
// Derived checks already treat past-expiry tokens as unusable, so the sweep
// is a tidy-up, not a correctness requirement.
type ExpiryService struct {
	transferRepo *repositories.TransferRepository
	reviewRepo   *repositories.ReviewRepository
	cfg          *config.Config
	cron         *cron.Cron
}

// NewExpiryService creates a new expiry sweeper
func NewExpiryService(
	transferRepo *repositories.TransferRepository,
	reviewRepo *repositories.ReviewRepository,
	cfg *config.Config,
) *ExpiryService {
	return &ExpiryService{
		transferRepo: transferRepo,
		reviewRepo:   reviewRepo,
		cfg:          cfg,
	}
}

// Start schedules the sweep and runs it once immediately so a restart does
// not delay the first pass. A SweepMinutes of 0 disables the sweeper entirely.
func (s *ExpiryService) Start() {
	if s.cfg.Transfer.SweepMinutes <= 0 {
		log.Println("⚠️ Expiry sweeper disabled (TRANSFER_SWEEP_MINUTES=0)")
		return
	}

	s.cron = cron.New()
	schedule := fmt.Sprintf("@every %dm", s.cfg.Transfer.SweepMinutes)
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		log.Printf("❌ Failed to schedule expiry sweep: %v", err)
		return
	}
	s.cron.Start()
	log.Printf("🚀 Expiry sweeper started (%s)", schedule)

	s.sweep()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *ExpiryService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Println("🛑 Expiry sweeper stopped")
}

func (s *ExpiryService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		log.Printf("❌ Expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Expiry sweep marked %d transfer(s) expired", n)
	}
}

// Sweep marks every past-expiry, still-expirable transfer as expired and
// records a system audit entry for each. It returns the number flipped.
func (s *ExpiryService) Sweep(ctx context.Context) (int, error) {
	now := time.Now()
	candidates, err := s.transferRepo.ListExpiryCandidates(ctx, now)
	if err != nil {
		return 0, err
	}

	flipped := 0
	for _, transfer := range candidates {
		next, err := domain.NextStatus(transfer.Status, domain.ActionExpire)
		if err != nil {
			// concurrent staff action moved it on; skip
			continue
		}

		from := transfer.Status
		transfer.Status = next
		ok, err := s.transferRepo.UpdateCAS(ctx, transfer)
		if err != nil {
			return flipped, err
		}
		if !ok {
			// lost the race to a concurrent update; the next sweep will retry
			continue
		}

		review := &models.TransferReview{
			TransferID: transfer.ID,
			Action:     domain.ActionExpire,
			FromStatus: from,
			ToStatus:   next,
			ReviewerID: nil,
			Notes:      "token expired",
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			log.Printf("⚠️ Failed to record expiry audit for transfer %d: %v", transfer.ID, err)
		}
		flipped++
	}

	return flipped, nil
}
