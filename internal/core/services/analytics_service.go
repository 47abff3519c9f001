package services

import (
	"context"
	"sort"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/domain"
)

// AnalyticsService is the read-only rollup side over persisted transfer
// state. It never mutates anything; urgency and effective expiry are derived
// against the clock at call time, not read from stored flags.
type AnalyticsService struct {
	transferRepo *repositories.TransferRepository
	reviewRepo   *repositories.ReviewRepository
	cfg          *config.Config
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	transferRepo *repositories.TransferRepository,
	reviewRepo *repositories.ReviewRepository,
	cfg *config.Config,
) *AnalyticsService {
	return &AnalyticsService{
		transferRepo: transferRepo,
		reviewRepo:   reviewRepo,
		cfg:          cfg,
	}
}

// DashboardData represents the staff dashboard rollup
type DashboardData struct {
	Total          int64                    `json:"total"`
	Pending        int64                    `json:"pending"`
	Completed      int64                    `json:"completed"`
	Expired        int64                    `json:"expired"`
	Urgent         int64                    `json:"urgent"`
	AssignedToMe   int64                    `json:"assigned_to_me"`
	Unassigned     int64                    `json:"unassigned"`
	RecentActivity []*models.ReviewResponse `json:"recent_activity"`
}

// Dashboard returns the staff dashboard rollup for one staff user
func (s *AnalyticsService) Dashboard(ctx context.Context, staffID uint) (*DashboardData, error) {
	transfers, err := s.transferRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	data := &DashboardData{}
	for _, t := range transfers {
		data.Total++

		effective := t.Status
		// a past-expiry transfer counts as expired even before the sweeper runs
		if !t.Status.IsTerminal() && t.Status != domain.StatusExpired && !now.Before(t.TokenExpiresAt) {
			effective = domain.StatusExpired
		}

		switch effective {
		case domain.StatusPending, domain.StatusExtended:
			data.Pending++
		case domain.StatusCompleted:
			data.Completed++
		case domain.StatusExpired:
			data.Expired++
		}

		if t.IsUrgent(now, s.cfg.Transfer.UrgentDays) {
			data.Urgent++
		}
		if t.AssignedToID != nil && *t.AssignedToID == staffID {
			data.AssignedToMe++
		}
		if t.AssignedToID == nil && effective.IsActive() {
			data.Unassigned++
		}
	}

	recent, err := s.reviewRepo.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}
	data.RecentActivity = make([]*models.ReviewResponse, len(recent))
	for i, r := range recent {
		data.RecentActivity[i] = r.ToResponse()
	}

	return data, nil
}

// ReasonCount is one rejection-reason tally
type ReasonCount struct {
	Reason domain.RejectionReason `json:"reason"`
	Count  int64                  `json:"count"`
}

// MonthlyTrend is one month's initiation/completion tally
type MonthlyTrend struct {
	Month     string `json:"month"`
	Initiated int64  `json:"initiated"`
	Completed int64  `json:"completed"`
}

// AnalyticsData represents the trailing-window analytics rollup
type AnalyticsData struct {
	TotalSubmissions      int64                   `json:"total_submissions"`
	StatusBreakdown       map[domain.Status]int64 `json:"status_breakdown"`
	ApprovalRate          float64                 `json:"approval_rate"`
	RejectionRate         float64                 `json:"rejection_rate"`
	AverageDaysToComplete *float64                `json:"average_days_to_complete"`
	RejectionReasons      []ReasonCount           `json:"rejection_reasons"`
	MonthlyTrends         []MonthlyTrend          `json:"monthly_trends"`
	PendingReviews        int64                   `json:"pending_reviews"`
	NeedsInfo             int64                   `json:"needs_info"`
}

// Analytics returns rollups over a trailing window of days
func (s *AnalyticsService) Analytics(ctx context.Context, days int) (*AnalyticsData, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	since := now.Add(-time.Duration(days) * 24 * time.Hour)

	transfers, err := s.transferRepo.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	data := &AnalyticsData{
		StatusBreakdown: map[domain.Status]int64{},
	}

	var decided, approved, rejected, completedCount int64
	var totalCompletionDays float64
	reasons := map[domain.RejectionReason]int64{}
	trends := map[string]*MonthlyTrend{}

	for _, t := range transfers {
		data.StatusBreakdown[t.Status]++

		if t.SubmittedAt != nil {
			data.TotalSubmissions++
		}

		switch t.Status {
		case domain.StatusApproved, domain.StatusCompleted:
			decided++
			approved++
		case domain.StatusRejected:
			decided++
			rejected++
			if t.RejectionReason != "" {
				reasons[t.RejectionReason]++
			}
		case domain.StatusSubmitted, domain.StatusUnderReview:
			data.PendingReviews++
		case domain.StatusNeedsInfo:
			data.NeedsInfo++
		}

		if t.Status == domain.StatusCompleted && t.CompletedAt != nil {
			completedCount++
			totalCompletionDays += t.CompletedAt.Sub(t.CreatedAt).Hours() / 24
		}

		month := t.CreatedAt.Format("2006-01")
		trend, ok := trends[month]
		if !ok {
			trend = &MonthlyTrend{Month: month}
			trends[month] = trend
		}
		trend.Initiated++
		if t.Status == domain.StatusCompleted {
			trend.Completed++
		}
	}

	if decided > 0 {
		data.ApprovalRate = float64(approved) / float64(decided)
		data.RejectionRate = float64(rejected) / float64(decided)
	}

	// nil, not zero, when nothing completed in the window
	if completedCount > 0 {
		avg := totalCompletionDays / float64(completedCount)
		data.AverageDaysToComplete = &avg
	}

	data.RejectionReasons = make([]ReasonCount, 0, len(reasons))
	for reason, count := range reasons {
		data.RejectionReasons = append(data.RejectionReasons, ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(data.RejectionReasons, func(i, j int) bool {
		if data.RejectionReasons[i].Count != data.RejectionReasons[j].Count {
			return data.RejectionReasons[i].Count > data.RejectionReasons[j].Count
		}
		return data.RejectionReasons[i].Reason < data.RejectionReasons[j].Reason
	})

	data.MonthlyTrends = make([]MonthlyTrend, 0, len(trends))
	for _, trend := range trends {
		data.MonthlyTrends = append(data.MonthlyTrends, *trend)
	}
	sort.Slice(data.MonthlyTrends, func(i, j int) bool {
		return data.MonthlyTrends[i].Month < data.MonthlyTrends[j].Month
	})

	return data, nil
}
