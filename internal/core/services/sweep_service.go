package services

import (
	"context"
	"time"

	"ncic-pledge/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepResult summarizes one maintenance run
type SweepResult struct {
	LinksRemoved   int   `json:"linksRemoved"`
	LinksAdded     int   `json:"linksAdded"`
	OverdueUpdated int64 `json:"overdueUpdated"`
	TokensPurged   int64 `json:"tokensPurged"`
	DurationMillis int64 `json:"durationMs"`
}

type linkKey struct {
	staffID  uint
	pledgeID uint
}

// SweepService runs the scheduled maintenance jobs: assignment repair,
// persisted overdue flags and expired refresh token cleanup.
type SweepService struct {
	staffRepo        repositories.StaffRepository
	pledgeRepo       repositories.PledgeRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	txm              repositories.TxManager
	cron             *cron.Cron
	log              *zap.Logger
	now              Clock
}

// NewSweepService creates a new sweep service scheduled in loc
func NewSweepService(
	staffRepo repositories.StaffRepository,
	pledgeRepo repositories.PledgeRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	txm repositories.TxManager,
	loc *time.Location,
	log *zap.Logger,
) *SweepService {
	if loc == nil {
		loc = time.UTC
	}
	return &SweepService{
		staffRepo:        staffRepo,
		pledgeRepo:       pledgeRepo,
		refreshTokenRepo: refreshTokenRepo,
		txm:              txm,
		cron:             cron.New(cron.WithLocation(loc)),
		log:              log,
		now:              time.Now,
	}
}

// Start schedules RunOnce with a standard five-field cron spec
func (s *SweepService) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("scheduled sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("sweep scheduled", zap.String("spec", spec))
	return nil
}

// Stop waits for a running job to finish
func (s *SweepService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("sweep stopped")
}

// RunOnce executes every maintenance job in order
func (s *SweepService) RunOnce(ctx context.Context) (*SweepResult, error) {
	started := s.now()
	result := &SweepResult{}

	removed, added, err := s.RepairAssignments(ctx)
	if err != nil {
		return nil, err
	}
	result.LinksRemoved = removed
	result.LinksAdded = added

	if result.OverdueUpdated, err = s.RefreshOverdue(ctx); err != nil {
		return nil, err
	}

	if result.TokensPurged, err = s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		return nil, err
	}

	result.DurationMillis = s.now().Sub(started).Milliseconds()
	s.log.Info("sweep finished",
		zap.Int("links_removed", result.LinksRemoved),
		zap.Int("links_added", result.LinksAdded),
		zap.Int64("overdue_updated", result.OverdueUpdated),
		zap.Int64("tokens_purged", result.TokensPurged),
	)
	return result, nil
}

// RepairAssignments makes the link table agree with the pledges' assignee
// column: stale links are removed and missing links are added.
func (s *SweepService) RepairAssignments(ctx context.Context) (removed, added int, err error) {
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		links, err := s.staffRepo.ListAssignments(ctx)
		if err != nil {
			return err
		}
		refs, err := s.pledgeRepo.ListAssignmentRefs(ctx)
		if err != nil {
			return err
		}

		want := make(map[linkKey]bool, len(refs))
		for _, ref := range refs {
			want[linkKey{ref.AssignedFollowUpID, ref.PledgeID}] = true
		}
		have := make(map[linkKey]bool, len(links))
		for _, l := range links {
			have[linkKey{l.StaffID, l.PledgeID}] = true
		}

		for _, l := range links {
			if want[linkKey{l.StaffID, l.PledgeID}] {
				continue
			}
			if err := s.staffRepo.RemoveAssignment(ctx, l.StaffID, l.PledgeID); err != nil {
				return err
			}
			removed++
		}

		for _, ref := range refs {
			if have[linkKey{ref.AssignedFollowUpID, ref.PledgeID}] {
				continue
			}
			if err := s.staffRepo.AddAssignment(ctx, ref.AssignedFollowUpID, ref.PledgeID); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	if removed > 0 || added > 0 {
		s.log.Warn("assignment links repaired", zap.Int("removed", removed), zap.Int("added", added))
	}
	return removed, added, nil
}

// RefreshOverdue persists the overdue flag so list filters see current values
func (s *SweepService) RefreshOverdue(ctx context.Context) (int64, error) {
	return s.pledgeRepo.UpdateOverdue(ctx, s.now())
}
