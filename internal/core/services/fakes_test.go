package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errFakeStore = errors.New("fake store failure")

// memStore backs the fake repositories with maps guarded by one mutex
type memStore struct {
	mu      sync.Mutex
	nextID  uint
	staff   map[uint]*models.StaffAccount
	links   []models.StaffAssignedPledge
	pledges map[uint]*models.Pledge
	tokens  map[uint]*models.RefreshToken
}

func newMemStore() *memStore {
	return &memStore{
		staff:   map[uint]*models.StaffAccount{},
		pledges: map[uint]*models.Pledge{},
		tokens:  map[uint]*models.RefreshToken{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) staffCopy(s *models.StaffAccount) *models.StaffAccount {
	c := *s
	c.AssignedPledges = nil
	for _, l := range m.links {
		if l.StaffID == s.ID {
			c.AssignedPledges = append(c.AssignedPledges, l)
		}
	}
	return &c
}

func pledgeCopy(p *models.Pledge) *models.Pledge {
	c := *p
	c.Payments = append([]models.PledgePayment(nil), p.Payments...)
	c.Remarks = append([]models.PledgeRemark(nil), p.Remarks...)
	if p.AssignedFollowUpID != nil {
		id := *p.AssignedFollowUpID
		c.AssignedFollowUpID = &id
	}
	return &c
}

// ------------------------------------------------------------
// Staff
// ------------------------------------------------------------

type fakeStaffRepo struct {
	*memStore
	failAddAssignment bool
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *models.StaffAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.Email == staff.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	staff.ID = r.id()
	staff.CreatedAt = time.Now()
	c := *staff
	r.staff[staff.ID] = &c
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id uint) (*models.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.staffCopy(s), nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*models.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.Email == email {
			return r.staffCopy(s), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStaffRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.staff[id]; ok {
		s.LastLogin = &at
	}
	return nil
}

func (r *fakeStaffRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.staff[id]; ok {
		s.Status = status
	}
	return nil
}

func (r *fakeStaffRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.staff[id]; ok {
		s.Password = hash
	}
	return nil
}

func (r *fakeStaffRepo) ListByRole(_ context.Context, role string, offset, limit int) ([]*models.StaffAccount, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.StaffAccount
	for _, s := range r.staff {
		if s.Role == role {
			all = append(all, r.staffCopy(s))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return []*models.StaffAccount{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeStaffRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.staff {
		if s.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeStaffRepo) AddAssignment(_ context.Context, staffID, pledgeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAddAssignment {
		return errFakeStore
	}
	for _, l := range r.links {
		if l.StaffID == staffID && l.PledgeID == pledgeID {
			return nil
		}
	}
	r.links = append(r.links, models.StaffAssignedPledge{ID: r.id(), StaffID: staffID, PledgeID: pledgeID})
	return nil
}

func (r *fakeStaffRepo) RemoveAssignment(_ context.Context, staffID, pledgeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.links[:0]
	for _, l := range r.links {
		if l.StaffID == staffID && l.PledgeID == pledgeID {
			continue
		}
		kept = append(kept, l)
	}
	r.links = kept
	return nil
}

func (r *fakeStaffRepo) ListAssignments(_ context.Context) ([]models.StaffAssignedPledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StaffAssignedPledge(nil), r.links...), nil
}

// ------------------------------------------------------------
// Pledges
// ------------------------------------------------------------

type fakePledgeRepo struct {
	*memStore
}

func (r *fakePledgeRepo) Create(_ context.Context, pledge *models.Pledge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pledge.ID = r.id()
	pledge.CreatedAt = time.Now()
	r.pledges[pledge.ID] = pledgeCopy(pledge)
	return nil
}

func (r *fakePledgeRepo) GetByID(_ context.Context, id uint) (*models.Pledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pledges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pledgeCopy(p), nil
}

func (r *fakePledgeRepo) LockByID(ctx context.Context, id uint) (*models.Pledge, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePledgeRepo) UpdateFields(_ context.Context, pledge *models.Pledge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.pledges[pledge.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c := pledgeCopy(pledge)
	c.Payments = stored.Payments
	c.Remarks = stored.Remarks
	c.AssignedFollowUpID = stored.AssignedFollowUpID
	c.Archived = stored.Archived
	r.pledges[pledge.ID] = c
	return nil
}

func (r *fakePledgeRepo) AddPayment(_ context.Context, payment *models.PledgePayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pledges[payment.PledgeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	payment.ID = r.id()
	p.Payments = append(p.Payments, *payment)
	return nil
}

func (r *fakePledgeRepo) AddRemark(_ context.Context, remark *models.PledgeRemark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pledges[remark.PledgeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	remark.ID = r.id()
	p.Remarks = append(p.Remarks, *remark)
	return nil
}

func (r *fakePledgeRepo) SetAssignedFollowUp(_ context.Context, pledgeID uint, staffID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pledges[pledgeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if staffID == nil {
		p.AssignedFollowUpID = nil
		return nil
	}
	id := *staffID
	p.AssignedFollowUpID = &id
	return nil
}

func (r *fakePledgeRepo) SetArchived(_ context.Context, id uint, archived bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pledges[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Archived = archived
	return nil
}

func matches(p *models.Pledge, f repositories.PledgeFilter) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.ContributionType != nil && p.ContributionType != *f.ContributionType {
		return false
	}
	if f.Overdue != nil && p.Overdue != *f.Overdue {
		return false
	}
	if f.Archived != nil && p.Archived != *f.Archived {
		return false
	}
	if f.AssignedFollowUpID != nil && (p.AssignedFollowUpID == nil || *p.AssignedFollowUpID != *f.AssignedFollowUpID) {
		return false
	}
	if f.Unassigned && p.AssignedFollowUpID != nil {
		return false
	}
	return true
}

func (r *fakePledgeRepo) ListAll(_ context.Context, filter repositories.PledgeFilter) ([]*models.Pledge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Pledge
	for _, p := range r.pledges {
		if matches(p, filter) {
			out = append(out, pledgeCopy(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePledgeRepo) List(ctx context.Context, filter repositories.PledgeFilter, offset, limit int) ([]*models.Pledge, int64, error) {
	all, _ := r.ListAll(ctx, filter)
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Pledge{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePledgeRepo) ListAssignmentRefs(_ context.Context) ([]repositories.AssignmentRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var refs []repositories.AssignmentRef
	for _, p := range r.pledges {
		if p.AssignedFollowUpID != nil {
			refs = append(refs, repositories.AssignmentRef{PledgeID: p.ID, AssignedFollowUpID: *p.AssignedFollowUpID})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].PledgeID < refs[j].PledgeID })
	return refs, nil
}

func (r *fakePledgeRepo) UpdateOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, p := range r.pledges {
		want := p.PromisedEndDate.Before(now) && p.RemainingAmount.IsPositive()
		if p.Overdue != want {
			p.Overdue = want
			changed++
		}
	}
	return changed, nil
}

func (r *fakePledgeRepo) SumTotals(_ context.Context) (*repositories.CollectionTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := &repositories.CollectionTotals{TotalCollected: decimal.Zero, TotalRemaining: decimal.Zero}
	for _, p := range r.pledges {
		if p.Archived {
			continue
		}
		totals.TotalCollected = totals.TotalCollected.Add(p.AmountPaid)
		totals.TotalRemaining = totals.TotalRemaining.Add(p.RemainingAmount)
		totals.PledgeCount++
	}
	return totals, nil
}

func (r *fakePledgeRepo) SumPaymentsBetween(_ context.Context, start, until time.Time) (decimal.Decimal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	var count int64
	for _, p := range r.pledges {
		if p.Archived {
			continue
		}
		for _, pay := range p.Payments {
			if pay.Date.Before(start) || !pay.Date.Before(until) {
				continue
			}
			total = total.Add(pay.Amount)
			count++
		}
	}
	return total, count, nil
}

func (r *fakePledgeRepo) CountByFollowUp(_ context.Context, staffID uint) (*repositories.FollowUpCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &repositories.FollowUpCounts{}
	for _, l := range r.links {
		if l.StaffID != staffID {
			continue
		}
		p, ok := r.pledges[l.PledgeID]
		if !ok || p.Archived {
			continue
		}
		counts.Total++
		if p.Status == string(domain.PledgePaid) {
			counts.Collected++
		}
	}
	return counts, nil
}

// ------------------------------------------------------------
// Refresh tokens
// ------------------------------------------------------------

type fakeRefreshTokenRepo struct {
	*memStore
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = r.id()
	c := *token
	r.tokens[token.ID] = &c
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			c := *t
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[id]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByStaffID(_ context.Context, staffID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.StaffID == staffID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRefreshTokenRepo) live(staffID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.StaffID == staffID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

// ------------------------------------------------------------
// Tx, mail and cache
// ------------------------------------------------------------

// fakeTx runs fn directly; it does not roll back
type fakeTx struct {
	calls int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeMailer struct {
	sent []AccountCreatedMail
	err  error
}

func (m *fakeMailer) SendAccountCreated(_ context.Context, msg AccountCreatedMail) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type fakeCache struct {
	entries       map[string]interface{}
	sets          int
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]interface{}{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if totals, ok := v.(*repositories.CollectionTotals); ok {
		*dest.(*repositories.CollectionTotals) = *totals
		return true, nil
	}
	return false, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.invalidations++
	c.entries = map[string]interface{}{}
	return nil
}

// ------------------------------------------------------------
// Fixtures
// ------------------------------------------------------------

type fixture struct {
	store   *memStore
	staff   *fakeStaffRepo
	pledges *fakePledgeRepo
	tokens  *fakeRefreshTokenRepo
	tx      *fakeTx
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:   store,
		staff:   &fakeStaffRepo{memStore: store},
		pledges: &fakePledgeRepo{memStore: store},
		tokens:  &fakeRefreshTokenRepo{memStore: store},
		tx:      &fakeTx{},
	}
}

func (f *fixture) addStaff(role domain.Role, status domain.StaffStatus) *models.StaffAccount {
	s := &models.StaffAccount{
		FirstName:  "Test",
		MiddleName: "User",
		Email:      fmt.Sprintf("%s-%d@example.com", role, f.store.nextID+1),
		Role:       string(role),
		Status:     string(status),
	}
	if err := f.staff.Create(context.Background(), s); err != nil {
		panic(err)
	}
	return s
}

func (f *fixture) addPledge(promised int64, mutate ...func(p *models.Pledge)) *models.Pledge {
	p := &models.Pledge{
		FullName:          "Donor",
		PhoneNumber:       "0911000000",
		PromisedAmount:    decimal.NewFromInt(promised),
		ContributionType:  string(domain.ContributionOneTime),
		PromisedStartDate: date(2024, 1, 1),
		PromisedEndDate:   date(2030, 12, 31),
		PaperFormImage:    "https://cdn.example.com/form.jpg",
	}
	for _, m := range mutate {
		m(p)
	}
	Reconcile(p, date(2024, 6, 1))
	if err := f.pledges.Create(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func uintPtr(v uint) *uint {
	return &v
}

func strPtr(v string) *string {
	return &v
}
