package services

import (
	"context"
	"errors"
	"testing"

	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStaffService(f *fixture, mailer Mailer) *StaffService {
	svc := NewStaffService(f.staff, mailer, zap.NewNop())
	svc.generate = func() (string, error) { return "Abcd2345", nil }
	return svc
}

func TestCreateStaff_FollowUpByAdmin(t *testing.T) {
	f := newFixture()
	mailer := &fakeMailer{}
	svc := newStaffService(f, mailer)

	staff, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		FirstName:  " Hana ",
		MiddleName: "Tesfaye",
		Email:      " Hana@Example.com ",
	}, domain.RoleFollowUp, Actor{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, "Hana", staff.FirstName)
	assert.Equal(t, "hana@example.com", staff.Email)
	assert.Equal(t, string(domain.RoleFollowUp), staff.Role)
	assert.Equal(t, string(domain.StaffActive), staff.Status)
	assert.True(t, password.Verify("Abcd2345", staff.Password))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "hana@example.com", mailer.sent[0].To)
	assert.Equal(t, "Abcd2345", mailer.sent[0].Password)
	assert.Equal(t, domain.RoleFollowUp, mailer.sent[0].Role)
}

func TestCreateStaff_RolePermissions(t *testing.T) {
	tests := []struct {
		creator domain.Role
		target  domain.Role
		allowed bool
	}{
		{domain.RoleSuperAdmin, domain.RoleAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleFollowUp, true},
		{domain.RoleAdmin, domain.RoleFollowUp, true},
		{domain.RoleAdmin, domain.RoleAdmin, false},
		{domain.RoleFollowUp, domain.RoleFollowUp, false},
		{domain.RoleSuperAdmin, domain.RoleSuperAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.creator)+"->"+string(tt.target), func(t *testing.T) {
			f := newFixture()
			svc := newStaffService(f, nil)

			_, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
				FirstName:  "A",
				MiddleName: "B",
				Email:      "a@example.com",
			}, tt.target, Actor{ID: 1, Role: tt.creator})

			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrRoleNotAllowed)
			}
		})
	}
}

func TestCreateStaff_Validation(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f, nil)
	ctx := context.Background()
	creator := Actor{ID: 1, Role: domain.RoleSuperAdmin}

	_, err := svc.CreateStaff(ctx, &CreateStaffInput{}, domain.RoleAdmin, creator)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"email", "first_name", "middle_name"}, ve.Fields)

	_, err = svc.CreateStaff(ctx, &CreateStaffInput{FirstName: "A", MiddleName: "B", Email: "not-an-email"}, domain.RoleAdmin, creator)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateStaff_DuplicateEmail(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f, nil)
	ctx := context.Background()
	creator := Actor{ID: 1, Role: domain.RoleSuperAdmin}
	in := &CreateStaffInput{FirstName: "A", MiddleName: "B", Email: "dup@example.com"}

	_, err := svc.CreateStaff(ctx, in, domain.RoleAdmin, creator)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.CreateStaff(ctx, in, domain.RoleFollowUp, creator)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateStaff_MailFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newStaffService(f, mailer)

	staff, err := svc.CreateStaff(context.Background(), &CreateStaffInput{
		FirstName: "A", MiddleName: "B", Email: "m@example.com",
	}, domain.RoleFollowUp, Actor{ID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.NotZero(t, staff.ID)
	assert.Len(t, mailer.sent, 1)
}

func TestListByRole(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f, nil)

	f.addStaff(domain.RoleAdmin, domain.StaffActive)
	f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	f.addStaff(domain.RoleFollowUp, domain.StaffInactive)

	list, total, err := svc.ListByRole(context.Background(), domain.RoleFollowUp, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 1)
	assert.Equal(t, string(domain.RoleFollowUp), list[0].Role)
	assert.NotNil(t, list[0].AssignedPledges)
}

func TestUpdateFollowUpStatus(t *testing.T) {
	f := newFixture()
	svc := newStaffService(f, nil)
	ctx := context.Background()
	actor := Actor{ID: 1, Role: domain.RoleAdmin}

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	admin := f.addStaff(domain.RoleAdmin, domain.StaffActive)

	staff, err := svc.UpdateFollowUpStatus(ctx, fu.ID, "inactive", actor)
	require.NoError(t, err)
	assert.Equal(t, "inactive", staff.Status)

	stored, _ := f.staff.GetByID(ctx, fu.ID)
	assert.False(t, stored.IsActive())

	_, err = svc.UpdateFollowUpStatus(ctx, fu.ID, "paused", actor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateFollowUpStatus(ctx, admin.ID, "inactive", actor)
	assert.ErrorIs(t, err, ErrNotFollowUp)

	_, err = svc.UpdateFollowUpStatus(ctx, 999, "active", actor)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
