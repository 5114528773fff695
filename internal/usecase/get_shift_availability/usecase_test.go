package get_shift_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

type fakeProgramRepo struct {
	programs map[int64]*domain.Program
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id int64) (*domain.Program, error) {
	p, ok := f.programs[id]
	if !ok {
		return nil, programRepo.ErrProgramNotFound
	}
	return p, nil
}

type fakeShiftRepo struct {
	shifts []*domain.Shift
}

func (f *fakeShiftRepo) ListByProgram(_ context.Context, programID int64) ([]*domain.Shift, error) {
	var out []*domain.Shift
	for _, s := range f.shifts {
		if s.ProgramID == programID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	pending map[int64]bool
	seats   map[int64]int
}

func (f *fakeEnrollmentRepo) HasPendingApplications(_ context.Context, programID int64) (bool, error) {
	return f.pending[programID], nil
}

func (f *fakeEnrollmentRepo) CountSeatsTakenByShifts(_ context.Context, shiftIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(shiftIDs))
	for _, id := range shiftIDs {
		if n, ok := f.seats[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type availabilityEnv struct {
	programs    *fakeProgramRepo
	shifts      *fakeShiftRepo
	enrollments *fakeEnrollmentRepo
	usecase     *UseCase
}

func newAvailabilityEnv(now time.Time) *availabilityEnv {
	env := &availabilityEnv{
		programs:    &fakeProgramRepo{programs: make(map[int64]*domain.Program)},
		shifts:      &fakeShiftRepo{},
		enrollments: &fakeEnrollmentRepo{pending: make(map[int64]bool), seats: make(map[int64]int)},
	}
	env.usecase = NewUseCase(env.programs, env.shifts, env.enrollments, noopLogger{})
	env.usecase.timeProvider = &fixedTimeProvider{now: now}
	return env
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustTime(t *testing.T, s string) types.TimeString {
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestExecute_ReportsSeatsAndFinishedFlag(t *testing.T) {
	now := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	env := newAvailabilityEnv(now)

	env.programs.programs[1] = &domain.Program{ID: 1, Name: "Экофест", Active: true}
	env.shifts.shifts = []*domain.Shift{
		{ID: 5, ProgramID: 1, Date: date(2026, time.May, 9), StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "12:00"), Capacity: 5, Active: true},
		{ID: 6, ProgramID: 1, Date: date(2026, time.May, 11), StartTime: mustTime(t, "09:00"), EndTime: mustTime(t, "12:00"), Capacity: 4, Active: true},
	}
	env.enrollments.seats[5] = 5
	env.enrollments.seats[6] = 3

	resp, err := env.usecase.Execute(context.Background(), &Request{ProgramID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Shifts, 2)

	past := resp.Shifts[0]
	assert.True(t, past.Finished)
	assert.Equal(t, 5, past.SeatsTaken)
	assert.Equal(t, 0, past.AvailableSeats)

	upcoming := resp.Shifts[1]
	assert.False(t, upcoming.Finished)
	assert.Equal(t, 3, upcoming.SeatsTaken)
	assert.Equal(t, 1, upcoming.AvailableSeats)
}

func TestExecute_ResolvesStage(t *testing.T) {
	now := time.Date(2026, time.April, 5, 12, 0, 0, 0, time.UTC)
	env := newAvailabilityEnv(now)

	recruitStart := date(2026, time.April, 1)
	recruitEnd := date(2026, time.April, 10)
	env.programs.programs[1] = &domain.Program{
		ID:                  1,
		Name:                "Донорство",
		RequiresApplication: true,
		RecruitStart:        &recruitStart,
		RecruitEnd:          &recruitEnd,
		Active:              true,
	}

	resp, err := env.usecase.Execute(context.Background(), &Request{ProgramID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.StageRecruiting, resp.Stage)
	assert.Empty(t, resp.Shifts)
}

func TestExecute_ShiftWithoutBookings(t *testing.T) {
	now := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)
	env := newAvailabilityEnv(now)

	env.programs.programs[1] = &domain.Program{ID: 1, Name: "Субботник", Active: true}
	env.shifts.shifts = []*domain.Shift{
		{ID: 7, ProgramID: 1, Date: date(2026, time.May, 2), StartTime: mustTime(t, "10:00"), EndTime: mustTime(t, "14:00"), Capacity: 10, Active: true},
	}

	resp, err := env.usecase.Execute(context.Background(), &Request{ProgramID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Shifts, 1)
	assert.Equal(t, 0, resp.Shifts[0].SeatsTaken)
	assert.Equal(t, 10, resp.Shifts[0].AvailableSeats)
}

func TestExecute_UnknownProgram(t *testing.T) {
	env := newAvailabilityEnv(time.Now())

	_, err := env.usecase.Execute(context.Background(), &Request{ProgramID: 42})
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestExecute_InvalidProgramID(t *testing.T) {
	env := newAvailabilityEnv(time.Now())

	_, err := env.usecase.Execute(context.Background(), &Request{ProgramID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
