package programs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	shiftRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/shift"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
	"github.com/campusvol/UVP-EnrollmentService/pkg/ptr"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

type fakeProgramRepo struct {
	programs map[int64]*domain.Program
	nextID   int64
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[int64]*domain.Program), nextID: 1}
}

func (r *fakeProgramRepo) Create(_ context.Context, p *domain.Program) (*domain.Program, error) {
	cp := *p
	cp.ID = r.nextID
	cp.Active = true
	r.nextID++
	r.programs[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id int64) (*domain.Program, error) {
	p, ok := r.programs[id]
	if !ok || !p.Active {
		return nil, programRepo.ErrProgramNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgramRepo) Update(_ context.Context, p *domain.Program) error {
	stored, ok := r.programs[p.ID]
	if !ok || !stored.Active {
		return programRepo.ErrProgramNotFound
	}
	cp := *p
	cp.Active = true
	r.programs[p.ID] = &cp
	return nil
}

func (r *fakeProgramRepo) Delete(_ context.Context, id int64) error {
	p, ok := r.programs[id]
	if !ok || !p.Active {
		return programRepo.ErrProgramNotFound
	}
	p.Active = false
	return nil
}

type fakeShiftRepo struct {
	shifts map[int64]*domain.Shift
	nextID int64
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[int64]*domain.Shift), nextID: 1}
}

func (r *fakeShiftRepo) Create(_ context.Context, s *domain.Shift) (*domain.Shift, error) {
	cp := *s
	cp.ID = r.nextID
	cp.Active = true
	r.nextID++
	r.shifts[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id int64) (*domain.Shift, error) {
	s, ok := r.shifts[id]
	if !ok || !s.Active {
		return nil, shiftRepo.ErrShiftNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShiftRepo) ListByProgram(_ context.Context, programID int64) ([]*domain.Shift, error) {
	var result []*domain.Shift
	for _, s := range r.shifts {
		if s.ProgramID == programID && s.Active {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeShiftRepo) Delete(_ context.Context, id int64) error {
	s, ok := r.shifts[id]
	if !ok || !s.Active {
		return shiftRepo.ErrShiftNotFound
	}
	s.Active = false
	return nil
}

type fakeEnrollmentCounts struct {
	pending bool
	seats   map[int64]int
}

func (r *fakeEnrollmentCounts) HasPendingApplications(_ context.Context, _ int64) (bool, error) {
	return r.pending, nil
}

func (r *fakeEnrollmentCounts) CountSeatsTakenByShifts(_ context.Context, shiftIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int)
	for _, id := range shiftIDs {
		if taken, ok := r.seats[id]; ok {
			result[id] = taken
		}
	}
	return result, nil
}

type fakeAttendanceCounts struct {
	recorded int
}

func (r *fakeAttendanceCounts) CountByShifts(_ context.Context, _ []int64) (int, error) {
	return r.recorded, nil
}

type fakeCascade struct {
	deletedPrograms []int64
	deletedShifts   []int64
	prunedRemoved   []int64
	pruneCalls      int
}

func (c *fakeCascade) DeleteProgramChildren(_ context.Context, programID int64) ([]int64, error) {
	c.deletedPrograms = append(c.deletedPrograms, programID)
	return nil, nil
}

func (c *fakeCascade) DeleteShiftChildren(_ context.Context, shiftID int64) error {
	c.deletedShifts = append(c.deletedShifts, shiftID)
	return nil
}

func (c *fakeCascade) PruneShiftsOutsideWindow(_ context.Context, _ int64, _, _ time.Time) ([]int64, error) {
	c.pruneCalls++
	return c.prunedRemoved, nil
}

type fakeIdentityClient struct {
	orgs map[int64]*identityservice.Organization
}

func (c *fakeIdentityClient) GetOrganization(_ context.Context, id int64) (*identityservice.Organization, error) {
	org, ok := c.orgs[id]
	if !ok {
		return nil, identityservice.ErrOrganizationNotFound
	}
	return org, nil
}

type passthroughTxManager struct{}

func (m *passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type programsEnv struct {
	service      *Service
	programRepo  *fakeProgramRepo
	shiftRepo    *fakeShiftRepo
	enrollments  *fakeEnrollmentCounts
	attendance   *fakeAttendanceCounts
	cascade      *fakeCascade
	identity     *fakeIdentityClient
	timeProvider *fixedTimeProvider
}

func newProgramsEnv(now time.Time) *programsEnv {
	env := &programsEnv{
		programRepo:  newFakeProgramRepo(),
		shiftRepo:    newFakeShiftRepo(),
		enrollments:  &fakeEnrollmentCounts{seats: make(map[int64]int)},
		attendance:   &fakeAttendanceCounts{},
		cascade:      &fakeCascade{},
		identity:     &fakeIdentityClient{orgs: make(map[int64]*identityservice.Organization)},
		timeProvider: &fixedTimeProvider{now: now},
	}
	env.service = NewService(
		env.programRepo,
		env.shiftRepo,
		env.enrollments,
		env.attendance,
		env.cascade,
		env.identity,
		&passthroughTxManager{},
		env.timeProvider,
		noopLogger{},
	)
	return env
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCreate_ValidatesWindows(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	_, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{
		Name:      "Субботник",
		ExecStart: date(2026, 5, 10),
		ExecEnd:   date(2026, 5, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidProgram)

	_, err = env.service.Create(context.Background(), 1, &models.CreateProgramParams{
		Name:         "Субботник",
		RecruitStart: date(2026, 4, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidProgram)

	_, err = env.service.Create(context.Background(), 1, &models.CreateProgramParams{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidProgram)
}

func TestCreate_OrganizationManagerOnly(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	env.identity.orgs[7] = &identityservice.Organization{ID: 7, Name: "Волцентр", ManagerIDs: []int64{42}}

	params := &models.CreateProgramParams{Name: "Донорство", OrganizationID: ptr.Ptr(int64(7))}

	_, err := env.service.Create(context.Background(), 99, params)
	assert.ErrorIs(t, err, ErrAccessDenied)

	created, err := env.service.Create(context.Background(), 42, params)
	require.NoError(t, err)
	assert.Equal(t, "Донорство", created.Name)
}

func TestGetByID_ResolvesStage(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{
		Name:                "Экофест",
		RequiresApplication: true,
		RecruitStart:        date(2026, 4, 1),
		RecruitEnd:          date(2026, 4, 10),
		ExecStart:           date(2026, 5, 1),
		ExecEnd:             date(2026, 5, 20),
	})
	require.NoError(t, err)

	view, err := env.service.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageRecruiting, view.Stage)

	_, err = env.service.GetByID(context.Background(), 777)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestUpdate_NarrowingWindowPrunesShifts(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	env.cascade.prunedRemoved = []int64{3, 5}

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{
		Name:      "Экофест",
		ExecStart: date(2026, 5, 1),
		ExecEnd:   date(2026, 5, 31),
	})
	require.NoError(t, err)

	result, err := env.service.Update(context.Background(), 1, created.ID, &models.UpdateProgramParams{
		ExecEnd: date(2026, 5, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.cascade.pruneCalls)
	assert.Equal(t, []int64{3, 5}, result.RemovedShiftIDs)

	// обновление без дат окно не трогает
	_, err = env.service.Update(context.Background(), 1, created.ID, &models.UpdateProgramParams{
		Name: ptr.Ptr("Экофест 2026"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.cascade.pruneCalls)
}

func TestUpdate_RejectsInvertedWindow(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{
		Name:      "Экофест",
		ExecStart: date(2026, 5, 1),
		ExecEnd:   date(2026, 5, 31),
	})
	require.NoError(t, err)

	_, err = env.service.Update(context.Background(), 1, created.ID, &models.UpdateProgramParams{
		ExecEnd: date(2026, 4, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidProgram)
	assert.Equal(t, 0, env.cascade.pruneCalls)
}

func TestDelete_CascadesToChildren(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{Name: "Экофест"})
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(context.Background(), 1, created.ID))
	assert.Equal(t, []int64{created.ID}, env.cascade.deletedPrograms)

	err = env.service.Delete(context.Background(), 1, created.ID)
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestCreateShift_NoWindowCheck(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{
		Name:      "Экофест",
		ExecStart: date(2026, 5, 1),
		ExecEnd:   date(2026, 5, 31),
	})
	require.NoError(t, err)

	// дата вне окна выполнения допустима при создании смены
	shift, err := env.service.CreateShift(context.Background(), 1, &models.CreateShiftParams{
		ProgramID: created.ID,
		Date:      *date(2026, 7, 1),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("14:00"),
		Capacity:  5,
	})
	require.NoError(t, err)
	assert.NotZero(t, shift.ID)
	// место проведения необязательно
	assert.Nil(t, shift.Location)

	_, err = env.service.CreateShift(context.Background(), 1, &models.CreateShiftParams{
		ProgramID: created.ID,
		Date:      *date(2026, 5, 10),
		StartTime: types.TimeString("14:00"),
		EndTime:   types.TimeString("10:00"),
		Capacity:  5,
	})
	assert.ErrorIs(t, err, ErrInvalidShift)

	_, err = env.service.CreateShift(context.Background(), 1, &models.CreateShiftParams{
		ProgramID: created.ID,
		Date:      *date(2026, 5, 10),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("14:00"),
		Capacity:  0,
	})
	assert.ErrorIs(t, err, ErrInvalidShift)
}

func TestDeleteShift(t *testing.T) {
	env := newProgramsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))

	program, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{Name: "Первая"})
	require.NoError(t, err)

	shift, err := env.service.CreateShift(context.Background(), 1, &models.CreateShiftParams{
		ProgramID: program.ID,
		Date:      *date(2026, 5, 10),
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("14:00"),
		Capacity:  5,
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteShift(context.Background(), 1, shift.ID))
	assert.Equal(t, []int64{shift.ID}, env.cascade.deletedShifts)

	// повторное удаление - как удаление несуществующей смены
	err = env.service.DeleteShift(context.Background(), 1, shift.ID)
	assert.ErrorIs(t, err, ErrShiftNotFound)
}

func TestProgress(t *testing.T) {
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	env := newProgramsEnv(now)

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{Name: "Экофест"})
	require.NoError(t, err)

	report, err := env.service.Progress(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalShifts)
	assert.Equal(t, 0, report.Percent)

	addShift := func(day int, end types.TimeString) {
		_, err := env.service.CreateShift(context.Background(), 1, &models.CreateShiftParams{
			ProgramID: created.ID,
			Date:      *date(2026, 5, day),
			StartTime: types.TimeString("08:00"),
			EndTime:   end,
			Capacity:  5,
		})
		require.NoError(t, err)
	}

	addShift(10, "12:00") // прошедшая
	addShift(15, "10:00") // сегодня, уже закончилась
	addShift(15, "18:00") // сегодня, еще идет
	addShift(20, "12:00") // будущая

	report, err = env.service.Progress(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalShifts)
	assert.Equal(t, 2, report.FinishedShifts)
	assert.Equal(t, 50, report.Percent)
}

func TestAttendanceCompleteness(t *testing.T) {
	now := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	env := newProgramsEnv(now)

	created, err := env.service.Create(context.Background(), 1, &models.CreateProgramParams{Name: "Экофест"})
	require.NoError(t, err)

	// нет завершенных смен - считаем учёт полным
	report, err := env.service.AttendanceCompleteness(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Percent)
	assert.False(t, report.Complete)

	finished, err := env.service.CreateShift(context.Background(), 1, &models.CreateShiftParams{
		ProgramID: created.ID,
		Date:      *date(2026, 5, 10),
		StartTime: types.TimeString("08:00"),
		EndTime:   types.TimeString("12:00"),
		Capacity:  5,
	})
	require.NoError(t, err)

	env.enrollments.seats[finished.ID] = 4
	env.attendance.recorded = 3

	report, err = env.service.AttendanceCompleteness(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, report.ExpectedRecords)
	assert.Equal(t, 3, report.ActualRecords)
	assert.Equal(t, 75, report.Percent)
	assert.False(t, report.Complete)

	env.attendance.recorded = 4

	report, err = env.service.AttendanceCompleteness(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Percent)
	assert.True(t, report.Complete)
}
