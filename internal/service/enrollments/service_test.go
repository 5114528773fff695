package enrollments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	enrollmentRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/enrollment"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	shiftRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/shift"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
	"github.com/campusvol/UVP-EnrollmentService/pkg/ptr"
)

type fakeProgramRepo struct {
	programs map[int64]*domain.Program
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id int64) (*domain.Program, error) {
	p, ok := r.programs[id]
	if !ok || !p.Active {
		return nil, programRepo.ErrProgramNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeShiftRepo struct {
	shifts map[int64]*domain.Shift
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id int64) (*domain.Shift, error) {
	sh, ok := r.shifts[id]
	if !ok || !sh.Active {
		return nil, shiftRepo.ErrShiftNotFound
	}
	cp := *sh
	return &cp, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*domain.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{nextID: 1, records: make(map[int64]*domain.Attendance)}
}

func (r *fakeAttendanceRepo) Create(_ context.Context, a *domain.Attendance) (*domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	cp.ID = r.nextID
	cp.Active = true
	r.nextID++
	r.records[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeAttendanceRepo) Exists(_ context.Context, shiftEnrollmentID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.ShiftEnrollmentID == shiftEnrollmentID && a.Active {
			return true, nil
		}
	}
	return false, nil
}

type fakeEnrollmentRepo struct {
	mu           sync.Mutex
	applications map[int64]*domain.ProgramEnrollment
	bookings     map[int64]*domain.ShiftEnrollment
	nextID       int64
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		applications: make(map[int64]*domain.ProgramEnrollment),
		bookings:     make(map[int64]*domain.ShiftEnrollment),
		nextID:       1,
	}
}

func (r *fakeEnrollmentRepo) CreateApplication(_ context.Context, e *domain.ProgramEnrollment) (*domain.ProgramEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// частичный уникальный индекс по (program_id, volunteer_id) WHERE active
	for _, a := range r.applications {
		if a.ProgramID == e.ProgramID && a.VolunteerID == e.VolunteerID && a.Active {
			return nil, enrollmentRepo.ErrDuplicateApplication
		}
	}
	cp := *e
	cp.ID = r.nextID
	cp.Active = true
	r.nextID++
	r.applications[cp.ID] = &cp
	return &cp, nil
}

func (r *fakeEnrollmentRepo) GetApplicationByID(_ context.Context, id int64) (*domain.ProgramEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok || !a.Active {
		return nil, enrollmentRepo.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeEnrollmentRepo) GetApplication(_ context.Context, programID, volunteerID int64) (*domain.ProgramEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.applications {
		if a.ProgramID == programID && a.VolunteerID == volunteerID && a.Active {
			cp := *a
			return &cp, nil
		}
	}
	return nil, enrollmentRepo.ErrApplicationNotFound
}

func (r *fakeEnrollmentRepo) UpdateApplicationState(_ context.Context, id int64, state domain.ProgramEnrollmentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok || !a.Active {
		return enrollmentRepo.ErrApplicationNotFound
	}
	a.State = state
	return nil
}

func (r *fakeEnrollmentRepo) HasPendingApplications(_ context.Context, programID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.applications {
		if a.ProgramID == programID && a.Active && a.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) GetBooking(_ context.Context, shiftID, volunteerID int64) (*domain.ShiftEnrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ShiftID == shiftID && b.VolunteerID == volunteerID && b.Active {
			cp := *b
			return &cp, nil
		}
	}
	return nil, enrollmentRepo.ErrBookingNotFound
}

func (r *fakeEnrollmentRepo) UpdateBookingState(_ context.Context, id int64, state domain.ShiftEnrollmentState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || !b.Active {
		return enrollmentRepo.ErrBookingNotFound
	}
	b.State = state
	return nil
}

func (r *fakeEnrollmentRepo) addBooking(shiftID, volunteerID int64, state domain.ShiftEnrollmentState) *domain.ShiftEnrollment {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := &domain.ShiftEnrollment{
		ID:          r.nextID,
		ShiftID:     shiftID,
		VolunteerID: volunteerID,
		State:       state,
		Active:      true,
	}
	r.nextID++
	r.bookings[b.ID] = b
	return b
}

type fakeCascade struct {
	deletedAttendance []int64
}

func (c *fakeCascade) DeleteBookingAttendance(_ context.Context, shiftEnrollmentID int64) error {
	c.deletedAttendance = append(c.deletedAttendance, shiftEnrollmentID)
	return nil
}

type fakeIdentityClient struct {
	volunteers map[int64]*identityservice.Volunteer
	orgs       map[int64]*identityservice.Organization
}

func (c *fakeIdentityClient) GetVolunteer(_ context.Context, userID int64) (*identityservice.Volunteer, error) {
	v, ok := c.volunteers[userID]
	if !ok {
		return nil, identityservice.ErrVolunteerNotFound
	}
	return v, nil
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

// serializingTxManager выполняет транзакции строго по одной,
// как это делает база данных с блокировками строк
type serializingTxManager struct {
	mu sync.Mutex
}

func (m *serializingTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

type enrollmentsEnv struct {
	service      *Service
	programs     *fakeProgramRepo
	shifts       *fakeShiftRepo
	enrollments  *fakeEnrollmentRepo
	attendance   *fakeAttendanceRepo
	cascade      *fakeCascade
	identity     *fakeIdentityClient
	timeProvider *fixedTimeProvider
}

func newEnrollmentsEnv(now time.Time) *enrollmentsEnv {
	env := &enrollmentsEnv{
		programs:     &fakeProgramRepo{programs: make(map[int64]*domain.Program)},
		shifts:       &fakeShiftRepo{shifts: make(map[int64]*domain.Shift)},
		enrollments:  newFakeEnrollmentRepo(),
		attendance:   newFakeAttendanceRepo(),
		cascade:      &fakeCascade{},
		identity: &fakeIdentityClient{
			volunteers: make(map[int64]*identityservice.Volunteer),
			orgs:       make(map[int64]*identityservice.Organization),
		},
		timeProvider: &fixedTimeProvider{now: now},
	}
	env.service = NewService(
		env.programs,
		env.shifts,
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

// recruitingProgram программа с набором, открытым на 2026-04-05
func recruitingProgram(id int64) *domain.Program {
	return &domain.Program{
		ID:                  id,
		Name:                "Экофест",
		RequiresApplication: true,
		RecruitStart:        date(2026, 4, 1),
		RecruitEnd:          date(2026, 4, 10),
		ExecStart:           date(2026, 5, 1),
		ExecEnd:             date(2026, 5, 20),
		Active:              true,
	}
}

func TestApply_CreatesApplication(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	app, err := env.service.Apply(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), app.VolunteerID)
	assert.Equal(t, string(domain.ApplicationApplied), app.State)

	_, err = env.service.Apply(context.Background(), 100, 1)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApply_OutsideRecruitment(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 5, 5, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	_, err := env.service.Apply(context.Background(), 100, 1)
	assert.ErrorIs(t, err, ErrNotRecruiting)
}

func TestApply_ReactivatesCancelledApplication(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	first, err := env.service.Apply(context.Background(), 100, 1)
	require.NoError(t, err)

	require.NoError(t, env.service.CancelApplication(context.Background(), 100, 1))

	second, err := env.service.Apply(context.Background(), 100, 1)
	require.NoError(t, err)

	// реактивация той же строки, не дубликат
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, env.enrollments.applications, 1)
	assert.Equal(t, string(domain.ApplicationApplied), second.State)
}

func TestApply_ConcurrentDoubleSubmission(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	env.service = NewService(
		env.programs,
		env.shifts,
		env.enrollments,
		env.attendance,
		env.cascade,
		env.identity,
		&serializingTxManager{},
		env.timeProvider,
		noopLogger{},
	)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.Apply(context.Background(), 100, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyApplied):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
	assert.Len(t, env.enrollments.applications, 1)
}

func TestApply_DuplicateInsertMapsToAlreadyApplied(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	// активная строка уже есть, но проверка существования ее не видит -
	// сценарий проигравшей конкурентной вставки
	env.enrollments.applications[99] = &domain.ProgramEnrollment{
		ID:          99,
		ProgramID:   1,
		VolunteerID: 10,
		State:       domain.ApplicationApplied,
		Active:      true,
	}
	blind := &blindEnrollmentRepo{fakeEnrollmentRepo: env.enrollments}
	env.service = NewService(
		env.programs,
		env.shifts,
		blind,
		env.attendance,
		env.cascade,
		env.identity,
		&passthroughTxManager{},
		env.timeProvider,
		noopLogger{},
	)

	_, err := env.service.Apply(context.Background(), 100, 1)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

// blindEnrollmentRepo не находит существующую заявку при проверке,
// оставляя уникальность на совести ограничения базы
type blindEnrollmentRepo struct {
	*fakeEnrollmentRepo
}

func (r *blindEnrollmentRepo) GetApplication(_ context.Context, _, _ int64) (*domain.ProgramEnrollment, error) {
	return nil, enrollmentRepo.ErrApplicationNotFound
}

func TestCancelApplication_FinishedProgram(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	err := env.service.CancelApplication(context.Background(), 100, 1)
	assert.ErrorIs(t, err, ErrProgramFinished)
}

func TestCancelApplication_DoubleCancel(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	env.programs.programs[1] = recruitingProgram(1)
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	_, err := env.service.Apply(context.Background(), 100, 1)
	require.NoError(t, err)

	require.NoError(t, env.service.CancelApplication(context.Background(), 100, 1))

	err = env.service.CancelApplication(context.Background(), 100, 1)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestReview_AcceptAndReject(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))
	program := recruitingProgram(1)
	program.OrganizationID = ptr.Ptr(int64(7))
	env.programs.programs[1] = program
	env.identity.orgs[7] = &identityservice.Organization{ID: 7, ManagerIDs: []int64{42}}
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	app, err := env.service.Apply(context.Background(), 100, 1)
	require.NoError(t, err)

	_, err = env.service.Review(context.Background(), 99, app.ID, true)
	assert.ErrorIs(t, err, ErrAccessDenied)

	reviewed, err := env.service.Review(context.Background(), 42, app.ID, true)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ApplicationAccepted), reviewed.State)

	// принятую заявку повторно не рассматривают
	_, err = env.service.Review(context.Background(), 42, app.ID, false)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestReview_UnknownApplication(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 4, 5, 12, 0, 0, 0, time.UTC))

	_, err := env.service.Review(context.Background(), 42, 777, true)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestCancelShiftBooking(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 5, 5, 12, 0, 0, 0, time.UTC))
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	booking := env.enrollments.addBooking(5, 10, domain.BookingBooked)

	require.NoError(t, env.service.CancelShiftBooking(context.Background(), 100, 5))
	assert.Equal(t, domain.BookingCancelled, env.enrollments.bookings[booking.ID].State)
	assert.Equal(t, []int64{booking.ID}, env.cascade.deletedAttendance)

	// повторная отмена - как отмена несуществующего бронирования
	err := env.service.CancelShiftBooking(context.Background(), 100, 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelShiftBooking_AttendedBooking(t *testing.T) {
	env := newEnrollmentsEnv(time.Date(2026, 5, 5, 12, 0, 0, 0, time.UTC))
	env.identity.volunteers[100] = &identityservice.Volunteer{ID: 10, UserID: 100}

	booking := env.enrollments.addBooking(5, 10, domain.BookingAttended)

	require.NoError(t, env.service.CancelShiftBooking(context.Background(), 100, 5))
	assert.Equal(t, domain.BookingCancelled, env.enrollments.bookings[booking.ID].State)
	assert.Equal(t, []int64{booking.ID}, env.cascade.deletedAttendance)
}


// attendanceEnv программа с менеджером 42, смена 5 и бронирование волонтера 10
func attendanceEnv() *enrollmentsEnv {
	env := newEnrollmentsEnv(time.Date(2026, 5, 5, 12, 0, 0, 0, time.UTC))
	program := recruitingProgram(1)
	program.OrganizationID = ptr.Ptr(int64(7))
	env.programs.programs[1] = program
	env.identity.orgs[7] = &identityservice.Organization{ID: 7, ManagerIDs: []int64{42}}
	env.shifts.shifts[5] = &domain.Shift{ID: 5, ProgramID: 1, Capacity: 10, Active: true}
	return env
}

func TestMarkAttendance_Present(t *testing.T) {
	env := attendanceEnv()
	booking := env.enrollments.addBooking(5, 10, domain.BookingBooked)

	record, err := env.service.MarkAttendance(context.Background(), 42, 5, &models.MarkAttendanceParams{
		VolunteerID: 10,
		Present:     true,
		Hours:       ptr.Ptr(4.5),
	})
	require.NoError(t, err)

	assert.True(t, record.Present)
	assert.Equal(t, 4.5, *record.Hours)
	assert.Equal(t, string(domain.BookingAttended), record.Booking.State)
	assert.Equal(t, domain.BookingAttended, env.enrollments.bookings[booking.ID].State)
}

func TestMarkAttendance_Absent(t *testing.T) {
	env := attendanceEnv()
	booking := env.enrollments.addBooking(5, 10, domain.BookingBooked)

	record, err := env.service.MarkAttendance(context.Background(), 42, 5, &models.MarkAttendanceParams{
		VolunteerID: 10,
		Present:     false,
	})
	require.NoError(t, err)

	// неявка не переводит бронирование в посещенные
	assert.False(t, record.Present)
	assert.Equal(t, domain.BookingBooked, env.enrollments.bookings[booking.ID].State)
}

func TestMarkAttendance_AlreadyRecorded(t *testing.T) {
	env := attendanceEnv()
	env.enrollments.addBooking(5, 10, domain.BookingBooked)

	params := &models.MarkAttendanceParams{VolunteerID: 10, Present: true}
	_, err := env.service.MarkAttendance(context.Background(), 42, 5, params)
	require.NoError(t, err)

	_, err = env.service.MarkAttendance(context.Background(), 42, 5, params)
	assert.ErrorIs(t, err, ErrAttendanceRecorded)
}

func TestMarkAttendance_NotManager(t *testing.T) {
	env := attendanceEnv()
	env.enrollments.addBooking(5, 10, domain.BookingBooked)

	_, err := env.service.MarkAttendance(context.Background(), 99, 5, &models.MarkAttendanceParams{VolunteerID: 10, Present: true})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMarkAttendance_NoBooking(t *testing.T) {
	env := attendanceEnv()

	_, err := env.service.MarkAttendance(context.Background(), 42, 5, &models.MarkAttendanceParams{VolunteerID: 10, Present: true})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkAttendance_CancelledBooking(t *testing.T) {
	env := attendanceEnv()
	env.enrollments.addBooking(5, 10, domain.BookingCancelled)

	_, err := env.service.MarkAttendance(context.Background(), 42, 5, &models.MarkAttendanceParams{VolunteerID: 10, Present: true})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkAttendance_UnknownShift(t *testing.T) {
	env := attendanceEnv()

	_, err := env.service.MarkAttendance(context.Background(), 42, 77, &models.MarkAttendanceParams{VolunteerID: 10, Present: true})
	assert.ErrorIs(t, err, ErrShiftNotFound)
}
