package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusvol/UVP-EnrollmentService/pkg/ptr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func programWithWindows() *Program {
	return &Program{
		ID:                  1,
		Name:                "Campaña de alfabetización",
		RequiresApplication: true,
		RecruitStart:        ptr.Ptr(date(2025, 3, 1)),
		RecruitEnd:          ptr.Ptr(date(2025, 3, 10)),
		ExecStart:           ptr.Ptr(date(2025, 3, 20)),
		ExecEnd:             ptr.Ptr(date(2025, 3, 31)),
		Active:              true,
	}
}

func TestResolveStage_Boundaries(t *testing.T) {
	p := programWithWindows()

	tests := []struct {
		name  string
		today time.Time
		want  Stage
	}{
		{"before recruitment", date(2025, 2, 28), StageUpcoming},
		{"recruitment first day", date(2025, 3, 1), StageRecruiting},
		{"recruitment last day", date(2025, 3, 10), StageRecruiting},
		{"between windows", date(2025, 3, 11), StagePreparing},
		{"day before execution", date(2025, 3, 19), StagePreparing},
		{"execution first day", date(2025, 3, 20), StageActive},
		{"execution last day", date(2025, 3, 31), StageActive},
		{"after execution", date(2025, 4, 1), StageFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStage(p, tt.today, false))
		})
	}
}

func TestResolveStage_PendingApplicationsOverride(t *testing.T) {
	p := programWithWindows()

	// Past execution start with a pending application: stays PREPARING
	today := date(2025, 3, 22)
	assert.Equal(t, StagePreparing, ResolveStage(p, today, true))

	// Once the application is reviewed, the same day resolves ACTIVE
	assert.Equal(t, StageActive, ResolveStage(p, today, false))

	// The override never extends past the execution window
	assert.Equal(t, StageFinished, ResolveStage(p, date(2025, 4, 2), true))
}

func TestResolveStage_SelfService(t *testing.T) {
	p := &Program{
		RequiresApplication: false,
		ExecStart:           ptr.Ptr(date(2025, 6, 1)),
		ExecEnd:             ptr.Ptr(date(2025, 6, 30)),
	}

	assert.Equal(t, StageUpcoming, ResolveStage(p, date(2025, 5, 31), false))
	assert.Equal(t, StageActive, ResolveStage(p, date(2025, 6, 1), false))
	assert.Equal(t, StageActive, ResolveStage(p, date(2025, 6, 30), false))
	assert.Equal(t, StageFinished, ResolveStage(p, date(2025, 7, 1), false))

	// Pending applications are irrelevant without an application step
	assert.Equal(t, StageActive, ResolveStage(p, date(2025, 6, 15), true))
}

func TestResolveStage_MissingDates(t *testing.T) {
	// Application required but no recruitment window
	p := &Program{
		RequiresApplication: true,
		ExecStart:           ptr.Ptr(date(2025, 6, 1)),
		ExecEnd:             ptr.Ptr(date(2025, 6, 30)),
	}
	assert.Equal(t, StageUnknown, ResolveStage(p, date(2025, 6, 15), false))

	// Recruitment window only, no execution dates
	p = &Program{
		RequiresApplication: true,
		RecruitStart:        ptr.Ptr(date(2025, 3, 1)),
		RecruitEnd:          ptr.Ptr(date(2025, 3, 10)),
	}
	assert.Equal(t, StageUpcoming, ResolveStage(p, date(2025, 2, 1), false))
	assert.Equal(t, StageRecruiting, ResolveStage(p, date(2025, 3, 5), false))
	assert.Equal(t, StageFinished, ResolveStage(p, date(2025, 3, 11), false))

	// Self-service without execution dates is broken data
	p = &Program{RequiresApplication: false}
	assert.Equal(t, StageUnknown, ResolveStage(p, date(2025, 1, 1), false))
}

func TestProgram_ValidateWindows(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Program)
		wantErr error
	}{
		{"valid", func(p *Program) {}, nil},
		{"recruit start only", func(p *Program) { p.RecruitEnd = nil }, ErrRecruitmentDatesIncomplete},
		{"recruit inverted", func(p *Program) {
			p.RecruitStart = ptr.Ptr(date(2025, 3, 15))
		}, ErrRecruitmentWindowInverted},
		{"exec inverted", func(p *Program) {
			p.ExecEnd = ptr.Ptr(date(2025, 3, 19))
		}, ErrExecutionWindowInverted},
		{"windows overlap", func(p *Program) {
			p.RecruitEnd = ptr.Ptr(date(2025, 3, 20))
		}, ErrWindowsOverlap},
		{"recruit end equals exec start", func(p *Program) {
			p.RecruitEnd = ptr.Ptr(date(2025, 3, 20))
			p.RecruitStart = ptr.Ptr(date(2025, 3, 1))
		}, ErrWindowsOverlap},
		{"no recruitment window at all", func(p *Program) {
			p.RecruitStart = nil
			p.RecruitEnd = nil
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := programWithWindows()
			tt.mutate(p)
			err := p.ValidateWindows()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestShift_IsFinished(t *testing.T) {
	s := &Shift{
		Date:      date(2025, 3, 21),
		StartTime: "09:00",
		EndTime:   "13:00",
		Capacity:  5,
	}

	assert.True(t, s.IsFinished(date(2025, 3, 22), "08:00"))
	assert.False(t, s.IsFinished(date(2025, 3, 20), "23:00"))
	assert.False(t, s.IsFinished(date(2025, 3, 21), "12:59"))
	assert.True(t, s.IsFinished(date(2025, 3, 21), "13:00"))
}

func TestShift_Validate(t *testing.T) {
	s := &Shift{Date: date(2025, 3, 21), StartTime: "09:00", EndTime: "13:00", Capacity: 1}
	assert.NoError(t, s.Validate())

	s.Capacity = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidCapacity)

	s.Capacity = 3
	s.EndTime = "09:00"
	assert.ErrorIs(t, s.Validate(), ErrInvalidShiftTimes)

	s.EndTime = "13:00"
	s.Date = time.Time{}
	assert.ErrorIs(t, s.Validate(), ErrShiftDateRequired)
}
