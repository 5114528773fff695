package domain

import "time"

// ResolveStage computes the lifecycle stage of a program for the given day.
// Rules are evaluated in order, first match wins:
//
//  1. Programs without an application step live on the execution window alone.
//  2. Programs that require applications but have no recruitment dates are broken data.
//  3. Before recruitment opens the program is UPCOMING, during it RECRUITING.
//  4. Between recruitment end and execution start the program is PREPARING.
//  5. While any application is still pending review, the program stays PREPARING
//     even past the nominal execution start: it must not look "in progress" to the
//     public while a manager has applications awaiting review.
//  6. Inside the execution window the program is ACTIVE, after it FINISHED.
//
// Pure and side-effect free; the caller supplies hasPendingApplications from
// storage. Callers with very high read volume may cache the result keyed by
// (program.UpdatedAt, today).
func ResolveStage(p *Program, today time.Time, hasPendingApplications bool) Stage {
	day := dateOnly(today)

	if !p.RequiresApplication {
		return resolveSelfServiceStage(p, day)
	}

	if !p.HasRecruitmentWindow() {
		return StageUnknown
	}

	recruitStart := dateOnly(*p.RecruitStart)
	recruitEnd := dateOnly(*p.RecruitEnd)

	if day.Before(recruitStart) {
		return StageUpcoming
	}

	if !day.Before(recruitStart) && !day.After(recruitEnd) {
		return StageRecruiting
	}

	if !p.HasExecutionWindow() {
		if day.After(recruitEnd) {
			return StageFinished
		}
		return StageUnknown
	}

	execStart := dateOnly(*p.ExecStart)
	execEnd := dateOnly(*p.ExecEnd)

	if day.After(recruitEnd) && day.Before(execStart) {
		return StagePreparing
	}

	// Pending applications block ACTIVE even past the nominal start
	if !day.Before(recruitEnd) && !day.After(execEnd) && hasPendingApplications {
		return StagePreparing
	}

	if !day.Before(execStart) && !day.After(execEnd) {
		return StageActive
	}

	if day.After(execEnd) {
		return StageFinished
	}

	return StageUnknown
}

func resolveSelfServiceStage(p *Program, day time.Time) Stage {
	if !p.HasExecutionWindow() {
		return StageUnknown
	}

	execStart := dateOnly(*p.ExecStart)
	execEnd := dateOnly(*p.ExecEnd)

	switch {
	case day.Before(execStart):
		return StageUpcoming
	case !day.After(execEnd):
		return StageActive
	default:
		return StageFinished
	}
}
