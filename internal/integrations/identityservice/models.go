package identityservice

// Volunteer профиль волонтера из IdentityService
type Volunteer struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	FullName  string `json:"full_name"`
	FacultyID *int64 `json:"faculty_id,omitempty"`
}

// Organization организация из IdentityService.
// ManagerIDs - пользователи с ролью менеджера этой организации.
type Organization struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ManagerIDs []int64 `json:"manager_ids"`
}

// ErrorResponse модель ошибки от IdentityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
