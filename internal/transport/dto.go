package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/search"
)

const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type UserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func UserFromModel(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role.String()}
}

type ProjectRequest struct {
	ProjectName string `json:"projectName" validate:"required"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	ManagerID   uint   `json:"managerId"   validate:"required"`
}

type ProjectResponse struct {
	ProjectID   uint    `json:"projectId"`
	ProjectName string  `json:"projectName"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	ManagerID   uint    `json:"managerId"`
}

func ProjectFromModel(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		StartDate:   FormatDate(p.StartDate),
		EndDate:     FormatDate(p.EndDate),
		ManagerID:   p.ManagerID,
	}
}

type BugRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   uint   `json:"projectId"   validate:"required"`
}

type BugResponse struct {
	BugID       uint   `json:"bugId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ProjectID   uint   `json:"projectId"`
	CreatedDate string `json:"createdDate"`
}

func BugFromModel(b *models.Bug) BugResponse {
	return BugResponse{
		BugID:       b.ID,
		Title:       b.Title,
		Description: b.Description,
		Priority:    string(b.Priority),
		ProjectID:   b.ProjectID,
		CreatedDate: b.CreatedDate.Format(DateLayout),
	}
}

func BugFromDocument(d search.BugDocument) BugResponse {
	return BugResponse{
		BugID:       d.ID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		ProjectID:   d.ProjectID,
		CreatedDate: d.CreatedDate,
	}
}

type NotificationRequest struct {
	UserID  uint   `json:"userId"  validate:"required"`
	Type    string `json:"type"    validate:"required"`
	Message string `json:"message" validate:"required"`
	IsRead  bool   `json:"isRead"`
}

type QualityRequest struct {
	ProjectID      uint    `json:"projectId"      validate:"required"`
	BugCount       int     `json:"bugCount"       validate:"gte=0"`
	ResolvedCount  int     `json:"resolvedCount"  validate:"gte=0"`
	QualityScore   float64 `json:"qualityScore"`
	CalculatedDate string  `json:"calculatedDate"`
}

type QualityResponse struct {
	MetricID       uint    `json:"metricId"`
	ProjectID      uint    `json:"projectId"`
	BugCount       int     `json:"bugCount"`
	ResolvedCount  int     `json:"resolvedCount"`
	QualityScore   float64 `json:"qualityScore"`
	CalculatedDate *string `json:"calculatedDate"`
}

func QualityFromModel(q *models.Quality) QualityResponse {
	return QualityResponse{
		MetricID:       q.ID,
		ProjectID:      q.ProjectID,
		BugCount:       q.BugCount,
		ResolvedCount:  q.ResolvedCount,
		QualityScore:   q.QualityScore,
		CalculatedDate: FormatDate(q.CalculatedDate),
	}
}

type ReportRequest struct {
	Type        string `json:"type"        validate:"required"`
	Parameters  string `json:"parameters"`
	GeneratedBy string `json:"generatedBy"`
	ReportURL   string `json:"reportUrl"`
	Format      string `json:"format"`
}

func Map[T any, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}

// ParseDate reads an optional "2006-01-02" date; the empty string is nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return &t, nil
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
