package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin       Role = "ROLE_ADMIN"
	RoleDeveloper   Role = "ROLE_DEVELOPER"
	RoleTester      Role = "ROLE_TESTER"
	RoleStakeholder Role = "ROLE_STAKEHOLDER"
	RoleUser        Role = "ROLE_USER"
)

var allRoles = []Role{RoleAdmin, RoleDeveloper, RoleTester, RoleStakeholder, RoleUser}

// ParseRole accepts "admin", "ADMIN" and "ROLE_ADMIN" alike.
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "ROLE_") {
		s = "ROLE_" + s
	}
	for _, r := range allRoles {
		if Role(s) == r {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"       json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	Role         Role      `gorm:"type:varchar(32);not null"  json:"role"`
	CreatedAt    time.Time `json:"-"`
}

// RevokedToken is keyed by the SHA-256 hex digest of the token string.
type RevokedToken struct {
	TokenHash string    `gorm:"primaryKey;type:varchar(64)"`
	RevokedAt time.Time `gorm:"not null"`
}

type Project struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"  json:"projectId"`
	Name      string     `gorm:"not null"                  json:"projectName"`
	StartDate *time.Time `gorm:"type:date"                 json:"-"`
	EndDate   *time.Time `gorm:"type:date"                 json:"-"`
	ManagerID uint       `gorm:"index;not null"            json:"managerId"`
	Manager   User       `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

type Bug struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"          json:"bugId"`
	Title       string    `gorm:"not null"                          json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `gorm:"type:varchar(16);not null;index"   json:"priority"`
	ProjectID   uint      `gorm:"index;not null"                    json:"projectId"`
	Project     Project   `gorm:"constraint:OnDelete:RESTRICT"      json:"-"`
	CreatedDate time.Time `gorm:"type:date;not null"                json:"-"`
}

type Notification struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"      json:"id"`
	UserID  uint   `gorm:"index;not null"                json:"userId"`
	User    User   `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
	Type    string `gorm:"not null"                      json:"type"`
	Message string `gorm:"not null"                      json:"message"`
	IsRead  bool   `gorm:"default:false"                 json:"isRead"`
}

// Quality is a point-in-time quality snapshot of a project. Snapshots go
// with their project.
type Quality struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"      json:"metricId"`
	ProjectID      uint       `gorm:"index;not null"                json:"projectId"`
	Project        Project    `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
	BugCount       int        `gorm:"not null;default:0"            json:"bugCount"`
	ResolvedCount  int        `gorm:"not null;default:0"            json:"resolvedCount"`
	QualityScore   float64    `gorm:"not null;default:0"            json:"qualityScore"`
	CalculatedDate *time.Time `gorm:"type:date"                     json:"-"`
}

// Report is metadata about a generated report. The file itself lives at ReportURL.
type Report struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"   json:"reportId"`
	Type          string    `gorm:"not null;index"             json:"type"`
	Parameters    string    `gorm:"type:text"                  json:"parameters"`
	GeneratedDate time.Time `gorm:"not null"                   json:"generatedDate"`
	GeneratedBy   string    `gorm:"index"                      json:"generatedBy"`
	ReportURL     string    `json:"reportUrl"`
	Format        string    `json:"format"`
}

func All() []any {
	return []any{&User{}, &RevokedToken{}, &Project{}, &Bug{}, &Notification{}, &Quality{}, &Report{}}
}
