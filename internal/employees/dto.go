package employees

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/db/models"
	"github.com/poiu748/cafe-alya/pkg/enums"
)

// CreateEmployeeInput is the payload to add a staff member.
type CreateEmployeeInput struct {
	FirstName  string             `json:"firstName" validate:"required"`
	LastName   string             `json:"lastName" validate:"required"`
	Email      string             `json:"email" validate:"required,email"`
	Phone      *string            `json:"phone,omitempty"`
	Role       enums.EmployeeRole `json:"role,omitempty"`
	HourlyRate decimal.Decimal    `json:"hourlyRate"`
	HireDate   *time.Time         `json:"hireDate,omitempty"`
	Active     *bool              `json:"active,omitempty"`
	Schedule   []models.Shift     `json:"schedule,omitempty" validate:"dive"`
}

// UpdateEmployeeInput carries optional mutations.
type UpdateEmployeeInput struct {
	FirstName  *string             `json:"firstName,omitempty"`
	LastName   *string             `json:"lastName,omitempty"`
	Email      *string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string             `json:"phone,omitempty"`
	Role       *enums.EmployeeRole `json:"role,omitempty"`
	HourlyRate *decimal.Decimal    `json:"hourlyRate,omitempty"`
	HireDate   *time.Time          `json:"hireDate,omitempty"`
	Active     *bool               `json:"active,omitempty"`
	Schedule   *[]models.Shift     `json:"schedule,omitempty"`
}

// ListFilter narrows employee listings.
type ListFilter struct {
	ActiveOnly bool
	Role       *enums.EmployeeRole
}

// TimeEntryFilter bounds time entry listings on clock-in time. From is
// inclusive and To exclusive.
type TimeEntryFilter struct {
	From *time.Time
	To   *time.Time
}

type EmployeeDTO struct {
	ID         uuid.UUID       `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	Phone      *string         `json:"phone,omitempty"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	HireDate   *time.Time      `json:"hireDate,omitempty"`
	Active     bool            `json:"active"`
	Schedule   []models.Shift  `json:"schedule"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type TimeEntryDTO struct {
	ID          uuid.UUID        `json:"id"`
	EmployeeID  uuid.UUID        `json:"employeeId"`
	ClockIn     time.Time        `json:"clockIn"`
	ClockOut    *time.Time       `json:"clockOut,omitempty"`
	HoursWorked *decimal.Decimal `json:"hoursWorked,omitempty"`
}

func NewEmployeeDTO(e models.Employee) EmployeeDTO {
	schedule := []models.Shift(e.Schedule)
	if schedule == nil {
		schedule = []models.Shift{}
	}
	return EmployeeDTO{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Role:       e.Role.String(),
		HourlyRate: e.HourlyRate,
		HireDate:   e.HireDate,
		Active:     e.Active,
		Schedule:   schedule,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func NewTimeEntryDTO(t models.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:          t.ID,
		EmployeeID:  t.EmployeeID,
		ClockIn:     t.ClockIn,
		ClockOut:    t.ClockOut,
		HoursWorked: t.HoursWorked,
	}
}
