package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

// Employee is a member of the café staff.
type Employee struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName  string             `gorm:"column:first_name;not null"`
	LastName   string             `gorm:"column:last_name;not null"`
	Email      string             `gorm:"column:email;not null;uniqueIndex"`
	Phone      *string            `gorm:"column:phone"`
	Role       enums.EmployeeRole `gorm:"column:role;type:text;not null;default:'server'"`
	HourlyRate decimal.Decimal    `gorm:"column:hourly_rate;type:numeric(8,2);not null;default:0"`
	HireDate   *time.Time         `gorm:"column:hire_date"`
	Active     bool               `gorm:"column:active;not null"`
	Schedule   Schedule           `gorm:"column:schedule;type:jsonb;not null;default:'[]'"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// Shift is one weekly slot. DayOfWeek follows time.Weekday (0 is Sunday).
type Shift struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Schedule persists as a JSON array.
type Schedule []Shift

func (s Schedule) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Schedule) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Schedule{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported schedule source %T", src)
	}
	if len(raw) == 0 {
		*s = Schedule{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// TimeEntry is a clock-in/clock-out pair. ClockOut is nil while the shift is open.
type TimeEntry struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID  uuid.UUID        `gorm:"column:employee_id;type:uuid;not null"`
	ClockIn     time.Time        `gorm:"column:clock_in;not null"`
	ClockOut    *time.Time       `gorm:"column:clock_out"`
	HoursWorked *decimal.Decimal `gorm:"column:hours_worked;type:numeric(6,2)"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}
