package enums

import "fmt"

// EmployeeRole is the floor position an employee works.
type EmployeeRole string

const (
	EmployeeRoleServer  EmployeeRole = "server"
	EmployeeRoleBarista EmployeeRole = "barista"
	EmployeeRoleCashier EmployeeRole = "cashier"
	EmployeeRoleManager EmployeeRole = "manager"
)

var validEmployeeRoles = []EmployeeRole{
	EmployeeRoleServer,
	EmployeeRoleBarista,
	EmployeeRoleCashier,
	EmployeeRoleManager,
}

// String implements fmt.Stringer.
func (v EmployeeRole) String() string {
	return string(v)
}

// IsValid reports whether the value is a known EmployeeRole.
func (v EmployeeRole) IsValid() bool {
	for _, candidate := range validEmployeeRoles {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseEmployeeRole converts raw input into an EmployeeRole.
func ParseEmployeeRole(value string) (EmployeeRole, error) {
	for _, candidate := range validEmployeeRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid employee role %q", value)
}
