package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"libralend/internal/faults"
)

// Employee is the staff service's view of an employee.
type Employee struct {
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

type StaffClient struct {
	baseURL string
	hc      *http.Client
}

func NewStaffClient(baseURL string) *StaffClient {
	return &StaffClient{baseURL: baseURL, hc: newHTTPClient()}
}

// GetEmployee looks up an employee by id. An upstream 404 surfaces as
// faults.ErrNotFound.
func (c *StaffClient) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	if len(employeeID) != idLength {
		return nil, fmt.Errorf("%w: employee id must be exactly %d characters long", faults.ErrInvalidInput, idLength)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, employeeID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, translateError(resp)
	}

	var employee Employee
	if err := json.NewDecoder(resp.Body).Decode(&employee); err != nil {
		return nil, fmt.Errorf("decode employee response: %w", err)
	}

	return &employee, nil
}
