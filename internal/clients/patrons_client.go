package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"libralend/internal/faults"
)

// Patron is the membership service's view of a member.
type Patron struct {
	PatronID  string `json:"patronId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PatronsClient struct {
	baseURL string
	hc      *http.Client
}

func NewPatronsClient(baseURL string) *PatronsClient {
	return &PatronsClient{baseURL: baseURL, hc: newHTTPClient()}
}

// GetPatron looks up a patron by id. An upstream 404 surfaces as
// faults.ErrNotFound.
func (c *PatronsClient) GetPatron(ctx context.Context, patronID string) (*Patron, error) {
	if len(patronID) != idLength {
		return nil, fmt.Errorf("%w: patron id must be exactly %d characters long", faults.ErrInvalidInput, idLength)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, patronID), nil)
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

	var patron Patron
	if err := json.NewDecoder(resp.Body).Decode(&patron); err != nil {
		return nil, fmt.Errorf("decode patron response: %w", err)
	}

	return &patron, nil
}
