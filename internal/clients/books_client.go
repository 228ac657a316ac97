package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"libralend/internal/faults"
)

// Book is the catalog service's view of a title.
type Book struct {
	BookID          string `json:"bookId"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Genre           string `json:"genre"`
	BookType        string `json:"bookType"`
}

type BooksClient struct {
	baseURL string
	hc      *http.Client
}

func NewBooksClient(baseURL string) *BooksClient {
	return &BooksClient{baseURL: baseURL, hc: newHTTPClient()}
}

// GetBook looks up a book by id. An upstream 404 surfaces as
// faults.ErrNotFound.
func (c *BooksClient) GetBook(ctx context.Context, bookID string) (*Book, error) {
	if len(bookID) != idLength {
		return nil, fmt.Errorf("%w: book id must be exactly %d characters long", faults.ErrInvalidInput, idLength)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, bookID), nil)
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

	var book Book
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("decode book response: %w", err)
	}

	return &book, nil
}

// AdjustCopies applies the copies-available adjustment for the given
// loan status: CHECKED_OUT decrements by one, RETURNED increments by
// one, anything else is a no-op upstream. The adjustment is not
// idempotent; calling it twice applies it twice. A 422 on this
// endpoint means the decrement hit zero copies and surfaces as
// faults.ErrOutOfStock.
func (c *BooksClient) AdjustCopies(ctx context.Context, bookID, status string) error {
	url := fmt.Sprintf("%s/%s/copiesAvailable?status=%s", c.baseURL, bookID, status)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", faults.ErrNotFound, errorMessage(resp))
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", faults.ErrOutOfStock, errorMessage(resp))
	default:
		return &faults.UpstreamError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}
}
