package loans

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"libralend/internal/faults"
)

const maxLoansPerPatron = 3

// service implements the Service interface. It is the only component
// that mutates the quota- and inventory-governed state: every lending
// operation runs its validation steps in order, drives the catalog
// adjustment, then writes the ledger. There is no distributed
// transaction behind this sequence; a ledger failure after a
// successful copies adjustment leaves the decrement in place.
type service struct {
	ledger  Ledger
	patrons PatronsAPI
	staff   StaffAPI
	books   BooksAPI
}

// NewService creates a new loan orchestration service instance.
func NewService(ledger Ledger, patrons PatronsAPI, staff StaffAPI, books BooksAPI) Service {
	return &service{
		ledger:  ledger,
		patrons: patrons,
		staff:   staff,
		books:   books,
	}
}

// lookupPatron resolves a patron id, folding the collaborator's
// not-found signal into the fault kind appropriate for the call site:
// NotFound when the id is the primary path-level actor of AddLoan,
// InvalidInput everywhere else.
func (s *service) lookupPatron(ctx context.Context, patronID string, absent error) (*PatronSnapshot, error) {
	patron, err := s.patrons.GetPatron(ctx, patronID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, absent
		}
		return nil, err
	}
	return &PatronSnapshot{
		PatronID:  patron.PatronID,
		FirstName: patron.FirstName,
		LastName:  patron.LastName,
	}, nil
}

func (s *service) GetAllLoans(ctx context.Context, patronID string) ([]*LoanResponse, error) {
	if _, err := s.lookupPatron(ctx, patronID,
		fmt.Errorf("%w: unknown patron id %s", faults.ErrInvalidInput, patronID)); err != nil {
		return nil, err
	}

	// The ledger has no patron index; fetch everything and filter on the
	// embedded patron id.
	all, err := s.ledger.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*LoanResponse, 0)
	for _, loan := range all {
		if loan.Patron.PatronID == patronID {
			results = append(results, toResponse(loan))
		}
	}
	return results, nil
}

func (s *service) GetLoan(ctx context.Context, patronID, loanID string) (*LoanResponse, error) {
	if _, err := s.lookupPatron(ctx, patronID,
		fmt.Errorf("%w: unknown patron id %s", faults.ErrInvalidInput, patronID)); err != nil {
		return nil, err
	}

	// Existence probe by loan id alone; a miss here is a plain 404.
	probe, err := s.ledger.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		return nil, fmt.Errorf("%w: loan id not found: %s", faults.ErrNotFound, loanID)
	}

	// Ownership-scoped lookup. A loan that exists but is not held by
	// this patron is a cross-patron access attempt, not a 404.
	loan, err := s.ledger.FindByPatronAndLoan(ctx, patronID, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil || loan.Patron.PatronID != patronID {
		return nil, fmt.Errorf("%w: loan %s does not belong to patron %s", faults.ErrInvalidInput, loanID, patronID)
	}
	return toResponse(loan), nil
}

func (s *service) AddLoan(ctx context.Context, req *LoanRequest, patronID string) (*LoanResponse, error) {
	// Step 1: the path-level patron must exist.
	patron, err := s.lookupPatron(ctx, patronID,
		fmt.Errorf("%w: patron not found for id %s", faults.ErrNotFound, patronID))
	if err != nil {
		return nil, err
	}

	// Step 2: quota. Loans of every status count; no further lookups
	// happen once the quota is hit.
	existing, err := s.ledger.CountByPatron(ctx, patronID)
	if err != nil {
		return nil, err
	}
	if existing >= maxLoansPerPatron {
		return nil, fmt.Errorf("%w: patron '%s' already has %d loans (max %d)",
			faults.ErrTooManyLoans, patronID, existing, maxLoansPerPatron)
	}

	// Step 3: the body's patron id is looked up independently of step 1;
	// it catches a body/path mismatch.
	if _, err := s.lookupPatron(ctx, req.PatronID,
		fmt.Errorf("%w: unknown patron id %s", faults.ErrInvalidInput, req.PatronID)); err != nil {
		return nil, err
	}

	// Steps 4 and 5: referenced book and employee must resolve.
	book, err := s.books.GetBook(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown book id %s", faults.ErrInvalidInput, req.BookID)
		}
		return nil, err
	}
	employee, err := s.staff.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown employee id %s", faults.ErrInvalidInput, req.EmployeeID)
		}
		return nil, err
	}

	// Step 6: build the record from the gathered snapshots.
	loan := &Loan{
		LoanID: uuid.NewString(),
		Patron: *patron,
		Employee: EmployeeSnapshot{
			EmployeeID: employee.EmployeeID,
			FirstName:  employee.FirstName,
			LastName:   employee.LastName,
		},
		Book: BookSnapshot{
			BookID:          book.BookID,
			ISBN:            book.ISBN,
			Title:           book.Title,
			AuthorFirstName: book.AuthorFirstName,
			AuthorLastName:  book.AuthorLastName,
			Genre:           book.Genre,
			BookType:        book.BookType,
		},
		IssueDate:    req.IssueDate,
		CheckoutDate: req.CheckoutDate,
		ReturnDate:   req.ReturnDate,
		Status:       req.Status,
	}

	// Step 7: remote inventory first. For CHECKED_OUT this decrements
	// copies by one and fails fatally at zero.
	if err := s.books.AdjustCopies(ctx, book.BookID, string(req.Status)); err != nil {
		return nil, err
	}

	// Step 8: local ledger write. If this fails the adjustment above is
	// not compensated; the gap is reported, not hidden.
	if err := s.ledger.Save(ctx, loan); err != nil {
		log.Printf("ledger write failed after copies adjustment for book %s: %v", book.BookID, err)
		return nil, err
	}

	return toResponse(loan), nil
}

func (s *service) UpdateLoan(ctx context.Context, req *LoanRequest, patronID, loanID string) (*LoanResponse, error) {
	if _, err := s.lookupPatron(ctx, patronID,
		fmt.Errorf("%w: unknown patron id %s", faults.ErrInvalidInput, patronID)); err != nil {
		return nil, err
	}

	existing, err := s.ledger.FindByPatronAndLoan(ctx, patronID, loanID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: loan not found: %s", faults.ErrNotFound, loanID)
	}

	if len(loanID) < idLength {
		return nil, fmt.Errorf("%w: loan id %s must be %d characters long", faults.ErrInvalidInput, loanID, idLength)
	}
	if existing.Patron.PatronID != patronID {
		return nil, fmt.Errorf("%w: loan %s does not belong to patron %s", faults.ErrInvalidInput, loanID, patronID)
	}

	book, err := s.books.GetBook(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown book id %s", faults.ErrInvalidInput, req.BookID)
		}
		return nil, err
	}
	employee, err := s.staff.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown employee id %s", faults.ErrInvalidInput, req.EmployeeID)
		}
		return nil, err
	}

	// Overwrite snapshots, dates and status in place. Identity fields
	// and the patron snapshot stay as created.
	existing.Book = BookSnapshot{
		BookID:          book.BookID,
		ISBN:            book.ISBN,
		Title:           book.Title,
		AuthorFirstName: book.AuthorFirstName,
		AuthorLastName:  book.AuthorLastName,
		Genre:           book.Genre,
		BookType:        book.BookType,
	}
	existing.Employee = EmployeeSnapshot{
		EmployeeID: employee.EmployeeID,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
	}
	existing.IssueDate = req.IssueDate
	existing.CheckoutDate = req.CheckoutDate
	existing.ReturnDate = req.ReturnDate
	existing.Status = req.Status

	// The adjustment runs for the requested status on every update,
	// whether or not the status changed. Two updates with the same
	// status adjust inventory twice.
	if err := s.books.AdjustCopies(ctx, book.BookID, string(req.Status)); err != nil {
		return nil, err
	}

	if err := s.ledger.Save(ctx, existing); err != nil {
		return nil, err
	}

	return toResponse(existing), nil
}

func (s *service) DeleteLoan(ctx context.Context, patronID, loanID string) error {
	if _, err := s.lookupPatron(ctx, patronID,
		fmt.Errorf("%w: unknown patron id %s", faults.ErrInvalidInput, patronID)); err != nil {
		return err
	}

	existing, err := s.ledger.FindByPatronAndLoan(ctx, patronID, loanID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: loan not found: %s", faults.ErrInvalidInput, loanID)
	}

	probe, err := s.ledger.FindByLoanID(ctx, loanID)
	if err != nil {
		return err
	}
	if probe == nil {
		return fmt.Errorf("%w: loan not found with id %s", faults.ErrNotFound, loanID)
	}

	// Copies are not restored on delete, even for CHECKED_OUT loans.
	return s.ledger.Delete(ctx, loanID)
}
