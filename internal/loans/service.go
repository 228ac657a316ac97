package loans

import (
	"context"

	"libralend/internal/clients"
)

// Service defines the interface for the loan orchestration service.
type Service interface {
	GetAllLoans(ctx context.Context, patronID string) ([]*LoanResponse, error)
	GetLoan(ctx context.Context, patronID, loanID string) (*LoanResponse, error)
	AddLoan(ctx context.Context, req *LoanRequest, patronID string) (*LoanResponse, error)
	UpdateLoan(ctx context.Context, req *LoanRequest, patronID, loanID string) (*LoanResponse, error)
	DeleteLoan(ctx context.Context, patronID, loanID string) error
}

// BooksAPI is the slice of the catalog collaborator the orchestrator
// consumes.
type BooksAPI interface {
	GetBook(ctx context.Context, bookID string) (*clients.Book, error)
	AdjustCopies(ctx context.Context, bookID, status string) error
}

// PatronsAPI is the slice of the membership collaborator the
// orchestrator consumes.
type PatronsAPI interface {
	GetPatron(ctx context.Context, patronID string) (*clients.Patron, error)
}

// StaffAPI is the slice of the staff collaborator the orchestrator
// consumes.
type StaffAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (*clients.Employee, error)
}
