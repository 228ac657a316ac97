package loans

import "context"

// Ledger is the persisted store of loan records. The loans service
// owns this storage exclusively; the snapshot fields inside each loan
// are denormalized copies, not references into the collaborator
// services.
//
// Lookups that miss return (nil, nil); only infrastructure failures
// return an error.
type Ledger interface {
	// Save inserts the loan, or overwrites the existing row with the
	// same loan id.
	Save(ctx context.Context, loan *Loan) error

	// FindAll returns every loan in the ledger.
	FindAll(ctx context.Context) ([]*Loan, error)

	// FindByPatronAndLoan is the ownership-scoped lookup.
	FindByPatronAndLoan(ctx context.Context, patronID, loanID string) (*Loan, error)

	// FindByLoanID is the existence probe by loan id alone.
	FindByLoanID(ctx context.Context, loanID string) (*Loan, error)

	// CountByPatron counts the patron's loans of every status; there is
	// no filter to currently outstanding loans.
	CountByPatron(ctx context.Context, patronID string) (int, error)

	// Delete removes the row for the loan id. Missing rows are not an
	// error.
	Delete(ctx context.Context, loanID string) error
}
