package loans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const loanColumns = `loan_id, patron_id, patron_first_name, patron_last_name,
		employee_id, employee_first_name, employee_last_name,
		book_id, isbn, title, author_first_name, author_last_name, genre, book_type,
		issue_date, checkout_date, return_date, status`

// PostgresLedger stores loans as flattened rows: one column per
// snapshot field, so a row is self-contained with no joins against the
// collaborator services.
type PostgresLedger struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{
		db:     db,
		tracer: otel.Tracer("libralend/ledger"),
	}
}

// EnsureSchema creates the loans table if it does not exist yet.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS loans (
			loan_id             VARCHAR(36) PRIMARY KEY,
			patron_id           VARCHAR(36) NOT NULL,
			patron_first_name   TEXT NOT NULL DEFAULT '',
			patron_last_name    TEXT NOT NULL DEFAULT '',
			employee_id         VARCHAR(36) NOT NULL,
			employee_first_name TEXT NOT NULL DEFAULT '',
			employee_last_name  TEXT NOT NULL DEFAULT '',
			book_id             VARCHAR(36) NOT NULL,
			isbn                TEXT NOT NULL DEFAULT '',
			title               TEXT NOT NULL DEFAULT '',
			author_first_name   TEXT NOT NULL DEFAULT '',
			author_last_name    TEXT NOT NULL DEFAULT '',
			genre               TEXT NOT NULL DEFAULT '',
			book_type           TEXT NOT NULL DEFAULT '',
			issue_date          DATE,
			checkout_date       DATE,
			return_date         DATE,
			status              TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create loans table: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Save(ctx context.Context, loan *Loan) error {
	ctx, span := l.tracer.Start(ctx, "ledger.save",
		trace.WithAttributes(
			attribute.String("loan.id", loan.LoanID),
			attribute.String("patron.id", loan.Patron.PatronID),
		),
	)
	defer span.End()

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (loan_id) DO UPDATE SET
			patron_id = EXCLUDED.patron_id,
			patron_first_name = EXCLUDED.patron_first_name,
			patron_last_name = EXCLUDED.patron_last_name,
			employee_id = EXCLUDED.employee_id,
			employee_first_name = EXCLUDED.employee_first_name,
			employee_last_name = EXCLUDED.employee_last_name,
			book_id = EXCLUDED.book_id,
			isbn = EXCLUDED.isbn,
			title = EXCLUDED.title,
			author_first_name = EXCLUDED.author_first_name,
			author_last_name = EXCLUDED.author_last_name,
			genre = EXCLUDED.genre,
			book_type = EXCLUDED.book_type,
			issue_date = EXCLUDED.issue_date,
			checkout_date = EXCLUDED.checkout_date,
			return_date = EXCLUDED.return_date,
			status = EXCLUDED.status
	`
	_, err := l.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.Patron.PatronID, loan.Patron.FirstName, loan.Patron.LastName,
		loan.Employee.EmployeeID, loan.Employee.FirstName, loan.Employee.LastName,
		loan.Book.BookID, loan.Book.ISBN, loan.Book.Title,
		loan.Book.AuthorFirstName, loan.Book.AuthorLastName, loan.Book.Genre, loan.Book.BookType,
		loan.IssueDate, loan.CheckoutDate, loan.ReturnDate,
		string(loan.Status),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	return nil
}

func (l *PostgresLedger) FindAll(ctx context.Context) ([]*Loan, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.find_all")
	defer span.End()

	rows, err := l.db.QueryContext(ctx, `SELECT `+loanColumns+` FROM loans`)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var result []*Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return result, nil
}

func (l *PostgresLedger) FindByPatronAndLoan(ctx context.Context, patronID, loanID string) (*Loan, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.find_by_patron_and_loan",
		trace.WithAttributes(
			attribute.String("patron.id", patronID),
			attribute.String("loan.id", loanID),
		),
	)
	defer span.End()

	row := l.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE patron_id = $1 AND loan_id = $2`,
		patronID, loanID)
	return scanOne(row)
}

func (l *PostgresLedger) FindByLoanID(ctx context.Context, loanID string) (*Loan, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.find_by_loan_id",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	row := l.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE loan_id = $1`, loanID)
	return scanOne(row)
}

func (l *PostgresLedger) CountByPatron(ctx context.Context, patronID string) (int, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.count_by_patron",
		trace.WithAttributes(attribute.String("patron.id", patronID)),
	)
	defer span.End()

	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans WHERE patron_id = $1`, patronID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return count, nil
}

func (l *PostgresLedger) Delete(ctx context.Context, loanID string) error {
	ctx, span := l.tracer.Start(ctx, "ledger.delete",
		trace.WithAttributes(attribute.String("loan.id", loanID)),
	)
	defer span.End()

	if _, err := l.db.ExecContext(ctx, `DELETE FROM loans WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*Loan, error) {
	loan := &Loan{}
	var status string
	err := row.Scan(
		&loan.LoanID,
		&loan.Patron.PatronID, &loan.Patron.FirstName, &loan.Patron.LastName,
		&loan.Employee.EmployeeID, &loan.Employee.FirstName, &loan.Employee.LastName,
		&loan.Book.BookID, &loan.Book.ISBN, &loan.Book.Title,
		&loan.Book.AuthorFirstName, &loan.Book.AuthorLastName, &loan.Book.Genre, &loan.Book.BookType,
		&loan.IssueDate, &loan.CheckoutDate, &loan.ReturnDate,
		&status,
	)
	if err != nil {
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	loan.Status = Status(status)
	return loan, nil
}

func scanOne(row *sql.Row) (*Loan, error) {
	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return loan, nil
}
