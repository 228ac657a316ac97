package loans

import (
	"context"
	"fmt"
	"sync"

	"libralend/internal/clients"
	"libralend/internal/faults"
)

const (
	testPatronID   = "123e4567-e89b-12d3-a456-426614174000"
	otherPatronID  = "00000000-0000-0000-0000-00000000beef"
	testBookID     = "6fa459ea-ee8a-3ca4-894e-d6f1d55b4f2a"
	secondBookID   = "00000000-0000-0000-0000-00000000b00c"
	testEmployeeID = "e8a17e76-1c9f-4a6a-9342-488b7e99f0f7"
)

type fakePatrons struct {
	records map[string]clients.Patron
	calls   int
}

func (f *fakePatrons) GetPatron(_ context.Context, patronID string) (*clients.Patron, error) {
	f.calls++
	if len(patronID) != idLength {
		return nil, fmt.Errorf("%w: patron id must be exactly %d characters long", faults.ErrInvalidInput, idLength)
	}
	p, ok := f.records[patronID]
	if !ok {
		return nil, fmt.Errorf("%w: no patron with id %s", faults.ErrNotFound, patronID)
	}
	return &p, nil
}

type fakeStaff struct {
	records map[string]clients.Employee
	calls   int
}

func (f *fakeStaff) GetEmployee(_ context.Context, employeeID string) (*clients.Employee, error) {
	f.calls++
	e, ok := f.records[employeeID]
	if !ok {
		return nil, fmt.Errorf("%w: no employee with id %s", faults.ErrNotFound, employeeID)
	}
	return &e, nil
}

type fakeBooks struct {
	records     map[string]clients.Book
	available   map[string]int
	getCalls    int
	adjustments []string
}

func (f *fakeBooks) GetBook(_ context.Context, bookID string) (*clients.Book, error) {
	f.getCalls++
	b, ok := f.records[bookID]
	if !ok {
		return nil, fmt.Errorf("%w: no book with id %s", faults.ErrNotFound, bookID)
	}
	return &b, nil
}

func (f *fakeBooks) AdjustCopies(_ context.Context, bookID, status string) error {
	f.adjustments = append(f.adjustments, bookID+":"+status)
	if _, ok := f.records[bookID]; !ok {
		return fmt.Errorf("%w: no book with id %s", faults.ErrNotFound, bookID)
	}
	switch status {
	case "CHECKED_OUT":
		if f.available[bookID] <= 0 {
			return fmt.Errorf("%w: no copies available to check out", faults.ErrOutOfStock)
		}
		f.available[bookID]--
	case "RETURNED":
		f.available[bookID]++
	}
	return nil
}

// memLedger is an in-memory Ledger with the same miss semantics as the
// Postgres implementation.
type memLedger struct {
	mu      sync.Mutex
	records map[string]Loan
	saveErr error
}

func newMemLedger() *memLedger {
	return &memLedger{records: make(map[string]Loan)}
}

func (m *memLedger) Save(_ context.Context, loan *Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[loan.LoanID] = *loan
	return nil
}

func (m *memLedger) FindAll(_ context.Context) ([]*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*Loan, 0, len(m.records))
	for _, loan := range m.records {
		cp := loan
		result = append(result, &cp)
	}
	return result, nil
}

func (m *memLedger) FindByPatronAndLoan(_ context.Context, patronID, loanID string) (*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.records[loanID]
	if !ok || loan.Patron.PatronID != patronID {
		return nil, nil
	}
	cp := loan
	return &cp, nil
}

func (m *memLedger) FindByLoanID(_ context.Context, loanID string) (*Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.records[loanID]
	if !ok {
		return nil, nil
	}
	cp := loan
	return &cp, nil
}

func (m *memLedger) CountByPatron(_ context.Context, patronID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, loan := range m.records {
		if loan.Patron.PatronID == patronID {
			count++
		}
	}
	return count, nil
}

func (m *memLedger) Delete(_ context.Context, loanID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, loanID)
	return nil
}

type testWorld struct {
	ledger  *memLedger
	patrons *fakePatrons
	staff   *fakeStaff
	books   *fakeBooks
	service Service
}

func newTestWorld() *testWorld {
	ledger := newMemLedger()
	patrons := &fakePatrons{records: map[string]clients.Patron{
		testPatronID:  {PatronID: testPatronID, FirstName: "John", LastName: "Doe"},
		otherPatronID: {PatronID: otherPatronID, FirstName: "Jane", LastName: "Roe"},
	}}
	staff := &fakeStaff{records: map[string]clients.Employee{
		testEmployeeID: {EmployeeID: testEmployeeID, FirstName: "Vilma", LastName: "Chawner"},
	}}
	books := &fakeBooks{
		records: map[string]clients.Book{
			testBookID: {
				BookID:          testBookID,
				ISBN:            "978-0-7432-7356-5",
				Title:           "A Brief History of Time",
				AuthorFirstName: "Stephen",
				AuthorLastName:  "Hawking",
				Genre:           "SCIENCE",
				BookType:        "PAPERBACK",
			},
			secondBookID: {
				BookID:          secondBookID,
				ISBN:            "978-0-14-143951-8",
				Title:           "Pride and Prejudice",
				AuthorFirstName: "Jane",
				AuthorLastName:  "Austen",
				Genre:           "FICTION",
				BookType:        "HARDCOVER",
			},
		},
		available: map[string]int{testBookID: 5, secondBookID: 1},
	}
	return &testWorld{
		ledger:  ledger,
		patrons: patrons,
		staff:   staff,
		books:   books,
		service: NewService(ledger, patrons, staff, books),
	}
}

func validRequest() *LoanRequest {
	return &LoanRequest{
		PatronID:     testPatronID,
		BookID:       testBookID,
		EmployeeID:   testEmployeeID,
		IssueDate:    NewDate(2025, 4, 10),
		CheckoutDate: NewDate(2025, 4, 10),
		ReturnDate:   NewDate(2025, 4, 17),
		Status:       StatusCheckedOut,
	}
}

func storedLoan(loanID, patronID string, status Status) *Loan {
	return &Loan{
		LoanID:   loanID,
		Patron:   PatronSnapshot{PatronID: patronID, FirstName: "John", LastName: "Doe"},
		Employee: EmployeeSnapshot{EmployeeID: testEmployeeID, FirstName: "Vilma", LastName: "Chawner"},
		Book: BookSnapshot{
			BookID: testBookID, ISBN: "978-0-7432-7356-5", Title: "A Brief History of Time",
			AuthorFirstName: "Stephen", AuthorLastName: "Hawking", Genre: "SCIENCE", BookType: "PAPERBACK",
		},
		IssueDate:    NewDate(2025, 4, 10),
		CheckoutDate: NewDate(2025, 4, 10),
		ReturnDate:   NewDate(2025, 4, 17),
		Status:       status,
	}
}
