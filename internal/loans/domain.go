package loans

// idLength is the exact length of every identifier on the wire.
const idLength = 36

// Status is the lifecycle state of a loan.
type Status string

const (
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusReturned   Status = "RETURNED"
)

// PatronSnapshot is a point-in-time copy of the member who holds the
// loan. Snapshots are embedded by value and never re-fetched after
// being written; they can drift from the owning service's record.
type PatronSnapshot struct {
	PatronID  string `json:"patronId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// EmployeeSnapshot is a point-in-time copy of the staff member who
// processed the loan.
type EmployeeSnapshot struct {
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// BookSnapshot is a point-in-time copy of the catalog item.
type BookSnapshot struct {
	BookID          string `json:"bookId"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Genre           string `json:"genre"`
	BookType        string `json:"bookType"`
}

// Loan links one patron, one book and one staff processor. The loan id
// is generated at creation and immutable; everything else is
// overwritten in place by updates.
type Loan struct {
	LoanID       string           `json:"loanId"`
	Patron       PatronSnapshot   `json:"patron"`
	Employee     EmployeeSnapshot `json:"employee"`
	Book         BookSnapshot     `json:"book"`
	IssueDate    Date             `json:"issueDate"`
	CheckoutDate Date             `json:"checkoutDate"`
	ReturnDate   Date             `json:"returnDate"`
	Status       Status           `json:"status"`
}

// LoanRequest is the inbound body for creating or updating a loan.
type LoanRequest struct {
	PatronID     string `json:"patronId" validate:"required,len=36"`
	BookID       string `json:"bookId" validate:"required,len=36"`
	EmployeeID   string `json:"employeeId" validate:"required,len=36"`
	IssueDate    Date   `json:"issueDate"`
	CheckoutDate Date   `json:"checkoutDate"`
	ReturnDate   Date   `json:"returnDate"`
	Status       Status `json:"status" validate:"required,oneof=CHECKED_OUT RETURNED"`
}

// LoanResponse is the flattened view composed from the snapshots
// gathered during orchestration.
type LoanResponse struct {
	LoanID            string `json:"loanId"`
	PatronID          string `json:"patronId"`
	PatronFirstName   string `json:"patronFirstName"`
	PatronLastName    string `json:"patronLastName"`
	EmployeeID        string `json:"employeeId"`
	EmployeeFirstName string `json:"employeeFirstName"`
	EmployeeLastName  string `json:"employeeLastName"`
	BookID            string `json:"bookId"`
	ISBN              string `json:"isbn"`
	Title             string `json:"title"`
	AuthorFirstName   string `json:"authorFirstName"`
	AuthorLastName    string `json:"authorLastName"`
	Genre             string `json:"genre"`
	BookType          string `json:"bookType"`
	IssueDate         Date   `json:"issueDate"`
	CheckoutDate      Date   `json:"checkoutDate"`
	ReturnDate        Date   `json:"returnDate"`
	Status            Status `json:"status"`
}

func toResponse(loan *Loan) *LoanResponse {
	return &LoanResponse{
		LoanID:            loan.LoanID,
		PatronID:          loan.Patron.PatronID,
		PatronFirstName:   loan.Patron.FirstName,
		PatronLastName:    loan.Patron.LastName,
		EmployeeID:        loan.Employee.EmployeeID,
		EmployeeFirstName: loan.Employee.FirstName,
		EmployeeLastName:  loan.Employee.LastName,
		BookID:            loan.Book.BookID,
		ISBN:              loan.Book.ISBN,
		Title:             loan.Book.Title,
		AuthorFirstName:   loan.Book.AuthorFirstName,
		AuthorLastName:    loan.Book.AuthorLastName,
		Genre:             loan.Book.Genre,
		BookType:          loan.Book.BookType,
		IssueDate:         loan.IssueDate,
		CheckoutDate:      loan.CheckoutDate,
		ReturnDate:        loan.ReturnDate,
		Status:            loan.Status,
	}
}
