package loans

import (
	"context"
	"time"
)

// SeedFixtures loads a known loan so a fresh deployment has something
// to exercise the surface with. Save is an upsert, so reloading on
// every start is harmless.
func SeedFixtures(ctx context.Context, ledger Ledger) error {
	fixture := &Loan{
		LoanID: "2d8d1a47-08d8-4598-8b9d-6b2ec67dee1d",
		Patron: PatronSnapshot{
			PatronID:  "123e4567-e89b-12d3-a456-426614174000",
			FirstName: "John",
			LastName:  "Doe",
		},
		Employee: EmployeeSnapshot{
			EmployeeID: "e8a17e76-1c9f-4a6a-9342-488b7e99f0f7",
			FirstName:  "Vilma",
			LastName:   "Chawner",
		},
		Book: BookSnapshot{
			BookID:          "6fa459ea-ee8a-3ca4-894e-d6f1d55b4f2a",
			ISBN:            "978-0-7432-7356-5",
			Title:           "A Brief History of Time",
			AuthorFirstName: "Stephen",
			AuthorLastName:  "Hawking",
			Genre:           "SCIENCE",
			BookType:        "PAPERBACK",
		},
		IssueDate:    NewDate(2025, time.April, 10),
		CheckoutDate: NewDate(2025, time.April, 10),
		ReturnDate:   NewDate(2025, time.April, 17),
		Status:       StatusCheckedOut,
	}

	return ledger.Save(ctx, fixture)
}
