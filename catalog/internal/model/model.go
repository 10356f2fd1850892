package model

import (
	"fmt"
	"strings"
	"time"
)

const PaginateBy = 10

type Author struct {
	ID          int        `json:"id" db:"id"`
	FirstName   string     `json:"firstName" db:"first_name"`
	LastName    string     `json:"lastName" db:"last_name"`
	DateOfBirth *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	DateOfDeath *time.Time `json:"dateOfDeath" db:"date_of_death"`
}

func (a Author) String() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

func (a Author) URL() string {
	return fmt.Sprintf("/catalog/author/%d", a.ID)
}

type Language struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

func (l Language) String() string {
	return l.Name
}

type Genre struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

func (g Genre) String() string {
	return g.Name
}

type Book struct {
	ID         int    `json:"id" db:"id"`
	Title      string `json:"title" db:"title"`
	Summary    string `json:"summary" db:"summary"`
	ISBN       string `json:"isbn" db:"isbn"`
	AuthorID   *int   `json:"authorId" db:"author_id"`
	LanguageID *int   `json:"languageId" db:"language_id"`
}

func (b Book) String() string {
	return b.Title
}

func (b Book) URL() string {
	return fmt.Sprintf("/catalog/book/%d", b.ID)
}

// BookItem is a row of the book list: the book and its author's name.
type BookItem struct {
	Book
	AuthorFirstName *string `json:"-" db:"author_first_name"`
	AuthorLastName  *string `json:"-" db:"author_last_name"`
}

func (b BookItem) AuthorName() string {
	if b.AuthorID == nil || b.AuthorLastName == nil || b.AuthorFirstName == nil {
		return ""
	}
	return Author{LastName: *b.AuthorLastName, FirstName: *b.AuthorFirstName}.String()
}

func (b BookItem) AuthorURL() string {
	if b.AuthorID == nil {
		return ""
	}
	return Author{ID: *b.AuthorID}.URL()
}

type BookDetail struct {
	Book
	Author    *Author
	Language  *Language
	Genres    []Genre
	Instances []BookInstance
}

func (b BookDetail) GenreNames() string {
	names := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// HasGenre reports whether the genre is assigned to the book.
func (b BookDetail) HasGenre(id int) bool {
	for _, g := range b.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

type AuthorDetail struct {
	Author
	Books []Book
}

type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

var loanStatusLabels = map[LoanStatus]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

func (s LoanStatus) Valid() bool {
	_, ok := loanStatusLabels[s]
	return ok
}

func (s LoanStatus) Label() string {
	if l, ok := loanStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

type BookInstance struct {
	ID               string     `json:"id" db:"id"`
	BookID           int        `json:"bookId" db:"book_id"`
	BookTitle        string     `json:"bookTitle" db:"book_title"`
	Imprint          string     `json:"imprint" db:"imprint"`
	DueBack          *time.Time `json:"dueBack" db:"due_back"`
	BorrowerID       *int       `json:"borrowerId" db:"borrower_id"`
	BorrowerUsername *string    `json:"borrower" db:"borrower_username"`
	Status           LoanStatus `json:"status" db:"status"`
}

func (bi BookInstance) String() string {
	return fmt.Sprintf("%s (%s)", bi.ID, bi.BookTitle)
}

func (bi BookInstance) BookURL() string {
	return Book{ID: bi.BookID}.URL()
}

func (bi BookInstance) RenewURL() string {
	return fmt.Sprintf("/catalog/book/%s/renew/", bi.ID)
}

func (bi BookInstance) Borrower() string {
	if bi.BorrowerUsername == nil {
		return ""
	}
	return *bi.BorrowerUsername
}

// IsOverdue reports whether the copy was due back before today.
func (bi BookInstance) IsOverdue(today time.Time) bool {
	return bi.DueBack != nil && bi.DueBack.Before(DateOf(today))
}

// Validate checks the status code and that copies on loan carry a due date.
func (bi BookInstance) Validate() error {
	if !bi.Status.Valid() {
		return fmt.Errorf("invalid status %q", bi.Status)
	}
	if bi.Status == StatusOnLoan && bi.DueBack == nil {
		return fmt.Errorf("due back is required for a copy on loan")
	}
	return nil
}

type IndexStats struct {
	NumBooks              int
	NumInstances          int
	NumInstancesAvailable int
	NumAuthors            int
	NumGenres             int
	NumBooksAvailable     int
}

type ListAuthors struct {
	Paging `json:",inline"`
	Items  []Author `json:"items"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []BookItem `json:"items"`
}

type ListBookInstances struct {
	Paging `json:",inline"`
	Items  []BookInstance `json:"items"`
}

type BookChoices struct {
	Authors   []Author
	Genres    []Genre
	Languages []Language
}

// DateOf truncates t to its calendar date in UTC, the form dates are stored in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
