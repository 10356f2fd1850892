package model

import (
	"strings"
	"time"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
)

const (
	DateLayout     = time.DateOnly
	MsgInvalidDate = "Enter a valid date."
	MsgRequired    = "This field is required."
)

// DefaultDateOfDeath is the initial value of the author create form.
var DefaultDateOfDeath = time.Date(2023, time.November, 11, 0, 0, 0, 0, time.UTC)

type AuthorForm struct {
	FirstName   string `form:"first_name" validate:"required,max=100"`
	LastName    string `form:"last_name" validate:"required,max=100"`
	DateOfBirth string `form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	DateOfDeath string `form:"date_of_death" validate:"omitempty,datetime=2006-01-02"`
}

func NewAuthorForm(a Author) AuthorForm {
	return AuthorForm{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: FormatDate(a.DateOfBirth),
		DateOfDeath: FormatDate(a.DateOfDeath),
	}
}

// TrimSpace strips the text fields, as they are stored.
func (f *AuthorForm) TrimSpace() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.DateOfDeath = strings.TrimSpace(f.DateOfDeath)
}

// Author converts a validated form; a death before birth is a field error.
func (f AuthorForm) Author() (Author, error) {
	a := Author{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
	}
	if err := required(map[string]string{"first_name": a.FirstName, "last_name": a.LastName}); err != nil {
		return Author{}, err
	}
	var err error
	if a.DateOfBirth, err = parseOptionalDate(f.DateOfBirth); err != nil {
		return Author{}, errs.NewValidationError("date_of_birth", MsgInvalidDate)
	}
	if a.DateOfDeath, err = parseOptionalDate(f.DateOfDeath); err != nil {
		return Author{}, errs.NewValidationError("date_of_death", MsgInvalidDate)
	}
	if a.DateOfBirth != nil && a.DateOfDeath != nil && a.DateOfDeath.Before(*a.DateOfBirth) {
		return Author{}, errs.NewValidationError("date_of_death", "Date of death can not be earlier than date of birth.")
	}
	return a, nil
}

type BookForm struct {
	Title      string `form:"title" validate:"required,max=200"`
	AuthorID   int    `form:"author" validate:"required"`
	Summary    string `form:"summary" validate:"required,max=1000"`
	ISBN       string `form:"isbn" validate:"required,max=13"`
	GenreIDs   []int  `form:"genre" validate:"required,min=1"`
	LanguageID int    `form:"language" validate:"required"`
}

func NewBookForm(b BookDetail) BookForm {
	f := BookForm{
		Title:   b.Title,
		Summary: b.Summary,
		ISBN:    b.ISBN,
	}
	if b.AuthorID != nil {
		f.AuthorID = *b.AuthorID
	}
	if b.LanguageID != nil {
		f.LanguageID = *b.LanguageID
	}
	for _, g := range b.Genres {
		f.GenreIDs = append(f.GenreIDs, g.ID)
	}
	return f
}

func (f *BookForm) TrimSpace() {
	f.Title = strings.TrimSpace(f.Title)
	f.Summary = strings.TrimSpace(f.Summary)
	f.ISBN = strings.TrimSpace(f.ISBN)
}

// Book converts a validated form; text fields blank after trimming are field errors.
func (f BookForm) Book() (Book, error) {
	authorID, languageID := f.AuthorID, f.LanguageID
	b := Book{
		Title:      strings.TrimSpace(f.Title),
		Summary:    strings.TrimSpace(f.Summary),
		ISBN:       strings.TrimSpace(f.ISBN),
		AuthorID:   &authorID,
		LanguageID: &languageID,
	}
	if err := required(map[string]string{"title": b.Title, "summary": b.Summary, "isbn": b.ISBN}); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (f BookForm) HasGenre(id int) bool {
	for _, g := range f.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

type RenewForm struct {
	DueBack string `form:"due_back" validate:"required,datetime=2006-01-02"`
}

func (f RenewForm) Date() (time.Time, error) {
	d, err := time.Parse(DateLayout, f.DueBack)
	if err != nil {
		return time.Time{}, errs.NewValidationError("due_back", MsgInvalidDate)
	}
	return d, nil
}

type LoginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (f *LoginForm) TrimSpace() {
	f.Username = strings.TrimSpace(f.Username)
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// required reports every named value that is empty.
func required(fields map[string]string) error {
	missing := make(map[string]string)
	for name, v := range fields {
		if v == "" {
			missing[name] = MsgRequired
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &errs.ValidationError{Fields: missing}
}
