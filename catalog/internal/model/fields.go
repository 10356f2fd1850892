package model

// Field describes a form field: its label and length bound.
type Field struct {
	Name      string
	Label     string
	MaxLength int
	HelpText  string
}

type Fields []Field

func (fs Fields) Get(name string) (Field, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label returns the field label or the name itself for unknown fields.
func (fs Fields) Label(name string) string {
	if f, ok := fs.Get(name); ok {
		return f.Label
	}
	return name
}

var (
	AuthorFields = Fields{
		{Name: "first_name", Label: "first name", MaxLength: 100},
		{Name: "last_name", Label: "last name", MaxLength: 100},
		{Name: "date_of_birth", Label: "date of birth"},
		{Name: "date_of_death", Label: "died"},
	}
	LanguageFields = Fields{
		{Name: "name", Label: "name", MaxLength: 200, HelpText: "Enter the book's natural language (e.g. English, French, Japanese etc.)"},
	}
	GenreFields = Fields{
		{Name: "name", Label: "name", MaxLength: 200, HelpText: "Enter a book genre (e.g. Science Fiction, French Poetry etc.)"},
	}
	BookFields = Fields{
		{Name: "title", Label: "title", MaxLength: 200},
		{Name: "author", Label: "author"},
		{Name: "summary", Label: "summary", MaxLength: 1000, HelpText: "Enter a brief description of the book"},
		{Name: "isbn", Label: "ISBN", MaxLength: 13, HelpText: "13 Character ISBN number"},
		{Name: "genre", Label: "genre", HelpText: "Select a genre for this book"},
		{Name: "language", Label: "language"},
	}
	BookInstanceFields = Fields{
		{Name: "book", Label: "book"},
		{Name: "imprint", Label: "imprint", MaxLength: 200},
		{Name: "due_back", Label: "due back"},
		{Name: "borrower", Label: "borrower"},
		{Name: "status", Label: "status", MaxLength: 1, HelpText: "Book availability"},
	}
)
