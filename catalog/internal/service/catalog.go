package service

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/pkg/kafka"
)

const (
	entityAuthor       = "author"
	entityBook         = "book"
	entityBookInstance = "bookinstance"
)

// Index gathers the home page counters concurrently.
func (s *Service) Index(ctx context.Context, titleFilter string) (model.IndexStats, error) {
	if titleFilter == "" {
		titleFilter = DefaultTitleFilter
	}
	var stats model.IndexStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.NumBooks, err = s.repo.CountBooks(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		stats.NumInstances, err = s.repo.CountBookInstances(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		stats.NumInstancesAvailable, err = s.repo.CountBookInstances(ctx, model.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		stats.NumGenres, err = s.repo.CountGenres(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.NumBooksAvailable, err = s.repo.CountBooks(ctx, titleFilter)
		return err
	})
	g.Go(func() (err error) {
		stats.NumAuthors, err = s.repo.CountAuthors(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.IndexStats{}, err
	}
	return stats, nil
}

func (s *Service) ListAuthors(ctx context.Context, req model.PageRequest) (model.ListAuthors, error) {
	return s.repo.ListAuthors(ctx, req)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error) {
	author, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		return model.AuthorDetail{}, err
	}
	books, err := s.repo.ListBooksByAuthor(ctx, id)
	if err != nil {
		return model.AuthorDetail{}, err
	}
	return model.AuthorDetail{Author: author, Books: books}, nil
}

func (s *Service) CreateAuthor(ctx context.Context, form model.AuthorForm) (model.Author, error) {
	a, err := form.Author()
	if err != nil {
		return model.Author{}, err
	}
	author, err := s.repo.CreateAuthor(ctx, a)
	if err != nil {
		return model.Author{}, err
	}
	s.publish(ctx, kafka.EventCreated, entityAuthor, strconv.Itoa(author.ID))
	return author, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id int, form model.AuthorForm) (model.Author, error) {
	a, err := form.Author()
	if err != nil {
		return model.Author{}, err
	}
	a.ID = id
	author, err := s.repo.UpdateAuthor(ctx, a)
	if err != nil {
		return model.Author{}, err
	}
	s.publish(ctx, kafka.EventUpdated, entityAuthor, strconv.Itoa(author.ID))
	return author, nil
}

func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	if err := s.repo.DeleteAuthor(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventDeleted, entityAuthor, strconv.Itoa(id))
	return nil
}

func (s *Service) ListBooks(ctx context.Context, req model.PageRequest) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, req)
}

// GetBook loads a book with its author, language, genres and copies.
func (s *Service) GetBook(ctx context.Context, id int) (model.BookDetail, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookDetail{}, err
	}
	detail := model.BookDetail{Book: book}

	g, gctx := errgroup.WithContext(ctx)
	if book.AuthorID != nil {
		g.Go(func() error {
			author, err := s.repo.GetAuthor(gctx, *book.AuthorID)
			if err != nil {
				return ignoreNotFound(err)
			}
			detail.Author = &author
			return nil
		})
	}
	if book.LanguageID != nil {
		g.Go(func() error {
			lang, err := s.repo.GetLanguage(gctx, *book.LanguageID)
			if err != nil {
				return ignoreNotFound(err)
			}
			detail.Language = &lang
			return nil
		})
	}
	g.Go(func() (err error) {
		detail.Genres, err = s.repo.GetBookGenres(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Instances, err = s.repo.ListBookInstancesByBook(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.BookDetail{}, err
	}
	return detail, nil
}

// BookChoices lists the options of the book form selects.
func (s *Service) BookChoices(ctx context.Context) (model.BookChoices, error) {
	var choices model.BookChoices
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		choices.Authors, err = s.repo.AllAuthors(ctx)
		return err
	})
	g.Go(func() (err error) {
		choices.Genres, err = s.repo.ListGenres(ctx)
		return err
	})
	g.Go(func() (err error) {
		choices.Languages, err = s.repo.ListLanguages(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.BookChoices{}, err
	}
	return choices, nil
}

func (s *Service) CreateBook(ctx context.Context, form model.BookForm) (model.Book, error) {
	b, err := form.Book()
	if err != nil {
		return model.Book{}, err
	}
	book, err := s.repo.CreateBook(ctx, b, form.GenreIDs)
	if err != nil {
		return model.Book{}, err
	}
	s.publish(ctx, kafka.EventCreated, entityBook, strconv.Itoa(book.ID))
	return book, nil
}

func (s *Service) UpdateBook(ctx context.Context, id int, form model.BookForm) (model.Book, error) {
	b, err := form.Book()
	if err != nil {
		return model.Book{}, err
	}
	b.ID = id
	book, err := s.repo.UpdateBook(ctx, b, form.GenreIDs)
	if err != nil {
		return model.Book{}, err
	}
	s.publish(ctx, kafka.EventUpdated, entityBook, strconv.Itoa(book.ID))
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, kafka.EventDeleted, entityBook, strconv.Itoa(id))
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}
