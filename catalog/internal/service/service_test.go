package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
	"github.com/Astemirdum/catalog-service/catalog/internal/service"
	"github.com/Astemirdum/catalog-service/pkg/auth"
	"github.com/Astemirdum/catalog-service/pkg/kafka"

	repo_mocks "github.com/Astemirdum/catalog-service/catalog/internal/repository/mocks"
)

var now = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

type recordingEnqueuer struct {
	mu     sync.Mutex
	err    error
	events []kafka.EventCatalog
}

func (q *recordingEnqueuer) Enqueue(topic string, v any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if topic != kafka.CatalogTopic {
		return errors.Errorf("unexpected topic %s", topic)
	}
	q.events = append(q.events, v.(kafka.EventCatalog))
	return q.err
}

func newService(t *testing.T) (*service.Service, *repo_mocks.MockRepository, *recordingEnqueuer) {
	t.Helper()
	c := gomock.NewController(t)
	repo := repo_mocks.NewMockRepository(c)
	q := &recordingEnqueuer{}
	svc := service.NewService(repo, q, zap.NewExample().Named("test"), service.WithClock(func() time.Time { return now }))
	return svc, repo, q
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestService_Today(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	require.Equal(t, date(2024, time.March, 10), svc.Today())
}

func TestService_Index(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().CountBooks(gomock.Any(), "").Return(12, nil)
		repo.EXPECT().CountBooks(gomock.Any(), service.DefaultTitleFilter).Return(7, nil)
		repo.EXPECT().CountBookInstances(gomock.Any(), model.LoanStatus("")).Return(30, nil)
		repo.EXPECT().CountBookInstances(gomock.Any(), model.StatusAvailable).Return(4, nil)
		repo.EXPECT().CountAuthors(gomock.Any()).Return(5, nil)
		repo.EXPECT().CountGenres(gomock.Any()).Return(3, nil)

		stats, err := svc.Index(ctx, "")
		require.NoError(t, err)
		require.Equal(t, model.IndexStats{
			NumBooks:              12,
			NumInstances:          30,
			NumInstancesAvailable: 4,
			NumAuthors:            5,
			NumGenres:             3,
			NumBooksAvailable:     7,
		}, stats)
	})

	t.Run("err. db", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().CountBooks(gomock.Any(), gomock.Any()).Return(0, errors.New("db internal")).AnyTimes()
		repo.EXPECT().CountBookInstances(gomock.Any(), gomock.Any()).Return(1, nil).AnyTimes()
		repo.EXPECT().CountAuthors(gomock.Any()).Return(1, nil).AnyTimes()
		repo.EXPECT().CountGenres(gomock.Any()).Return(1, nil).AnyTimes()

		_, err := svc.Index(ctx, "war")
		require.EqualError(t, err, "db internal")
	})
}

func TestService_GetAuthor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		author := model.Author{ID: 1, FirstName: "Ursula", LastName: "Le Guin"}
		books := []model.Book{{ID: 2, Title: "The Dispossessed"}}
		repo.EXPECT().GetAuthor(ctx, 1).Return(author, nil)
		repo.EXPECT().ListBooksByAuthor(ctx, 1).Return(books, nil)

		got, err := svc.GetAuthor(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, model.AuthorDetail{Author: author, Books: books}, got)
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().GetAuthor(ctx, 99).Return(model.Author{}, errs.ErrNotFound)

		_, err := svc.GetAuthor(ctx, 99)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_GetBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	authorID, languageID := 3, 4
	book := model.Book{ID: 1, Title: "Dune", AuthorID: &authorID, LanguageID: &languageID}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		author := model.Author{ID: authorID, FirstName: "Frank", LastName: "Herbert"}
		lang := model.Language{ID: languageID, Name: "English"}
		genres := []model.Genre{{ID: 1, Name: "Science Fiction"}}
		instances := []model.BookInstance{{ID: "f7cdc58f-2caf-4b15-9727-f89dcc629b27", BookID: 1, Status: model.StatusAvailable}}

		repo.EXPECT().GetBook(ctx, 1).Return(book, nil)
		repo.EXPECT().GetAuthor(gomock.Any(), authorID).Return(author, nil)
		repo.EXPECT().GetLanguage(gomock.Any(), languageID).Return(lang, nil)
		repo.EXPECT().GetBookGenres(gomock.Any(), 1).Return(genres, nil)
		repo.EXPECT().ListBookInstancesByBook(gomock.Any(), 1).Return(instances, nil)

		got, err := svc.GetBook(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, model.BookDetail{
			Book:      book,
			Author:    &author,
			Language:  &lang,
			Genres:    genres,
			Instances: instances,
		}, got)
	})

	t.Run("ok. missing language", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().GetBook(ctx, 1).Return(book, nil)
		repo.EXPECT().GetAuthor(gomock.Any(), authorID).Return(model.Author{ID: authorID}, nil)
		repo.EXPECT().GetLanguage(gomock.Any(), languageID).Return(model.Language{}, errs.ErrNotFound)
		repo.EXPECT().GetBookGenres(gomock.Any(), 1).Return(nil, nil)
		repo.EXPECT().ListBookInstancesByBook(gomock.Any(), 1).Return(nil, nil)

		got, err := svc.GetBook(ctx, 1)
		require.NoError(t, err)
		require.Nil(t, got.Language)
		require.NotNil(t, got.Author)
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().GetBook(ctx, 100).Return(model.Book{}, errs.ErrNotFound)

		_, err := svc.GetBook(ctx, 100)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestService_CreateAuthor(t *testing.T) {
	t.Parallel()
	ctx := auth.SetAuthContext(context.Background(), 7, "librarian")

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, q := newService(t)
		born := date(1920, time.January, 2)
		repo.EXPECT().
			CreateAuthor(ctx, model.Author{FirstName: "Isaac", LastName: "Asimov", DateOfBirth: &born}).
			Return(model.Author{ID: 11, FirstName: "Isaac", LastName: "Asimov", DateOfBirth: &born}, nil)

		got, err := svc.CreateAuthor(ctx, model.AuthorForm{FirstName: " Isaac ", LastName: "Asimov", DateOfBirth: "1920-01-02"})
		require.NoError(t, err)
		require.Equal(t, 11, got.ID)
		require.Len(t, q.events, 1)
		require.Equal(t, kafka.EventCreated, q.events[0].EventType)
		require.Equal(t, "author", q.events[0].Entity)
		require.Equal(t, "11", q.events[0].EntityID)
		require.Equal(t, "librarian", q.events[0].UserName)
		require.Equal(t, 7, q.events[0].UserID)
		require.True(t, now.Equal(q.events[0].Timestamp))
	})

	t.Run("err. died before born", func(t *testing.T) {
		t.Parallel()
		svc, _, q := newService(t)

		_, err := svc.CreateAuthor(ctx, model.AuthorForm{
			FirstName:   "Isaac",
			LastName:    "Asimov",
			DateOfBirth: "1920-01-02",
			DateOfDeath: "1919-01-02",
		})
		var vErr *errs.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Contains(t, vErr.Fields, "date_of_death")
		require.Empty(t, q.events)
	})

	t.Run("ok. enqueue failure is not fatal", func(t *testing.T) {
		t.Parallel()
		svc, repo, q := newService(t)
		q.err = errors.New("kafka down")
		repo.EXPECT().CreateAuthor(ctx, gomock.Any()).Return(model.Author{ID: 12}, nil)

		_, err := svc.CreateAuthor(ctx, model.AuthorForm{FirstName: "A", LastName: "B"})
		require.NoError(t, err)
	})
}

func TestService_DeleteAuthor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, q := newService(t)
		repo.EXPECT().DeleteAuthor(ctx, 3).Return(nil)

		require.NoError(t, svc.DeleteAuthor(ctx, 3))
		require.Len(t, q.events, 1)
		require.Equal(t, kafka.EventDeleted, q.events[0].EventType)
	})

	t.Run("err. referenced", func(t *testing.T) {
		t.Parallel()
		svc, repo, q := newService(t)
		repo.EXPECT().DeleteAuthor(ctx, 3).Return(errs.ErrReferenced)

		require.ErrorIs(t, svc.DeleteAuthor(ctx, 3), errs.ErrReferenced)
		require.Empty(t, q.events)
	})
}

func TestService_UpdateBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo, q := newService(t)

	form := model.BookForm{Title: "Dune", AuthorID: 3, Summary: "Spice.", ISBN: "9780441013593", GenreIDs: []int{1, 2}, LanguageID: 4}
	want, err := form.Book()
	require.NoError(t, err)
	want.ID = 5
	repo.EXPECT().UpdateBook(ctx, want, []int{1, 2}).Return(want, nil)

	got, err := svc.UpdateBook(ctx, 5, form)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Len(t, q.events, 1)
	require.Equal(t, kafka.EventUpdated, q.events[0].EventType)
	require.Equal(t, "book", q.events[0].Entity)

	form.Title = "   "
	_, err = svc.UpdateBook(ctx, 5, form)
	var vErr *errs.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, model.MsgRequired, vErr.Fields["title"])
	require.Len(t, q.events, 1)
}

func TestService_RenewBookInstance(t *testing.T) {
	t.Parallel()
	const id = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
	ctx := context.Background()

	tests := []struct {
		name    string
		dueBack string
		wantMsg string
	}{
		{name: "ok. next week", dueBack: "2024-03-17"},
		{name: "ok. today", dueBack: "2024-03-10"},
		{name: "ok. four weeks ahead", dueBack: "2024-04-07"},
		{name: "err. yesterday", dueBack: "2024-03-09", wantMsg: model.MsgRenewalInPast},
		{name: "err. four weeks and a day", dueBack: "2024-04-08", wantMsg: model.MsgRenewalTooFar},
		{name: "err. not a date", dueBack: "10/03/2024", wantMsg: model.MsgInvalidDate},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, q := newService(t)
			if tt.wantMsg == "" {
				d, err := time.Parse(model.DateLayout, tt.dueBack)
				require.NoError(t, err)
				repo.EXPECT().GetBookInstance(ctx, id).Return(model.BookInstance{ID: id, Status: model.StatusOnLoan}, nil)
				repo.EXPECT().UpdateDueBack(ctx, id, d).Return(nil)
			}

			err := svc.RenewBookInstance(ctx, id, model.RenewForm{DueBack: tt.dueBack})
			if tt.wantMsg == "" {
				require.NoError(t, err)
				require.Len(t, q.events, 1)
				require.Equal(t, kafka.EventRenewed, q.events[0].EventType)
				require.Equal(t, id, q.events[0].EntityID)
				return
			}
			var vErr *errs.ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Equal(t, tt.wantMsg, vErr.Fields["due_back"])
			require.Empty(t, q.events)
		})
	}
}

func TestService_RenewBookInstance_Stored(t *testing.T) {
	t.Parallel()
	const id = "f7cdc58f-2caf-4b15-9727-f89dcc629b27"
	ctx := context.Background()
	form := model.RenewForm{DueBack: "2024-03-17"}

	t.Run("err. unknown copy", func(t *testing.T) {
		t.Parallel()
		svc, repo, q := newService(t)
		repo.EXPECT().GetBookInstance(ctx, id).Return(model.BookInstance{}, errs.ErrNotFound)

		require.ErrorIs(t, svc.RenewBookInstance(ctx, id, form), errs.ErrNotFound)
		require.Empty(t, q.events)
	})

	t.Run("err. unknown status", func(t *testing.T) {
		t.Parallel()
		svc, repo, q := newService(t)
		repo.EXPECT().GetBookInstance(ctx, id).Return(model.BookInstance{ID: id, Status: "x"}, nil)

		err := svc.RenewBookInstance(ctx, id, form)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid status")
		require.Empty(t, q.events)
	})
}

func TestService_ListLoans(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.PageRequest{Number: 1}

	t.Run("by borrower", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().ListLoans(ctx, 7, req).Return(model.ListBookInstances{Paging: model.Paging{Page: 1, NumPages: 1}}, nil)

		_, err := svc.ListLoansByBorrower(ctx, 7, req)
		require.NoError(t, err)
	})

	t.Run("by anonymous", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		_, err := svc.ListLoansByBorrower(ctx, 0, req)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("all", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().ListLoans(ctx, 0, req).Return(model.ListBookInstances{}, nil)

		_, err := svc.ListAllLoans(ctx, req)
		require.NoError(t, err)
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{ID: 1, Username: "admin", PasswordHash: string(hash)}

	tests := []struct {
		name     string
		password string
		repoErr  error
		wantErr  error
	}{
		{name: "ok", password: "s3cret"},
		{name: "err. wrong password", password: "secret", wantErr: errs.ErrInvalidCredentials},
		{name: "err. unknown user", password: "s3cret", repoErr: errs.ErrNotFound, wantErr: errs.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, _ := newService(t)
			if tt.repoErr != nil {
				repo.EXPECT().GetUserByUsername(ctx, "admin").Return(model.User{}, tt.repoErr)
			} else {
				repo.EXPECT().GetUserByUsername(ctx, "admin").Return(user, nil)
			}

			got, err := svc.Authenticate(ctx, "admin", tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, user, got)
		})
	}
}

func TestService_EnsureSuperuser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, repo, _ := newService(t)
		repo.EXPECT().UpsertSuperuser(ctx, "admin", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, hash string) error {
				return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret"))
			})

		require.NoError(t, svc.EnsureSuperuser(ctx, "admin", "s3cret"))
	})

	t.Run("ok. disabled", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)
		require.NoError(t, svc.EnsureSuperuser(ctx, "", ""))
	})

	t.Run("err. empty password", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)
		require.Error(t, svc.EnsureSuperuser(ctx, "admin", ""))
	})
}
