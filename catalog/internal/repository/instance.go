package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

func bookInstanceQuery() sq.SelectBuilder {
	return qb.Select(
		"bi.id::text as id", "bi.book_id", "b.title as book_title", "bi.imprint",
		"bi.due_back", "bi.borrower_id", "u.username as borrower_username", "bi.status",
	).
		From(bookInstanceTableName + " bi").
		Join(fmt.Sprintf("%s b on b.id = bi.book_id", bookTableName)).
		LeftJoin(fmt.Sprintf("%s u on u.id = bi.borrower_id", usersTableName))
}

func (r *repository) ListBookInstancesByBook(ctx context.Context, bookID int) ([]model.BookInstance, error) {
	query, args, err := bookInstanceQuery().
		Where(sq.Eq{"bi.book_id": bookID}).
		OrderBy("bi.due_back nulls last", "bi.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.BookInstance])
}

// ListLoans pages the copies on loan ordered by due date.
// A zero borrowerID lists the loans of every borrower.
func (r *repository) ListLoans(ctx context.Context, borrowerID int, req model.PageRequest) (model.ListBookInstances, error) {
	cond := sq.And{sq.Eq{"bi.status": model.StatusOnLoan}}
	if borrowerID != 0 {
		cond = append(cond, sq.Eq{"bi.borrower_id": borrowerID})
	}

	total, err := r.count(ctx, qb.Select("count(*)").From(bookInstanceTableName+" bi").Where(cond))
	if err != nil {
		return model.ListBookInstances{}, err
	}
	paging, err := model.NewPaging(req, model.PaginateBy, total)
	if err != nil {
		return model.ListBookInstances{}, err
	}

	query, args, err := bookInstanceQuery().
		Where(cond).
		OrderBy("bi.due_back", "bi.id").
		Limit(uint64(paging.PageSize)).
		Offset(uint64(paging.Offset())).
		ToSql()
	if err != nil {
		return model.ListBookInstances{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBookInstances{}, err
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BookInstance])
	if err != nil {
		return model.ListBookInstances{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.ListBookInstances{Paging: paging, Items: items}, nil
}

func (r *repository) GetBookInstance(ctx context.Context, id string) (model.BookInstance, error) {
	query, args, err := bookInstanceQuery().
		Where(sq.Eq{"bi.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BookInstance{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.BookInstance{}, err
	}
	defer rows.Close()

	bi, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BookInstance])
	if err != nil {
		return model.BookInstance{}, notFound(err)
	}
	return bi, nil
}

func (r *repository) UpdateDueBack(ctx context.Context, id string, dueBack time.Time) error {
	const q = `
update book_instance
    set due_back = @due_back
where id = @id`
	args := pgx.NamedArgs{
		"id":       id,
		"due_back": dueBack,
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
