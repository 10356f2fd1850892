package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

func userQuery() sq.SelectBuilder {
	return qb.Select(
		"u.id", "u.username", "u.password_hash", "u.is_superuser",
		"coalesce(array_agg(p.codename) filter (where p.codename is not null), '{}') as permissions",
	).
		From(usersTableName + " u").
		LeftJoin(fmt.Sprintf("%s p on p.user_id = u.id", userPermissionsTableName)).
		GroupBy("u.id")
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := userQuery().Where(where).ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, notFound(err)
	}
	return user, nil
}

func (r *repository) GetUserByID(ctx context.Context, id int) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"u.id": id})
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"u.username": username})
}

func (r *repository) UpsertSuperuser(ctx context.Context, username, passwordHash string) error {
	const q = `
insert into users (username, password_hash, is_superuser)
values (@username, @password_hash, true)
on conflict (username) do update
    set password_hash = excluded.password_hash, is_superuser = true`
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"username":      username,
		"password_hash": passwordHash,
	})
	return err
}
