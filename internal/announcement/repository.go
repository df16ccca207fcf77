package announcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	GetByID(ctx context.Context, id string) (*Announcement, error)
	Create(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, a *Announcement, replaceCategories bool) error
	Delete(ctx context.Context, id string) error
	FindCategoriesByCodes(ctx context.Context, codes []string) ([]Category, error)
}

// sortColumns whitelists the sortable attributes and maps them to their
// column names.
var sortColumns = map[SortField]string{
	SortByTitle:           "title",
	SortByPublicationDate: "publication_date",
	SortByLastUpdate:      "last_update",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	sql, args, err := buildListQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build list announcements query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements failed: %w", err)
	}
	defer rows.Close()

	var result []*Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.PublicationDate, &a.LastUpdate); err != nil {
			return nil, 0, fmt.Errorf("scan announcement failed: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list announcements failed: %w", err)
	}

	if err := r.attachCategories(ctx, result); err != nil {
		return nil, 0, err
	}

	// The total is computed independently under the same filter.
	total, err := r.count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *pgxRepository) count(ctx context.Context, filter Filter) (int, error) {
	sql, args, err := buildCountQuery(filter)
	if err != nil {
		return 0, fmt.Errorf("build count announcements query failed: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count announcements failed: %w", err)
	}
	return total, nil
}

func buildListQuery(filter Filter) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Unknown sort fields fall back to the default column.
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[SortByLastUpdate]
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	query := psql.Select("id", "title", "content", "publication_date", "last_update").
		From("public.announcements").
		OrderBy(column + " " + direction)
	for _, cond := range filterConditions(filter) {
		query = query.Where(cond)
	}

	return query.ToSql()
}

func buildCountQuery(filter Filter) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query := psql.Select("count(*)").From("public.announcements")
	for _, cond := range filterConditions(filter) {
		query = query.Where(cond)
	}

	return query.ToSql()
}

func filterConditions(filter Filter) []squirrel.Sqlizer {
	var where []squirrel.Sqlizer

	if filter.Search != "" {
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": "%" + filter.Search + "%"},
			squirrel.ILike{"content": "%" + filter.Search + "%"},
		})
	}

	// At-least-one membership over the requested codes.
	if len(filter.Categories) > 0 {
		where = append(where, squirrel.Expr(
			`EXISTS (
				SELECT 1 FROM public.announcement_categories ac
				JOIN public.categories c ON c.id = ac.category_id
				WHERE ac.announcement_id = announcements.id AND c.code = ANY(?)
			)`, filter.Categories))
	}

	return where
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Announcement, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "title", "content", "publication_date", "last_update").
		From("public.announcements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get announcement query failed: %w", err)
	}

	var a Announcement
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.PublicationDate, &a.LastUpdate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get announcement failed: %w", err)
	}

	if err := r.attachCategories(ctx, []*Announcement{&a}); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *pgxRepository) Create(ctx context.Context, a *Announcement) error {
	a.ID = uuid.NewString()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create announcement failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.announcements").
		Columns("id", "title", "content", "publication_date").
		Values(a.ID, a.Title, a.Content, a.PublicationDate).
		Suffix("RETURNING last_update").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create announcement query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.LastUpdate); err != nil {
		return fmt.Errorf("create announcement failed: %w", err)
	}

	if err := insertAssociations(ctx, tx, a.ID, a.Categories); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create announcement failed: %w", err)
	}
	return nil
}

// Update persists title/content and refreshes last_update. When
// replaceCategories is set, the full association set is replaced within
// the same transaction.
func (r *pgxRepository) Update(ctx context.Context, a *Announcement, replaceCategories bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update announcement failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.announcements").
		Set("title", a.Title).
		Set("content", a.Content).
		Set("last_update", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING last_update").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update announcement query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&a.LastUpdate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update announcement failed: %w", err)
	}

	if replaceCategories {
		del, delArgs, err := psql.Delete("public.announcement_categories").
			Where(squirrel.Eq{"announcement_id": a.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build clear associations query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
			return fmt.Errorf("clear associations failed: %w", err)
		}

		if err := insertAssociations(ctx, tx, a.ID, a.Categories); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update announcement failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.announcements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete announcement query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete announcement failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) FindCategoriesByCodes(ctx context.Context, codes []string) ([]Category, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "code", "label").
		From("public.categories").
		Where(squirrel.Eq{"code": codes}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find categories query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find categories failed: %w", err)
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Label); err != nil {
			return nil, fmt.Errorf("scan category failed: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// attachCategories loads the category sets for the given announcements
// with one grouped query.
func (r *pgxRepository) attachCategories(ctx context.Context, items []*Announcement) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	byID := make(map[string]*Announcement, len(items))
	for i, a := range items {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("ac.announcement_id", "c.id", "c.code", "c.label").
		From("public.announcement_categories ac").
		Join("public.categories c ON c.id = ac.category_id").
		Where(squirrel.Eq{"ac.announcement_id": ids}).
		OrderBy("c.code").
		ToSql()
	if err != nil {
		return fmt.Errorf("build load categories query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load categories failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var annID string
		var c Category
		if err := rows.Scan(&annID, &c.ID, &c.Code, &c.Label); err != nil {
			return fmt.Errorf("scan category failed: %w", err)
		}
		if a, ok := byID[annID]; ok {
			a.Categories = append(a.Categories, c)
		}
	}
	return rows.Err()
}

func insertAssociations(ctx context.Context, tx pgx.Tx, annID string, categories []Category) error {
	if len(categories) == 0 {
		return nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	insert := psql.Insert("public.announcement_categories").
		Columns("announcement_id", "category_id")
	for _, c := range categories {
		insert = insert.Values(annID, c.ID)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert associations query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert associations failed: %w", err)
	}
	return nil
}
