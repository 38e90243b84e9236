package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const brandColumns = `id, name, category, hq_city, hq_state, country, website,
	instagram_handle, tiktok_handle, founders, founded_year, revenue, funding,
	parent_company, notes, created_at, updated_at`

func scanBrand(row interface{ Scan(...any) error }) (Brand, error) {
	var b Brand
	err := row.Scan(
		&b.ID, &b.Name, &b.Category, &b.HqCity, &b.HqState, &b.Country,
		&b.Website, &b.InstagramHandle, &b.TiktokHandle, &b.Founders,
		&b.FoundedYear, &b.Revenue, &b.Funding, &b.ParentCompany, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func collectBrands(rows *sql.Rows) ([]Brand, error) {
	defer rows.Close()
	var brands []Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

type CreateBrandParams struct {
	ID              uuid.UUID
	Name            string
	Category        string
	HqCity          sql.NullString
	HqState         sql.NullString
	Country         sql.NullString
	Website         sql.NullString
	InstagramHandle sql.NullString
	TiktokHandle    sql.NullString
	Founders        sql.NullString
	FoundedYear     sql.NullInt32
	Revenue         sql.NullString
	Funding         sql.NullString
	ParentCompany   sql.NullString
	Notes           sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (q *Queries) CreateBrand(ctx context.Context, arg CreateBrandParams) (Brand, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO brands (id, name, category, hq_city, hq_state, country, website,
			instagram_handle, tiktok_handle, founders, founded_year, revenue, funding,
			parent_company, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+brandColumns,
		arg.ID, arg.Name, arg.Category, arg.HqCity, arg.HqState, arg.Country,
		arg.Website, arg.InstagramHandle, arg.TiktokHandle, arg.Founders,
		arg.FoundedYear, arg.Revenue, arg.Funding, arg.ParentCompany, arg.Notes,
		arg.CreatedAt, arg.UpdatedAt,
	)
	return scanBrand(row)
}

func (q *Queries) GetBrandByID(ctx context.Context, id uuid.UUID) (Brand, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+brandColumns+` FROM brands WHERE id = $1`, id)
	return scanBrand(row)
}

func (q *Queries) GetBrandByName(ctx context.Context, name string) (Brand, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+brandColumns+` FROM brands WHERE name ILIKE $1 LIMIT 1`, name)
	return scanBrand(row)
}

type ListBrandsParams struct {
	Category string
	Search   string
	Offset   int32
	Limit    int32
}

func (q *Queries) ListBrands(ctx context.Context, arg ListBrandsParams) ([]Brand, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+brandColumns+` FROM brands
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%'
			OR founders ILIKE '%' || $2 || '%'
			OR hq_city ILIKE '%' || $2 || '%'
			OR hq_state ILIKE '%' || $2 || '%')
		ORDER BY name, id
		OFFSET $3 LIMIT $4`,
		arg.Category, arg.Search, arg.Offset, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectBrands(rows)
}

func (q *Queries) ListBrandsWithHandles(ctx context.Context) ([]Brand, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+brandColumns+` FROM brands
		WHERE (tiktok_handle IS NOT NULL AND tiktok_handle <> '')
		   OR (instagram_handle IS NOT NULL AND instagram_handle <> '')
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectBrands(rows)
}

func (q *Queries) ListBrandsByIDs(ctx context.Context, ids []uuid.UUID) ([]Brand, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+brandColumns+` FROM brands WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectBrands(rows)
}

type UpdateBrandParams struct {
	ID              uuid.UUID
	Name            string
	Category        string
	HqCity          sql.NullString
	HqState         sql.NullString
	Country         sql.NullString
	Website         sql.NullString
	InstagramHandle sql.NullString
	TiktokHandle    sql.NullString
	Founders        sql.NullString
	FoundedYear     sql.NullInt32
	Revenue         sql.NullString
	Funding         sql.NullString
	ParentCompany   sql.NullString
	Notes           sql.NullString
	UpdatedAt       time.Time
}

func (q *Queries) UpdateBrand(ctx context.Context, arg UpdateBrandParams) (Brand, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE brands SET name = $2, category = $3, hq_city = $4, hq_state = $5,
			country = $6, website = $7, instagram_handle = $8, tiktok_handle = $9,
			founders = $10, founded_year = $11, revenue = $12, funding = $13,
			parent_company = $14, notes = $15, updated_at = $16
		WHERE id = $1
		RETURNING `+brandColumns,
		arg.ID, arg.Name, arg.Category, arg.HqCity, arg.HqState, arg.Country,
		arg.Website, arg.InstagramHandle, arg.TiktokHandle, arg.Founders,
		arg.FoundedYear, arg.Revenue, arg.Funding, arg.ParentCompany, arg.Notes,
		arg.UpdatedAt,
	)
	return scanBrand(row)
}

func (q *Queries) DeleteBrand(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM brands WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CategoryCountRow struct {
	Category string
	Count    int64
}

func (q *Queries) CountBrandsByCategory(ctx context.Context) ([]CategoryCountRow, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT category, COUNT(id) FROM brands GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var counts []CategoryCountRow
	for rows.Next() {
		var r CategoryCountRow
		if err := rows.Scan(&r.Category, &r.Count); err != nil {
			return nil, err
		}
		counts = append(counts, r)
	}
	return counts, rows.Err()
}
