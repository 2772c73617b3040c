package database

import (
	"context"
	"database/sql"

	"innkeeper/internal/models"
)

// CreateRecipe inserts a recipe.
func (db *DB) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	result, err := db.ExecContext(ctx, `
		INSERT INTO recipes (name, ingredients, instructions, image, category_id)
		VALUES (?, ?, ?, ?, ?)`,
		recipe.Name, recipe.Ingredients, recipe.Instructions, recipe.Image, recipe.CategoryID,
	)
	if err != nil {
		return translateErr(err)
	}
	recipe.ID, err = result.LastInsertId()
	return err
}

// FindRecipe returns a recipe by id.
func (db *DB) FindRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var r models.Recipe
	var categoryID sql.NullInt64
	err := db.QueryRowContext(ctx, `
		SELECT id, name, ingredients, instructions, image, category_id
		FROM recipes WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Ingredients, &r.Instructions, &r.Image, &categoryID)
	if err != nil {
		return nil, translateErr(err)
	}
	if categoryID.Valid {
		r.CategoryID = &categoryID.Int64
	}
	return &r, nil
}

// ListRecipes returns recipes, optionally filtered by category.
// categoryID <= 0 means no filter.
func (db *DB) ListRecipes(ctx context.Context, categoryID int64) ([]models.Recipe, error) {
	query := `SELECT id, name, ingredients, instructions, image, category_id FROM recipes`
	args := []any{}
	if categoryID > 0 {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var r models.Recipe
		var cid sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Name, &r.Ingredients, &r.Instructions, &r.Image, &cid); err != nil {
			return nil, err
		}
		if cid.Valid {
			r.CategoryID = &cid.Int64
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// UpdateRecipe rewrites a recipe.
func (db *DB) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	result, err := db.ExecContext(ctx, `
		UPDATE recipes SET name = ?, ingredients = ?, instructions = ?, image = ?, category_id = ?
		WHERE id = ?`,
		recipe.Name, recipe.Ingredients, recipe.Instructions, recipe.Image, recipe.CategoryID, recipe.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe.
func (db *DB) DeleteRecipe(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateCategory inserts a recipe category.
func (db *DB) CreateCategory(ctx context.Context, category *models.Category) error {
	result, err := db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, category.Name)
	if err != nil {
		return translateErr(err)
	}
	category.ID, err = result.LastInsertId()
	return err
}

// ListCategories returns all recipe categories.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category; recipes in it are kept with their
// category unset (ON DELETE SET NULL).
func (db *DB) DeleteCategory(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
