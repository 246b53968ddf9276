package repositories

import (
	"context"

	"github.com/anonto42/cookbook/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeRepository defines the interface for recipe data operations. List
// methods return recipes newest first together with the page description.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, page, perPage int) ([]models.Recipe, models.Pagination, error)
	ListRecipesByUser(ctx context.Context, userID uint, page, perPage int) ([]models.Recipe, models.Pagination, error)
	ListFollowedRecipes(ctx context.Context, userID uint, page, perPage int) ([]models.Recipe, models.Pagination, error)
	GetRecipesByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error)
}

// GormRecipeRepository implements RecipeRepository on top of GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

func (r *GormRecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Omit("Author").Create(recipe).Error
}

func (r *GormRecipeRepository) GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Tags").First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *GormRecipeRepository) ListRecipes(ctx context.Context, page, perPage int) ([]models.Recipe, models.Pagination, error) {
	return paginateRecipes(r.db.WithContext(ctx).Model(&models.Recipe{}), page, perPage)
}

func (r *GormRecipeRepository) ListRecipesByUser(ctx context.Context, userID uint, page, perPage int) ([]models.Recipe, models.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("user_id = ?", userID)
	return paginateRecipes(q, page, perPage)
}

// ListFollowedRecipes is the home feed: recipes of the users userID follows
// plus userID's own.
func (r *GormRecipeRepository) ListFollowedRecipes(ctx context.Context, userID uint, page, perPage int) ([]models.Recipe, models.Pagination, error) {
	db := r.db.WithContext(ctx)
	followed := db.Table("follows").Select("followed_id").Where("follower_id = ?", userID)
	q := db.Model(&models.Recipe{}).Where("user_id IN (?) OR user_id = ?", followed, userID)
	return paginateRecipes(q, page, perPage)
}

// GetRecipesByIDs returns the recipes in the order of ids, skipping ids that
// no longer exist.
func (r *GormRecipeRepository) GetRecipesByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Recipe
	if err := r.db.WithContext(ctx).Preload("Author").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Recipe, len(found))
	for _, recipe := range found {
		byID[recipe.ID] = recipe
	}
	ordered := make([]models.Recipe, 0, len(found))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			ordered = append(ordered, recipe)
		}
	}
	return ordered, nil
}

func paginateRecipes(q *gorm.DB, page, perPage int) ([]models.Recipe, models.Pagination, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, err
	}
	p := models.NewPagination(page, perPage, total)

	var recipes []models.Recipe
	err := q.Preload("Author").
		Order("created_time DESC").Order("id DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Find(&recipes).Error
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return recipes, p, nil
}
