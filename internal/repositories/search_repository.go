package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/cookbook/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// SearchIndex is the full-text search backend for recipes. Search returns
// the ids of one page of matches, best match first, and the total number of
// matches.
type SearchIndex interface {
	Index(ctx context.Context, recipe *models.Recipe) error
	Search(ctx context.Context, query string, page, perPage int) ([]uint, int64, error)
}

type searchDocument struct {
	ID           int64  `bson:"_id"`
	UserID       int64  `bson:"user_id"`
	Name         string `bson:"name"`
	Instructions string `bson:"instructions"`
	Ingredients  string `bson:"ingredients"`
}

// MongoSearchIndex keeps a copy of the searchable recipe fields in MongoDB
// behind a text index.
type MongoSearchIndex struct {
	collection *mongo.Collection
}

// NewMongoSearchIndex creates a new MongoSearchIndex
func NewMongoSearchIndex(db *mongo.Database) *MongoSearchIndex {
	return &MongoSearchIndex{collection: db.Collection("recipes")}
}

// EnsureIndexes creates the text index; names weigh more than the body.
func (s *MongoSearchIndex) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "ingredients", Value: "text"},
			{Key: "instructions", Value: "text"},
		},
		Options: options.Index().
			SetName("recipe_text").
			SetWeights(bson.D{{Key: "name", Value: 5}, {Key: "ingredients", Value: 2}, {Key: "instructions", Value: 1}}),
	})
	return err
}

// Index inserts or replaces the recipe's search document
func (s *MongoSearchIndex) Index(ctx context.Context, recipe *models.Recipe) error {
	doc := searchDocument{
		ID:           int64(recipe.ID),
		UserID:       int64(recipe.UserID),
		Name:         recipe.Name,
		Instructions: recipe.Instructions,
		Ingredients:  recipe.Ingredients,
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoSearchIndex) Search(ctx context.Context, query string, page, perPage int) ([]uint, int64, error) {
	p := models.NewPagination(page, perPage, 0)
	filter := bson.M{"$text": bson.M{"$search": query}}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	score := bson.M{"score": bson.M{"$meta": "textScore"}}
	findOptions := options.Find().
		SetProjection(bson.M{"_id": 1, "score": bson.M{"$meta": "textScore"}}).
		SetSort(score).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.PerPage))
	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var hits []struct {
		ID int64 `bson:"_id"`
	}
	if err = cursor.All(ctx, &hits); err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(hits))
	for _, h := range hits {
		if h.ID < 0 {
			return nil, 0, fmt.Errorf("invalid recipe id %d in search index", h.ID)
		}
		ids = append(ids, uint(h.ID))
	}
	return ids, total, nil
}

// SQLSearchIndex searches the recipes table directly with a case-insensitive
// substring match. It is used when no MongoDB is configured.
type SQLSearchIndex struct {
	db *gorm.DB
}

// NewSQLSearchIndex creates a new SQLSearchIndex
func NewSQLSearchIndex(db *gorm.DB) *SQLSearchIndex {
	return &SQLSearchIndex{db: db}
}

// Index is a no-op: the recipes table is the index.
func (s *SQLSearchIndex) Index(context.Context, *models.Recipe) error {
	return nil
}

func (s *SQLSearchIndex) Search(ctx context.Context, query string, page, perPage int) ([]uint, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("LOWER(name) LIKE ? OR LOWER(ingredients) LIKE ? OR LOWER(instructions) LIKE ?", pattern, pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p := models.NewPagination(page, perPage, total)

	var ids []uint
	err := q.Order("created_time DESC").Order("id DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
