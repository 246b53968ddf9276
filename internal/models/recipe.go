package models

import "time"

// Recipe is owned by exactly one user.
type Recipe struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Author       User      `json:"-" gorm:"foreignKey:UserID"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Instructions string    `json:"instructions" gorm:"type:text"`
	Ingredients  string    `json:"ingredients" gorm:"type:text"`
	RecipeLink   string    `json:"recipe_link,omitempty" gorm:"size:256"`
	CreatedTime  time.Time `json:"created_time" gorm:"index;autoCreateTime"`
	// Tags are migrated but no route writes them yet.
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:recipe_tags"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex;not null"`
}
