package model

import (
	"maps"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PriceBook is a versioned set of food price overrides owned by a user.
// Only one version per user is active at a time.
//
// @Description User food prices
type PriceBook struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id" swaggertype:"string"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" swaggertype:"string"`
	Prices    map[string]float64 `bson:"prices" json:"prices"`
	Version   int                `bson:"version" json:"version" example:"3"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	CreatedBy string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
}

// Merge returns the book's prices overlaid with overrides.
func (b *PriceBook) Merge(overrides map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	if b != nil {
		maps.Copy(out, b.Prices)
	}
	maps.Copy(out, overrides)
	return out
}
