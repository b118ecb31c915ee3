package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedPlan is a PlanResult persisted under a name by its owner.
//
// @Description Saved weekly plan
type SavedPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id" swaggertype:"string" example:"6650c1f1a2b3c4d5e6f70812"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" swaggertype:"string"`
	PlanName  string             `bson:"plan_name" json:"plan_name" example:"October week 2"`
	Plan      PlanResult         `bson:"plan" json:"plan"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
