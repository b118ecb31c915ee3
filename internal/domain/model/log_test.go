package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLogEntry_Set(t *testing.T) {
	entry := &LogEntry{}
	assert.Same(t, entry, entry.Set("plan_name", "Week 19").Set("family_size", 3))
	assert.Equal(t, map[string]any{"plan_name": "Week 19", "family_size": 3}, entry.Fields)

	entry.Set("family_size", 4)
	assert.Equal(t, 4, entry.Fields["family_size"])
}

func TestLogEntry_Attribute(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name      string
		session   Session
		wantID    string
		wantEmail string
	}{
		{name: "anonymous", session: Session{}},
		{name: "signed in", session: Session{UserID: id, Email: "asha@example.com"}, wantID: id.Hex(), wantEmail: "asha@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := (&LogEntry{}).Attribute(tt.session)
			assert.Equal(t, tt.wantID, entry.UserID)
			assert.Equal(t, tt.wantEmail, entry.UserEmail)
		})
	}
}

func TestLogEntry_Fail(t *testing.T) {
	assert.Empty(t, (&LogEntry{}).Fail(nil).Error)
	assert.Equal(t, "wrong password", (&LogEntry{}).Fail(errors.New("wrong password")).Error)
}
