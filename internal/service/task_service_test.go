package service

import (
	"context"
	"testing"

	"roadmap-service/internal/apperror"

	"go.mongodb.org/mongo-driver/bson"
)

// The session upsert $pushes onto user_sessions, and $push onto a BSON
// null is a server-side error. A freshly generated task must therefore
// marshal the field as an empty array.
func TestGenerateTaskMarshalsSessionsAsArray(t *testing.T) {
	f := newFixture()
	f.seedRoadmap()

	task, err := f.tasks.Generate(context.Background(), "u1", f.db.categories["c1"])
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	raw, err := bson.Marshal(task)
	if err != nil {
		t.Fatalf("marshal task: %v", err)
	}
	value, err := bson.Raw(raw).LookupErr("user_sessions")
	if err != nil {
		t.Fatalf("user_sessions missing from marshaled task: %v", err)
	}
	if value.Type != bson.TypeArray {
		t.Errorf("user_sessions marshals as %s, want array", value.Type)
	}
}

func TestGetForUser(t *testing.T) {
	f := newFixture()
	taskID := f.seedTask()

	task, err := f.tasks.GetForUser(context.Background(), "u1", taskID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if task.ID != taskID {
		t.Errorf("task id = %q, want %q", task.ID, taskID)
	}

	_, err = f.tasks.GetForUser(context.Background(), "u2", taskID)
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("expected forbidden for another user, got %v", err)
	}
}
