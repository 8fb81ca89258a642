package models

import "time"

// User carries only the progress fields this service owns. Identity
// and profile live with the auth service.
type User struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Username         string    `bson:"username" json:"username"`
	RoadmapIDs       []string  `bson:"roadmaps" json:"roadmaps"`
	CompletedLessons []string  `bson:"completed_lessons" json:"completed_lessons"`
	TaskIDs          []string  `bson:"tasks" json:"tasks"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

func (u *User) IsEnrolled(roadmapID string) bool {
	for _, id := range u.RoadmapIDs {
		if id == roadmapID {
			return true
		}
	}
	return false
}

func (u *User) HasCompleted(lessonID string) bool {
	for _, id := range u.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// CompletedSet materializes the completed lessons as a set for the
// gating checks.
func (u *User) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(u.CompletedLessons))
	for _, id := range u.CompletedLessons {
		set[id] = true
	}
	return set
}
