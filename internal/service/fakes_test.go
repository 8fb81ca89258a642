package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"roadmap-service/internal/apperror"
	"roadmap-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// memDB backs the store interfaces for service tests. Its transaction
// runner snapshots the whole database and restores it when the
// callback fails, mirroring commit-or-abort semantics.
type memDB struct {
	mu          sync.Mutex
	users       map[string]*models.User
	roadmaps    map[string]*models.Roadmap
	stages      map[string]*models.Stage
	categories  map[string]*models.Category
	lessons     map[string]*models.Lesson
	pools       map[string]*models.QuestionPool
	tasks       map[string]*models.Task
	submissions map[string]*models.Submission
	nextID      int
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[string]*models.User{},
		roadmaps:    map[string]*models.Roadmap{},
		stages:      map[string]*models.Stage{},
		categories:  map[string]*models.Category{},
		lessons:     map[string]*models.Lesson{},
		pools:       map[string]*models.QuestionPool{},
		tasks:       map[string]*models.Task{},
		submissions: map[string]*models.Submission{},
	}
}

func deepCopy[T any](v *T) *T {
	b, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var c T
	if err := bson.Unmarshal(b, &c); err != nil {
		panic(err)
	}
	return &c
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

func (d *memDB) snapshot() *memDB {
	return &memDB{
		users:       cloneMap(d.users),
		roadmaps:    cloneMap(d.roadmaps),
		stages:      cloneMap(d.stages),
		categories:  cloneMap(d.categories),
		lessons:     cloneMap(d.lessons),
		pools:       cloneMap(d.pools),
		tasks:       cloneMap(d.tasks),
		submissions: cloneMap(d.submissions),
		nextID:      d.nextID,
	}
}

func (d *memDB) restore(s *memDB) {
	d.users = s.users
	d.roadmaps = s.roadmaps
	d.stages = s.stages
	d.categories = s.categories
	d.lessons = s.lessons
	d.pools = s.pools
	d.tasks = s.tasks
	d.submissions = s.submissions
	d.nextID = s.nextID
}

func (d *memDB) txn(ctx context.Context, fn func(context.Context) error) error {
	snap := d.snapshot()
	if err := fn(ctx); err != nil {
		d.restore(snap)
		return err
	}
	return nil
}

func (d *memDB) genID(prefix string) string {
	d.nextID++
	return prefix + string(rune('0'+d.nextID))
}

func addToSet(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

type memPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *memPublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *memPublisher) has(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == eventType {
			return true
		}
	}
	return false
}

type memUsers struct{ db *memDB }

func (m memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.db.users[id]; ok {
		return deepCopy(u), nil
	}
	return nil, apperror.NotFound("user not found")
}

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.db.users[user.ID] = deepCopy(user)
	return nil
}

func (m memUsers) AddRoadmap(_ context.Context, userID, roadmapID string) error {
	u := m.db.users[userID]
	u.RoadmapIDs = addToSet(u.RoadmapIDs, roadmapID)
	return nil
}

func (m memUsers) AddCompletedLesson(_ context.Context, userID, lessonID string) error {
	u := m.db.users[userID]
	u.CompletedLessons = addToSet(u.CompletedLessons, lessonID)
	return nil
}

func (m memUsers) AddTask(_ context.Context, userID, taskID string) error {
	u := m.db.users[userID]
	u.TaskIDs = addToSet(u.TaskIDs, taskID)
	return nil
}

func (m memUsers) PullCompletedLessons(_ context.Context, lessonIDs []string) error {
	drop := make(map[string]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		drop[id] = true
	}
	for _, u := range m.db.users {
		kept := u.CompletedLessons[:0]
		for _, id := range u.CompletedLessons {
			if !drop[id] {
				kept = append(kept, id)
			}
		}
		u.CompletedLessons = kept
	}
	return nil
}

type memRoadmaps struct{ db *memDB }

func (m memRoadmaps) FindByID(_ context.Context, id string) (*models.Roadmap, error) {
	if r, ok := m.db.roadmaps[id]; ok {
		return deepCopy(r), nil
	}
	return nil, apperror.NotFound("roadmap not found")
}

func (m memRoadmaps) AddEnrolledUser(_ context.Context, roadmapID, userID string) error {
	r := m.db.roadmaps[roadmapID]
	r.EnrolledUsers = addToSet(r.EnrolledUsers, userID)
	return nil
}

type memStages struct{ db *memDB }

func (m memStages) FindByRoadmap(_ context.Context, roadmapID string) ([]models.Stage, error) {
	var stages []models.Stage
	for _, s := range m.db.stages {
		if s.RoadmapID == roadmapID {
			stages = append(stages, *deepCopy(s))
		}
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })
	return stages, nil
}

func (m memStages) RemoveCategory(_ context.Context, stageID, categoryID string) error {
	s := m.db.stages[stageID]
	kept := s.CategoryIDs[:0]
	for _, id := range s.CategoryIDs {
		if id != categoryID {
			kept = append(kept, id)
		}
	}
	s.CategoryIDs = kept
	return nil
}

type memCategories struct{ db *memDB }

func (m memCategories) FindByID(_ context.Context, id string) (*models.Category, error) {
	if c, ok := m.db.categories[id]; ok {
		return deepCopy(c), nil
	}
	return nil, apperror.NotFound("category not found")
}

func (m memCategories) FindByStage(_ context.Context, stageID string) ([]models.Category, error) {
	var categories []models.Category
	for _, c := range m.db.categories {
		if c.StageID == stageID {
			categories = append(categories, *deepCopy(c))
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Order < categories[j].Order })
	return categories, nil
}

func (m memCategories) AddTask(_ context.Context, categoryID, taskID string) error {
	c := m.db.categories[categoryID]
	c.TaskIDs = addToSet(c.TaskIDs, taskID)
	return nil
}

func (m memCategories) Delete(_ context.Context, id string) error {
	delete(m.db.categories, id)
	return nil
}

type memLessons struct{ db *memDB }

func (m memLessons) FindByID(_ context.Context, id string) (*models.Lesson, error) {
	if l, ok := m.db.lessons[id]; ok {
		return deepCopy(l), nil
	}
	return nil, apperror.NotFound("lesson not found")
}

func (m memLessons) FindByCategory(_ context.Context, categoryID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	for _, l := range m.db.lessons {
		if l.CategoryID == categoryID {
			lessons = append(lessons, *deepCopy(l))
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].LectureNumber < lessons[j].LectureNumber })
	return lessons, nil
}

func (m memLessons) AddCompletedBy(_ context.Context, lessonID, userID string) error {
	l := m.db.lessons[lessonID]
	l.CompletedBy = addToSet(l.CompletedBy, userID)
	return nil
}

func (m memLessons) DeleteByCategory(_ context.Context, categoryID string) error {
	for id, l := range m.db.lessons {
		if l.CategoryID == categoryID {
			delete(m.db.lessons, id)
		}
	}
	return nil
}

type memPools struct{ db *memDB }

func (m memPools) FindActiveByCategory(_ context.Context, categoryID string) ([]models.QuestionPool, error) {
	var pools []models.QuestionPool
	for _, p := range m.db.pools {
		if p.CategoryID == categoryID && p.IsActive {
			pools = append(pools, *deepCopy(p))
		}
	}
	return pools, nil
}

func (m memPools) AddTask(_ context.Context, poolID, taskID string) error {
	p := m.db.pools[poolID]
	p.TaskIDs = addToSet(p.TaskIDs, taskID)
	return nil
}

func (m memPools) DeleteByCategory(_ context.Context, categoryID string) error {
	for id, p := range m.db.pools {
		if p.CategoryID == categoryID {
			delete(m.db.pools, id)
		}
	}
	return nil
}

type memTasks struct{ db *memDB }

func (m memTasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	if t, ok := m.db.tasks[id]; ok {
		return deepCopy(t), nil
	}
	return nil, apperror.NotFound("task not found")
}

func (m memTasks) Create(_ context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = m.db.genID("task")
	}
	m.db.tasks[task.ID] = deepCopy(task)
	return nil
}

func (m memTasks) SetStatus(_ context.Context, id string, status models.TaskStatus) error {
	m.db.tasks[id].Status = status
	return nil
}

func (m memTasks) UpsertUserSession(_ context.Context, taskID, userID string, startedAt time.Time) error {
	t := m.db.tasks[taskID]
	for i := range t.UserSessions {
		if t.UserSessions[i].UserID == userID {
			t.UserSessions[i].StartedAt = startedAt
			t.UserSessions[i].Completed = false
			t.UserSessions[i].Score = 0
			return nil
		}
	}
	t.UserSessions = append(t.UserSessions, models.TaskUserSession{UserID: userID, StartedAt: startedAt})
	return nil
}

func (m memTasks) CompleteUserSession(_ context.Context, taskID, userID string, score int) error {
	t := m.db.tasks[taskID]
	for i := range t.UserSessions {
		if t.UserSessions[i].UserID == userID {
			t.UserSessions[i].Completed = true
			t.UserSessions[i].Score = score
		}
	}
	return nil
}

type memSubmissions struct{ db *memDB }

func (m memSubmissions) Create(_ context.Context, submission *models.Submission) error {
	// Mirrors the partial unique index on (task_id, user_id,
	// is_locked=false).
	for _, s := range m.db.submissions {
		if s.TaskID == submission.TaskID && s.UserID == submission.UserID && !s.IsLocked {
			return apperror.Conflict("an active submission already exists for this task")
		}
	}
	if submission.ID == "" {
		submission.ID = m.db.genID("sub")
	}
	m.db.submissions[submission.ID] = deepCopy(submission)
	return nil
}

func (m memSubmissions) FindLatestByTaskAndUser(_ context.Context, taskID, userID string) (*models.Submission, error) {
	var latest *models.Submission
	for _, s := range m.db.submissions {
		if s.TaskID != taskID || s.UserID != userID {
			continue
		}
		if latest == nil || s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, apperror.NotFound("submission not found")
	}
	return deepCopy(latest), nil
}

func (m memSubmissions) Save(_ context.Context, submission *models.Submission) error {
	m.db.submissions[submission.ID] = deepCopy(submission)
	return nil
}

func (m memSubmissions) FindByUser(_ context.Context, userID string) ([]models.Submission, error) {
	var submissions []models.Submission
	for _, s := range m.db.submissions {
		if s.UserID == userID {
			submissions = append(submissions, *deepCopy(s))
		}
	}
	return submissions, nil
}
