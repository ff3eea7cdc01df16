package service

import (
	"Reunite/internal/model"
	"Reunite/internal/pkg/mongo"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// 服务层测试用的内存实现，语义对齐各自的存储层实现

type fakeUnreadCache struct {
	mu          sync.Mutex
	store       map[string]int64
	invalidated []string
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{store: make(map[string]int64)}
}

func (c *fakeUnreadCache) Get(_ context.Context, key string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	return v, ok, nil
}

func (c *fakeUnreadCache) Set(_ context.Context, key string, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = count
	return nil
}

func (c *fakeUnreadCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs []*mongo.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, msg *mongo.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	clone := *msg
	r.msgs = append(r.msgs, &clone)
	return nil
}

func (r *fakeMessageRepo) GetInbox(_ context.Context, userID uint64, limit, offset int64) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*mongo.Message
	for _, m := range r.msgs {
		if m.ToID == userID {
			clone := *m
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= int64(len(list)) {
		return nil, nil
	}
	list = list[offset:]
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeMessageRepo) MarkAsRead(_ context.Context, userID uint64, msgID string) (*mongo.Message, error) {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, mongoDB.ErrNoDocuments
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == objectID && m.ToID == userID {
			m.IsRead = true
			clone := *m
			return &clone, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (r *fakeMessageRepo) Delete(_ context.Context, userID uint64, msgID string) (*mongo.Message, error) {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, mongoDB.ErrNoDocuments
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.msgs {
		if m.ID == objectID && m.ToID == userID {
			clone := *m
			r.msgs = append(r.msgs[:i], r.msgs[i+1:]...)
			return &clone, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (r *fakeMessageRepo) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.msgs {
		if m.ToID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) GetRecentUnread(_ context.Context, since time.Time, limit int64) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*mongo.Message
	for _, m := range r.msgs {
		if !m.IsRead && !m.CreatedAt.Before(since) {
			clone := *m
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	return list, nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	notices []*mongo.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *mongo.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	clone := *n
	r.notices = append(r.notices, &clone)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationList(_ context.Context, userID uint64, limit, offset int64) ([]*mongo.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*mongo.Notification
	for _, n := range r.notices {
		if n.UserID == userID {
			clone := *n
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= int64(len(list)) {
		return nil, nil
	}
	list = list[offset:]
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, userID uint64, notifyID string) (*mongo.Notification, error) {
	objectID, err := primitive.ObjectIDFromHex(notifyID)
	if err != nil {
		return nil, mongoDB.ErrNoDocuments
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notices {
		if n.ID == objectID && n.UserID == userID {
			if !n.IsRead {
				now := time.Now()
				n.IsRead = true
				n.ReadAt = &now
			}
			clone := *n
			return &clone, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var count int64
	for _, n := range r.notices {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notices {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*mongo.Notification
	var count int64
	for _, n := range r.notices {
		if n.IsRead && n.ReadAt != nil && n.ReadAt.Before(cutoff) {
			count++
			continue
		}
		kept = append(kept, n)
	}
	r.notices = kept
	return count, nil
}

func (r *fakeNotificationRepo) byUser(userID uint64) []*mongo.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*mongo.Notification
	for _, n := range r.notices {
		if n.UserID == userID {
			clone := *n
			list = append(list, &clone)
		}
	}
	return list
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*model.User)}
}

func (r *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			clone := *u
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username != nil && *u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) add(u *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID > r.nextID {
		r.nextID = u.ID
	}
	r.users[u.ID] = u
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[uint64]*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[uint64]*model.Report)}
}

func (r *fakeReportRepo) GetReportById(_ context.Context, id uint64) (*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	clone := *rep
	return &clone, nil
}

func (r *fakeReportRepo) ExistsById(_ context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.reports[id]
	return ok, nil
}

func (r *fakeReportRepo) CreateReport(_ context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *fakeReportRepo) UpdateStatus(_ context.Context, id uint64, status int8) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[id]
	if !ok {
		return 0, nil
	}
	rep.Status = status
	return 1, nil
}

func (r *fakeReportRepo) AddViewCount(_ context.Context, id uint64, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep, ok := r.reports[id]; ok {
		rep.ViewCount += delta
	}
	return nil
}

type fakeViewCounter struct {
	mu       sync.Mutex
	counters map[uint64]int64
	dirty    map[uint64]bool
}

func newFakeViewCounter() *fakeViewCounter {
	return &fakeViewCounter{
		counters: make(map[uint64]int64),
		dirty:    make(map[uint64]bool),
	}
}

func (c *fakeViewCounter) Seed(_ context.Context, reportID uint64, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.counters[reportID]; !ok {
		c.counters[reportID] = value
	}
	return nil
}

func (c *fakeViewCounter) Incr(_ context.Context, reportID uint64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[reportID]++
	return c.counters[reportID], nil
}

func (c *fakeViewCounter) Current(_ context.Context, reportID uint64) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.counters[reportID]
	return v, ok, nil
}

func (c *fakeViewCounter) MarkDirty(_ context.Context, reportID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[reportID] = true
	return nil
}
