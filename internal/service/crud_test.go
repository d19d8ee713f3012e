package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signora/eventwall/internal/model"
	"github.com/signora/eventwall/internal/repository"
)

type memPosts struct {
	mu       sync.Mutex
	posts    []model.Post
	comments []model.Comment
	users    map[string]bool
	tick     time.Time
}

func newMemPosts(users ...string) *memPosts {
	m := &memPosts{users: map[string]bool{}, tick: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, u := range users {
		m.users[u] = true
	}
	return m
}

func (m *memPosts) next() time.Time {
	m.tick = m.tick.Add(time.Second)
	return m.tick
}

func (m *memPosts) Create(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.users[p.UserID] {
		return repository.ErrNotFound
	}
	p.CreatedAt = m.next()
	m.posts = append(m.posts, *p)
	return nil
}

func (m *memPosts) ListByEvent(_ context.Context, eventID string) ([]model.Post, error) {
	all, _ := m.ListAll(context.Background())
	out := []model.Post{}
	for _, p := range all {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) ListAll(context.Context) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.Post(nil), m.posts...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// memComments shares the post list of memPosts to enforce the foreign key.
type memComments struct{ posts *memPosts }

func (m memComments) Create(_ context.Context, c *model.Comment) error {
	m.posts.mu.Lock()
	defer m.posts.mu.Unlock()
	found := false
	for _, p := range m.posts.posts {
		found = found || p.ID == c.PostID
	}
	if !found {
		return repository.ErrNotFound
	}
	c.CreatedAt = m.posts.next()
	m.posts.comments = append(m.posts.comments, *c)
	return nil
}

func (m memComments) ListByPost(_ context.Context, postID string) ([]model.Comment, error) {
	m.posts.mu.Lock()
	defer m.posts.mu.Unlock()
	out := []model.Comment{}
	for _, c := range m.posts.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestPostService(t *testing.T) {
	posts := newMemPosts("u1")
	notifier := &recordingNotifier{}
	svc := NewPostService(posts, memComments{posts}, newMemEvents("e1", "e2"), notifier, testLogger())
	ctx := context.Background()

	first, err := svc.Create(ctx, CreatePostInput{Content: "hello", EventID: "e1", UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	second, err := svc.Create(ctx, CreatePostInput{Content: "again", ImageURL: "https://img/x.png", EventID: "e2", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"New event has been successfully added",
		"New event has been successfully added",
	}, notifier.titles())

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	byEvent, err := svc.ListByEvent(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, byEvent, 1)
	assert.Equal(t, first.ID, byEvent[0].ID)

	_, err = svc.Create(ctx, CreatePostInput{Content: "  ", EventID: "e1", UserID: "u1"})
	requireKind(t, err, KindBadRequest, "")
	_, err = svc.Create(ctx, CreatePostInput{Content: "x", EventID: "e1", UserID: "ghost"})
	requireKind(t, err, KindNotFound, MsgUserNotFound)
	_, err = svc.Create(ctx, CreatePostInput{Content: "x", EventID: "no-such-event", UserID: "u1"})
	requireKind(t, err, KindNotFound, MsgEventNotFound)
	assert.Len(t, notifier.titles(), 2, "rejected posts send nothing")
	_, err = svc.ListByEvent(ctx, "")
	requireKind(t, err, KindBadRequest, "")
}

func TestPostComments(t *testing.T) {
	posts := newMemPosts("u1")
	svc := NewPostService(posts, memComments{posts}, newMemEvents("e1"), nil, testLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePostInput{Content: "hello", EventID: "e1", UserID: "u1"})
	require.NoError(t, err)

	for _, body := range []string{"one", "two", "three"} {
		_, err := svc.AddComment(ctx, p.ID, "u1", body)
		require.NoError(t, err)
	}
	cs, err := svc.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.Equal(t, "one", cs[0].Content, "oldest first")
	assert.Equal(t, "three", cs[2].Content)

	_, err = svc.AddComment(ctx, "missing", "u1", "hi")
	requireKind(t, err, KindNotFound, "")
	_, err = svc.AddComment(ctx, p.ID, "u1", "")
	requireKind(t, err, KindBadRequest, "")
}

func TestUserService(t *testing.T) {
	users := newMemUsers()
	users.put(model.User{ID: "u1", Email: "a@b.com", FirstName: "Ann"})
	users.put(model.User{ID: "u2", Email: "c@d.com", FirstName: "Cid"})
	svc := NewUserService(users)
	ctx := context.Background()

	u, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FirstName)

	_, err = svc.Get(ctx, "nope")
	requireKind(t, err, KindBadRequest, MsgUserNotFound)

	city := "Galle"
	verified := true
	u, err = svc.Update(ctx, "u1", model.UserUpdate{City: &city, IsVerified: &verified})
	require.NoError(t, err)
	assert.Equal(t, "Galle", u.City)
	assert.True(t, u.IsVerified)

	u, err = svc.Update(ctx, "u1", model.UserUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Galle", u.City)

	_, err = svc.Update(ctx, "nope", model.UserUpdate{City: &city})
	requireKind(t, err, KindNotFound, MsgUserNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	requireKind(t, svc.Delete(ctx, ""), KindNotFound, MsgMissingUserID)
	require.NoError(t, svc.Delete(ctx, "u2"))
	requireKind(t, svc.Delete(ctx, "u2"), KindNotFound, MsgUserNotFound)
}

type memNotifications struct {
	mu   sync.Mutex
	rows []model.Notification
}

func (m *memNotifications) Create(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().Add(time.Duration(len(m.rows)) * time.Second)
	}
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID string) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Notification{}
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotifications) GetForUser(_ context.Context, id, userID string) (model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return model.Notification{}, repository.ErrNotFound
}

func (m *memNotifications) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].IsRead = true
		}
	}
	return nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.rows {
		if m.rows[i].UserID == userID && !m.rows[i].IsRead {
			m.rows[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestNotificationService(t *testing.T) {
	store := &memNotifications{}
	svc := NewNotificationService(store)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateNotificationInput{UserID: "u1", Title: "Reminder", Type: model.NotificationAppointmentReminder})
	require.NoError(t, err)
	assert.Equal(t, model.ChannelInApp, first.Channel)
	second, err := svc.Create(ctx, CreateNotificationInput{UserID: "u1", Title: "Alert"})
	require.NoError(t, err)
	assert.Equal(t, model.NotificationSystemAlert, second.Type)
	_, err = svc.Create(ctx, CreateNotificationInput{UserID: "u2", Title: "Other"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateNotificationInput{UserID: "u1"})
	requireKind(t, err, KindBadRequest, "")

	list, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	n, err := svc.MarkRead(ctx, first.ID, "u1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	_, err = svc.MarkRead(ctx, first.ID, "u2")
	requireKind(t, err, KindNotFound, MsgNotificationMissing)

	changed, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	require.NoError(t, svc.Delete(ctx, second.ID, "u1"))
	requireKind(t, svc.Delete(ctx, second.ID, "u1"), KindNotFound, MsgNotificationMissing)
	requireKind(t, svc.Delete(ctx, "", "u1"), KindBadRequest, "")
}

// memEvents is an in-memory EventStore with the unique title key. Titles
// listed in racing are inserted by "someone else" between the title check
// and the insert.
type memEvents struct {
	mu     sync.Mutex
	rows   map[string]model.Event
	admins map[string]bool
	racing map[string]bool
}

func newMemEvents(ids ...string) *memEvents {
	m := &memEvents{rows: map[string]model.Event{}, admins: map[string]bool{"a1": true}, racing: map[string]bool{}}
	for i, id := range ids {
		m.rows[id] = model.Event{ID: id, Title: id, EventDate: time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC)}
	}
	return m
}

func (m *memEvents) Create(_ context.Context, ev *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.admins[ev.AdminID] {
		return repository.ErrNotFound
	}
	for _, r := range m.rows {
		if r.Title == ev.Title {
			return repository.ErrTitleExists
		}
	}
	if m.racing[ev.Title] {
		return repository.ErrTitleExists
	}
	m.rows[ev.ID] = *ev
	return nil
}

func (m *memEvents) GetByID(_ context.Context, id string) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.rows[id]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	return ev, nil
}

func (m *memEvents) GetByTitle(_ context.Context, title string) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.rows {
		if ev.Title == title {
			return ev, nil
		}
	}
	return model.Event{}, repository.ErrNotFound
}

func (m *memEvents) List(context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Event{}
	for _, ev := range m.rows {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func TestEventService(t *testing.T) {
	store := newMemEvents()
	notifier := &recordingNotifier{}
	svc := NewEventService(store, notifier, testLogger())
	ctx := context.Background()

	in := CreateEventInput{
		Title:       "  Vesak Dansal  ",
		Description: "Free meals at the town hall",
		EventDate:   time.Date(2024, 5, 23, 9, 0, 0, 0, time.UTC),
		Category:    "Community",
		AdminID:     "a1",
	}
	ev, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Vesak Dansal", ev.Title)
	assert.Equal(t, "a1", ev.AdminID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "a1", notifier.events[0].UserID, "the admin is notified")
	assert.Equal(t, "New event has been successfully added", notifier.events[0].Title)

	got, err := svc.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)

	t.Run("duplicate title", func(t *testing.T) {
		_, err := svc.Create(ctx, in)
		requireKind(t, err, KindConflict, MsgEventTitleTaken)
		assert.Len(t, notifier.titles(), 1)
	})
	t.Run("title taken between check and insert", func(t *testing.T) {
		store.racing["Poson"] = true
		race := in
		race.Title = "Poson"
		_, err := svc.Create(ctx, race)
		requireKind(t, err, KindConflict, MsgEventTitleTaken)
	})
	t.Run("unknown admin", func(t *testing.T) {
		other := in
		other.Title, other.AdminID = "Esala Perahera", "ghost"
		_, err := svc.Create(ctx, other)
		requireKind(t, err, KindNotFound, MsgAdminNotFound)
	})
	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateEventInput{Title: "x", AdminID: "a1"})
		requireKind(t, err, KindBadRequest, "")
	})
	t.Run("not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "nope")
		requireKind(t, err, KindNotFound, MsgEventNotFound)
		_, err = svc.Get(ctx, "")
		requireKind(t, err, KindNotFound, MsgEventNotFound)
	})

	later := in
	later.Title, later.EventDate = "Christmas Carols", time.Date(2024, 12, 24, 19, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, later)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Vesak Dansal", all[0].Title, "soonest first")
}
