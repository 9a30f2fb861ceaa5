package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Shivanand-hulikatti/college-events/internal/database"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	store, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, database.Migrate(store.DB))
	return store.DB
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: "User " + email, Email: email, PasswordHash: "x", Role: role, College: "IIT Delhi"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedEvent(t *testing.T, repo *EventRepository, organizerID string, mutate func(*model.Event)) *model.Event {
	t.Helper()
	e := &model.Event{
		Title:       "Event",
		Description: "An event",
		Category:    model.CategoryWorkshop,
		EventType:   model.EventTypeOffline,
		Date:        time.Now().UTC().Add(48 * time.Hour),
		City:        "Delhi",
		College:     "IIT Delhi",
		OrganizerID: organizerID,
		Status:      model.StatusApproved,
		Tags:        []string{},
	}
	if mutate != nil {
		mutate(e)
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestEventRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)

	created := seedEvent(t, repo, org.ID, func(e *model.Event) {
		e.Tags = []string{"go", "cloud"}
		e.Requirements = []string{"laptop"}
	})
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "cloud"}, got.Tags)
	assert.Equal(t, []string{"laptop"}, got.Requirements)
	require.NotNil(t, got.Organizer)
	assert.Equal(t, org.Email, got.Organizer.Email)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepository_ListPaging(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)

	base := time.Now().UTC().Add(24 * time.Hour)
	for i := 0; i < 25; i++ {
		seedEvent(t, repo, org.ID, func(e *model.Event) {
			e.Title = fmt.Sprintf("Event %02d", i)
			e.Date = base.Add(time.Duration(i) * time.Hour)
		})
	}

	ctx := context.Background()
	filter := model.EventFilter{Status: model.StatusApproved}

	page, total, err := repo.List(ctx, filter, model.SortByDate, model.SortAsc, 10, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page, 5)
	assert.Equal(t, "Event 20", page[0].Title)

	page, _, err = repo.List(ctx, filter, model.SortByDate, model.SortDesc, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "Event 24", page[0].Title)

	page, total, err = repo.List(ctx, model.EventFilter{Status: model.StatusPending}, model.SortByDate, model.SortAsc, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestEventRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	other := seedUser(t, db, "other@example.com", model.RoleUser)

	seedEvent(t, repo, org.ID, func(e *model.Event) {
		e.Title = "Go Hackathon"
		e.Category = model.CategoryHackathon
		e.College = "BITS Pilani"
		e.Featured = true
	})
	seedEvent(t, repo, org.ID, func(e *model.Event) {
		e.Title = "Past Seminar"
		e.Description = "100% attendance"
		e.Category = model.CategorySeminar
		e.Date = time.Now().UTC().Add(-48 * time.Hour)
	})
	seedEvent(t, repo, other.ID, func(e *model.Event) {
		e.Title = "Pending Talk"
		e.Status = model.StatusPending
		e.EventType = model.EventTypeOnline
		e.City = "Mumbai"
	})

	ctx := context.Background()
	cases := []struct {
		name   string
		filter model.EventFilter
		want   []string
	}{
		{"search is case-insensitive", model.EventFilter{Search: "hACKaTHON"}, []string{"Go Hackathon"}},
		{"search matches description", model.EventFilter{Search: "100%"}, []string{"Past Seminar"}},
		{"wildcards are literal", model.EventFilter{Search: "_"}, nil},
		{"college substring", model.EventFilter{College: "pilani"}, []string{"Go Hackathon"}},
		{"category", model.EventFilter{Category: model.CategorySeminar}, []string{"Past Seminar"}},
		{"event type and city", model.EventFilter{EventType: model.EventTypeOnline, City: "Mumbai"}, []string{"Pending Talk"}},
		{"organizer", model.EventFilter{OrganizerID: other.ID}, []string{"Pending Talk"}},
		{"upcoming approved", model.EventFilter{Status: model.StatusApproved, UpcomingOnly: true}, []string{"Go Hackathon"}},
		{"featured", model.EventFilter{FeaturedOnly: true}, []string{"Go Hackathon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, total, err := repo.List(ctx, tc.filter, model.SortByDate, model.SortAsc, 10, 0)
			require.NoError(t, err)
			assert.EqualValues(t, len(tc.want), total)
			var titles []string
			for _, e := range events {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tc.want, titles)
		})
	}
}

func TestEventRepository_ListSort(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)

	base := time.Now().UTC().Add(24 * time.Hour)
	seed := []struct {
		title     string
		views     int64
		favorites int64
	}{
		{"A", 1, 5},
		{"B", 3, 0},
		{"C", 2, 1},
	}
	for i, s := range seed {
		seedEvent(t, repo, org.ID, func(e *model.Event) {
			e.Title = s.title
			e.Date = base.Add(time.Duration(i) * time.Hour)
			e.Views = s.views
			e.FavoritesCount = s.favorites
		})
	}

	cases := []struct {
		sortBy string
		order  string
		want   []string
	}{
		{model.SortByViews, model.SortDesc, []string{"B", "C", "A"}},
		{model.SortByViews, model.SortAsc, []string{"A", "C", "B"}},
		{model.SortByFavoritesCount, model.SortDesc, []string{"A", "C", "B"}},
		{model.SortByFavoritesCount, model.SortAsc, []string{"B", "C", "A"}},
		{model.SortByDate, model.SortDesc, []string{"C", "B", "A"}},
		{"title", model.SortAsc, []string{"A", "B", "C"}},
	}
	for _, tc := range cases {
		t.Run(tc.sortBy+" "+tc.order, func(t *testing.T) {
			events, _, err := repo.List(context.Background(), model.EventFilter{}, tc.sortBy, tc.order, 10, 0)
			require.NoError(t, err)
			var titles []string
			for _, e := range events {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tc.want, titles)
		})
	}
}

func TestEventRepository_UpdateStatusCompareAndSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	e := seedEvent(t, repo, org.ID, func(e *model.Event) { e.Status = model.StatusPending })
	ctx := context.Background()

	updated, err := repo.UpdateStatus(ctx, e.ID, model.StatusPending, model.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)

	_, err = repo.UpdateStatus(ctx, e.ID, model.StatusPending, model.StatusRejected)
	assert.ErrorIs(t, err, ErrStaleStatus)

	_, err = repo.UpdateStatus(ctx, "missing", model.StatusPending, model.StatusRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepository_IncrementViewsConcurrently(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	e := seedEvent(t, repo, org.ID, nil)

	const readers = 20
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementViews(context.Background(), e.ID))
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, readers, got.Views)

	assert.ErrorIs(t, repo.IncrementViews(context.Background(), "missing"), ErrNotFound)
}

func TestEventRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	e := seedEvent(t, repo, org.ID, func(e *model.Event) { e.Tags = []string{"old"} })

	e.Title = "Renamed"
	e.City = "Pune"
	e.Tags = []string{"new", "tags"}
	e.RegistrationFee = 0
	e.Description = "not written"
	got, err := repo.Update(context.Background(), e, "title", "city", "tags", "registration_fee")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "Pune", got.City)
	assert.Equal(t, []string{"new", "tags"}, got.Tags)
	assert.Equal(t, "An event", got.Description)

	_, err = repo.Update(context.Background(), &model.Event{ID: "missing", Title: "x"}, "title")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepository_DeleteRemovesFavorites(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	favs := NewFavoriteRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	fan := seedUser(t, db, "fan@example.com", model.RoleUser)
	e := seedEvent(t, events, org.ID, nil)
	ctx := context.Background()

	require.NoError(t, favs.Add(ctx, fan.ID, e.ID))
	require.NoError(t, events.Delete(ctx, e.ID))

	ok, err := favs.Exists(ctx, fan.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, events.Delete(ctx, e.ID), ErrNotFound)
}

func TestEventRepository_CategoryCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	seedEvent(t, repo, org.ID, func(e *model.Event) { e.Category = model.CategoryHackathon })
	seedEvent(t, repo, org.ID, func(e *model.Event) { e.Category = model.CategoryHackathon })
	seedEvent(t, repo, org.ID, func(e *model.Event) { e.Category = model.CategorySports })
	seedEvent(t, repo, org.ID, func(e *model.Event) {
		e.Category = model.CategorySports
		e.Status = model.StatusPending
	})

	counts, err := repo.CategoryCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryCount{
		{Category: model.CategoryHackathon, Count: 2},
		{Category: model.CategorySports, Count: 1},
	}, counts)
}

func TestFavoriteRepository_AddRemove(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	favs := NewFavoriteRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	fan := seedUser(t, db, "fan@example.com", model.RoleUser)
	e := seedEvent(t, events, org.ID, nil)
	ctx := context.Background()

	require.NoError(t, favs.Add(ctx, fan.ID, e.ID))
	assert.ErrorIs(t, favs.Add(ctx, fan.ID, e.ID), ErrDuplicate)

	got, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.FavoritesCount)

	list, err := favs.ListEvents(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)

	removed, err := favs.Remove(ctx, fan.ID, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = favs.Remove(ctx, fan.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err = events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FavoritesCount)

	assert.ErrorIs(t, favs.Add(ctx, fan.ID, "missing"), ErrNotFound)
	ok, err := favs.Exists(ctx, fan.ID, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "failed add must roll back")
}

func TestFavoriteRepository_DecrementNeverNegative(t *testing.T) {
	db := newTestDB(t)
	events := NewEventRepository(db)
	favs := NewFavoriteRepository(db)
	org := seedUser(t, db, "org@example.com", model.RoleUser)
	fan := seedUser(t, db, "fan@example.com", model.RoleUser)
	e := seedEvent(t, events, org.ID, nil)
	ctx := context.Background()

	require.NoError(t, favs.Add(ctx, fan.ID, e.ID))
	require.NoError(t, db.Model(&model.Event{}).Where("id = ?", e.ID).UpdateColumn("favorites_count", 0).Error)

	_, err := favs.Remove(ctx, fan.ID, e.ID)
	require.NoError(t, err)
	got, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FavoritesCount)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "Ana@Example.com", model.RoleUser)
	assert.Equal(t, "ana@example.com", u.Email)

	err := repo.Create(ctx, &model.User{Name: "Dup", Email: "ANA@example.com", PasswordHash: "x", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetByEmail(ctx, " ana@EXAMPLE.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.Update(ctx, u.ID, map[string]any{"role": model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{
			UserID: "u1", Type: model.NotificationInfo, Title: fmt.Sprintf("n%d", i), Message: "m",
		}))
	}
	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u2", Type: model.NotificationInfo, Title: "other", Message: "m"}))

	list, err := repo.ListByUser(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, list, 3)

	n, err := repo.MarkRead(ctx, list[0].ID, "u1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	_, err = repo.MarkRead(ctx, list[0].ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	unread, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	onlyUnread, err := repo.ListByUser(ctx, "u1", true)
	require.NoError(t, err)
	assert.Len(t, onlyUnread, 2)

	changed, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	assert.ErrorIs(t, repo.Delete(ctx, list[1].ID, "u2"), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, list[1].ID, "u1"))
	list, err = repo.ListByUser(ctx, "u1", false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
