package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/hkarap/sentinews/internal/models"
	"github.com/hkarap/sentinews/internal/store"
)

type fakeTopicStore struct {
	topics map[int64]*models.Topic
	nextID int64
}

func newFakeTopicStore() *fakeTopicStore {
	return &fakeTopicStore{topics: map[int64]*models.Topic{}}
}

func (f *fakeTopicStore) ListTopicsByOwner(_ context.Context, ownerKey string) ([]models.Topic, error) {
	out := make([]models.Topic, 0)
	for _, t := range f.topics {
		if t.OwnerKey == ownerKey {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTopicStore) GetTopicByIDAndOwner(_ context.Context, id int64, ownerKey string) (*models.Topic, error) {
	t, ok := f.topics[id]
	if !ok || t.OwnerKey != ownerKey {
		return nil, store.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTopicStore) InsertTopic(_ context.Context, t *models.Topic) (int64, error) {
	f.nextID++
	stored := *t
	stored.ID = f.nextID
	f.topics[stored.ID] = &stored
	return f.nextID, nil
}

func (f *fakeTopicStore) UpdateTopic(_ context.Context, t *models.Topic) error {
	existing, ok := f.topics[t.ID]
	if !ok || existing.OwnerKey != t.OwnerKey {
		return store.ErrNotFound
	}
	copied := *t
	f.topics[t.ID] = &copied
	return nil
}

func (f *fakeTopicStore) DeleteTopic(_ context.Context, id int64, ownerKey string) error {
	t, ok := f.topics[id]
	if !ok || t.OwnerKey != ownerKey {
		return store.ErrNotFound
	}
	delete(f.topics, id)
	return nil
}

func TestTopicsCreateDefaults(t *testing.T) {
	svc := NewTopics(newFakeTopicStore())

	topic, err := svc.Create(context.Background(), "caller-a", TopicInput{
		Name:     "Elections",
		Keywords: []string{"election", "vote"},
	})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	if topic.GlobalSearch {
		t.Error("global search must default to false")
	}
	if topic.Language != "en" {
		t.Errorf("language = %q, want default en", topic.Language)
	}
	if topic.ID == 0 {
		t.Error("id not assigned")
	}
}

func TestTopicsOwnerScoping(t *testing.T) {
	st := newFakeTopicStore()
	svc := NewTopics(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, "caller-a", TopicInput{Name: "Economy", Keywords: []string{"gdp"}})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID, "caller-b"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign owner read error = %v, want store.ErrNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID, "caller-b"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign owner delete error = %v, want store.ErrNotFound", err)
	}

	got, err := svc.Get(ctx, created.ID, "caller-a")
	if err != nil {
		t.Fatalf("owner read returned error: %v", err)
	}
	if got.Name != "Economy" {
		t.Errorf("name = %q, want Economy", got.Name)
	}
}

func TestTopicsUpdatePartialFields(t *testing.T) {
	svc := NewTopics(newFakeTopicStore())
	ctx := context.Background()

	global := true
	created, err := svc.Create(ctx, "caller-a", TopicInput{
		Name:         "Sports",
		Keywords:     []string{"football"},
		GlobalSearch: &global,
		Language:     "hy",
	})
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}

	// Omitting GlobalSearch and Language keeps the stored values.
	updated, err := svc.Update(ctx, created.ID, "caller-a", TopicInput{
		Name:     "Sports news",
		Keywords: []string{"football", "chess"},
	})
	if err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}

	if updated.Name != "Sports news" || len(updated.Keywords) != 2 {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.GlobalSearch {
		t.Error("omitted global_search overwrote the stored value")
	}
	if updated.Language != "hy" {
		t.Errorf("omitted language overwrote the stored value: %q", updated.Language)
	}
}
