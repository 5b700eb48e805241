package engine

import (
	"context"
	"fmt"

	"github.com/hkarap/sentinews/internal/models"
)

const defaultTopicLanguage = "en"

// TopicStore is the slice of the storage collaborator backing topic CRUD.
type TopicStore interface {
	ListTopicsByOwner(ctx context.Context, ownerKey string) ([]models.Topic, error)
	GetTopicByIDAndOwner(ctx context.Context, id int64, ownerKey string) (*models.Topic, error)
	InsertTopic(ctx context.Context, t *models.Topic) (int64, error)
	UpdateTopic(ctx context.Context, t *models.Topic) error
	DeleteTopic(ctx context.Context, id int64, ownerKey string) error
}

// Topics provides per-caller topic management. The opaque owner key is
// threaded through every operation; there is no ambient caller state.
type Topics struct {
	store TopicStore
}

func NewTopics(st TopicStore) *Topics {
	return &Topics{store: st}
}

// TopicInput carries the caller-editable fields of a topic.
type TopicInput struct {
	Name         string   `json:"name" validate:"required"`
	Keywords     []string `json:"keywords" validate:"required,min=1"`
	SourceIDs    []int64  `json:"source_ids"`
	GlobalSearch *bool    `json:"global_search"`
	Language     string   `json:"language"`
}

func (s *Topics) List(ctx context.Context, ownerKey string) ([]models.Topic, error) {
	topics, err := s.store.ListTopicsByOwner(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (s *Topics) Get(ctx context.Context, id int64, ownerKey string) (*models.Topic, error) {
	return s.store.GetTopicByIDAndOwner(ctx, id, ownerKey)
}

// Create stores a new topic for the caller. GlobalSearch defaults to
// false and language to "en" when not supplied.
func (s *Topics) Create(ctx context.Context, ownerKey string, in TopicInput) (*models.Topic, error) {
	topic := &models.Topic{
		OwnerKey:  ownerKey,
		Name:      in.Name,
		Keywords:  in.Keywords,
		SourceIDs: in.SourceIDs,
		Language:  defaultTopicLanguage,
	}
	if in.GlobalSearch != nil {
		topic.GlobalSearch = *in.GlobalSearch
	}
	if in.Language != "" {
		topic.Language = in.Language
	}

	id, err := s.store.InsertTopic(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("insert topic: %w", err)
	}
	topic.ID = id
	return topic, nil
}

// Update rewrites an existing topic scoped to its owner. GlobalSearch and
// language keep their stored values when not supplied.
func (s *Topics) Update(ctx context.Context, id int64, ownerKey string, in TopicInput) (*models.Topic, error) {
	topic, err := s.store.GetTopicByIDAndOwner(ctx, id, ownerKey)
	if err != nil {
		return nil, err
	}

	topic.Name = in.Name
	topic.Keywords = in.Keywords
	topic.SourceIDs = in.SourceIDs
	if in.GlobalSearch != nil {
		topic.GlobalSearch = *in.GlobalSearch
	}
	if in.Language != "" {
		topic.Language = in.Language
	}

	if err := s.store.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *Topics) Delete(ctx context.Context, id int64, ownerKey string) error {
	return s.store.DeleteTopic(ctx, id, ownerKey)
}
