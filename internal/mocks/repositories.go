package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/noticiero/cms/internal/models"
)

// MockUserRepository is an in-memory implementation of repository.UserRepository
type MockUserRepository struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64

	// FailWith, when set, is returned by every method
	FailWith error
}

// NewMockUserRepository creates an empty mock user repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []*models.User
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	if m.FailWith != nil {
		return false, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *MockUserRepository) CountAdmins(ctx context.Context) (int, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, user := range m.users {
		if user.IsAdmin {
			count++
		}
	}
	return count, nil
}

// MockArticleRepository is an in-memory implementation of repository.ArticleRepository
type MockArticleRepository struct {
	mu       sync.Mutex
	articles map[int64]*models.Article
	nextID   int64

	// FailWith, when set, is returned by every method
	FailWith error
}

// NewMockArticleRepository creates an empty mock article repository
func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{articles: make(map[int64]*models.Article), nextID: 1}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	article.ID = m.nextID
	m.nextID++
	copied := *article
	m.articles[article.ID] = &copied
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, nil
	}
	copied := *article
	return &copied, nil
}

func (m *MockArticleRepository) List(ctx context.Context) ([]*models.Article, error) {
	return m.list(func(*models.Article) bool { return true }, 0)
}

func (m *MockArticleRepository) ListByCategory(ctx context.Context, category string, limit int) ([]*models.Article, error) {
	return m.list(func(a *models.Article) bool { return a.Category == category }, limit)
}

func (m *MockArticleRepository) list(match func(*models.Article) bool, limit int) ([]*models.Article, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var articles []*models.Article
	for _, article := range m.articles {
		if match(article) {
			copied := *article
			articles = append(articles, &copied)
		}
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *article
	m.articles[article.ID] = &copied
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.articles, id)
	return nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.articles), nil
}

// MockMessageRepository is an in-memory implementation of repository.MessageRepository
type MockMessageRepository struct {
	mu       sync.Mutex
	messages map[int64]*models.ContactMessage
	nextID   int64

	// FailWith, when set, is returned by every method
	FailWith error
}

// NewMockMessageRepository creates an empty mock message repository
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{messages: make(map[int64]*models.ContactMessage), nextID: 1}
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = m.nextID
	m.nextID++
	copied := *message
	m.messages[message.ID] = &copied
	return nil
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	message, ok := m.messages[id]
	if !ok {
		return nil, nil
	}
	copied := *message
	return &copied, nil
}

func (m *MockMessageRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var messages []*models.ContactMessage
	for _, message := range m.messages {
		copied := *message
		messages = append(messages, &copied)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if message, ok := m.messages[id]; ok {
		message.Read = true
	}
	return nil
}

func (m *MockMessageRepository) Delete(ctx context.Context, id int64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, id)
	return nil
}

func (m *MockMessageRepository) Count(ctx context.Context) (int, error) {
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages), nil
}
