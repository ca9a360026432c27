package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/books-api/internal/domain"
)

// MockBookService implements service.BookService for testing.
// Unset function fields fall back to the default return values.
type MockBookService struct {
	// Custom behavior functions
	ListAllFn    func(ctx context.Context) ([]domain.Book, error)
	CreateFn     func(ctx context.Context, fields domain.BookFields) (domain.Book, error)
	GetByIDFn    func(ctx context.Context, id string) (domain.Book, bool, error)
	UpdateByIDFn func(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, bool, error)
	DeleteByIDFn func(ctx context.Context, id string) (domain.Book, bool, error)

	// Default return values
	Book         domain.Book
	Books        []domain.Book
	Found        bool
	DefaultError error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockBookService) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times the named method was invoked.
func (m *MockBookService) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (m *MockBookService) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// ListAll implements the BookService.ListAll method
func (m *MockBookService) ListAll(ctx context.Context) ([]domain.Book, error) {
	m.record("ListAll")
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.Books, m.DefaultError
}

// Create implements the BookService.Create method
func (m *MockBookService) Create(ctx context.Context, fields domain.BookFields) (domain.Book, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, fields)
	}
	return m.Book, m.DefaultError
}

// GetByID implements the BookService.GetByID method
func (m *MockBookService) GetByID(ctx context.Context, id string) (domain.Book, bool, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.Book, m.Found, m.DefaultError
}

// UpdateByID implements the BookService.UpdateByID method
func (m *MockBookService) UpdateByID(ctx context.Context, id string, patch domain.BookPatch) (domain.Book, bool, error) {
	m.record("UpdateByID")
	if m.UpdateByIDFn != nil {
		return m.UpdateByIDFn(ctx, id, patch)
	}
	return m.Book, m.Found, m.DefaultError
}

// DeleteByID implements the BookService.DeleteByID method
func (m *MockBookService) DeleteByID(ctx context.Context, id string) (domain.Book, bool, error) {
	m.record("DeleteByID")
	if m.DeleteByIDFn != nil {
		return m.DeleteByIDFn(ctx, id)
	}
	return m.Book, m.Found, m.DefaultError
}
