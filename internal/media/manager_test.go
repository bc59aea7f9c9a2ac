package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/storage"
)

type fakeStore struct {
	products   map[int64]*domain.Product
	categories map[int64]*domain.ProductCategory
	featured   int64
	failWrites bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   map[int64]*domain.Product{},
		categories: map[int64]*domain.ProductCategory{},
	}
}

func (s *fakeStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	cp.Media = append([]domain.ProductMedia(nil), p.Media...)
	return &cp, nil
}

func (s *fakeStore) CountFeatured(_ context.Context, excludeID int64) (int64, error) {
	if s.featured > 0 {
		return s.featured, nil
	}
	var n int64
	for _, p := range s.products {
		if p.Featured && p.ID != excludeID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CreateProduct(_ context.Context, p *domain.Product) error {
	if s.failWrites {
		return errors.New("db down")
	}
	s.products[p.ID] = p
	return nil
}

func (s *fakeStore) UpdateProduct(_ context.Context, p *domain.Product) error {
	if s.failWrites {
		return errors.New("db down")
	}
	s.products[p.ID] = p
	return nil
}

func (s *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	if s.failWrites {
		return errors.New("db down")
	}
	delete(s.products, id)
	return nil
}

func (s *fakeStore) GetCategory(_ context.Context, id int64) (*domain.ProductCategory, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *fakeStore) FindCategoryByName(_ context.Context, name string) (*domain.ProductCategory, error) {
	for _, c := range s.categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) CreateCategory(_ context.Context, c *domain.ProductCategory) error {
	s.categories[c.ID] = c
	return nil
}

func (s *fakeStore) CountProductsInCategory(_ context.Context, categoryID int64) (int64, error) {
	var n int64
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) DeleteCategory(_ context.Context, id int64) error {
	delete(s.categories, id)
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	stored  map[string]string // public id -> kind
	deleted []string
	failKey string // substring of key that fails the upload
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{stored: map[string]string{}}
}

func (b *fakeBlobStore) Upload(_ context.Context, r io.Reader, key string, contentType string) (*storage.Blob, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	if b.failKey != "" && strings.Contains(key, b.failKey) {
		return nil, errors.New("upstream rejected upload")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kind := domain.MediaKindFromContentType(contentType)
	b.stored[key] = kind
	return &storage.Blob{URL: "https://cdn.test/" + key, PublicID: key, Kind: kind}, nil
}

func (b *fakeBlobStore) Delete(_ context.Context, publicID string, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, publicID)
	if _, ok := b.stored[publicID]; !ok {
		return storage.ErrNotFound
	}
	delete(b.stored, publicID)
	return nil
}

func upload(name, contentType string) Upload {
	return Upload{
		Filename:    name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("payload")), nil
		},
	}
}

func newTestManager(t *testing.T, store Store, blobs storage.BlobStore) *Manager {
	t.Helper()
	m, err := NewManager(store, blobs, EventBus.New(), "products")
	require.NoError(t, err)
	t.Cleanup(m.Release)
	return m
}

func TestCreateProductUploadsAndPersists(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	p := &domain.Product{Name: "Brass Trophy", CategoryID: 7}
	err := m.CreateProduct(context.Background(), p, []Upload{
		upload("front.png", "image/png"),
		upload("spin.mp4", "video/mp4"),
	})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	saved := store.products[p.ID]
	require.Len(t, saved.Media, 2)
	assert.Equal(t, domain.MediaKindImage, saved.Media[0].Kind)
	assert.Equal(t, domain.MediaKindVideo, saved.Media[1].Kind)
	assert.Equal(t, []int{0, 1}, []int{saved.Media[0].Position, saved.Media[1].Position})
	assert.Contains(t, saved.Media[0].PublicID, "front.png")
	assert.Len(t, blobs.stored, 2)
}

func TestCreateProductAbortsAndCleansUpOnUploadFailure(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	blobs.failKey = "bad.png"
	m := newTestManager(t, store, blobs)

	err := m.CreateProduct(context.Background(), &domain.Product{Name: "Brass Trophy"}, []Upload{
		upload("good.png", "image/png"),
		upload("bad.png", "image/png"),
	})
	require.Error(t, err)
	assert.Empty(t, store.products)
	assert.Empty(t, blobs.stored)
}

func TestCreateProductCleansUpOnRowFailure(t *testing.T) {
	store := newFakeStore()
	store.failWrites = true
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	err := m.CreateProduct(context.Background(), &domain.Product{Name: "Brass Trophy"}, []Upload{
		upload("front.png", "image/png"),
	})
	require.Error(t, err)
	assert.Empty(t, blobs.stored)
}

func TestCreateProductEnforcesFeaturedLimit(t *testing.T) {
	store := newFakeStore()
	store.featured = domain.FeaturedLimit
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	err := m.CreateProduct(context.Background(), &domain.Product{Name: "X", Featured: true}, []Upload{
		upload("front.png", "image/png"),
	})
	assert.ErrorIs(t, err, ErrFeaturedLimit)
	// the limit is checked before any storage traffic
	assert.Empty(t, blobs.stored)
}

func TestUpdateProductReplacesMediaAndDeletesDropped(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	p := &domain.Product{Name: "Brass Trophy"}
	require.NoError(t, m.CreateProduct(context.Background(), p, []Upload{
		upload("keep.png", "image/png"),
		upload("drop.png", "image/png"),
	}))
	keepID := store.products[p.ID].Media[0].ID
	dropPublicID := store.products[p.ID].Media[1].PublicID

	updated, err := m.UpdateProduct(context.Background(),
		&domain.Product{ID: p.ID, Name: "Brass Trophy XL"},
		[]int64{keepID},
		[]Upload{upload("extra.mp4", "video/mp4")})
	require.NoError(t, err)

	require.Len(t, updated.Media, 2)
	assert.Equal(t, keepID, updated.Media[0].ID)
	assert.Equal(t, 0, updated.Media[0].Position)
	assert.Equal(t, 1, updated.Media[1].Position)
	assert.Equal(t, domain.MediaKindVideo, updated.Media[1].Kind)

	assert.Contains(t, blobs.deleted, dropPublicID)
	_, stillStored := blobs.stored[dropPublicID]
	assert.False(t, stillStored)
}

func TestUpdateProductFeaturedLimitExcludesSelf(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	for i := 0; i < domain.FeaturedLimit; i++ {
		require.NoError(t, m.CreateProduct(context.Background(),
			&domain.Product{Name: fmt.Sprintf("P%d", i), Featured: true}, nil))
	}
	var someID int64
	for id := range store.products {
		someID = id
		break
	}

	// re-saving an already featured product stays under the limit
	_, err := m.UpdateProduct(context.Background(),
		&domain.Product{ID: someID, Name: "renamed", Featured: true}, nil, nil)
	assert.NoError(t, err)

	// an eleventh featured product does not
	err = m.CreateProduct(context.Background(), &domain.Product{Name: "one too many", Featured: true}, nil)
	assert.ErrorIs(t, err, ErrFeaturedLimit)
}

func TestDeleteProductRemovesRowsThenBlobs(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	p := &domain.Product{Name: "Brass Trophy"}
	require.NoError(t, m.CreateProduct(context.Background(), p, []Upload{
		upload("a.png", "image/png"),
		upload("b.png", "image/png"),
	}))

	require.NoError(t, m.DeleteProduct(context.Background(), p.ID))
	assert.Empty(t, store.products)
	assert.Empty(t, blobs.stored)
	assert.Len(t, blobs.deleted, 2)
}

func TestDeleteProductToleratesMissingBlobs(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	p := &domain.Product{Name: "Brass Trophy"}
	require.NoError(t, m.CreateProduct(context.Background(), p, []Upload{
		upload("a.png", "image/png"),
	}))
	// blob vanishes out of band
	blobs.stored = map[string]string{}

	assert.NoError(t, m.DeleteProduct(context.Background(), p.ID))
	assert.Empty(t, store.products)
}

func TestDeleteProductKeepsBlobsWhenRowsFail(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobStore()
	m := newTestManager(t, store, blobs)

	p := &domain.Product{Name: "Brass Trophy"}
	require.NoError(t, m.CreateProduct(context.Background(), p, []Upload{
		upload("a.png", "image/png"),
	}))
	store.failWrites = true

	require.Error(t, m.DeleteProduct(context.Background(), p.ID))
	assert.Len(t, blobs.stored, 1)
	assert.Empty(t, blobs.deleted)
}

func TestCreateCategoryRejectsDuplicateNames(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store, newFakeBlobStore())

	require.NoError(t, m.CreateCategory(context.Background(), &domain.ProductCategory{Name: "Corporate Gifts"}))
	err := m.CreateCategory(context.Background(), &domain.ProductCategory{Name: "  corporate gifts "})
	assert.ErrorIs(t, err, ErrCategoryExists)
	assert.Len(t, store.categories, 1)
}

func TestDeleteCategoryRefusesWhenNotEmpty(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store, newFakeBlobStore())

	cat := &domain.ProductCategory{Name: "Signage"}
	require.NoError(t, m.CreateCategory(context.Background(), cat))
	require.NoError(t, m.CreateProduct(context.Background(),
		&domain.Product{Name: "LED Board", CategoryID: cat.ID}, nil))

	assert.ErrorIs(t, m.DeleteCategory(context.Background(), cat.ID), ErrCategoryNotEmpty)

	require.NoError(t, m.DeleteProduct(context.Background(), firstKey(store.products)))
	assert.NoError(t, m.DeleteCategory(context.Background(), cat.ID))
	assert.Empty(t, store.categories)
}

func firstKey(m map[int64]*domain.Product) int64 {
	for id := range m {
		return id
	}
	return 0
}

func TestDeleteCategoryMissing(t *testing.T) {
	m := newTestManager(t, newFakeStore(), newFakeBlobStore())
	assert.ErrorIs(t, m.DeleteCategory(context.Background(), 404), ErrNotFound)
}
