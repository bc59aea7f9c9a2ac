// Package media owns the product media lifecycle: concurrent blob uploads,
// transactional row writes and best-effort cleanup of blobs the database no
// longer references. The ordering rule throughout is rows before blobs on
// delete, blobs before rows on create.
package media

import (
	"context"
	"io"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/3dcreationshub/creationshub/internal/domain"
	"github.com/3dcreationshub/creationshub/internal/storage"
	"github.com/3dcreationshub/creationshub/pkg/common"
)

// TopicCatalogChanged is published on every successful catalog mutation.
const TopicCatalogChanged = "catalog.changed"

var (
	ErrNotFound         = errors.New("media: not found")
	ErrFeaturedLimit    = errors.Errorf("media: featured limit of %d reached", domain.FeaturedLimit)
	ErrCategoryExists   = errors.New("media: category name already exists")
	ErrCategoryNotEmpty = errors.New("media: category still has products")
)

const (
	uploadConcurrency  = 4
	cleanupConcurrency = 4
)

// Upload is one incoming file. Open is called once per upload attempt so
// concurrent workers get independent readers.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Manager coordinates the blob store and the database for catalog writes.
type Manager struct {
	store   Store
	blobs   storage.BlobStore
	bus     EventBus.Bus
	folder  string
	cleanup *ants.Pool
}

func NewManager(store Store, blobs storage.BlobStore, bus EventBus.Bus, folder string) (*Manager, error) {
	pool, err := ants.NewPool(cleanupConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "media: init cleanup pool")
	}
	return &Manager{
		store:   store,
		blobs:   blobs,
		bus:     bus,
		folder:  folder,
		cleanup: pool,
	}, nil
}

// Release frees the cleanup worker pool.
func (m *Manager) Release() {
	m.cleanup.Release()
}

func (m *Manager) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return m.store.GetProduct(ctx, id)
}

// UploadBlob stores a standalone blob that no product references, such as
// an inquiry attachment. The caller owns the returned public id.
func (m *Manager) UploadBlob(ctx context.Context, r io.Reader, key, contentType string) (*storage.Blob, error) {
	return m.blobs.Upload(ctx, r, key, contentType)
}

// CreateProduct uploads the files, then inserts the product and its media
// rows in one transaction. When any upload fails the whole create is
// aborted and already-uploaded blobs are deleted best-effort.
func (m *Manager) CreateProduct(ctx context.Context, p *domain.Product, uploads []Upload) error {
	if p.Featured {
		if err := m.checkFeaturedLimit(ctx, 0); err != nil {
			return err
		}
	}

	blobs, err := m.uploadAll(ctx, uploads)
	if err != nil {
		m.deleteBlobs(blobs)
		return err
	}

	p.ID = common.UUIDint64()
	p.Media = make([]domain.ProductMedia, 0, len(blobs))
	for i, b := range blobs {
		p.Media = append(p.Media, domain.ProductMedia{
			ID:        common.UUIDint64(),
			ProductID: p.ID,
			URL:       b.URL,
			PublicID:  b.PublicID,
			Kind:      b.Kind,
			Position:  i,
		})
	}

	if err := m.store.CreateProduct(ctx, p); err != nil {
		m.deleteBlobs(blobs)
		return errors.Wrap(err, "media: create product")
	}
	m.bus.Publish(TopicCatalogChanged)
	return nil
}

// UpdateProduct replaces the product row and its full media list. The new
// list is the retained prior media, in their stored order, followed by the
// new uploads. Prior blobs that were not retained are deleted best-effort
// once the database write succeeds, so an update cannot leak blobs.
func (m *Manager) UpdateProduct(ctx context.Context, p *domain.Product, retain []int64, uploads []Upload) (*domain.Product, error) {
	prior, err := m.store.GetProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.Featured {
		if err := m.checkFeaturedLimit(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	blobs, err := m.uploadAll(ctx, uploads)
	if err != nil {
		m.deleteBlobs(blobs)
		return nil, err
	}

	retained := make(map[int64]bool, len(retain))
	for _, id := range retain {
		retained[id] = true
	}

	p.Media = p.Media[:0]
	var dropped []*storage.Blob
	for _, mrow := range prior.Media {
		if retained[mrow.ID] {
			mrow.Position = len(p.Media)
			p.Media = append(p.Media, mrow)
		} else {
			dropped = append(dropped, &storage.Blob{PublicID: mrow.PublicID, Kind: mrow.Kind})
		}
	}
	for _, b := range blobs {
		p.Media = append(p.Media, domain.ProductMedia{
			ID:        common.UUIDint64(),
			ProductID: p.ID,
			URL:       b.URL,
			PublicID:  b.PublicID,
			Kind:      b.Kind,
			Position:  len(p.Media),
		})
	}
	p.CreatedAt = prior.CreatedAt

	if err := m.store.UpdateProduct(ctx, p); err != nil {
		m.deleteBlobs(blobs)
		return nil, errors.Wrap(err, "media: update product")
	}
	m.deleteBlobs(dropped)
	m.bus.Publish(TopicCatalogChanged)
	return p, nil
}

// DeleteProduct removes the database rows first; that part must succeed.
// Blob deletion afterwards is best-effort, with "already gone" counted as
// success.
func (m *Manager) DeleteProduct(ctx context.Context, id int64) error {
	prior, err := m.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := m.store.DeleteProduct(ctx, id); err != nil {
		return errors.Wrap(err, "media: delete product")
	}
	blobs := make([]*storage.Blob, 0, len(prior.Media))
	for _, mrow := range prior.Media {
		blobs = append(blobs, &storage.Blob{PublicID: mrow.PublicID, Kind: mrow.Kind})
	}
	m.deleteBlobs(blobs)
	m.bus.Publish(TopicCatalogChanged)
	return nil
}

// CreateCategory refuses names that already exist, compared
// case-insensitively. The check is advisory; there is no unique constraint
// backing it, so a concurrent create can still slip through.
func (m *Manager) CreateCategory(ctx context.Context, c *domain.ProductCategory) error {
	_, err := m.store.FindCategoryByName(ctx, c.Name)
	switch {
	case err == nil:
		return ErrCategoryExists
	case !errors.Is(err, ErrNotFound):
		return errors.Wrap(err, "media: check category name")
	}
	c.ID = common.UUIDint64()
	if err := m.store.CreateCategory(ctx, c); err != nil {
		return errors.Wrap(err, "media: create category")
	}
	m.bus.Publish(TopicCatalogChanged)
	return nil
}

// DeleteCategory refuses to delete a category that still has products.
func (m *Manager) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := m.store.GetCategory(ctx, id); err != nil {
		return err
	}
	count, err := m.store.CountProductsInCategory(ctx, id)
	if err != nil {
		return errors.Wrap(err, "media: count category products")
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	if err := m.store.DeleteCategory(ctx, id); err != nil {
		return errors.Wrap(err, "media: delete category")
	}
	m.bus.Publish(TopicCatalogChanged)
	return nil
}

func (m *Manager) checkFeaturedLimit(ctx context.Context, excludeID int64) error {
	count, err := m.store.CountFeatured(ctx, excludeID)
	if err != nil {
		return errors.Wrap(err, "media: count featured")
	}
	if count >= domain.FeaturedLimit {
		return ErrFeaturedLimit
	}
	return nil
}

// uploadAll pushes the files to the blob store concurrently, preserving
// input order in the result. On error it returns whichever blobs did make
// it, so the caller can clean them up.
func (m *Manager) uploadAll(ctx context.Context, uploads []Upload) ([]*storage.Blob, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	results := make([]*storage.Blob, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, up := range uploads {
		i, up := i, up
		g.Go(func() error {
			r, err := up.Open()
			if err != nil {
				return errors.Wrapf(err, "media: open %s", up.Filename)
			}
			defer r.Close()
			blob, err := m.blobs.Upload(gctx, r, storage.UploadKey(m.folder, up.Filename), up.ContentType)
			if err != nil {
				return errors.Wrapf(err, "media: upload %s", up.Filename)
			}
			results[i] = blob
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		var uploaded []*storage.Blob
		for _, b := range results {
			if b != nil {
				uploaded = append(uploaded, b)
			}
		}
		return uploaded, err
	}
	return results, nil
}

// deleteBlobs removes blobs best-effort on the cleanup pool and waits for
// the batch. Failures are logged and never propagated.
func (m *Manager) deleteBlobs(blobs []*storage.Blob) {
	if len(blobs) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, b := range blobs {
		b := b
		wg.Add(1)
		task := func() {
			defer wg.Done()
			err := m.blobs.Delete(context.Background(), b.PublicID, b.Kind)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				zap.L().Error("blob cleanup failed",
					zap.String("namespace", "media"),
					zap.String("public_id", b.PublicID),
					zap.Error(err))
			}
		}
		if err := m.cleanup.Submit(task); err != nil {
			// pool released or overloaded, fall back to inline
			task()
		}
	}
	wg.Wait()
}
