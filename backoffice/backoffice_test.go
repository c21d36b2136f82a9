package backoffice

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"centremart/catalog"
	"centremart/models"
	"centremart/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memProducts struct {
	items []models.Product
	lists int
}

func (m *memProducts) List(context.Context) ([]models.Product, error) {
	m.lists++
	return append([]models.Product(nil), m.items...), nil
}

func (m *memProducts) Count(context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memProducts) UpdateOffer(_ context.Context, id primitive.ObjectID, offer *models.Offer) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Offer = offer
			return nil
		}
	}
	return errors.New("not found")
}

type memOrders struct {
	mu     sync.Mutex
	items  []models.Order
	failID primitive.ObjectID
	lists  int
}

func (m *memOrders) List(context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := append([]models.Order(nil), m.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) Recent(ctx context.Context, n int) ([]models.Order, error) {
	all, err := m.List(ctx)
	if len(all) > n {
		all = all[:n]
	}
	return all, err
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	if id == m.failID {
		return errors.New("write failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memOrders) status(id primitive.ObjectID) models.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.items {
		if o.ID == id {
			return o.Status
		}
	}
	return ""
}

type memCategories struct {
	items []models.Category
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), m.items...), nil
}

func (m *memCategories) Insert(_ context.Context, c *models.Category) error {
	c.ID = primitive.NewObjectID()
	m.items = append(m.items, *c)
	return nil
}

func (m *memCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, c := range m.items {
		if c.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memCategories) SetEnabled(_ context.Context, id primitive.ObjectID, enabled bool) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Enabled = enabled
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memCategories) SetOrder(_ context.Context, id primitive.ObjectID, order int) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Order = order
			return nil
		}
	}
	return errors.New("not found")
}

type stubCreator struct {
	products *memProducts
	failAt   int
}

func (s *stubCreator) Create(_ context.Context, in catalog.ProductInput, _ upload.Image) (*models.Product, error) {
	p, err := in.Product()
	if err != nil {
		return nil, err
	}
	p.ID = primitive.NewObjectID()
	s.products.items = append(s.products.items, p)
	return &p, nil
}

func (s *stubCreator) Import(_ context.Context, products []models.Product) (int, error) {
	for i, p := range products {
		if s.failAt > 0 && i+1 == s.failAt {
			return i, errors.New("write failed")
		}
		s.products.items = append(s.products.items, p)
	}
	return len(products), nil
}

func newService() (*Service, *memProducts, *memOrders, *memCategories) {
	products := &memProducts{}
	orders := &memOrders{}
	categories := &memCategories{}
	svc := NewService(products, orders, categories, &stubCreator{products: products}, zap.NewNop())
	return svc, products, orders, categories
}

func seedOrders(o *memOrders, n int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		o.items = append(o.items, models.Order{
			ID:           ids[i],
			ProductName:  "Item",
			CustomerName: "Customer",
			Price:        10,
			Status:       models.StatusPending,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	return ids
}

func TestBulkUpdateStatus(t *testing.T) {
	svc, _, orders, _ := newService()
	ids := seedOrders(orders, 3)

	list, err := svc.BulkUpdateStatus(context.Background(), ids, models.StatusShipped)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, o := range list {
		assert.Equal(t, models.StatusShipped, o.Status)
	}
}

func TestBulkUpdateStatus_OneFailureFailsAllAndStillRefetches(t *testing.T) {
	svc, _, orders, _ := newService()
	ids := seedOrders(orders, 3)
	orders.failID = ids[1]

	list, err := svc.BulkUpdateStatus(context.Background(), ids, models.StatusDelivered)
	assert.ErrorIs(t, err, ErrBulkUpdateFailed)
	assert.Equal(t, 1, orders.lists)
	require.Len(t, list, 3)
	// the other two writes are not rolled back
	assert.Equal(t, models.StatusDelivered, orders.status(ids[0]))
	assert.Equal(t, models.StatusPending, orders.status(ids[1]))
	assert.Equal(t, models.StatusDelivered, orders.status(ids[2]))
}

func TestBulkUpdateStatus_Rejections(t *testing.T) {
	svc, _, orders, _ := newService()
	ids := seedOrders(orders, 1)

	_, err := svc.BulkUpdateStatus(context.Background(), nil, models.StatusShipped)
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = svc.BulkUpdateStatus(context.Background(), ids, "Lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, orders.lists)
}

func TestUpdateOrderStatus_AnyTransition(t *testing.T) {
	svc, _, orders, _ := newService()
	ids := seedOrders(orders, 1)

	_, err := svc.UpdateOrderStatus(context.Background(), ids[0], models.StatusDelivered)
	require.NoError(t, err)
	list, err := svc.UpdateOrderStatus(context.Background(), ids[0], models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, list[0].Status)
}

func TestOrders_Filter(t *testing.T) {
	svc, _, orders, _ := newService()
	orders.items = []models.Order{
		{ID: primitive.NewObjectID(), ProductName: "Basmati Rice", CustomerName: "Sita", Phone: "9811111111", Status: models.StatusPending, CreatedAt: time.Unix(1, 0)},
		{ID: primitive.NewObjectID(), ProductName: "Soap", CustomerName: "Ram", Phone: "9822222222", Status: models.StatusShipped, CreatedAt: time.Unix(2, 0)},
		{ID: primitive.NewObjectID(), ProductName: "Rice Cooker", CustomerName: "Hari", Phone: "9833333333", Status: models.StatusShipped, CreatedAt: time.Unix(3, 0)},
	}

	tests := []struct {
		name   string
		filter OrderFilter
		want   []string
	}{
		{"all newest first", OrderFilter{}, []string{"Rice Cooker", "Soap", "Basmati Rice"}},
		{"product name", OrderFilter{Search: "rice"}, []string{"Rice Cooker", "Basmati Rice"}},
		{"customer", OrderFilter{Search: "SITA"}, []string{"Basmati Rice"}},
		{"phone", OrderFilter{Search: "98222"}, []string{"Soap"}},
		{"status", OrderFilter{Status: models.StatusShipped}, []string{"Rice Cooker", "Soap"}},
		{"both", OrderFilter{Search: "rice", Status: models.StatusPending}, []string{"Basmati Rice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.Orders(context.Background(), tt.filter)
			require.NoError(t, err)
			names := make([]string, len(list))
			for i, o := range list {
				names[i] = o.ProductName
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestUpdateOffer(t *testing.T) {
	svc, products, _, _ := newService()
	id := primitive.NewObjectID()
	products.items = []models.Product{{ID: id, Name: "Tea", Price: 100}}

	list, err := svc.UpdateOffer(context.Background(), id, models.Offer{Type: models.OfferDiscount, Value: "20"})
	require.NoError(t, err)
	require.NotNil(t, list[0].Offer)
	assert.InDelta(t, 80, list[0].EffectivePrice(time.Now()), 1e-9)

	list, err = svc.UpdateOffer(context.Background(), id, models.Offer{Type: models.OfferNone})
	require.NoError(t, err)
	assert.Nil(t, list[0].Offer)

	for _, bad := range []models.Offer{
		{Type: models.OfferDiscount, Value: "150"},
		{Type: models.OfferDiscount, Value: "lots"},
		{Type: models.OfferCustom, Value: "  "},
		{Type: "bogus"},
	} {
		_, err := svc.UpdateOffer(context.Background(), id, bad)
		assert.ErrorIs(t, err, ErrInvalidOffer, "offer %+v", bad)
	}
}

func TestDeleteProduct_Refetches(t *testing.T) {
	svc, products, _, _ := newService()
	keep, drop := primitive.NewObjectID(), primitive.NewObjectID()
	products.items = []models.Product{{ID: keep, Name: "A"}, {ID: drop, Name: "B"}}

	list, err := svc.DeleteProduct(context.Background(), drop)
	require.NoError(t, err)
	assert.Equal(t, 1, products.lists)
	require.Len(t, list, 1)
	assert.Equal(t, keep, list[0].ID)
}

func TestCategories(t *testing.T) {
	svc, _, _, categories := newService()
	ctx := context.Background()

	_, err := svc.AddCategory(ctx, "Groceries")
	require.NoError(t, err)
	list, err := svc.AddCategory(ctx, " Sports ")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sports", list[1].Name)
	assert.Equal(t, 2, list[1].Order)
	assert.False(t, list[1].Enabled)

	_, err = svc.AddCategory(ctx, "sports")
	assert.ErrorIs(t, err, ErrDuplicateCategory)
	_, err = svc.AddCategory(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	sports := list[1].ID
	list, err = svc.ToggleCategory(ctx, sports, true)
	require.NoError(t, err)
	assert.True(t, list[1].Enabled)

	list, err = svc.ReorderCategory(ctx, sports, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, list[1].Order)

	list, err = svc.DeleteCategory(ctx, sports)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, categories.items, 1)
}

func TestBulkImport_StopsAtFirstFailure(t *testing.T) {
	products := &memProducts{}
	svc := NewService(products, &memOrders{}, &memCategories{}, &stubCreator{products: products, failAt: 2}, zap.NewNop())

	n, list, err := svc.BulkImport(context.Background(), []models.Product{{Name: "A"}, {Name: "B"}, {Name: "C"}})
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, list, 1)
}

func TestCreateProduct(t *testing.T) {
	svc, _, _, _ := newService()
	list, err := svc.CreateProduct(context.Background(), catalog.ProductInput{Name: "Bat", Price: "1500", Category: "Sports"}, upload.Image{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bat", list[0].Name)
}

func TestDashboard(t *testing.T) {
	svc, products, orders, _ := newService()
	products.items = []models.Product{{Name: "A"}, {Name: "B"}}
	ids := seedOrders(orders, 7)
	orders.items[0].Status = models.StatusDelivered

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 7, stats.TotalOrders)
	assert.Equal(t, 6, stats.PendingOrders)
	assert.InDelta(t, 70, stats.Revenue, 1e-9)
	require.Len(t, stats.RecentOrders, RecentOrderCount)
	assert.Equal(t, ids[6], stats.RecentOrders[0].ID)
}
