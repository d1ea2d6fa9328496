package service_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/novacart/internal/cache"
	"github.com/linemk/novacart/internal/domain/models"
	"github.com/linemk/novacart/internal/service"
	"github.com/linemk/novacart/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nullWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeUserStorage — репозиторий пользователей в памяти.
type fakeUserStorage struct {
	users  map[string]*models.User
	nextID int64
}

var _ storage.UserStorage = (*fakeUserStorage)(nil)

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStorage) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return nil, storage.ErrUserAlreadyExists
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Username] = user
	return user, nil
}

func (f *fakeUserStorage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

// fakeProductStorage — каталог в памяти.
type fakeProductStorage struct {
	products map[int64]*models.Product
	nextID   int64
}

var _ storage.ProductStorage = (*fakeProductStorage)(nil)

func newFakeProductStorage() *fakeProductStorage {
	return &fakeProductStorage{products: make(map[int64]*models.Product), nextID: 1}
}

func (f *fakeProductStorage) ListProducts(_ context.Context, category string) ([]*models.Product, error) {
	var out []*models.Product
	for id := int64(1); id < f.nextID; id++ {
		p, ok := f.products[id]
		if !ok {
			continue
		}
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductStorage) ListCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for id := int64(1); id < f.nextID; id++ {
		p, ok := f.products[id]
		if !ok || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out, nil
}

func (f *fakeProductStorage) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductStorage) GetProductByIDTx(ctx context.Context, _ *sql.Tx, id int64) (*models.Product, error) {
	return f.GetProductByID(ctx, id)
}

func (f *fakeProductStorage) GetProductImage(_ context.Context, id int64) ([]byte, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	return p.Image, nil
}

func (f *fakeProductStorage) CreateProduct(_ context.Context, product *models.Product) (int64, error) {
	product.ID = f.nextID
	f.nextID++
	f.products[product.ID] = product
	return product.ID, nil
}

func (f *fakeProductStorage) UpdateProduct(_ context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return storage.ErrProductNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductStorage) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return storage.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

// fakeCartStorage — корзина в памяти; транзакция игнорируется.
// forceLineMiss заставляет следующий GetLineForUpdateTx не найти строку,
// эмулируя гонку двух первых добавлений одной пары (user, product).
type fakeCartStorage struct {
	lines         []*models.CartLine
	nextID        int64
	forceLineMiss bool
}

var _ storage.CartStorage = (*fakeCartStorage)(nil)

func newFakeCartStorage() *fakeCartStorage {
	return &fakeCartStorage{nextID: 1}
}

func (f *fakeCartStorage) GetLineForUpdateTx(_ context.Context, _ *sql.Tx, userID, productID int64) (*models.CartLine, error) {
	if f.forceLineMiss {
		f.forceLineMiss = false
		return nil, storage.ErrCartLineNotFound
	}
	for _, line := range f.lines {
		if line.UserID == userID && line.ProductID == productID {
			copied := *line
			return &copied, nil
		}
	}
	return nil, storage.ErrCartLineNotFound
}

func (f *fakeCartStorage) UpsertLineTx(_ context.Context, _ *sql.Tx, line *models.CartLine) (*models.CartLine, error) {
	// как ON CONFLICT DO UPDATE: существующая строка наращивается,
	// ее снимок цены сохраняется
	for _, existing := range f.lines {
		if existing.UserID == line.UserID && existing.ProductID == line.ProductID {
			existing.Quantity += line.Quantity
			copied := *existing
			return &copied, nil
		}
	}
	stored := *line
	stored.ID = f.nextID
	f.nextID++
	f.lines = append(f.lines, &stored)
	copied := stored
	return &copied, nil
}

func (f *fakeCartStorage) IncrementQuantityTx(_ context.Context, _ *sql.Tx, lineID int64, by int) error {
	for _, line := range f.lines {
		if line.ID == lineID {
			line.Quantity += by
			return nil
		}
	}
	return storage.ErrCartLineNotFound
}

func (f *fakeCartStorage) ListLinesByUser(_ context.Context, userID int64) ([]*models.CartLine, error) {
	var out []*models.CartLine
	for _, line := range f.lines {
		if line.UserID == userID {
			copied := *line
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCartStorage) ListLinesByUserTx(ctx context.Context, _ *sql.Tx, userID int64) ([]*models.CartLine, error) {
	return f.ListLinesByUser(ctx, userID)
}

func (f *fakeCartStorage) DeleteLine(_ context.Context, userID, lineID int64) error {
	for i, line := range f.lines {
		if line.ID == lineID && line.UserID == userID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	// отсутствие позиции — не ошибка
	return nil
}

func (f *fakeCartStorage) ClearUserTx(_ context.Context, _ *sql.Tx, userID int64) error {
	var kept []*models.CartLine
	for _, line := range f.lines {
		if line.UserID != userID {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return nil
}

// fakeOrderStorage — хранилище заказов в памяти.
type fakeOrderStorage struct {
	orders     []*models.Order
	nextID     int64
	failCreate bool
}

var _ storage.OrderStorage = (*fakeOrderStorage)(nil)

func newFakeOrderStorage() *fakeOrderStorage {
	return &fakeOrderStorage{nextID: 1}
}

func (f *fakeOrderStorage) CreateOrderTx(_ context.Context, _ *sql.Tx, userID int64, total int) (int64, time.Time, error) {
	if f.failCreate {
		return 0, time.Time{}, errors.New("insert failed")
	}
	order := &models.Order{
		ID:        f.nextID,
		UserID:    userID,
		Total:     total,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.orders = append(f.orders, order)
	return order.ID, order.CreatedAt, nil
}

func (f *fakeOrderStorage) CreateOrderItemsTx(_ context.Context, _ *sql.Tx, orderID int64, items []models.OrderItem) error {
	for _, order := range f.orders {
		if order.ID == orderID {
			order.Items = append(order.Items, items...)
			return nil
		}
	}
	return errors.New("order not found")
}

func (f *fakeOrderStorage) GetOrdersByUserID(_ context.Context, userID int64) ([]*models.Order, error) {
	// новые заказы первыми
	var out []*models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, f.orders[i])
		}
	}
	return out, nil
}

// fakeCatalogCache — кэш каталога в памяти.
type fakeCatalogCache struct {
	products    []*models.Product
	categories  []string
	invalidated int
}

var _ cache.CatalogCache = (*fakeCatalogCache)(nil)

func (f *fakeCatalogCache) GetProducts(_ context.Context) ([]*models.Product, bool) {
	return f.products, f.products != nil
}

func (f *fakeCatalogCache) SetProducts(_ context.Context, products []*models.Product) {
	f.products = products
}

func (f *fakeCatalogCache) GetCategories(_ context.Context) ([]string, bool) {
	return f.categories, f.categories != nil
}

func (f *fakeCatalogCache) SetCategories(_ context.Context, categories []string) {
	f.categories = categories
}

func (f *fakeCatalogCache) Invalidate(_ context.Context) {
	f.products = nil
	f.categories = nil
	f.invalidated++
}

func TestRegisterAndLogin_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userRepo := newFakeUserStorage()
	auth := service.NewAuthService(newTestLogger(), userRepo, time.Hour)
	ctx := context.Background()

	token, err := auth.Register(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Пароль должен храниться только в виде bcrypt-хэша
	user := userRepo.users["alice"]
	require.NotNil(t, user)
	assert.NotEqual(t, []byte("s3cret-pass"), user.PassHash)

	token, err = auth.Login(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userRepo := newFakeUserStorage()
	auth := service.NewAuthService(newTestLogger(), userRepo, time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "alice", "another-pass")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrUserAlreadyExists))
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userRepo := newFakeUserStorage()
	auth := service.NewAuthService(newTestLogger(), userRepo, time.Hour)
	ctx := context.Background()

	_, err := auth.Register(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "alice", "wrong-pass")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	auth := service.NewAuthService(newTestLogger(), newFakeUserStorage(), time.Hour)

	_, err := auth.Login(context.Background(), "ghost", "whatever")
	assert.Error(t, err)
	// Причина отказа не раскрывается: та же ошибка, что и при неверном пароле
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestLogin_UnusualPasswords(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userRepo := newFakeUserStorage()
	auth := service.NewAuthService(newTestLogger(), userRepo, time.Hour)
	ctx := context.Background()

	// Пустой и юникодный пароли проходят полный цикл регистрация-вход
	cases := []struct {
		username string
		password string
	}{
		{"empty-pass", ""},
		{"unicode-pass", "пароль🔑"},
	}
	for _, tc := range cases {
		_, err := auth.Register(ctx, tc.username, tc.password)
		require.NoError(t, err)

		_, err = auth.Login(ctx, tc.username, tc.password)
		assert.NoError(t, err)

		_, err = auth.Login(ctx, tc.username, tc.password+"x")
		assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
	}
}

func TestCartAdd_NewLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	productRepo := newFakeProductStorage()
	cartRepo := newFakeCartStorage()
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10, Stock: 100}
	productRepo.nextID = 2

	svc := service.NewCartService(newTestLogger(), db, cartRepo, productRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	line, err := svc.Add(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Pen", line.Name)
	assert.Equal(t, 10, line.Price)
	assert.Equal(t, 2, line.Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAdd_MergesQuantities(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	productRepo := newFakeProductStorage()
	cartRepo := newFakeCartStorage()
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10, Stock: 100}
	productRepo.nextID = 2

	svc := service.NewCartService(newTestLogger(), db, cartRepo, productRepo)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)

	// Между добавлениями цена в каталоге меняется
	productRepo.products[1].Price = 999

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Add(ctx, 1, 1, 3)
	require.NoError(t, err)

	view, err := svc.List(ctx, 1)
	require.NoError(t, err)
	// Одна позиция с суммарным количеством, цена — снимок первого добавления
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 10, view.Items[0].Price)
	assert.Equal(t, 50, view.Total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAdd_LostFirstAddRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	productRepo := newFakeProductStorage()
	cartRepo := newFakeCartStorage()
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10, Stock: 100}
	productRepo.nextID = 2

	// Параллельное добавление успело создать строку между чтением и вставкой
	cartRepo.lines = []*models.CartLine{
		{ID: 1, UserID: 1, ProductID: 1, Name: "Pen", Price: 10, Quantity: 2},
	}
	cartRepo.nextID = 2
	cartRepo.forceLineMiss = true

	svc := service.NewCartService(newTestLogger(), db, cartRepo, productRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	// Проигравшее добавление сливается в существующую позицию, а не падает
	line, err := svc.Add(context.Background(), 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), line.ID)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 10, line.Price)

	view, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAdd_ProductNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := service.NewCartService(newTestLogger(), db, newFakeCartStorage(), newFakeProductStorage())

	mock.ExpectBegin()
	mock.ExpectRollback()

	line, err := svc.Add(context.Background(), 1, 42, 1)
	assert.Error(t, err)
	assert.Nil(t, line)
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRemove_AbsentLine(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := service.NewCartService(newTestLogger(), db, newFakeCartStorage(), newFakeProductStorage())

	// Удаление из пустой корзины проходит без ошибки
	assert.NoError(t, svc.Remove(context.Background(), 1, 99))
}

func TestCartList_Empty(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := service.NewCartService(newTestLogger(), db, newFakeCartStorage(), newFakeProductStorage())

	view, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Total)
}

func TestCheckout_EmptyCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orderRepo := newFakeOrderStorage()
	svc := service.NewCheckoutService(newTestLogger(), db, newFakeCartStorage(), orderRepo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, err := svc.Checkout(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, service.ErrCartEmpty))
	assert.Empty(t, orderRepo.orders)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cartRepo := newFakeCartStorage()
	orderRepo := newFakeOrderStorage()
	cartRepo.lines = []*models.CartLine{
		{ID: 1, UserID: 1, ProductID: 1, Name: "Pen", Price: 10, Quantity: 5},
		{ID: 2, UserID: 1, ProductID: 2, Name: "Notebook", Price: 50, Quantity: 1},
	}
	cartRepo.nextID = 3

	svc := service.NewCheckoutService(newTestLogger(), db, cartRepo, orderRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	order, err := svc.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 100, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Pen", order.Items[0].Name)
	assert.Equal(t, 5, order.Items[0].Quantity)

	// После оформления корзина пуста
	lines, err := cartRepo.ListLinesByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckout_OrderCreateFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cartRepo := newFakeCartStorage()
	orderRepo := newFakeOrderStorage()
	orderRepo.failCreate = true
	cartRepo.lines = []*models.CartLine{
		{ID: 1, UserID: 1, ProductID: 1, Name: "Pen", Price: 10, Quantity: 2},
	}
	cartRepo.nextID = 2

	svc := service.NewCheckoutService(newTestLogger(), db, cartRepo, orderRepo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	order, err := svc.Checkout(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, order)

	// Корзина не тронута: всё или ничего
	lines, err := cartRepo.ListLinesByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestShoppingFlow проверяет полный путь покупателя: добавление одного товара
// дважды сливается в одну позицию, оформление создает заказ на верную сумму,
// корзина очищается, заказ появляется в истории.
func TestShoppingFlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	productRepo := newFakeProductStorage()
	cartRepo := newFakeCartStorage()
	orderRepo := newFakeOrderStorage()
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10, Stock: 100}
	productRepo.nextID = 2

	cartSvc := service.NewCartService(newTestLogger(), db, cartRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(newTestLogger(), db, cartRepo, orderRepo)
	historySvc := service.NewOrderHistoryService(newTestLogger(), orderRepo)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = cartSvc.Add(ctx, 1, 1, 2)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = cartSvc.Add(ctx, 1, 1, 3)
	require.NoError(t, err)

	view, err := cartSvc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	mock.ExpectBegin()
	mock.ExpectCommit()
	order, err := checkoutSvc.Checkout(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, order.Total)

	view, err = cartSvc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// Дальнейшие изменения каталога не влияют на созданный заказ
	productRepo.products[1].Price = 500

	orders, err := historySvc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 50, orders[0].Total)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 10, orders[0].Items[0].Price)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogList_UsesCache(t *testing.T) {
	productRepo := newFakeProductStorage()
	catalogCache := &fakeCatalogCache{}
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10}
	productRepo.nextID = 2

	svc := service.NewCatalogService(newTestLogger(), productRepo, catalogCache)
	ctx := context.Background()

	// Первый запрос читает БД и наполняет кэш
	products, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NotNil(t, catalogCache.products)

	// Второй запрос идет из кэша даже после изменения БД напрямую
	productRepo.products[2] = &models.Product{ID: 2, Name: "Notebook", Category: "stationery", Price: 50}
	productRepo.nextID = 3

	products, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	// Фильтр по категории кэш обходит
	products, err = svc.List(ctx, "stationery")
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestCatalogCreate_InvalidatesCache(t *testing.T) {
	productRepo := newFakeProductStorage()
	catalogCache := &fakeCatalogCache{
		products: []*models.Product{{ID: 1, Name: "Pen"}},
	}

	svc := service.NewCatalogService(newTestLogger(), productRepo, catalogCache)

	_, err := svc.Create(context.Background(), &models.Product{Name: "Notebook", Category: "stationery", Price: 50, Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, catalogCache.invalidated)
	assert.Nil(t, catalogCache.products)
}

func TestCatalog_NilCache(t *testing.T) {
	productRepo := newFakeProductStorage()
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10}
	productRepo.nextID = 2

	// Без redis сервис работает напрямую с БД
	svc := service.NewCatalogService(newTestLogger(), productRepo, nil)

	products, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"stationery"}, categories)
}

func TestCatalogImage_NotFound(t *testing.T) {
	productRepo := newFakeProductStorage()
	productRepo.products[1] = &models.Product{ID: 1, Name: "Pen", Category: "stationery", Price: 10}
	productRepo.nextID = 2

	svc := service.NewCatalogService(newTestLogger(), productRepo, nil)

	// Товар есть, но изображение не загружено
	_, err := svc.Image(context.Background(), 1)
	assert.True(t, errors.Is(err, service.ErrImageNotFound))

	// Товара нет вовсе
	_, err = svc.Image(context.Background(), 42)
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))
}

func TestCatalogUpdate_NotFound(t *testing.T) {
	svc := service.NewCatalogService(newTestLogger(), newFakeProductStorage(), nil)

	err := svc.Update(context.Background(), &models.Product{ID: 42, Name: "Pen", Category: "stationery", Price: 10})
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))
}

func TestOrderHistory_EmptyForNewUser(t *testing.T) {
	svc := service.NewOrderHistoryService(newTestLogger(), newFakeOrderStorage())

	orders, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
