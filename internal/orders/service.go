package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rgoyal-dev/shopkart-backend/internal/cart"
	"github.com/rgoyal-dev/shopkart-backend/pkg/config"
	"github.com/rgoyal-dev/shopkart-backend/pkg/db/models"
	"github.com/rgoyal-dev/shopkart-backend/pkg/enums"
	pkgerrors "github.com/rgoyal-dev/shopkart-backend/pkg/errors"
	"github.com/rgoyal-dev/shopkart-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addressLoader interface {
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}

type vendorResolver interface {
	VendorsByShopNames(ctx context.Context, names []string) (map[string]models.Vendor, error)
}

type placementLocker interface {
	Acquire(ctx context.Context, id string) (release func(), ok bool, err error)
}

// Service exposes order placement, queries, and status management.
type Service interface {
	Place(ctx context.Context, input PlaceInput) ([]OrderDTO, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListAllOrders(ctx context.Context) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	BulkUpdateStatus(ctx context.Context, orderIDs []uuid.UUID, status enums.OrderStatus) error
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
	PendingRelays(ctx context.Context, orderID uuid.UUID) ([]RelayDTO, error)
}

type service struct {
	repo      OrderRepository
	cartRepo  cart.CartRepository
	addresses addressLoader
	vendors   vendorResolver
	tx        txRunner
	locker    placementLocker
	cfg       config.OrdersConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds an order service backed by the provided stack.
func NewService(
	repo OrderRepository,
	cartRepo cart.CartRepository,
	addresses addressLoader,
	vendors vendorResolver,
	tx txRunner,
	locker placementLocker,
	cfg config.OrdersConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address loader required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locker == nil {
		return nil, fmt.Errorf("placement locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		cartRepo:  cartRepo,
		addresses: addresses,
		vendors:   vendors,
		tx:        tx,
		locker:    locker,
		cfg:       cfg,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// PlaceInput captures the payload for order placement. DeliveryDays zero
// means the configured default.
type PlaceInput struct {
	UserID        uuid.UUID
	AddressID     uuid.UUID
	PaymentMethod enums.PaymentMethod
	DeliveryDays  int
}

// shopGroup is one per-shop slice of the cart, in first-encounter order.
type shopGroup struct {
	shopName string
	lines    []models.CartItem
}

// Place splits the user's cart into one order per shop and persists all of
// them, plus the cart deletion, in a single transaction. A per-user lock
// rejects concurrent placements.
func (s *service) Place(ctx context.Context, input PlaceInput) ([]OrderDTO, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	deliveryDays := input.DeliveryDays
	if deliveryDays == 0 {
		deliveryDays = s.cfg.DefaultDeliveryDays
	}
	if deliveryDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery days must be positive")
	}

	release, ok, err := s.locker.Acquire(ctx, input.UserID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire placement lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order placement already in progress")
	}
	defer release()

	userCart, err := s.cartRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	address, err := s.addresses.FindByIDForUser(ctx, input.AddressID, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	groups, err := s.groupByShop(ctx, userCart.Items)
	if err != nil {
		return nil, err
	}

	deliveryDate := s.now().UTC().Add(time.Duration(deliveryDays) * 24 * time.Hour)
	orders := make([]*models.Order, 0, len(groups))
	for _, group := range groups {
		order := &models.Order{
			UserID:        input.UserID,
			AddressID:     address.ID,
			ShopName:      group.shopName,
			Status:        enums.OrderStatusPending,
			PaymentMethod: input.PaymentMethod,
			DeliveryDate:  deliveryDate,
		}
		for i, line := range group.lines {
			unitPrice := line.Product.PriceCents
			lineTotal := unitPrice * int64(line.Quantity)
			order.Items = append(order.Items, models.OrderItem{
				Position:       i,
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				ShopName:       group.shopName,
				UnitPriceCents: unitPrice,
				TotalCents:     lineTotal,
			})
			order.TotalCents += lineTotal
		}
		orders = append(orders, order)
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateOrders(ctx, orders); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).DeleteByUser(ctx, input.UserID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist orders")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":     input.UserID.String(),
		"order_count": len(orders),
	}), "cart placed as orders")

	result := make([]OrderDTO, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderDTO(order))
	}
	return result, nil
}

// ListUserOrders returns the user's orders, newest first, with per-line shop
// names resolved.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	result := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		result = append(result, toOrderDTO(&rows[i]))
	}
	return result, nil
}

// ListAllOrders returns every order with vendor contact numbers resolved per
// line, for the admin console.
func (s *service) ListAllOrders(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := make([]OrderDTO, 0, len(rows))
	shopNames := map[string]struct{}{}
	for i := range rows {
		dto := toOrderDTO(&rows[i])
		for _, line := range dto.Items {
			shopNames[line.ShopName] = struct{}{}
		}
		result = append(result, dto)
	}

	names := make([]string, 0, len(shopNames))
	for name := range shopNames {
		names = append(names, name)
	}
	vendorsByShop, err := s.vendors.VendorsByShopNames(ctx, names)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve vendors")
	}

	for i := range result {
		for j := range result[i].Items {
			if vendor, ok := vendorsByShop[result[i].Items[j].ShopName]; ok {
				number := formatVendorNumber(vendor.PhoneNumber)
				result[i].Items[j].VendorNumber = &number
			}
		}
	}
	return result, nil
}

// UpdateStatus moves one order along the transition table.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot change status from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	dto := toOrderDTO(order)
	return &dto, nil
}

// BulkUpdateStatus applies one status to a batch of orders. A single
// forbidden transition rejects the whole batch.
func (s *service) BulkUpdateStatus(ctx context.Context, orderIDs []uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if len(orderIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order ids are required")
	}

	rows, err := s.repo.FindByIDs(ctx, orderIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	if len(rows) != len(dedupe(orderIDs)) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "one or more orders not found")
	}

	var blocked []string
	for _, order := range rows {
		if !order.Status.CanTransitionTo(status) {
			blocked = append(blocked, order.ID.String())
		}
	}
	if len(blocked) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot change status to %s for every order in the batch", status)).
			WithDetails(map[string]any{"order_ids": blocked})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateStatusBulk(ctx, orderIDs, status)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order statuses")
	}
	return nil
}

// Cancel sets an owned, still-pending order to Cancelled.
func (s *service) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Cannot cancel processed order")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	order.Status = enums.OrderStatusCancelled
	dto := toOrderDTO(order)
	return &dto, nil
}

// PendingRelays builds one outbound vendor relay link per shop of a pending
// order.
func (s *service) PendingRelays(ctx context.Context, orderID uuid.UUID) ([]RelayDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pending")
	}

	linesByShop := map[string][]models.OrderItem{}
	var shopOrder []string
	for _, item := range order.Items {
		shop := resolveItemShop(item)
		if _, seen := linesByShop[shop]; !seen {
			shopOrder = append(shopOrder, shop)
		}
		linesByShop[shop] = append(linesByShop[shop], item)
	}

	vendorsByShop, err := s.vendors.VendorsByShopNames(ctx, shopOrder)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve vendors")
	}

	relays := make([]RelayDTO, 0, len(shopOrder))
	for _, shop := range shopOrder {
		vendor, ok := vendorsByShop[shop]
		if !ok {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"order_id":  order.ID.String(),
				"shop_name": shop,
			}), "no vendor resolvable for shop, skipping relay")
			continue
		}
		relays = append(relays, RelayDTO{
			ShopName:     shop,
			VendorName:   vendor.Name,
			VendorNumber: formatVendorNumber(vendor.PhoneNumber),
			Link:         relayLink(vendor.PhoneNumber, order, shop, linesByShop[shop]),
		})
	}
	return relays, nil
}

// groupByShop buckets cart lines by their stored shop in first-encounter
// order. Blank shops fall back to the product's first stock, then the
// sentinel shop.
func (s *service) groupByShop(ctx context.Context, items []models.CartItem) ([]shopGroup, error) {
	index := map[string]int{}
	var groups []shopGroup
	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart line references a missing product")
		}
		shop := item.ShopName
		if shop == "" {
			if shop = item.Product.PrimaryShopName(); shop == "" {
				shop = models.UnknownShopName
			}
		}
		if shop == models.UnknownShopName {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", item.ProductID.String()),
				"placing order line against sentinel shop")
		}
		pos, seen := index[shop]
		if !seen {
			index[shop] = len(groups)
			groups = append(groups, shopGroup{shopName: shop})
			pos = index[shop]
		}
		groups[pos].lines = append(groups[pos].lines, item)
	}
	return groups, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var result []uuid.UUID
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
