package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

// Granularity selects how revenue buckets are cut.
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

func (g Granularity) valid() bool {
	switch g {
	case GranularityMonth, GranularityQuarter, GranularityYear:
		return true
	}
	return false
}

// Actor is the authenticated caller requesting a report.
type Actor struct {
	AccountID uint
	StoreID   *uint
	Role      enums.Role
}

// RevenueInput selects a store's revenue report for one calendar year.
type RevenueInput struct {
	StoreID     uint
	Granularity Granularity
	Year        int
}

// RevenueBucket is one period's completed-order totals.
type RevenueBucket struct {
	Label      string          `json:"label"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// RevenueReport covers one store and one calendar year: the bucketed
// series, the per-product breakdown and the store's category set.
type RevenueReport struct {
	StoreID      uint              `json:"store_id"`
	Year         int               `json:"year"`
	Granularity  Granularity       `json:"granularity"`
	Buckets      []RevenueBucket   `json:"buckets"`
	Products     []ProductStat     `json:"products"`
	Categories   []models.Category `json:"categories"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalOrders  int               `json:"total_orders"`
}

// ProductStat ranks one food by units sold over the report window.
type ProductStat struct {
	FoodID       uint            `json:"food_id"`
	FoodName     string          `json:"food_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ProductStatsInput selects a store's product ranking for one year.
type ProductStatsInput struct {
	StoreID uint
	Year    int
	Limit   int
}

// PlatformStats is the admin-wide view for one calendar year.
type PlatformStats struct {
	Year            int             `json:"year"`
	CustomerCount   int64           `json:"customer_count"`
	ApprovedStores  int64           `json:"approved_stores"`
	CompletedOrders int             `json:"completed_orders"`
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
}

// Service computes revenue and sales reports from completed orders.
type Service interface {
	Revenue(ctx context.Context, actor Actor, input RevenueInput) (*RevenueReport, error)
	TopProducts(ctx context.Context, actor Actor, input ProductStatsInput) ([]ProductStat, error)
	Platform(ctx context.Context, actor Actor, year int) (*PlatformStats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reporting repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Revenue buckets a store's completed orders by calendar period. Only the
// owning store and admins may read it.
func (s *service) Revenue(ctx context.Context, actor Actor, input RevenueInput) (*RevenueReport, error) {
	if input.Granularity == "" {
		input.Granularity = GranularityMonth
	}
	if !input.Granularity.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "granularity must be month, quarter or year")
	}
	year, err := s.resolveYear(input.Year)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeStore(ctx, actor, input.StoreID); err != nil {
		return nil, err
	}

	orders, err := s.completedOrdersForYear(ctx, &input.StoreID, year)
	if err != nil {
		return nil, err
	}

	buckets := emptyBuckets(input.Granularity, year)
	report := &RevenueReport{
		StoreID:     input.StoreID,
		Year:        year,
		Granularity: input.Granularity,
	}
	for _, order := range orders {
		idx := bucketIndex(input.Granularity, order.CreatedAt)
		amount := order.TotalAmount()
		buckets[idx].OrderCount++
		buckets[idx].Revenue = buckets[idx].Revenue.Add(amount)
		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(amount)
	}
	report.Buckets = buckets
	report.Products = productStats(orders)

	categories, err := s.repo.StoreCategories(ctx, input.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store categories")
	}
	report.Categories = categories
	return report, nil
}

// TopProducts ranks a store's foods by units sold in one year.
func (s *service) TopProducts(ctx context.Context, actor Actor, input ProductStatsInput) ([]ProductStat, error) {
	year, err := s.resolveYear(input.Year)
	if err != nil {
		return nil, err
	}
	if input.Limit <= 0 {
		input.Limit = 10
	}
	if err := s.authorizeStore(ctx, actor, input.StoreID); err != nil {
		return nil, err
	}

	orders, err := s.completedOrdersForYear(ctx, &input.StoreID, year)
	if err != nil {
		return nil, err
	}

	stats := productStats(orders)
	if len(stats) > input.Limit {
		stats = stats[:input.Limit]
	}
	return stats, nil
}

func productStats(orders []models.Order) []ProductStat {
	byFood := map[uint]*ProductStat{}
	for _, order := range orders {
		for _, item := range order.Items {
			stat, ok := byFood[item.FoodID]
			if !ok {
				stat = &ProductStat{FoodID: item.FoodID}
				if item.Food != nil {
					stat.FoodName = item.Food.Name
				}
				byFood[item.FoodID] = stat
			}
			stat.QuantitySold += item.Quantity
			stat.Revenue = stat.Revenue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	stats := make([]ProductStat, 0, len(byFood))
	for _, stat := range byFood {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].QuantitySold != stats[j].QuantitySold {
			return stats[i].QuantitySold > stats[j].QuantitySold
		}
		return stats[i].FoodID < stats[j].FoodID
	})
	return stats
}

// Platform summarizes the whole marketplace for admins.
func (s *service) Platform(ctx context.Context, actor Actor, year int) (*PlatformStats, error) {
	if actor.Role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	resolved, err := s.resolveYear(year)
	if err != nil {
		return nil, err
	}

	customers, err := s.repo.CountAccounts(ctx, enums.RoleCustomer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	stores, err := s.repo.CountStores(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stores")
	}
	orders, err := s.completedOrdersForYear(ctx, nil, resolved)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		Year:           resolved,
		CustomerCount:  customers,
		ApprovedStores: stores,
	}
	for _, order := range orders {
		stats.CompletedOrders++
		stats.GrossRevenue = stats.GrossRevenue.Add(order.TotalAmount())
	}
	return stats, nil
}

func (s *service) resolveYear(year int) (int, error) {
	if year == 0 {
		return s.now().UTC().Year(), nil
	}
	if year < 2000 || year > s.now().UTC().Year() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "year out of range")
	}
	return year, nil
}

func (s *service) authorizeStore(ctx context.Context, actor Actor, storeID uint) error {
	if storeID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	switch actor.Role {
	case enums.RoleAdmin:
	case enums.RoleStore:
		if actor.StoreID == nil || *actor.StoreID != storeID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "reports are visible to the owning store only")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "reports are visible to the owning store only")
	}

	exists, err := s.repo.StoreExists(ctx, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return nil
}

func (s *service) completedOrdersForYear(ctx context.Context, storeID *uint, year int) ([]models.Order, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	orders, err := s.repo.CompletedOrders(ctx, storeID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed orders")
	}
	return orders, nil
}

func emptyBuckets(granularity Granularity, year int) []RevenueBucket {
	switch granularity {
	case GranularityMonth:
		buckets := make([]RevenueBucket, 12)
		for i := range buckets {
			buckets[i] = RevenueBucket{Label: fmt.Sprintf("%d-%02d", year, i+1)}
		}
		return buckets
	case GranularityQuarter:
		buckets := make([]RevenueBucket, 4)
		for i := range buckets {
			buckets[i] = RevenueBucket{Label: fmt.Sprintf("%d-Q%d", year, i+1)}
		}
		return buckets
	default:
		return []RevenueBucket{{Label: fmt.Sprintf("%d", year)}}
	}
}

func bucketIndex(granularity Granularity, at time.Time) int {
	switch granularity {
	case GranularityMonth:
		return int(at.UTC().Month()) - 1
	case GranularityQuarter:
		return (int(at.UTC().Month()) - 1) / 3
	default:
		return 0
	}
}
