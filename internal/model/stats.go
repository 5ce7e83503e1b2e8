package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate report shapes served by the statistics endpoints. These are
// read-side only: one consistent read of the current database state.

type StatsOverview struct {
	Users   UserCounts      `json:"users"`
	Catalog CatalogCounts   `json:"catalog"`
	Orders  OrderCounts     `json:"orders"`
	Revenue RevenueTotals   `json:"revenue"`
	Carts   CartAggregates  `json:"carts"`
}

type UserCounts struct {
	Total        int `json:"total"`
	Admins       int `json:"admins"`
	Regular      int `json:"regular_users"`
	NewThisMonth int `json:"new_this_month"`
}

type CatalogCounts struct {
	Products   int `json:"products"`
	Categories int `json:"categories"`
}

type OrderCounts struct {
	Total     int                 `json:"total"`
	ByStatus  map[OrderStatus]int `json:"by_status"`
	ThisMonth int                 `json:"this_month"`
}

type RevenueTotals struct {
	Total     decimal.Decimal `json:"total"`
	ThisMonth decimal.Decimal `json:"this_month"`
	ThisYear  decimal.Decimal `json:"this_year"`
}

type CartAggregates struct {
	ActiveCarts int             `json:"active_carts"`
	TotalItems  int             `json:"total_items"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

type StatsDashboard struct {
	Today     PeriodStats     `json:"today"`
	ThisWeek  PeriodStats     `json:"this_week"`
	ThisMonth PeriodStats     `json:"this_month"`
	Totals    DashboardTotals `json:"totals"`
}

type PeriodStats struct {
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
	NewUsers int             `json:"new_users"`
}

type DashboardTotals struct {
	Users    int             `json:"users"`
	Products int             `json:"products"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type UserStats struct {
	Total           int            `json:"total_users"`
	ByRole          map[string]int `json:"users_by_role"`
	NewLast30Days   int            `json:"new_users_last_30_days"`
	UsersWithOrders int            `json:"users_with_orders"`
}

type ProductStats struct {
	Total      int             `json:"total_products"`
	ByCategory []CategoryCount `json:"products_by_category"`
	TopSellers []TopSeller     `json:"top_sellers"`
}

type CategoryCount struct {
	CategoryName string `json:"category_name"`
	Count        int    `json:"count"`
}

type TopSeller struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitsSold   int    `json:"units_sold"`
}

type OrderStats struct {
	Total             int                 `json:"total_orders"`
	ByStatus          map[OrderStatus]int `json:"orders_by_status"`
	TotalRevenue      decimal.Decimal     `json:"total_revenue"`
	AverageOrderValue decimal.Decimal     `json:"average_order_value"`
	DailyLastWeek     []DailyOrderStats   `json:"daily_orders_last_week"`
}

type DailyOrderStats struct {
	Date    time.Time       `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OrderDetailStats struct {
	TotalLines        int             `json:"total_order_details"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageLineValue  decimal.Decimal `json:"average_line_value"`
	MostSold          *TopSeller      `json:"most_sold_product"`
}

type RevenueReport struct {
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	OrdersCount       int               `json:"orders_count"`
	AverageOrderValue decimal.Decimal   `json:"average_order_value"`
	Daily             []DailyOrderStats `json:"daily_revenue"`
}

type GuestMessageStats struct {
	Total  int           `json:"total_messages"`
	Read   int           `json:"read_messages"`
	Unread int           `json:"unread_messages"`
	Latest *GuestMessage `json:"-"`
}
