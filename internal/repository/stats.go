package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raditya/storefront-api/internal/model"
)

type StatsRepository interface {
	Overview(ctx context.Context) (*model.StatsOverview, error)
	Dashboard(ctx context.Context) (*model.StatsDashboard, error)
	Users(ctx context.Context) (*model.UserStats, error)
	Products(ctx context.Context) (*model.ProductStats, error)
	Orders(ctx context.Context) (*model.OrderStats, error)
	OrderDetails(ctx context.Context) (*model.OrderDetailStats, error)
	Revenue(ctx context.Context, start, end time.Time) (*model.RevenueReport, error)
}

type pgStatsRepo struct{ pool *pgxpool.Pool }

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &pgStatsRepo{pool: pool}
}

func (r *pgStatsRepo) Overview(ctx context.Context) (*model.StatsOverview, error) {
	o := &model.StatsOverview{}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'admin'),
			(SELECT COUNT(*) FROM users WHERE role = 'user'),
			(SELECT COUNT(*) FROM users WHERE created_at >= date_trunc('month', NOW())),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE created_at >= date_trunc('month', NOW())),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE created_at >= date_trunc('month', NOW())),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE created_at >= date_trunc('year', NOW())),
			(SELECT COUNT(DISTINCT user_id) FROM cart_lines),
			(SELECT COALESCE(SUM(quantity), 0) FROM cart_lines),
			(SELECT COALESCE(SUM(cl.quantity * p.price), 0) FROM cart_lines cl JOIN products p ON p.id = cl.product_id)`,
	).Scan(
		&o.Users.Total, &o.Users.Admins, &o.Users.Regular, &o.Users.NewThisMonth,
		&o.Catalog.Products, &o.Catalog.Categories,
		&o.Orders.Total, &o.Orders.ThisMonth,
		&o.Revenue.Total, &o.Revenue.ThisMonth, &o.Revenue.ThisYear,
		&o.Carts.ActiveCarts, &o.Carts.TotalItems, &o.Carts.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}

	byStatus, err := r.ordersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	o.Orders.ByStatus = byStatus
	return o, nil
}

func (r *pgStatsRepo) ordersByStatus(ctx context.Context) (map[model.OrderStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[model.OrderStatus]int)
	for rows.Next() {
		var status model.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		byStatus[status] = count
	}
	return byStatus, nil
}

func (r *pgStatsRepo) Dashboard(ctx context.Context) (*model.StatsDashboard, error) {
	d := &model.StatsDashboard{}

	period := func(since string, p *model.PeriodStats) error {
		return r.pool.QueryRow(ctx, fmt.Sprintf(`
			SELECT
				(SELECT COUNT(*) FROM orders WHERE created_at >= %s),
				(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE created_at >= %s),
				(SELECT COUNT(*) FROM users WHERE created_at >= %s)`, since, since, since),
		).Scan(&p.Orders, &p.Revenue, &p.NewUsers)
	}

	if err := period(`date_trunc('day', NOW())`, &d.Today); err != nil {
		return nil, fmt.Errorf("dashboard today: %w", err)
	}
	if err := period(`date_trunc('week', NOW())`, &d.ThisWeek); err != nil {
		return nil, fmt.Errorf("dashboard week: %w", err)
	}
	if err := period(`date_trunc('month', NOW())`, &d.ThisMonth); err != nil {
		return nil, fmt.Errorf("dashboard month: %w", err)
	}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_price), 0) FROM orders)`,
	).Scan(&d.Totals.Users, &d.Totals.Products, &d.Totals.Orders, &d.Totals.Revenue)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return d, nil
}

func (r *pgStatsRepo) Users(ctx context.Context) (*model.UserStats, error) {
	s := &model.UserStats{ByRole: make(map[string]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(DISTINCT user_id) FROM orders)`,
	).Scan(&s.Total, &s.NewLast30Days, &s.UsersWithOrders)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		s.ByRole[role] = count
	}
	return s, nil
}

func (r *pgStatsRepo) Products(ctx context.Context) (*model.ProductStats, error) {
	s := &model.ProductStats{}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&s.Total); err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.name, COUNT(p.id)
		FROM products p JOIN categories c ON c.id = p.category_id
		GROUP BY c.name ORDER BY COUNT(p.id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cc model.CategoryCount
		if err := rows.Scan(&cc.CategoryName, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		s.ByCategory = append(s.ByCategory, cc)
	}

	topRows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(od.quantity), 0) AS units
		FROM products p JOIN order_details od ON od.product_id = p.id
		GROUP BY p.id, p.name ORDER BY units DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top sellers: %w", err)
	}
	defer topRows.Close()
	for topRows.Next() {
		var t model.TopSeller
		if err := topRows.Scan(&t.ProductID, &t.ProductName, &t.UnitsSold); err != nil {
			return nil, fmt.Errorf("scan top seller: %w", err)
		}
		s.TopSellers = append(s.TopSellers, t)
	}
	return s, nil
}

func (r *pgStatsRepo) Orders(ctx context.Context) (*model.OrderStats, error) {
	s := &model.OrderStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0), COALESCE(AVG(total_price), 0)
		FROM orders`,
	).Scan(&s.Total, &s.TotalRevenue, &s.AverageOrderValue)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	byStatus, err := r.ordersByStatus(ctx)
	if err != nil {
		return nil, err
	}
	s.ByStatus = byStatus

	daily, err := r.dailySeries(ctx, time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		return nil, err
	}
	s.DailyLastWeek = daily
	return s, nil
}

func (r *pgStatsRepo) OrderDetails(ctx context.Context) (*model.OrderDetailStats, error) {
	s := &model.OrderDetailStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity * price), 0),
			COALESCE(AVG(quantity * price), 0)
		FROM order_details`,
	).Scan(&s.TotalLines, &s.TotalQuantitySold, &s.TotalRevenue, &s.AverageLineValue)
	if err != nil {
		return nil, fmt.Errorf("order detail stats: %w", err)
	}

	var top model.TopSeller
	err = r.pool.QueryRow(ctx, `
		SELECT p.id, p.name, SUM(od.quantity) AS units
		FROM order_details od JOIN products p ON p.id = od.product_id
		GROUP BY p.id, p.name ORDER BY units DESC LIMIT 1`,
	).Scan(&top.ProductID, &top.ProductName, &top.UnitsSold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, nil
		}
		return nil, fmt.Errorf("most sold product: %w", err)
	}
	s.MostSold = &top
	return s, nil
}

func (r *pgStatsRepo) Revenue(ctx context.Context, start, end time.Time) (*model.RevenueReport, error) {
	report := &model.RevenueReport{StartDate: start, EndDate: end}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0), COALESCE(AVG(total_price), 0)
		FROM orders WHERE created_at BETWEEN $1 AND $2`, start, end,
	).Scan(&report.OrdersCount, &report.TotalRevenue, &report.AverageOrderValue)
	if err != nil {
		return nil, fmt.Errorf("revenue report: %w", err)
	}

	daily, err := r.dailySeries(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.Daily = daily
	return report, nil
}

func (r *pgStatsRepo) dailySeries(ctx context.Context, start, end time.Time) ([]model.DailyOrderStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders WHERE created_at BETWEEN $1 AND $2
		GROUP BY day ORDER BY day`, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily order series: %w", err)
	}
	defer rows.Close()

	var series []model.DailyOrderStats
	for rows.Next() {
		var d model.DailyOrderStats
		if err := rows.Scan(&d.Date, &d.Count, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		series = append(series, d)
	}
	return series, nil
}
