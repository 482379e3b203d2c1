// Package analytics backs the dashboard widgets. Real figures are limited
// to tenant-scoped scan aggregates; the remaining shapes are the fixed
// placeholders the frontend expects.
package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/auth"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type KPI struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Change  int    `json:"change"`
	Tooltip string `json:"tooltip"`
	Icon    string `json:"iconType"`
}

type Summary struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	CoreKPIs []KPI  `json:"coreKpis"`
}

type FunnelStep struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Detailed struct {
	TotalScans     int          `json:"total_scans"`
	UniqueVisitors int          `json:"unique_visitors"`
	Funnel         []FunnelStep `json:"funnelData"`
}

type counts struct {
	totalScans     int
	uniqueVisitors int
}

func (s *Service) scanCounts(ctx context.Context, ident auth.Identity) (counts, error) {
	brandID, ok, err := ident.ScopeBrand()
	if err != nil {
		return counts{}, err
	}
	if !ok {
		return counts{}, nil
	}

	var c counts
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT COALESCE(sc.user_id::text, sc.ip_address))
		 FROM qr_scans sc
		 JOIN campaigns c ON c.id = sc.campaign_id
		 WHERE c.brand_id = $1`,
		brandID,
	).Scan(&c.totalScans, &c.uniqueVisitors)
	if err != nil {
		return counts{}, fmt.Errorf("aggregate scans: %w", err)
	}
	return c, nil
}

func (s *Service) Summary(ctx context.Context, ident auth.Identity) (*Summary, error) {
	c, err := s.scanCounts(ctx, ident)
	if err != nil {
		return nil, err
	}

	status := "observing"
	message := "No scan data yet. Launch a campaign to get started."
	if c.totalScans > 0 {
		status = "positive"
		message = fmt.Sprintf("%d QR scans recorded so far this period.", c.totalScans)
	}

	return &Summary{
		Status:  status,
		Message: message,
		CoreKPIs: []KPI{
			{ID: "scans", Label: "Total scans", Value: fmt.Sprintf("%d", c.totalScans), Tooltip: "All scans", Icon: "QrCode"},
			{ID: "visitors", Label: "Unique visitors", Value: fmt.Sprintf("%d", c.uniqueVisitors), Tooltip: "Distinct visitors", Icon: "Users"},
			{ID: "satisfaction", Label: "Customer satisfaction", Value: "0.0", Tooltip: "Average rating", Icon: "Star"},
		},
	}, nil
}

func (s *Service) Detailed(ctx context.Context, ident auth.Identity) (*Detailed, error) {
	c, err := s.scanCounts(ctx, ident)
	if err != nil {
		return nil, err
	}

	// The funnel past the first step is placeholder data; conversion
	// tracking is not wired to a real source.
	return &Detailed{
		TotalScans:     c.totalScans,
		UniqueVisitors: c.uniqueVisitors,
		Funnel: []FunnelStep{
			{Name: "QR scans", Value: c.totalScans},
			{Name: "Page views", Value: 0},
			{Name: "Conversions", Value: 0},
		},
	}, nil
}
