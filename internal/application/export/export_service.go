package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/elevatecrm/backend/internal/domain/crm"
	"github.com/elevatecrm/backend/internal/domain/shared"
	"github.com/elevatecrm/backend/internal/domain/trade"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

const exportPageSize = 500

// ExportService writes tenant data as CSV files to object storage and
// hands back a time-limited download link. Files are capped at
// MaxRows; larger datasets are truncated and flagged in the result.
type ExportService struct {
	contactRepo crm.ContactRepository
	orderRepo   trade.OrderRepository
	store       ObjectStore
	cfg         config.ExportConfig
	logger      *zap.Logger
}

// NewExportService creates the export service
func NewExportService(
	contactRepo crm.ContactRepository,
	orderRepo trade.OrderRepository,
	store ObjectStore,
	cfg config.ExportConfig,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		contactRepo: contactRepo,
		orderRepo:   orderRepo,
		store:       store,
		cfg:         cfg,
		logger:      logger,
	}
}

var contactHeader = []string{
	"id", "type", "first_name", "last_name", "company_name", "email",
	"phone", "stage", "lead_source", "lead_score", "city", "country",
	"created_at",
}

// ExportContacts writes all of the tenant's contacts to a CSV file
func (s *ExportService) ExportContacts(ctx context.Context, tenantID uuid.UUID) (*Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(contactHeader); err != nil {
		return nil, err
	}

	rows := 0
	truncated := false
	filter := shared.Filter{Page: 1, PageSize: exportPageSize, OrderBy: "created_at", OrderDir: "asc"}

	for {
		contacts, total, err := s.contactRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}

		for i := range contacts {
			if rows >= s.cfg.MaxRows {
				truncated = true
				break
			}
			c := &contacts[i]
			record := []string{
				c.ID.String(),
				string(c.Type),
				c.FirstName,
				c.LastName,
				c.CompanyName,
				c.Email,
				c.Phone,
				string(c.Stage),
				c.LeadSource,
				c.LeadScore.String(),
				c.City,
				c.Country,
				c.CreatedAt.Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
			rows++
		}

		if truncated || int64(filter.Page*filter.PageSize) >= total {
			break
		}
		filter.Page++
	}

	return s.finish(ctx, tenantID, "contacts", &buf, w, rows, truncated)
}

var orderHeader = []string{
	"id", "order_number", "type", "status", "contact_id", "currency",
	"subtotal", "discount_total", "tax_total", "shipping_cost", "total",
	"payment_status", "order_date",
}

// ExportOrders writes all of the tenant's orders to a CSV file
func (s *ExportService) ExportOrders(ctx context.Context, tenantID uuid.UUID) (*Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(orderHeader); err != nil {
		return nil, err
	}

	rows := 0
	truncated := false
	filter := shared.Filter{Page: 1, PageSize: exportPageSize, OrderBy: "created_at", OrderDir: "asc"}

	for {
		orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}

		for i := range orders {
			if rows >= s.cfg.MaxRows {
				truncated = true
				break
			}
			o := &orders[i]
			contactID := ""
			if o.ContactID != nil {
				contactID = o.ContactID.String()
			}
			record := []string{
				o.ID.String(),
				o.OrderNumber,
				string(o.Type),
				string(o.Status),
				contactID,
				o.Currency,
				o.Subtotal.String(),
				o.DiscountTotal.String(),
				o.TaxTotal.String(),
				o.ShippingCost.String(),
				o.Total.String(),
				string(o.PaymentStatus),
				o.OrderDate.Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
			rows++
		}

		if truncated || int64(filter.Page*filter.PageSize) >= total {
			break
		}
		filter.Page++
	}

	return s.finish(ctx, tenantID, "orders", &buf, w, rows, truncated)
}

// finish flushes the CSV, uploads it and presigns the download link
func (s *ExportService) finish(ctx context.Context, tenantID uuid.UUID, kind string, buf *bytes.Buffer, w *csv.Writer, rows int, truncated bool) (*Result, error) {
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	now := time.Now()
	key := fmt.Sprintf("exports/%s/%s-%s.csv", tenantID, kind, now.UTC().Format("20060102-150405"))

	if err := s.store.Put(ctx, key, "text/csv", buf.Bytes()); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.store.PresignDownload(ctx, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Export finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", kind),
		zap.String("key", key),
		zap.Int("rows", rows),
		zap.Bool("truncated", truncated))

	return &Result{
		Key:         key,
		URL:         url,
		ExpiresAt:   expiresAt,
		Rows:        rows,
		Truncated:   truncated,
		GeneratedAt: now,
	}, nil
}
