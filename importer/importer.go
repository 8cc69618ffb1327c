package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/models"
	"github.com/pitangasoft/compras_backend/utils"
)

// Report is the outcome of one import run. A set FailureReason means the
// batch was rejected as a whole before any row was written; otherwise the
// counts describe the row-by-row result.
type Report struct {
	ImportedCount int     `json:"importedCount"`
	SkippedCount  int     `json:"skippedCount"`
	FailureReason *string `json:"failureReason"`
}

// Summary renders the report for logs and API responses.
func (r *Report) Summary() string {
	if r.FailureReason != nil {
		return "import rejected: " + *r.FailureReason
	}
	if r.ImportedCount == 0 {
		return fmt.Sprintf("no importable rows found, %d skipped", r.SkippedCount)
	}
	return fmt.Sprintf("%d orders imported, %d rows skipped", r.ImportedCount, r.SkippedCount)
}

func failReport(reason string) *Report {
	return &Report{FailureReason: &reason}
}

// ImportPurchases turns a parsed spreadsheet batch into purchase orders for
// one branch. Batch-level defects (unknown branch, unrecognizable headers,
// no data) reject the whole upload via the report's FailureReason; row-level
// defects only skip the row. Orders land in a single bulk insert at the
// end, so a database failure leaves no partial batch behind.
func ImportPurchases(ctx context.Context, branchId int, batch *RowBatch) (*Report, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if branchId <= 0 {
		return failReport("branch id is required"), nil
	}
	if err := utils.ValidateResourceId[models.Branch](ctx, businessId, branchId); err != nil {
		return failReport("branch not found"), nil
	}
	if batch == nil || len(batch.Rows) == 0 {
		return failReport("file has no data rows"), nil
	}

	headers := MapHeaders(batch.Columns)
	if err := headers.Validate(); err != nil {
		return failReport(err.Error()), nil
	}

	lock, err := utils.ImportLock(ctx, businessId, "importer", "ImportPurchases")
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	logData := map[string]string{"businessId": businessId, "correlationId": correlationId}

	cat, err := newCatalog(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "importer", "ImportPurchases", "load catalog", logData, err)
		return nil, err
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	report := &Report{}
	orders := make([]*models.PurchaseOrder, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		description := row.Get(headers.Column(RoleDescription))
		if description == "" {
			report.SkippedCount++
			continue
		}

		supplierId, err := cat.resolveSupplier(ctx, row.Get(headers.Column(RoleDocument)), "")
		if err != nil {
			config.LogError(config.GetLogger(), "importer", "ImportPurchases", "resolve supplier", logData, err)
			return nil, err
		}
		productId, err := cat.resolveProduct(ctx, description, row.Get(headers.Column(RoleUnit)))
		if err != nil {
			config.LogError(config.GetLogger(), "importer", "ImportPurchases", "resolve product", logData, err)
			return nil, err
		}
		if supplierId <= 0 || productId <= 0 {
			report.SkippedCount++
			continue
		}

		qty, unitPrice, total := models.CompleteAmounts(
			utils.ParseLocaleDecimal(row.Get(headers.Column(RoleQuantity))),
			utils.ParseLocaleDecimal(row.Get(headers.Column(RoleUnitPrice))),
			utils.ParseLocaleDecimal(row.Get(headers.Column(RoleTotal))),
		)

		orders = append(orders, &models.PurchaseOrder{
			BusinessId: businessId,
			SupplierId: supplierId,
			ProductId:  productId,
			BranchId:   branchId,
			Qty:        qty,
			UnitPrice:  unitPrice,
			Total:      total,
			OrderDate:  utils.ParseFlexibleDate(row.Get(headers.Column(RoleDate))),
			CreatedBy:  createdBy,
		})
	}

	if err := models.BulkCreatePurchaseOrders(ctx, orders); err != nil {
		config.LogError(config.GetLogger(), "importer", "ImportPurchases", "bulk insert", logData, err)
		return report, err
	}
	report.ImportedCount = len(orders)
	return report, nil
}
