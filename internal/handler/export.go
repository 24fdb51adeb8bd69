package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/logger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var exportHeaders = []string{"ID", "Date", "Type", "Amount", "Category", "Description", "User"}

// ExportHandler writes the transaction list as CSV or XLSX. It sees the
// same records as GET /transactions/.
type ExportHandler struct {
	Transactions *store.Store[models.Transaction]
	Access       AccessOptions
	SheetName    string
}

func NewExportHandler(db *gorm.DB, access AccessOptions, sheetName string) *ExportHandler {
	if sheetName == "" {
		sheetName = "Transactions"
	}
	return &ExportHandler{
		Transactions: store.New[models.Transaction](db),
		Access:       access,
		SheetName:    sheetName,
	}
}

func (h *ExportHandler) load(c *gin.Context) ([]models.Transaction, bool) {
	items, _, err := h.Transactions.List(c.Request.Context(), store.ListOptions{
		OwnerID: h.Access.ownerFilter(c),
		Preload: []string{"Category"},
	})
	if err != nil {
		writeStoreError(c, err, "export transactions")
		return nil, false
	}
	return items, true
}

func exportRow(tx *models.Transaction) []string {
	category := ""
	if tx.Category != nil {
		category = tx.Category.Name
	}
	return []string{
		strconv.FormatUint(uint64(tx.ID), 10),
		util.FormatDate(tx.Date),
		tx.Type,
		util.FormatAmount(tx.Amount),
		category,
		tx.Description,
		strconv.FormatUint(uint64(tx.UserID), 10),
	}
}

func attachment(c *gin.Context, contentType, ext string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.%s\"",
		time.Now().Format("20060102"), ext))
}

// ExportCSV streams the transactions as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	items, ok := h.load(c)
	if !ok {
		return
	}

	attachment(c, "text/csv; charset=utf-8", "csv")
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for i := range items {
		_ = writer.Write(exportRow(&items[i]))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Log.WithError(err).Warn("write csv export")
	}
}

// ExportXLSX renders the transactions into a single-sheet workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	items, ok := h.load(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", h.SheetName); err != nil {
		logger.Log.WithError(err).Error("rename sheet")
		util.ServerError(c)
		return
	}

	if err := f.SetSheetRow(h.SheetName, "A1", &exportHeaders); err != nil {
		logger.Log.WithError(err).Error("write xlsx header")
		util.ServerError(c)
		return
	}
	for i := range items {
		tx := &items[i]
		row := exportRow(tx)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		// amounts as numbers so spreadsheets can sum them
		cells[3] = tx.Amount.InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			util.ServerError(c)
			return
		}
		if err := f.SetSheetRow(h.SheetName, cell, &cells); err != nil {
			logger.Log.WithError(err).Error("write xlsx row")
			util.ServerError(c)
			return
		}
	}

	_ = f.SetColWidth(h.SheetName, "B", "B", 12)
	_ = f.SetColWidth(h.SheetName, "E", "E", 20)
	_ = f.SetColWidth(h.SheetName, "F", "F", 40)

	attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Log.WithError(err).Warn("write xlsx export")
	}
}
