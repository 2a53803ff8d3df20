package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"platero/internal/models"
	"platero/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler serves the transaction report downloads.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// exportRow is one line of the report, joined with account and category names.
type exportRow struct {
	txn      models.Transaction
	account  string
	currency models.Currency
	category string
}

func (h *ExportHandler) loadRows(user *models.User) ([]exportRow, error) {
	var txns []models.Transaction
	if err := h.DB.
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", user.ID).
		Preload("Account").
		Preload("Category").
		Order("transactions.date DESC, transactions.id DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}

	rows := make([]exportRow, 0, len(txns))
	for i := range txns {
		t := txns[i]
		row := exportRow{txn: t, account: t.Account.Name, currency: t.Account.Currency}
		if t.Category != nil {
			row.category = t.Category.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var exportHeaders = []string{
	"Type", "Account", "Category", "Amount", "Currency", "Description", "Date", "Paid",
}

func (r exportRow) values() []string {
	description := ""
	if r.txn.Description != nil {
		description = *r.txn.Description
	}
	paid := "no"
	if r.txn.IsPaid {
		paid = "yes"
	}
	return []string{
		string(r.txn.Type),
		r.account,
		r.category,
		r.txn.Amount.StringFixed(2),
		string(r.currency),
		description,
		r.txn.Date.Format("2006-01-02"),
		paid,
	}
}

// ExportCSV exports the user's transactions as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	rows, err := h.loadRows(user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, r := range rows {
		writer.Write(r.values())
	}
}

// ExportXLSX exports the user's transactions as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	rows, err := h.loadRows(user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, r := range rows {
		row := idx + 2
		for i, v := range r.values() {
			cell := fmt.Sprintf("%c%d", 'A'+i, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 15)
	f.SetColWidth(sheetName, "D", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 30)
	f.SetColWidth(sheetName, "G", "H", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
