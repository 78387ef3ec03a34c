package controllers

import (
	"fmt"
	"time"

	"donation-portal/config"
	"donation-portal/models"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// DownloadDonationsReport exports donation records for a period as an Excel
// sheet for the portal's operators.
//
// GET /donations/report?period=day|week|month
func DownloadDonationsReport(c *gin.Context) {
	utils.LogInfo("DownloadDonationsReport called")

	period := c.DefaultQuery("period", "day")
	now := time.Now()
	var startDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	default:
		utils.LogError("Invalid report period: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("created_at >= ?", startDate).Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.LogError("Failed to fetch payments for report: %v", err)
		utils.InternalServerError(c, "Failed to fetch payments", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d payments for %s report", len(payments), period)

	var completed int
	var completedAmount float64
	for _, p := range payments {
		if p.Done {
			completed++
			completedAmount += p.Amount
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Donations")
	if err != nil {
		utils.LogError("Failed to create report sheet: %v", err)
		utils.InternalServerError(c, "Failed to create report", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("Donations Report")
	periodRow := sheet.AddRow()
	periodRow.AddCell().SetString("Period: " + period + " | since " + startDate.Format("2006-01-02"))
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString(fmt.Sprintf("Total: %d | Completed: %d | Amount collected: %.2f", len(payments), completed, completedAmount))
	sheet.AddRow()

	headers := []string{"Transaction ID", "Name", "Contact", "Amount", "Status", "Recipient", "Payment ID", "Order ID", "Created"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range payments {
		status := "Pending"
		if p.Done {
			status = "Completed"
		}
		row := sheet.AddRow()
		row.AddCell().SetString(p.TransactionID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.ContactNo)
		row.AddCell().SetFloat(p.Amount)
		row.AddCell().SetString(status)
		row.AddCell().SetString(p.ToUser)
		row.AddCell().SetString(p.RazorpayPaymentID)
		row.AddCell().SetString(p.OrderID)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="donations-report.xlsx"`)
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write report: %v", err)
	}
}
