package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/billing"
	"github.com/example/electricity-record/internal/models"
	"github.com/example/electricity-record/internal/utils"
)

// AdminHandler manages admin-only views across all users, records and
// customers.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ListUsers returns all accounts, newest first.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// UpdateUserUpi sets or clears a user's UPI payment identifier.
func (h *AdminHandler) UpdateUserUpi(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var req struct {
		UpiID string `json:"upiId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	upi := strings.TrimSpace(req.UpiID)
	if upi != "" && !utils.ValidUpiID(upi) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid UPI ID format")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.db.Model(&user).Update("upi_id", upi).Error; err != nil {
		return err
	}
	user.UpiID = upi

	return c.JSON(fiber.Map{
		"success": true,
		"message": "UPI ID updated successfully",
		"data":    fiber.Map{"user": user},
	})
}

// ListRecords returns all records, optionally filtered by payment status.
func (h *AdminHandler) ListRecords(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.ElectricityRecord{}).Where("is_active = ?", true)
	if status := c.Query("status"); status != "" {
		if !billing.ValidStatus(billing.Status(status)) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
		}
		query = query.Where("payment_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var records []models.ElectricityRecord
	if err := query.Preload("User").Preload("Customer").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&records).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// UpdateRecordPayment applies an admin payment-status transition after the
// submitted evidence has been reviewed.
func (h *AdminHandler) UpdateRecordPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid record id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Status {
	case "pending", "paid", "overdue":
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
	}

	var record models.ElectricityRecord
	if err := h.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "record not found")
		}
		return err
	}

	record.PaymentStatus = billing.Status(req.Status)
	if record.PaymentStatus == billing.StatusPaid {
		now := time.Now()
		record.PaymentDate = &now
	} else {
		record.PaymentDate = nil
	}

	if err := h.db.Save(&record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": record})
}

// ListCustomers returns all active customers with lifetime billing stats.
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	var customers []models.Customer
	if err := h.db.Where("is_active = ?", true).Preload("AddedBy").
		Order("created_at desc").Find(&customers).Error; err != nil {
		return err
	}

	payload := make([]fiber.Map, 0, len(customers))
	for i := range customers {
		customer := &customers[i]

		var records []models.ElectricityRecord
		if err := visibleRecords(h.db, customer.AddedByID).Where("customer_id = ?", customer.ID).
			Find(&records).Error; err != nil {
			return err
		}

		stats := billing.Lifetime(billingEntries(records))
		payload = append(payload, fiber.Map{
			"customer": customer,
			"stats": fiber.Map{
				"totalUnits":   stats.Units,
				"totalAmount":  stats.Amount,
				"paidAmount":   stats.Paid,
				"unpaidAmount": stats.Unpaid,
				"paidCount":    stats.PaidRecords,
				"unpaidCount":  stats.Records - stats.PaidRecords,
				"totalRecords": stats.Records,
			},
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": payload})
}
