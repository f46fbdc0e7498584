package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/billing"
	"github.com/example/electricity-record/internal/config"
	"github.com/example/electricity-record/internal/middleware"
	"github.com/example/electricity-record/internal/models"
)

// RecordHandler manages electricity record endpoints.
type RecordHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewRecordHandler constructs a RecordHandler.
func NewRecordHandler(db *gorm.DB, cfg *config.Config) *RecordHandler {
	return &RecordHandler{db: db, cfg: cfg}
}

// Mine returns the authenticated user's records, newest first, optionally
// filtered to one customer.
func (h *RecordHandler) Mine(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	query := visibleRecords(h.db, user.ID).Preload("Customer")
	if customerID := c.Query("customerId"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		query = query.Where("customer_id = ?", id)
	}

	var records []models.ElectricityRecord
	if err := query.Order("created_at desc").Find(&records).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": records})
}

// Last returns the most recent record for the (user, customer) pair; the
// frontend uses it to prefill the previous reading.
func (h *RecordHandler) Last(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	query := visibleRecords(h.db, user.ID)
	if customerID := c.Query("customerId"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		query = query.Where("customer_id = ?", id)
	} else {
		query = query.Where("customer_id IS NULL")
	}

	var record models.ElectricityRecord
	if err := query.Order("created_at desc").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"success": true, "data": nil})
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": record})
}

// Create stores a new billing-cycle reading. Fields arrive as multipart
// form values so an optional bill image can ride along.
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	currentReading, err := strconv.Atoi(strings.TrimSpace(c.FormValue("currentReading")))
	if err != nil || currentReading < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "current reading must be a non-negative integer")
	}

	rate := billing.DefaultRate
	if v := strings.TrimSpace(c.FormValue("ratePerUnit")); v != "" {
		rate, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid rate per unit")
		}
	}
	if err := billing.ValidateRate(rate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Resolve the customer first: it decides the meter number and which
	// record chain supplies the default previous reading.
	meterNumber := user.MeterNumber
	var customerID *uuid.UUID
	if v := strings.TrimSpace(c.FormValue("customerId")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		var customer models.Customer
		if err := h.db.Where("id = ? AND added_by_id = ? AND is_active = ?", id, user.ID, true).
			First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "customer not found")
			}
			return err
		}
		meterNumber = customer.MeterNumber
		customerID = &id
	}

	var previousReading int
	if v := strings.TrimSpace(c.FormValue("previousReading")); v != "" {
		previousReading, err = strconv.Atoi(v)
		if err != nil || previousReading < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "previous reading must be a non-negative integer")
		}
	} else {
		previousReading, err = h.lastReading(user.ID, customerID)
		if err != nil {
			return err
		}
	}

	if _, _, err := billing.Compute(previousReading, currentReading, rate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	dueDate, err := parseDueDate(c.FormValue("dueDate"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := billing.ValidateDueDate(dueDate, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	remarks := strings.TrimSpace(c.FormValue("remarks"))
	if len(remarks) > 500 {
		return fiber.NewError(fiber.StatusBadRequest, "remarks cannot exceed 500 characters")
	}

	now := time.Now()
	status := billing.InitialStatus(dueDate, now)
	var paymentDate *time.Time
	if v := strings.TrimSpace(c.FormValue("paymentStatus")); v != "" {
		status = billing.Status(v)
		if !billing.ValidStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
		}
		if status == billing.StatusPaid {
			paymentDate = &now
		}
	}

	record := models.ElectricityRecord{
		UserID:          user.ID,
		CustomerID:      customerID,
		MeterNumber:     meterNumber,
		PreviousReading: previousReading,
		CurrentReading:  currentReading,
		RatePerUnit:     rate,
		PaymentStatus:   status,
		PaymentDate:     paymentDate,
		DueDate:         dueDate,
		Remarks:         remarks,
		IsActive:        true,
	}

	if file, err := c.FormFile("billImage"); err == nil {
		path, err := saveImage(c, file, h.cfg.UploadDir)
		if err != nil {
			return err
		}
		record.BillImage = path
	}

	if err := h.db.Create(&record).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": record})
}

// Update modifies an owned record; derived fields are recomputed and a
// due-date change re-runs the overdue check unless the state is terminal.
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	record, err := h.loadRecord(c.Params("id"))
	if err != nil {
		return err
	}
	if record.UserID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "you can only update your own records")
	}

	if v := strings.TrimSpace(c.FormValue("currentReading")); v != "" {
		currentReading, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "current reading must be a non-negative integer")
		}
		if err := billing.ValidateReadings(record.PreviousReading, currentReading); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		record.CurrentReading = currentReading
	}

	if v := strings.TrimSpace(c.FormValue("ratePerUnit")); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid rate per unit")
		}
		if err := billing.ValidateRate(rate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		record.RatePerUnit = rate
	}

	if v := strings.TrimSpace(c.FormValue("dueDate")); v != "" {
		dueDate, err := parseDueDate(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		record.DueDate = dueDate
		record.PaymentStatus = billing.ApplyDueDate(record.PaymentStatus, dueDate, time.Now())
	}

	if formHasField(c, "remarks") {
		trimmed := strings.TrimSpace(c.FormValue("remarks"))
		if len(trimmed) > 500 {
			return fiber.NewError(fiber.StatusBadRequest, "remarks cannot exceed 500 characters")
		}
		record.Remarks = trimmed
	}

	if file, err := c.FormFile("billImage"); err == nil {
		path, err := saveImage(c, file, h.cfg.UploadDir)
		if err != nil {
			return err
		}
		record.BillImage = path
	}

	if err := h.db.Save(record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": record})
}

// UpdatePaymentStatus applies an explicit operator transition. "unpaid" is
// accepted as an alias for pending so a mistaken paid-mark can be reversed.
func (h *RecordHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Status {
	case "paid", "pending", "unpaid", "overdue":
	default:
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment status")
	}

	record, err := h.loadRecord(c.Params("id"))
	if err != nil {
		return err
	}
	if record.UserID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "you can only update your own records")
	}

	status := billing.Status(req.Status)
	if req.Status == "unpaid" {
		status = billing.StatusPending
	}
	record.PaymentStatus = status
	if status == billing.StatusPaid {
		now := time.Now()
		record.PaymentDate = &now
	} else {
		record.PaymentDate = nil
	}

	if err := h.db.Save(record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": record})
}

// SubmitPayment attaches proof-of-payment to a record. It is reachable
// without authentication from the share view. The payment status is
// deliberately left unchanged: a screenshot is unverified evidence and the
// owner must approve it explicitly.
func (h *RecordHandler) SubmitPayment(c *fiber.Ctx) error {
	record, err := h.loadRecord(c.Params("id"))
	if err != nil {
		return err
	}

	file, err := c.FormFile("paymentScreenshot")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "payment screenshot is required")
	}

	path, err := saveImage(c, file, h.cfg.UploadDir)
	if err != nil {
		return err
	}

	attachPaymentEvidence(record, path, time.Now())

	if err := h.db.Save(record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "payment screenshot submitted successfully, payment will be verified soon",
		"data": fiber.Map{
			"id":                   record.ID,
			"payment_screenshot":   record.PaymentScreenshot,
			"payment_submitted_at": record.PaymentSubmittedAt,
		},
	})
}

// attachPaymentEvidence stores the screenshot reference. The payment status
// is never touched here: a screenshot is unverified evidence until the owner
// approves it.
func attachPaymentEvidence(record *models.ElectricityRecord, path string, now time.Time) {
	record.PaymentScreenshot = path
	record.PaymentSubmittedAt = &now
}

// RejectPayment clears a submitted screenshot so the payer can resubmit.
func (h *RecordHandler) RejectPayment(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	record, err := h.loadRecord(c.Params("id"))
	if err != nil {
		return err
	}
	if record.UserID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "you can only update your own records")
	}

	record.PaymentScreenshot = ""
	record.PaymentSubmittedAt = nil

	if err := h.db.Save(record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "payment submission rejected", "data": record})
}

// Delete soft-deletes an owned record.
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	record, err := h.loadRecord(c.Params("id"))
	if err != nil {
		return err
	}
	if record.UserID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "you can only delete your own records")
	}

	record.IsActive = false
	if err := h.db.Save(record).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "record deleted successfully"})
}

// Export streams the user's records as a CSV download.
func (h *RecordHandler) Export(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	query := visibleRecords(h.db, user.ID).Preload("Customer")
	if customerID := c.Query("customerId"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}
		query = query.Where("customer_id = ?", id)
	}

	var records []models.ElectricityRecord
	if err := query.Order("created_at desc").Find(&records).Error; err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"date", "meter_number", "customer", "previous_reading", "current_reading",
		"units_consumed", "rate_per_unit", "total_amount", "payment_status", "due_date",
	})
	for i := range records {
		r := &records[i]
		customerName := ""
		if r.Customer != nil {
			customerName = r.Customer.Name
		}
		_ = w.Write([]string{
			r.CreatedAt.Format("2006-01-02"),
			r.MeterNumber,
			customerName,
			strconv.Itoa(r.PreviousReading),
			strconv.Itoa(r.CurrentReading),
			strconv.Itoa(r.UnitsConsumed),
			strconv.FormatFloat(r.RatePerUnit, 'f', 2, 64),
			strconv.FormatFloat(r.TotalAmount, 'f', 2, 64),
			string(r.PaymentStatus),
			r.DueDate.Format("2006-01-02"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=records-%s.csv", time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}

func (h *RecordHandler) loadRecord(idParam string) (*models.ElectricityRecord, error) {
	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid record id")
	}

	var record models.ElectricityRecord
	if err := h.db.First(&record, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "record not found")
		}
		return nil, err
	}
	return &record, nil
}

// visibleRecords scopes a query to the owner's records that have not been
// soft-deleted. Every read path goes through it so a deleted record drops
// out of listings, exports and aggregates alike.
func visibleRecords(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Where("user_id = ? AND is_active = ?", userID, true)
}

// lastReading returns the previous cycle's closing reading for the
// (user, customer) chain, or 0 when no record exists yet.
func (h *RecordHandler) lastReading(userID uuid.UUID, customerID *uuid.UUID) (int, error) {
	query := visibleRecords(h.db, userID)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	} else {
		query = query.Where("customer_id IS NULL")
	}

	var last models.ElectricityRecord
	if err := query.Order("created_at desc").First(&last).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return last.CurrentReading, nil
}

// parseDueDate accepts the form's YYYY-MM-DD dates (interpreted at local
// noon to dodge timezone edge cases, as the frontend expects) or RFC3339.
func parseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("due date is required")
	}

	if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return d.Add(12 * time.Hour), nil
	}
	if d, err := time.Parse(time.RFC3339, value); err == nil {
		return d, nil
	}
	return time.Time{}, errors.New("invalid due date format")
}

func formHasField(c *fiber.Ctx, field string) bool {
	form, err := c.MultipartForm()
	if err != nil {
		return false
	}
	_, ok := form.Value[field]
	return ok
}
