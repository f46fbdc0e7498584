package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/billing"
	"github.com/example/electricity-record/internal/middleware"
	"github.com/example/electricity-record/internal/models"
	"github.com/example/electricity-record/internal/utils"
)

// CustomerHandler manages customer sub-accounts and the share-link gateway.
type CustomerHandler struct {
	db *gorm.DB
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

// List returns the owner's active customers, newest first.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var customers []models.Customer
	if err := h.db.Where("added_by_id = ? AND is_active = ?", user.ID, true).
		Order("created_at desc").Find(&customers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customers})
}

// Get returns a single owned customer.
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customer, err := h.loadOwned(c.Params("id"), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customer})
}

type customerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	MeterNumber string `json:"meterNumber"`
	Address     string `json:"address"`
}

func (r *customerRequest) validate() []fieldError {
	var errs []fieldError
	if !utils.ValidName(r.Name) {
		errs = append(errs, fieldError{"name", "name must be between 2 and 50 characters"})
	}
	if r.Email != "" && !utils.ValidEmail(strings.ToLower(strings.TrimSpace(r.Email))) {
		errs = append(errs, fieldError{"email", "please provide a valid email address"})
	}
	if !utils.ValidPhone(strings.TrimSpace(r.Phone)) {
		errs = append(errs, fieldError{"phone", "please provide a valid phone number"})
	}
	if !utils.ValidMeterNumber(strings.ToUpper(strings.TrimSpace(r.MeterNumber))) {
		errs = append(errs, fieldError{"meterNumber", "meter number must be 6-12 alphanumeric characters"})
	}
	if !utils.ValidAddress(r.Address) {
		errs = append(errs, fieldError{"address", "address must be between 10 and 200 characters"})
	}
	return errs
}

// Create adds a customer. Meter numbers are unique within one owner's set
// only; the same meter may appear under different owners.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	meter := strings.ToUpper(strings.TrimSpace(req.MeterNumber))

	var existing models.Customer
	if err := h.db.Where("added_by_id = ? AND meter_number = ?", user.ID, meter).
		First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "customer with this meter number already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	customer := models.Customer{
		AddedByID:   user.ID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		MeterNumber: meter,
		Address:     strings.TrimSpace(req.Address),
		IsActive:    true,
	}

	if err := h.db.Create(&customer).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": customer})
}

// Update modifies an owned customer; a meter-number change is checked
// against the owner's other customers first.
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customer, err := h.loadOwned(c.Params("id"), user.ID)
	if err != nil {
		return err
	}

	var req struct {
		Name        *string `json:"name"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		MeterNumber *string `json:"meterNumber"`
		Address     *string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var errs []fieldError
	if req.Name != nil {
		if !utils.ValidName(*req.Name) {
			errs = append(errs, fieldError{"name", "name must be between 2 and 50 characters"})
		} else {
			customer.Name = strings.TrimSpace(*req.Name)
		}
	}
	if req.Email != nil {
		trimmed := strings.ToLower(strings.TrimSpace(*req.Email))
		if trimmed != "" && !utils.ValidEmail(trimmed) {
			errs = append(errs, fieldError{"email", "please provide a valid email address"})
		} else {
			customer.Email = trimmed
		}
	}
	if req.Phone != nil {
		if !utils.ValidPhone(strings.TrimSpace(*req.Phone)) {
			errs = append(errs, fieldError{"phone", "please provide a valid phone number"})
		} else {
			customer.Phone = strings.TrimSpace(*req.Phone)
		}
	}
	if req.Address != nil {
		if !utils.ValidAddress(*req.Address) {
			errs = append(errs, fieldError{"address", "address must be between 10 and 200 characters"})
		} else {
			customer.Address = strings.TrimSpace(*req.Address)
		}
	}
	if req.MeterNumber != nil {
		meter := strings.ToUpper(strings.TrimSpace(*req.MeterNumber))
		if !utils.ValidMeterNumber(meter) {
			errs = append(errs, fieldError{"meterNumber", "meter number must be 6-12 alphanumeric characters"})
		} else if meter != customer.MeterNumber {
			var existing models.Customer
			if err := h.db.Where("added_by_id = ? AND meter_number = ? AND id <> ?", user.ID, meter, customer.ID).
				First(&existing).Error; err == nil {
				return fiber.NewError(fiber.StatusConflict, "customer with this meter number already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			customer.MeterNumber = meter
		}
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	if err := h.db.Save(customer).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// Delete soft-deletes a customer. Historical records keep pointing at the
// archived row and stay queryable by the owner.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customer, err := h.loadOwned(c.Params("id"), user.ID)
	if err != nil {
		return err
	}

	customer.IsActive = false
	if err := h.db.Save(customer).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "customer deleted successfully"})
}

// Summary returns monthly and lifetime rollups for one owned customer.
func (h *CustomerHandler) Summary(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customer, err := h.loadOwned(c.Params("id"), user.ID)
	if err != nil {
		return err
	}

	records, err := h.customerRecords(user.ID, customer.ID)
	if err != nil {
		return err
	}

	entries := billingEntries(records)
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customer":     customerPayload(customer),
			"currentMonth": billing.CurrentMonth(entries, time.Now()),
			"total":        billing.Lifetime(entries),
		},
	})
}

// ShareLink issues the customer's share token. Issuance is idempotent: an
// existing token is returned unchanged, so previously handed-out links
// never break.
func (h *CustomerHandler) ShareLink(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	customer, err := h.loadOwned(c.Params("id"), user.ID)
	if err != nil {
		return err
	}

	issued, err := ensureShareToken(customer)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate share token")
	}
	if issued {
		if err := h.db.Save(customer).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"shareToken": *customer.ShareToken,
		"shareLink":  c.BaseURL() + "/share/" + *customer.ShareToken,
	})
}

// ensureShareToken issues the customer's share token once. An existing token
// is kept unchanged so previously handed-out links never break.
func ensureShareToken(customer *models.Customer) (bool, error) {
	if customer.ShareToken != nil {
		return false, nil
	}
	token, err := utils.GenerateShareToken()
	if err != nil {
		return false, err
	}
	customer.ShareToken = &token
	return true, nil
}

// VerifyShare is the public share-gateway entry: the token selects the
// customer and a matching phone number unlocks the billing summary. The
// mismatch response stays deliberately vague.
func (h *CustomerHandler) VerifyShare(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number is required")
	}

	var customer models.Customer
	if err := h.db.Where("share_token = ? AND is_active = ?", c.Params("token"), true).
		Preload("AddedBy").First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invalid share link")
		}
		return err
	}

	if !utils.PhonesMatch(req.Phone, customer.Phone) {
		return fiber.NewError(fiber.StatusForbidden,
			"phone number does not match, please enter the phone number registered with this account")
	}

	records, err := h.customerRecords(customer.AddedByID, customer.ID)
	if err != nil {
		return err
	}

	entries := billingEntries(records)
	owner := customer.AddedBy

	recordViews := make([]fiber.Map, 0, len(records))
	for i := range records {
		r := &records[i]
		recordViews = append(recordViews, fiber.Map{
			"id":                   r.ID,
			"date":                 r.CreatedAt,
			"previous_reading":     r.PreviousReading,
			"current_reading":      r.CurrentReading,
			"units_consumed":       r.UnitsConsumed,
			"rate_per_unit":        r.RatePerUnit,
			"total_amount":         r.TotalAmount,
			"payment_status":       r.PaymentStatus,
			"payment_screenshot":   r.PaymentScreenshot,
			"payment_submitted_at": r.PaymentSubmittedAt,
			"payment_date":         r.PaymentDate,
			"due_date":             r.DueDate,
			"remarks":              r.Remarks,
		})
	}

	return c.JSON(fiber.Map{
		"customer": customerPayload(&customer),
		"user": fiber.Map{
			"name":         owner.Name,
			"email":        owner.Email,
			"meter_number": owner.MeterNumber,
			"upi_id":       owner.UpiID,
		},
		"currentMonth": billing.CurrentMonth(entries, time.Now()),
		"total":        billing.Lifetime(entries),
		"records":      recordViews,
	})
}

func customerPayload(customer *models.Customer) fiber.Map {
	return fiber.Map{
		"name":         customer.Name,
		"meter_number": customer.MeterNumber,
		"phone":        customer.Phone,
		"email":        customer.Email,
		"address":      customer.Address,
	}
}

func (h *CustomerHandler) customerRecords(ownerID, customerID uuid.UUID) ([]models.ElectricityRecord, error) {
	var records []models.ElectricityRecord
	err := visibleRecords(h.db, ownerID).Where("customer_id = ?", customerID).
		Order("created_at desc").Find(&records).Error
	return records, err
}

func (h *CustomerHandler) loadOwned(idParam string, ownerID uuid.UUID) (*models.Customer, error) {
	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}

	var customer models.Customer
	if err := h.db.Where("id = ? AND added_by_id = ?", id, ownerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "customer not found")
		}
		return nil, err
	}
	return &customer, nil
}
