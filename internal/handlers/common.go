package handlers

import (
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/example/electricity-record/internal/billing"
	"github.com/example/electricity-record/internal/models"
	"github.com/example/electricity-record/internal/utils"
)

// saveImage stores an uploaded image under the uploads directory with a
// randomized name and returns its public path.
func saveImage(c *fiber.Ctx, file *multipart.FileHeader, uploadDir string) (string, error) {
	if !utils.AllowedImageFile(file.Filename) {
		return "", fiber.NewError(fiber.StatusBadRequest, "only image files are allowed")
	}

	name, err := utils.RandomFilename(file.Filename)
	if err != nil {
		return "", err
	}

	if err := c.SaveFile(file, filepath.Join(uploadDir, name)); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// billingEntries projects persisted records into the aggregation input.
func billingEntries(records []models.ElectricityRecord) []billing.Entry {
	entries := make([]billing.Entry, 0, len(records))
	for i := range records {
		entries = append(entries, records[i].BillingEntry())
	}
	return entries
}
