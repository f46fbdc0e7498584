package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/billing"
	"github.com/example/electricity-record/internal/models"
)

// dryRunDB opens a gorm handle that builds SQL without touching a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=dryrun sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestVisibleRecordsFiltersSoftDeleted(t *testing.T) {
	db := dryRunDB(t)

	var records []models.ElectricityRecord
	stmt := visibleRecords(db, uuid.New()).Order("created_at desc").Find(&records).Statement
	sql := stmt.SQL.String()

	if !strings.Contains(sql, "user_id") {
		t.Fatalf("query must scope by owner, got %q", sql)
	}
	if !strings.Contains(sql, "is_active") {
		t.Fatalf("query must exclude soft-deleted records, got %q", sql)
	}
}

func TestAttachPaymentEvidenceKeepsStatus(t *testing.T) {
	for _, status := range []billing.Status{billing.StatusPending, billing.StatusOverdue, billing.StatusPaid} {
		record := models.ElectricityRecord{PaymentStatus: status}
		now := time.Now()

		attachPaymentEvidence(&record, "/uploads/proof.png", now)

		if record.PaymentStatus != status {
			t.Fatalf("status %q changed to %q on evidence submission", status, record.PaymentStatus)
		}
		if record.PaymentScreenshot != "/uploads/proof.png" {
			t.Fatalf("screenshot not stored, got %q", record.PaymentScreenshot)
		}
		if record.PaymentSubmittedAt == nil || !record.PaymentSubmittedAt.Equal(now) {
			t.Fatalf("submitted-at not stored, got %v", record.PaymentSubmittedAt)
		}
	}
}
