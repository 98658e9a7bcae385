package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/core/domain"
)

func newPaymentServiceForTest() (*PaymentService, *fakePaymentRepo) {
	paymentRepo := &fakePaymentRepo{}
	memberRepo := newFakeMemberRepo(
		&models.Member{MemberID: "M001", UID: "uid-1", SfaID: "SFA0001", Role: models.RoleMember, IsActive: true},
		&models.Member{MemberID: "M002", UID: "uid-2", SfaID: "SFA0002", Role: models.RoleMember, IsActive: true},
	)
	return NewPaymentService(paymentRepo, memberRepo), paymentRepo
}

func TestRecordPaymentValidation(t *testing.T) {
	svc, _ := newPaymentServiceForTest()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RecordPaymentInput
		wantErr error
	}{
		{"missing sfa id", RecordPaymentInput{Month: "2026-08", Amount: 500, Method: "MPESA"}, domain.ErrInvalidInput},
		{"bad month", RecordPaymentInput{SfaID: "SFA0001", Month: "August", Amount: 500, Method: "MPESA"}, ErrInvalidMonth},
		{"zero amount", RecordPaymentInput{SfaID: "SFA0001", Month: "2026-08", Amount: 0, Method: "MPESA"}, ErrInvalidAmount},
		{"negative amount", RecordPaymentInput{SfaID: "SFA0001", Month: "2026-08", Amount: -5, Method: "MPESA"}, ErrInvalidAmount},
		{"bad method", RecordPaymentInput{SfaID: "SFA0001", Month: "2026-08", Amount: 500, Method: "BARTER"}, ErrUnknownMethod},
		{"unknown member", RecordPaymentInput{SfaID: "SFA9999", Month: "2026-08", Amount: 500, Method: "MPESA"}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(ctx, "admin-uid", &tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecordPayment(t *testing.T) {
	svc, repo := newPaymentServiceForTest()

	payment, err := svc.Record(context.Background(), "admin-uid", &RecordPaymentInput{
		SfaID:     "SFA0001",
		Month:     "2026-08",
		Amount:    500,
		Method:    "MPESA",
		Reference: "QX12AB34",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if payment.MemberID != "M001" {
		t.Errorf("member ID = %q, want M001", payment.MemberID)
	}
	if payment.Status != models.PaymentStatusConfirmed {
		t.Errorf("status = %q, want CONFIRMED", payment.Status)
	}
	if len(repo.payments) != 1 {
		t.Fatalf("expected 1 stored payment, got %d", len(repo.payments))
	}
}

func TestImportCSVCommitsValidRowsAndReportsBadOnes(t *testing.T) {
	svc, repo := newPaymentServiceForTest()

	csvData := strings.Join([]string{
		"sfa_id,month,amount,method,reference",
		"SFA0001,2026-08,500,MPESA,QX12AB34",
		"SFA9999,2026-08,500,MPESA,QX12AB35",  // unknown member
		"SFA0002,August,500,BANK,QX12AB36",    // bad month
		"SFA0002,2026-08,-10,BANK,QX12AB37",   // bad amount
		"SFA0002,2026-08,750,BANK,QX12AB38",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), "admin-uid", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}
	if result.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", result.Skipped)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %d", len(result.Errors))
	}
	// Line numbers count from the header as line 1
	if result.Errors[0].Line != 3 {
		t.Errorf("first error line = %d, want 3", result.Errors[0].Line)
	}

	if len(repo.payments) != 2 {
		t.Fatalf("expected 2 committed payments, got %d", len(repo.payments))
	}
	for _, p := range repo.payments {
		if p.RecordedBy != "admin-uid" {
			t.Errorf("recorded_by = %q", p.RecordedBy)
		}
	}
}

func TestImportCSVDefaultsBlankMethod(t *testing.T) {
	svc, repo := newPaymentServiceForTest()

	csvData := "sfa_id,month,amount,method,reference\nSFA0001,2026-08,500,,REF1\n"

	result, err := svc.ImportCSV(context.Background(), "admin-uid", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("imported = %d, want 1", result.Imported)
	}
	if repo.payments[0].Method != models.PaymentMethodImported {
		t.Errorf("method = %q, want IMPORTED", repo.payments[0].Method)
	}
}

func TestImportCSVRejectsWrongHeader(t *testing.T) {
	svc, _ := newPaymentServiceForTest()

	csvData := "member,period,value\nM001,2026-08,500\n"

	_, err := svc.ImportCSV(context.Background(), "admin-uid", strings.NewReader(csvData))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for wrong header, got %v", err)
	}
}

func TestImportCSVRejectsEmptyFile(t *testing.T) {
	svc, _ := newPaymentServiceForTest()

	csvData := "sfa_id,month,amount,method,reference\n"

	_, err := svc.ImportCSV(context.Background(), "admin-uid", strings.NewReader(csvData))
	if !errors.Is(err, ErrEmptyImport) {
		t.Fatalf("expected ErrEmptyImport, got %v", err)
	}
}

func TestMonthSummary(t *testing.T) {
	svc, _ := newPaymentServiceForTest()
	ctx := context.Background()

	for _, in := range []RecordPaymentInput{
		{SfaID: "SFA0001", Month: "2026-08", Amount: 500, Method: "MPESA"},
		{SfaID: "SFA0002", Month: "2026-08", Amount: 750, Method: "BANK"},
		{SfaID: "SFA0001", Month: "2026-07", Amount: 500, Method: "CASH"},
	} {
		if _, err := svc.Record(ctx, "admin-uid", &in); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, "2026-08")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.Total != 1250 {
		t.Errorf("total = %.2f, want 1250", summary.Total)
	}
	if summary.Count != 2 {
		t.Errorf("count = %d, want 2", summary.Count)
	}

	if _, err := svc.Summary(ctx, "wrong"); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}
