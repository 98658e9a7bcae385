package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"sfa-welfarehub/internal/adapters/persistence/models"
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/pkg/pagination"

	"gorm.io/gorm"
)

var (
	ErrInvalidMonth  = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrUnknownMethod = errors.New("unknown payment method")
	ErrEmptyImport   = errors.New("import file contains no data rows")
)

// PaymentService handles monthly contribution records
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	memberRepo  repositories.MemberRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repositories.PaymentRepository, memberRepo repositories.MemberRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
	}
}

// RecordPaymentInput represents a single contribution record
type RecordPaymentInput struct {
	SfaID     string  `json:"sfa_id"`
	Month     string  `json:"month"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

func validMonth(month string) bool {
	_, err := time.Parse("2006-01", month)
	return err == nil
}

func validMethod(method string) bool {
	switch method {
	case models.PaymentMethodMpesa, models.PaymentMethodBank, models.PaymentMethodCash, models.PaymentMethodImported:
		return true
	}
	return false
}

// Record records a contribution for a member, keyed by SFA-ID
func (s *PaymentService) Record(ctx context.Context, recordedBy string, input *RecordPaymentInput) (*models.Payment, error) {
	if input.SfaID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !validMonth(input.Month) {
		return nil, ErrInvalidMonth
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !validMethod(input.Method) {
		return nil, ErrUnknownMethod
	}

	member, err := s.memberRepo.GetBySfaID(ctx, input.SfaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	payment := &models.Payment{
		SfaID:      member.SfaID,
		MemberID:   member.MemberID,
		Month:      input.Month,
		Amount:     input.Amount,
		Method:     input.Method,
		Reference:  input.Reference,
		Status:     models.PaymentStatusConfirmed,
		RecordedBy: recordedBy,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment recorded: %s %s %.2f", payment.SfaID, payment.Month, payment.Amount)
	return payment, nil
}

// ListMy returns the caller's own contribution history
func (s *PaymentService) ListMy(ctx context.Context, sfaID string) ([]*models.Payment, error) {
	return s.paymentRepo.ListBySfaID(ctx, sfaID)
}

// List returns contributions, optionally filtered by month
func (s *PaymentService) List(ctx context.Context, month string, params *pagination.Params) ([]*models.Payment, *pagination.Meta, error) {
	if month != "" && !validMonth(month) {
		return nil, nil, ErrInvalidMonth
	}

	payments, total, err := s.paymentRepo.List(ctx, month, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return payments, pagination.GetMeta(params, total), nil
}

// MonthSummary represents aggregate contribution figures for one month
type MonthSummary struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// Summary returns aggregate contribution figures for a month
func (s *PaymentService) Summary(ctx context.Context, month string) (*MonthSummary, error) {
	if !validMonth(month) {
		return nil, ErrInvalidMonth
	}

	total, count, err := s.paymentRepo.MonthTotal(ctx, month)
	if err != nil {
		return nil, err
	}

	return &MonthSummary{Month: month, Total: total, Count: count}, nil
}

// RowError describes a rejected row in a CSV import
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult summarises a CSV import run
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// csvHeader is the required header row for contribution imports
var csvHeader = []string{"sfa_id", "month", "amount", "method", "reference"}

// ImportCSV ingests a bank statement export. Rows are validated
// independently; valid rows are committed even when others are
// rejected, and every rejection is reported with its line number.
func (s *PaymentService) ImportCSV(ctx context.Context, recordedBy string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < len(csvHeader) {
		return nil, fmt.Errorf("%w: expected header %s", domain.ErrInvalidInput, strings.Join(csvHeader, ","))
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("%w: expected header %s", domain.ErrInvalidInput, strings.Join(csvHeader, ","))
		}
	}

	result := &ImportResult{Errors: []RowError{}}
	var batch []*models.Payment

	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Message: "malformed row"})
			continue
		}

		payment, rowErr := s.parseImportRow(ctx, recordedBy, record)
		if rowErr != "" {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Message: rowErr})
			continue
		}
		batch = append(batch, payment)
	}

	if len(batch) == 0 && result.Skipped == 0 {
		return nil, ErrEmptyImport
	}

	if len(batch) > 0 {
		if err := s.paymentRepo.CreateBatch(ctx, batch); err != nil {
			return nil, err
		}
		result.Imported = len(batch)
	}

	log.Printf("✅ CSV import complete: %d imported, %d skipped", result.Imported, result.Skipped)
	return result, nil
}

func (s *PaymentService) parseImportRow(ctx context.Context, recordedBy string, record []string) (*models.Payment, string) {
	if len(record) < len(csvHeader) {
		return nil, "too few columns"
	}

	sfaID := strings.TrimSpace(record[0])
	month := strings.TrimSpace(record[1])
	amountStr := strings.TrimSpace(record[2])
	method := strings.ToUpper(strings.TrimSpace(record[3]))
	reference := strings.TrimSpace(record[4])

	member, err := s.memberRepo.GetBySfaID(ctx, sfaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Sprintf("unknown SFA-ID %q", sfaID)
		}
		return nil, "member lookup failed"
	}

	if !validMonth(month) {
		return nil, fmt.Sprintf("invalid month %q, expected YYYY-MM", month)
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Sprintf("invalid amount %q", amountStr)
	}

	if method == "" {
		method = models.PaymentMethodImported
	}
	if !validMethod(method) {
		return nil, fmt.Sprintf("unknown method %q", method)
	}

	return &models.Payment{
		SfaID:      member.SfaID,
		MemberID:   member.MemberID,
		Month:      month,
		Amount:     amount,
		Method:     method,
		Reference:  reference,
		Status:     models.PaymentStatusConfirmed,
		RecordedBy: recordedBy,
	}, ""
}
