package persistence

import (
	"context"

	"github.com/finledger/backend/internal/domain/audit"
	"github.com/finledger/backend/internal/domain/chit"
	"github.com/finledger/backend/internal/domain/investment"
	"github.com/finledger/backend/internal/domain/invoice"
	"github.com/finledger/backend/internal/domain/ledger"
	"github.com/finledger/backend/internal/domain/partner"
	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

func findByID[M any, D any](ctx context.Context, db *gorm.DB, id string, toDomain func(*M) *D) (*D, error) {
	var model M
	if err := db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomain(&model), nil
}

// findAll returns every row in insertion order so snapshots are stable across loads
func findAll[M any, D any](ctx context.Context, db *gorm.DB, toDomain func(*M) *D) ([]D, error) {
	var rows []M
	if err := db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *toDomain(&rows[i])
	}
	return out, nil
}

// GormPaymentRepository implements ledger.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id string) (*ledger.Payment, error) {
	return findByID(ctx, r.db, id, (*models.PaymentModel).ToDomain)
}

// FindAll returns every payment
func (r *GormPaymentRepository) FindAll(ctx context.Context) ([]ledger.Payment, error) {
	return findAll(ctx, r.db, (*models.PaymentModel).ToDomain)
}

// GormBankAccountRepository implements ledger.BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds a bank account by its ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id string) (*ledger.BankAccount, error) {
	return findByID(ctx, r.db, id, (*models.BankAccountModel).ToDomain)
}

// FindAll returns every bank account, archived ones included
func (r *GormBankAccountRepository) FindAll(ctx context.Context) ([]ledger.BankAccount, error) {
	return findAll(ctx, r.db, (*models.BankAccountModel).ToDomain)
}

// CashOpeningBalance returns the stored opening balance of CASH, zero when never set
func (r *GormBankAccountRepository) CashOpeningBalance(ctx context.Context) (*ledger.OpeningBalance, error) {
	var rows []models.OpeningBalanceModel
	if err := r.db.WithContext(ctx).Where("mode = ?", ledger.CashMode).Limit(1).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	if len(rows) == 0 {
		return &ledger.OpeningBalance{Mode: ledger.CashMode}, nil
	}
	return rows[0].ToDomain(), nil
}

// GormInvoiceRepository implements invoice.Repository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	return findByID(ctx, r.db, id, (*models.InvoiceModel).ToDomain)
}

// FindAll returns every invoice, void ones included
func (r *GormInvoiceRepository) FindAll(ctx context.Context) ([]invoice.Invoice, error) {
	return findAll(ctx, r.db, (*models.InvoiceModel).ToDomain)
}

// GormChitGroupRepository implements chit.Repository using GORM
type GormChitGroupRepository struct {
	db *gorm.DB
}

// NewGormChitGroupRepository creates a new GormChitGroupRepository
func NewGormChitGroupRepository(db *gorm.DB) *GormChitGroupRepository {
	return &GormChitGroupRepository{db: db}
}

// FindByID finds a chit group with its auctions
func (r *GormChitGroupRepository) FindByID(ctx context.Context, id string) (*chit.ChitGroup, error) {
	return findByID(ctx, r.db, id, (*models.ChitGroupModel).ToDomain)
}

// FindAll returns every chit group with its auctions
func (r *GormChitGroupRepository) FindAll(ctx context.Context) ([]chit.ChitGroup, error) {
	return findAll(ctx, r.db, (*models.ChitGroupModel).ToDomain)
}

// GormInvestmentRepository implements investment.Repository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByID finds an investment with its transactions
func (r *GormInvestmentRepository) FindByID(ctx context.Context, id string) (*investment.Investment, error) {
	return findByID(ctx, r.db, id, (*models.InvestmentModel).ToDomain)
}

// FindAll returns every investment with its transactions
func (r *GormInvestmentRepository) FindAll(ctx context.Context) ([]investment.Investment, error) {
	return findAll(ctx, r.db, (*models.InvestmentModel).ToDomain)
}

// GormCustomerRepository implements partner.Repository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id string) (*partner.Customer, error) {
	return findByID(ctx, r.db, id, (*models.CustomerModel).ToDomain)
}

// FindAll returns every customer
func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]partner.Customer, error) {
	return findAll(ctx, r.db, (*models.CustomerModel).ToDomain)
}

// GormLiabilityRepository implements partner.LiabilityRepository using GORM
type GormLiabilityRepository struct {
	db *gorm.DB
}

// NewGormLiabilityRepository creates a new GormLiabilityRepository
func NewGormLiabilityRepository(db *gorm.DB) *GormLiabilityRepository {
	return &GormLiabilityRepository{db: db}
}

// FindByID finds a liability by its ID
func (r *GormLiabilityRepository) FindByID(ctx context.Context, id string) (*partner.Liability, error) {
	return findByID(ctx, r.db, id, (*models.LiabilityModel).ToDomain)
}

// FindAll returns every liability, closed ones included
func (r *GormLiabilityRepository) FindAll(ctx context.Context) ([]partner.Liability, error) {
	return findAll(ctx, r.db, (*models.LiabilityModel).ToDomain)
}

// auditSortColumns whitelists the columns audit queries may order by
var auditSortColumns = map[string]string{
	"timestamp":   "logged_at",
	"created_at":  "logged_at",
	"entity_type": "entity_type",
	"action":      "action",
	"actor_id":    "actor_id",
}

// auditFilterColumns whitelists the columns audit queries may filter on
var auditFilterColumns = []string{"entity_type", "entity_id", "action", "actor_id", "plan_id"}

// GormAuditLogRepository implements audit.Repository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// FindByEntity returns one entity's history, oldest first
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]audit.AuditLog, error) {
	var rows []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("logged_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return auditLogsToDomain(rows), nil
}

// List returns one page of audit entries matching the filter and the total match count
func (r *GormAuditLogRepository) List(ctx context.Context, filter shared.Filter) ([]audit.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	for _, col := range auditFilterColumns {
		if v, ok := filter.Filters[col]; ok && v != "" {
			query = query.Where(col+" = ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	orderBy, ok := auditSortColumns[filter.OrderBy]
	if !ok {
		orderBy = "logged_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(orderBy + " " + dir).Order("id " + dir)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.AuditLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return auditLogsToDomain(rows), total, nil
}

func auditLogsToDomain(rows []models.AuditLogModel) []audit.AuditLog {
	out := make([]audit.AuditLog, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var (
	_ ledger.PaymentRepository     = (*GormPaymentRepository)(nil)
	_ ledger.BankAccountRepository = (*GormBankAccountRepository)(nil)
	_ invoice.Repository           = (*GormInvoiceRepository)(nil)
	_ chit.Repository              = (*GormChitGroupRepository)(nil)
	_ investment.Repository        = (*GormInvestmentRepository)(nil)
	_ partner.Repository           = (*GormCustomerRepository)(nil)
	_ partner.LiabilityRepository  = (*GormLiabilityRepository)(nil)
	_ audit.Repository             = (*GormAuditLogRepository)(nil)
)
