package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/internal/categorize"
	"ynab-recon-engine/internal/creator"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/importer"
	"ynab-recon-engine/internal/mapping"
	"ynab-recon-engine/internal/matcher"
	"ynab-recon-engine/internal/ports"
	"ynab-recon-engine/pkg/logger"
	"ynab-recon-engine/pkg/response"
)

// EngineHandler exposes the core reconciliation/categorization engine
// over HTTP, composing the outbound ports the way the teacher's
// TransactionHandler composed a TransactionService.
type EngineHandler struct {
	bankSource    ports.BankTransactionSource
	ledger        ports.LedgerClient
	catalog       ports.YnabCategoryCatalog
	mappings      ports.MappingStore
	engine        *matcher.ReconciliationEngine
	budgetId      domain.BudgetId
	ynabAccountId domain.AccountId
}

func NewEngineHandler(
	bankSource ports.BankTransactionSource,
	ledger ports.LedgerClient,
	catalog ports.YnabCategoryCatalog,
	mappings ports.MappingStore,
	budgetId domain.BudgetId,
	ynabAccountId domain.AccountId,
) *EngineHandler {
	return &EngineHandler{
		bankSource:    bankSource,
		ledger:        ledger,
		catalog:       catalog,
		mappings:      mappings,
		engine:        matcher.NewReconciliationEngine(),
		budgetId:      budgetId,
		ynabAccountId: ynabAccountId,
	}
}

type importRecordRequest struct {
	Date         string `json:"date" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	MerchantName string `json:"merchant_name"`
}

type ImportTransactionsRequest struct {
	AccountId string                `json:"account_id" binding:"required"`
	Records   []importRecordRequest `json:"records" binding:"required,min=1"`
}

// ImportTransactions godoc
// @Summary Import a batch of raw bank records
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body ImportTransactionsRequest true "Import batch"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/transactions/import [post]
func (h *EngineHandler) ImportTransactions(c *gin.Context) {
	var req ImportTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	records := make([]importer.ImportRecord, 0, len(req.Records))
	for _, r := range req.Records {
		records = append(records, importer.ImportRecord{
			Date:         r.Date,
			Description:  r.Description,
			Amount:       r.Amount,
			MerchantName: r.MerchantName,
		})
	}

	resp := importer.Import(domain.AccountId(req.AccountId), records)
	response.Success(c, http.StatusOK, "import completed", gin.H{
		"status":             resp.Status,
		"total_processed":    resp.TotalProcessed,
		"successful_imports": resp.SuccessfulImports,
		"duplicates_skipped": resp.DuplicatesSkipped,
		"error_count":        len(resp.Errors),
		"accepted":           bankTxnsToDTO(resp.Accepted),
	})
}

type CategorizeRequest struct {
	TransactionIds []string `json:"transaction_ids" binding:"required,min=1"`
}

type categorizeResultDTO struct {
	TransactionId string  `json:"transaction_id"`
	CategoryId    string  `json:"category_id,omitempty"`
	CategoryName  string  `json:"category_name,omitempty"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning,omitempty"`
}

// CategorizeTransactions godoc
// @Summary Infer a category for a set of bank transactions
// @Tags categorize
// @Accept json
// @Produce json
// @Param request body CategorizeRequest true "Transaction ids"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/transactions/categorize [post]
func (h *EngineHandler) CategorizeTransactions(c *gin.Context) {
	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	ids := make([]domain.TransactionId, 0, len(req.TransactionIds))
	for _, raw := range req.TransactionIds {
		ids = append(ids, domain.TransactionId(raw))
	}

	txns, err := h.bankSource.FindByIds(c.Request.Context(), ids)
	if err != nil {
		respondErr(c, err)
		return
	}

	catalog, err := h.catalog.ListAvailable(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	results := make([]categorizeResultDTO, 0, len(txns))
	for _, tx := range txns {
		pattern, patternErr := domain.NewTransactionPattern(tx.MerchantName, tx.Description)
		var relevantMappings []domain.CategoryMapping
		if patternErr == nil {
			relevantMappings, err = h.mappings.FindMappingsForPattern(c.Request.Context(), pattern)
			if err != nil {
				logger.GetLogger().WithError(err).Warn("failed to load mappings for pattern, falling back to similarity only")
			}
		}

		result, ok := categorize.Infer(tx, catalog, relevantMappings)
		dto := categorizeResultDTO{TransactionId: string(tx.Id)}
		if ok {
			dto.CategoryId = string(result.Category.Id())
			dto.CategoryName = result.Category.Name()
			dto.Confidence = result.Confidence
			dto.Reasoning = result.Reasoning
		}
		results = append(results, dto)
	}

	response.Success(c, http.StatusOK, "categorization completed", gin.H{"results": results})
}

type ReconcileRequest struct {
	AccountId   string `json:"account_id" binding:"required"`
	WindowStart string `json:"window_start" binding:"required"`
	WindowEnd   string `json:"window_end" binding:"required"`
	Strategy    string `json:"strategy" binding:"required,oneof=STRICT RANGE"`
}

// Reconcile godoc
// @Summary Reconcile a bank feed window against the ledger
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body ReconcileRequest true "Reconciliation window"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/reconcile [post]
func (h *EngineHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	windowStart, err := time.Parse("2006-01-02", req.WindowStart)
	if err != nil {
		response.BadRequest(c, "invalid window_start", "expected YYYY-MM-DD")
		return
	}
	windowEnd, err := time.Parse("2006-01-02", req.WindowEnd)
	if err != nil {
		response.BadRequest(c, "invalid window_end", "expected YYYY-MM-DD")
		return
	}

	accountId := domain.AccountId(req.AccountId)
	ctx := c.Request.Context()

	bankTxns, err := h.bankSource.ListByAccountAndWindow(ctx, accountId, windowStart, windowEnd)
	if err != nil {
		respondErr(c, err)
		return
	}
	ynabTxns, err := h.ledger.ListAccountTransactions(ctx, h.budgetId, accountId)
	if err != nil {
		respondErr(c, err)
		return
	}

	input := matcher.ReconciliationInput{
		AccountId:        accountId,
		WindowStart:      windowStart,
		WindowEnd:        windowEnd,
		Strategy:         matcher.StrategyKind(req.Strategy),
		BankTransactions: bankTxns,
		YnabTransactions: ynabTxns,
	}
	output, summary := h.engine.Reconcile(input)

	response.Success(c, http.StatusOK, "reconciliation completed", gin.H{
		"summary":           summary,
		"matched":           bankTxnsToDTO(output.Matched),
		"missing_from_ynab": bankTxnsToDTO(output.MissingFromYnab),
	})
}

type mappingCandidateRequest struct {
	CategoryId   string  `json:"category_id" binding:"required"`
	CategoryName string  `json:"category_name" binding:"required"`
	MerchantName string  `json:"merchant_name"`
	Description  string  `json:"description"`
	Confidence   float64 `json:"confidence" binding:"required"`
}

type SaveMappingsRequest struct {
	Candidates []mappingCandidateRequest `json:"candidates" binding:"required,min=1"`
}

// SaveMappings godoc
// @Summary Learn category mappings from successful categorizations
// @Tags mappings
// @Accept json
// @Produce json
// @Param request body SaveMappingsRequest true "Mapping candidates"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/mappings [post]
func (h *EngineHandler) SaveMappings(c *gin.Context) {
	var req SaveMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	candidates := make([]domain.CategoryMapping, 0, len(req.Candidates))
	for _, cr := range req.Candidates {
		pattern, err := domain.NewTransactionPattern(cr.MerchantName, cr.Description)
		if err != nil {
			continue
		}
		cat, err := domain.NewCategory(domain.CategoryId(cr.CategoryId), cr.CategoryName, domain.CategoryBankInferred)
		if err != nil {
			continue
		}
		mp, err := domain.NewCategoryMapping(domain.CategoryMappingId(uuid.NewString()), cat, pattern, cr.Confidence)
		if err != nil {
			continue
		}
		candidates = append(candidates, mp)
	}

	if len(candidates) == 0 {
		respondErr(c, apperr.InvalidArgument("no candidate produced a valid mapping"))
		return
	}

	resp, err := mapping.Learn(c.Request.Context(), h.mappings, candidates)
	if err != nil {
		respondErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, "mappings learned", resp)
}

type CreateMissingRequest struct {
	TransactionIds []string `json:"transaction_ids" binding:"required,min=1"`
}

// CreateMissing godoc
// @Summary Create missing bank transactions in the ledger
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateMissingRequest true "Missing transaction ids"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/transactions/create-missing [post]
func (h *EngineHandler) CreateMissing(c *gin.Context) {
	var req CreateMissingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	ids := make([]domain.TransactionId, 0, len(req.TransactionIds))
	for _, raw := range req.TransactionIds {
		ids = append(ids, domain.TransactionId(raw))
	}

	ctx := c.Request.Context()
	missing, err := h.bankSource.FindByIds(ctx, ids)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp, err := creator.CreateMissing(ctx, h.ledger, h.budgetId, h.ynabAccountId, missing)
	if err != nil {
		respondErr(c, err)
		return
	}

	response.Success(c, http.StatusOK, "create-missing completed", gin.H{
		"succeeded": len(resp.Successes()),
		"failed":    len(resp.Failures()),
		"results":   resp.Results,
	})
}

type bankTxnDTO struct {
	Id           string `json:"id"`
	AccountId    string `json:"account_id"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
	MerchantName string `json:"merchant_name,omitempty"`
	CategoryId   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

func bankTxnsToDTO(txns []domain.BankTransaction) []bankTxnDTO {
	out := make([]bankTxnDTO, 0, len(txns))
	for _, tx := range txns {
		out = append(out, bankTxnDTO{
			Id:           string(tx.Id),
			AccountId:    string(tx.AccountId),
			Date:         tx.Date.Format("2006-01-02"),
			Amount:       tx.Amount.ToDecimal().String(),
			Description:  tx.Description,
			MerchantName: tx.MerchantName,
			CategoryId:   string(tx.InferredCategory.Id()),
			CategoryName: tx.InferredCategory.Name(),
		})
	}
	return out
}
