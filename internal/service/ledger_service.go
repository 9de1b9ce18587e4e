package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/duesbook/internal/ledger"
	"github.com/mmynk/duesbook/internal/middleware"
	"github.com/mmynk/duesbook/internal/models"
)

// LedgerService exposes the dues ledger over Connect. Every call is scoped to
// the tenant RequireAuth put into the context.
type LedgerService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewLedgerService creates a new LedgerService backed by l.
func NewLedgerService(l *ledger.Ledger, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{ledger: l, logger: logger}
}

// NewLedgerServiceHandler returns the path prefix and handler serving every
// LedgerService procedure. Pass middleware.RequireAuth in opts.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	log := svc.logger
	mux := http.NewServeMux()

	mux.Handle(LedgerServiceCreatePlayerProcedure, unary(LedgerServiceCreatePlayerProcedure, log, svc.CreatePlayer, opts))
	mux.Handle(LedgerServiceGetPlayerProcedure, unary(LedgerServiceGetPlayerProcedure, log, svc.GetPlayer, opts))
	mux.Handle(LedgerServiceListPlayersProcedure, unary(LedgerServiceListPlayersProcedure, log, svc.ListPlayers, opts))
	mux.Handle(LedgerServiceUpdatePlayerProcedure, unary(LedgerServiceUpdatePlayerProcedure, log, svc.UpdatePlayer, opts))
	mux.Handle(LedgerServiceActivatePlayerProcedure, unary(LedgerServiceActivatePlayerProcedure, log, svc.ActivatePlayer, opts))
	mux.Handle(LedgerServiceDeactivatePlayerProcedure, unary(LedgerServiceDeactivatePlayerProcedure, log, svc.DeactivatePlayer, opts))
	mux.Handle(LedgerServiceDeletePlayerProcedure, unary(LedgerServiceDeletePlayerProcedure, log, svc.DeletePlayer, opts))

	mux.Handle(LedgerServiceCreatePeriodProcedure, unary(LedgerServiceCreatePeriodProcedure, log, svc.CreatePeriod, opts))
	mux.Handle(LedgerServiceGetPeriodProcedure, unary(LedgerServiceGetPeriodProcedure, log, svc.GetPeriod, opts))
	mux.Handle(LedgerServiceListPeriodsProcedure, unary(LedgerServiceListPeriodsProcedure, log, svc.ListPeriods, opts))
	mux.Handle(LedgerServiceSetPeriodStatusProcedure, unary(LedgerServiceSetPeriodStatusProcedure, log, svc.SetPeriodStatus, opts))
	mux.Handle(LedgerServiceDeletePeriodProcedure, unary(LedgerServiceDeletePeriodProcedure, log, svc.DeletePeriod, opts))
	mux.Handle(LedgerServiceListAvailablePlayersProcedure, unary(LedgerServiceListAvailablePlayersProcedure, log, svc.ListAvailablePlayers, opts))

	mux.Handle(LedgerServiceAddPlayersToPeriodProcedure, unary(LedgerServiceAddPlayersToPeriodProcedure, log, svc.AddPlayersToPeriod, opts))
	mux.Handle(LedgerServiceAddCasualPlayerProcedure, unary(LedgerServiceAddCasualPlayerProcedure, log, svc.AddCasualPlayer, opts))
	mux.Handle(LedgerServiceSetPaymentStatusProcedure, unary(LedgerServiceSetPaymentStatusProcedure, log, svc.SetPaymentStatus, opts))
	mux.Handle(LedgerServiceSetCasualPaymentStatusProcedure, unary(LedgerServiceSetCasualPaymentStatusProcedure, log, svc.SetCasualPaymentStatus, opts))
	mux.Handle(LedgerServiceListMonthlyRecordsProcedure, unary(LedgerServiceListMonthlyRecordsProcedure, log, svc.ListMonthlyRecords, opts))
	mux.Handle(LedgerServiceListCasualRecordsProcedure, unary(LedgerServiceListCasualRecordsProcedure, log, svc.ListCasualRecords, opts))

	mux.Handle(LedgerServiceSetCustomFeeProcedure, unary(LedgerServiceSetCustomFeeProcedure, log, svc.SetCustomFee, opts))
	mux.Handle(LedgerServiceClearCustomFeeProcedure, unary(LedgerServiceClearCustomFeeProcedure, log, svc.ClearCustomFee, opts))
	mux.Handle(LedgerServiceBulkReviseDefaultFeeProcedure, unary(LedgerServiceBulkReviseDefaultFeeProcedure, log, svc.BulkReviseDefaultFee, opts))
	mux.Handle(LedgerServiceRecomputeTotalsProcedure, unary(LedgerServiceRecomputeTotalsProcedure, log, svc.RecomputeTotals, opts))

	mux.Handle(LedgerServiceRecomputePendingCountProcedure, unary(LedgerServiceRecomputePendingCountProcedure, log, svc.RecomputePendingCount, opts))
	mux.Handle(LedgerServiceRefreshPendingCountsProcedure, unary(LedgerServiceRefreshPendingCountsProcedure, log, svc.RefreshPendingCounts, opts))
	mux.Handle(LedgerServicePendingDuesProcedure, unary(LedgerServicePendingDuesProcedure, log, svc.PendingDues, opts))

	mux.Handle(LedgerServiceAddExpenseProcedure, unary(LedgerServiceAddExpenseProcedure, log, svc.AddExpense, opts))
	mux.Handle(LedgerServiceUpdateExpenseProcedure, unary(LedgerServiceUpdateExpenseProcedure, log, svc.UpdateExpense, opts))
	mux.Handle(LedgerServiceDeleteExpenseProcedure, unary(LedgerServiceDeleteExpenseProcedure, log, svc.DeleteExpense, opts))
	mux.Handle(LedgerServiceListExpensesProcedure, unary(LedgerServiceListExpensesProcedure, log, svc.ListExpenses, opts))

	mux.Handle(LedgerServiceGetPeriodStatsProcedure, unary(LedgerServiceGetPeriodStatsProcedure, log, svc.GetPeriodStats, opts))
	mux.Handle(LedgerServiceGetCashFlowSummaryProcedure, unary(LedgerServiceGetCashFlowSummaryProcedure, log, svc.GetCashFlowSummary, opts))

	return "/" + LedgerServiceName + "/", mux
}

// CreatePlayer adds a player to the caller's roster.
func (s *LedgerService) CreatePlayer(ctx context.Context, req *connect.Request[CreatePlayerRequest]) (*connect.Response[PlayerResponse], error) {
	fee, err := parseDecimal("default_fee", req.Msg.DefaultFee)
	if err != nil {
		return nil, err
	}
	joinDate, err := parseDate("join_date", req.Msg.JoinDate)
	if err != nil {
		return nil, err
	}

	player, err := s.ledger.CreatePlayer(ctx, middleware.GetTenantID(ctx), models.PlayerFields{
		Name:       req.Msg.Name,
		Phone:      req.Msg.Phone,
		Email:      req.Msg.Email,
		Position:   req.Msg.Position,
		DefaultFee: fee,
		JoinDate:   joinDate,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

// GetPlayer retrieves a roster player by ID.
func (s *LedgerService) GetPlayer(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.ledger.GetPlayer(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

// ListPlayers lists the roster ordered by name.
func (s *LedgerService) ListPlayers(ctx context.Context, req *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.ledger.ListPlayers(ctx, middleware.GetTenantID(ctx), models.PlayerFilter{
		Active: req.Msg.Active,
		Search: req.Msg.Search,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListPlayersResponse{Players: mapSlice(players, toPlayer)}), nil
}

// UpdatePlayer edits roster fields. Existing period records keep their snapshot.
func (s *LedgerService) UpdatePlayer(ctx context.Context, req *connect.Request[UpdatePlayerRequest]) (*connect.Response[PlayerResponse], error) {
	update := models.PlayerUpdate{
		Name:     req.Msg.Name,
		Phone:    req.Msg.Phone,
		Email:    req.Msg.Email,
		Position: req.Msg.Position,
	}
	if req.Msg.DefaultFee != nil {
		fee, err := parseDecimal("default_fee", *req.Msg.DefaultFee)
		if err != nil {
			return nil, err
		}
		update.DefaultFee = &fee
	}

	player, err := s.ledger.UpdatePlayer(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID, update)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

func (s *LedgerService) ActivatePlayer(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.ledger.ActivatePlayer(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

func (s *LedgerService) DeactivatePlayer(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.ledger.DeactivatePlayer(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

// DeletePlayer removes a player without ledger history.
func (s *LedgerService) DeletePlayer(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[Empty], error) {
	if err := s.ledger.DeletePlayer(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&Empty{}), nil
}

// CreatePeriod opens a new billing month.
func (s *LedgerService) CreatePeriod(ctx context.Context, req *connect.Request[CreatePeriodRequest]) (*connect.Response[PeriodResponse], error) {
	period, err := s.ledger.CreatePeriod(ctx, middleware.GetTenantID(ctx), req.Msg.Year, req.Msg.Month, req.Msg.Name)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PeriodResponse{Period: toPeriod(period)}), nil
}

// GetPeriod retrieves a period with its cached totals.
func (s *LedgerService) GetPeriod(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[PeriodResponse], error) {
	period, err := s.ledger.GetPeriod(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PeriodResponse{Period: toPeriod(period)}), nil
}

// ListPeriods lists periods newest first.
func (s *LedgerService) ListPeriods(ctx context.Context, req *connect.Request[PeriodFilterRequest]) (*connect.Response[ListPeriodsResponse], error) {
	periods, err := s.ledger.ListPeriods(ctx, middleware.GetTenantID(ctx), periodFilter(req.Msg))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListPeriodsResponse{Periods: mapSlice(periods, toPeriod)}), nil
}

func (s *LedgerService) SetPeriodStatus(ctx context.Context, req *connect.Request[SetPeriodStatusRequest]) (*connect.Response[PeriodResponse], error) {
	period, err := s.ledger.SetPeriodStatus(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID, req.Msg.Status)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PeriodResponse{Period: toPeriod(period)}), nil
}

// DeletePeriod removes the period and every record and expense in it.
func (s *LedgerService) DeletePeriod(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[Empty], error) {
	if err := s.ledger.DeletePeriod(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&Empty{}), nil
}

// ListAvailablePlayers lists active players not yet in the period.
func (s *LedgerService) ListAvailablePlayers(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.ledger.ListAvailablePlayers(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListPlayersResponse{Players: mapSlice(players, toPlayer)}), nil
}

// AddPlayersToPeriod snapshots roster players into a period, all or none.
func (s *LedgerService) AddPlayersToPeriod(ctx context.Context, req *connect.Request[AddPlayersToPeriodRequest]) (*connect.Response[AddPlayersToPeriodResponse], error) {
	tenantID := middleware.GetTenantID(ctx)
	result, err := s.ledger.AddPlayersToPeriod(ctx, tenantID, req.Msg.PeriodID, req.Msg.PlayerIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Players added to period",
		"tenant_id", tenantID,
		"period_id", req.Msg.PeriodID,
		"added_count", result.AddedCount,
	)

	return connect.NewResponse(&AddPlayersToPeriodResponse{
		Records:          mapSlice(result.Records, toMonthlyRecord),
		AddedCount:       result.AddedCount,
		ExpectedIncrease: result.ExpectedIncrease.StringFixed(2),
		Period:           toPeriod(result.Period),
	}), nil
}

// AddCasualPlayer records a one-off participant in a period.
func (s *LedgerService) AddCasualPlayer(ctx context.Context, req *connect.Request[AddCasualPlayerRequest]) (*connect.Response[CasualRecordResponse], error) {
	amount, err := parseDecimal("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	playDate, err := parseDate("play_date", req.Msg.PlayDate)
	if err != nil {
		return nil, err
	}
	paymentDate, err := parseDatePtr("payment_date", req.Msg.PaymentDate)
	if err != nil {
		return nil, err
	}

	result, err := s.ledger.AddCasualPlayer(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID, models.CasualFields{
		PlayerName:  req.Msg.PlayerName,
		PlayDate:    playDate,
		InvitedBy:   req.Msg.InvitedBy,
		Amount:      amount,
		Status:      models.PaymentStatus(req.Msg.Status),
		PaymentDate: paymentDate,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&CasualRecordResponse{
		Record: toCasualRecord(result.Record),
		Period: toPeriod(result.Period),
	}), nil
}

// SetPaymentStatus moves a monthly record to a new payment status.
func (s *LedgerService) SetPaymentStatus(ctx context.Context, req *connect.Request[SetPaymentStatusRequest]) (*connect.Response[RecordResponse], error) {
	paymentDate, err := parseDatePtr("payment_date", req.Msg.PaymentDate)
	if err != nil {
		return nil, err
	}

	result, err := s.ledger.SetPaymentStatus(ctx, middleware.GetTenantID(ctx), ledger.PaymentUpdate{
		RecordID:    req.Msg.RecordID,
		PeriodID:    req.Msg.PeriodID,
		PlayerID:    req.Msg.PlayerID,
		Status:      req.Msg.Status,
		PaymentDate: paymentDate,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&RecordResponse{
		Record: toMonthlyRecord(result.Record),
		Period: toPeriod(result.Period),
	}), nil
}

func (s *LedgerService) SetCasualPaymentStatus(ctx context.Context, req *connect.Request[SetCasualPaymentStatusRequest]) (*connect.Response[CasualRecordResponse], error) {
	paymentDate, err := parseDatePtr("payment_date", req.Msg.PaymentDate)
	if err != nil {
		return nil, err
	}

	result, err := s.ledger.SetCasualPaymentStatus(ctx, middleware.GetTenantID(ctx),
		req.Msg.PeriodID, req.Msg.RecordID, req.Msg.Status, paymentDate)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&CasualRecordResponse{
		Record: toCasualRecord(result.Record),
		Period: toPeriod(result.Period),
	}), nil
}

func (s *LedgerService) ListMonthlyRecords(ctx context.Context, req *connect.Request[ListMonthlyRecordsRequest]) (*connect.Response[ListMonthlyRecordsResponse], error) {
	records, err := s.ledger.ListMonthlyRecords(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID, models.RecordFilter{
		Status: models.PaymentStatus(req.Msg.Status),
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListMonthlyRecordsResponse{Records: mapSlice(records, toMonthlyRecord)}), nil
}

func (s *LedgerService) ListCasualRecords(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[ListCasualRecordsResponse], error) {
	records, err := s.ledger.ListCasualRecords(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListCasualRecordsResponse{Records: mapSlice(records, toCasualRecord)}), nil
}

// SetCustomFee overrides one record's fee for its period.
func (s *LedgerService) SetCustomFee(ctx context.Context, req *connect.Request[SetCustomFeeRequest]) (*connect.Response[RecordResponse], error) {
	fee, err := parseDecimal("fee", req.Msg.Fee)
	if err != nil {
		return nil, err
	}
	result, err := s.ledger.SetCustomFee(ctx, middleware.GetTenantID(ctx), req.Msg.RecordID, fee)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&RecordResponse{
		Record: toMonthlyRecord(result.Record),
		Period: toPeriod(result.Period),
	}), nil
}

func (s *LedgerService) ClearCustomFee(ctx context.Context, req *connect.Request[RecordIDRequest]) (*connect.Response[RecordResponse], error) {
	result, err := s.ledger.ClearCustomFee(ctx, middleware.GetTenantID(ctx), req.Msg.RecordID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&RecordResponse{
		Record: toMonthlyRecord(result.Record),
		Period: toPeriod(result.Period),
	}), nil
}

// BulkReviseDefaultFee sets the default fee of every record in the period
// that has no custom fee.
func (s *LedgerService) BulkReviseDefaultFee(ctx context.Context, req *connect.Request[BulkReviseDefaultFeeRequest]) (*connect.Response[BulkReviseDefaultFeeResponse], error) {
	fee, err := parseDecimal("fee", req.Msg.Fee)
	if err != nil {
		return nil, err
	}
	result, err := s.ledger.BulkReviseDefaultFee(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID, fee)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&BulkReviseDefaultFeeResponse{
		Period:       toPeriod(result.Period),
		UpdatedCount: result.UpdatedCount,
	}), nil
}

func (s *LedgerService) RecomputeTotals(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[PeriodResponse], error) {
	period, err := s.ledger.RecomputeTotals(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PeriodResponse{Period: toPeriod(period)}), nil
}

// RecomputePendingCount recounts and stores the player's unpaid months as of a period.
func (s *LedgerService) RecomputePendingCount(ctx context.Context, req *connect.Request[PendingCountRequest]) (*connect.Response[PendingCountResponse], error) {
	count, err := s.ledger.RecomputePendingCount(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID, req.Msg.AsOfPeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PendingCountResponse{
		PlayerID:     req.Msg.PlayerID,
		AsOfPeriodID: req.Msg.AsOfPeriodID,
		Count:        count,
	}), nil
}

func (s *LedgerService) RefreshPendingCounts(ctx context.Context, req *connect.Request[PlayerIDRequest]) (*connect.Response[Empty], error) {
	if err := s.ledger.RefreshPendingCounts(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&Empty{}), nil
}

// PendingDues reads the player's unpaid month count as of a period.
func (s *LedgerService) PendingDues(ctx context.Context, req *connect.Request[PendingCountRequest]) (*connect.Response[PendingCountResponse], error) {
	count, err := s.ledger.PendingDues(ctx, middleware.GetTenantID(ctx), req.Msg.PlayerID, req.Msg.AsOfPeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&PendingCountResponse{
		PlayerID:     req.Msg.PlayerID,
		AsOfPeriodID: req.Msg.AsOfPeriodID,
		Count:        count,
	}), nil
}

// AddExpense records money spent in a period.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	fields, err := expenseFields(req.Msg.Description, req.Msg.Amount, req.Msg.Category, req.Msg.Date)
	if err != nil {
		return nil, err
	}
	expense, err := s.ledger.AddExpense(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID, fields)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ExpenseResponse{Expense: toExpense(expense)}), nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	fields, err := expenseFields(req.Msg.Description, req.Msg.Amount, req.Msg.Category, req.Msg.Date)
	if err != nil {
		return nil, err
	}
	expense, err := s.ledger.UpdateExpense(ctx, middleware.GetTenantID(ctx), req.Msg.ExpenseID, fields)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ExpenseResponse{Expense: toExpense(expense)}), nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[ExpenseIDRequest]) (*connect.Response[Empty], error) {
	if err := s.ledger.DeleteExpense(ctx, middleware.GetTenantID(ctx), req.Msg.ExpenseID); err != nil {
		return nil, err
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[ListExpensesResponse], error) {
	expenses, err := s.ledger.ListExpenses(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: mapSlice(expenses, toExpense)}), nil
}

// GetPeriodStats reports per-status counts and the collection rate of a period.
func (s *LedgerService) GetPeriodStats(ctx context.Context, req *connect.Request[PeriodIDRequest]) (*connect.Response[PeriodStatsResponse], error) {
	stats, err := s.ledger.PeriodStats(ctx, middleware.GetTenantID(ctx), req.Msg.PeriodID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(toPeriodStats(stats)), nil
}

// GetCashFlowSummary reports received dues against expenses per period.
func (s *LedgerService) GetCashFlowSummary(ctx context.Context, req *connect.Request[PeriodFilterRequest]) (*connect.Response[CashFlowSummaryResponse], error) {
	summary, err := s.ledger.CashFlowSummary(ctx, middleware.GetTenantID(ctx), periodFilter(req.Msg))
	if err != nil {
		return nil, err
	}

	periods := make([]*PeriodCashFlow, len(summary.Periods))
	for i, p := range summary.Periods {
		periods[i] = &PeriodCashFlow{
			PeriodID: p.PeriodID,
			Year:     p.Year,
			Month:    p.Month,
			Name:     p.Name,
			CashFlow: toCashFlow(p.CashFlow),
		}
	}
	return connect.NewResponse(&CashFlowSummaryResponse{
		Periods: periods,
		Total:   toCashFlow(summary.Total),
	}), nil
}

func periodFilter(req *PeriodFilterRequest) models.PeriodFilter {
	return models.PeriodFilter{
		Year:   req.Year,
		Month:  req.Month,
		Status: models.PeriodStatus(req.Status),
	}
}

func expenseFields(description, amount, category, date string) (models.ExpenseFields, error) {
	value, err := parseDecimal("amount", amount)
	if err != nil {
		return models.ExpenseFields{}, err
	}
	day, err := parseDate("date", date)
	if err != nil {
		return models.ExpenseFields{}, err
	}
	return models.ExpenseFields{
		Description: description,
		Amount:      value,
		Category:    category,
		Date:        day,
	}, nil
}
