package service

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService.
	LedgerServiceName = "duesbook.v1.LedgerService"
	// AuthServiceName is the fully-qualified name of the AuthService.
	AuthServiceName = "duesbook.v1.AuthService"
)

// Procedure paths of the LedgerService.
const (
	LedgerServiceCreatePlayerProcedure     = "/duesbook.v1.LedgerService/CreatePlayer"
	LedgerServiceGetPlayerProcedure        = "/duesbook.v1.LedgerService/GetPlayer"
	LedgerServiceListPlayersProcedure      = "/duesbook.v1.LedgerService/ListPlayers"
	LedgerServiceUpdatePlayerProcedure     = "/duesbook.v1.LedgerService/UpdatePlayer"
	LedgerServiceActivatePlayerProcedure   = "/duesbook.v1.LedgerService/ActivatePlayer"
	LedgerServiceDeactivatePlayerProcedure = "/duesbook.v1.LedgerService/DeactivatePlayer"
	LedgerServiceDeletePlayerProcedure     = "/duesbook.v1.LedgerService/DeletePlayer"

	LedgerServiceCreatePeriodProcedure         = "/duesbook.v1.LedgerService/CreatePeriod"
	LedgerServiceGetPeriodProcedure            = "/duesbook.v1.LedgerService/GetPeriod"
	LedgerServiceListPeriodsProcedure          = "/duesbook.v1.LedgerService/ListPeriods"
	LedgerServiceSetPeriodStatusProcedure      = "/duesbook.v1.LedgerService/SetPeriodStatus"
	LedgerServiceDeletePeriodProcedure         = "/duesbook.v1.LedgerService/DeletePeriod"
	LedgerServiceListAvailablePlayersProcedure = "/duesbook.v1.LedgerService/ListAvailablePlayers"

	LedgerServiceAddPlayersToPeriodProcedure     = "/duesbook.v1.LedgerService/AddPlayersToPeriod"
	LedgerServiceAddCasualPlayerProcedure        = "/duesbook.v1.LedgerService/AddCasualPlayer"
	LedgerServiceSetPaymentStatusProcedure       = "/duesbook.v1.LedgerService/SetPaymentStatus"
	LedgerServiceSetCasualPaymentStatusProcedure = "/duesbook.v1.LedgerService/SetCasualPaymentStatus"
	LedgerServiceListMonthlyRecordsProcedure     = "/duesbook.v1.LedgerService/ListMonthlyRecords"
	LedgerServiceListCasualRecordsProcedure      = "/duesbook.v1.LedgerService/ListCasualRecords"

	LedgerServiceSetCustomFeeProcedure         = "/duesbook.v1.LedgerService/SetCustomFee"
	LedgerServiceClearCustomFeeProcedure       = "/duesbook.v1.LedgerService/ClearCustomFee"
	LedgerServiceBulkReviseDefaultFeeProcedure = "/duesbook.v1.LedgerService/BulkReviseDefaultFee"
	LedgerServiceRecomputeTotalsProcedure      = "/duesbook.v1.LedgerService/RecomputeTotals"

	LedgerServiceRecomputePendingCountProcedure = "/duesbook.v1.LedgerService/RecomputePendingCount"
	LedgerServiceRefreshPendingCountsProcedure  = "/duesbook.v1.LedgerService/RefreshPendingCounts"
	LedgerServicePendingDuesProcedure           = "/duesbook.v1.LedgerService/PendingDues"

	LedgerServiceAddExpenseProcedure    = "/duesbook.v1.LedgerService/AddExpense"
	LedgerServiceUpdateExpenseProcedure = "/duesbook.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure = "/duesbook.v1.LedgerService/DeleteExpense"
	LedgerServiceListExpensesProcedure  = "/duesbook.v1.LedgerService/ListExpenses"

	LedgerServiceGetPeriodStatsProcedure     = "/duesbook.v1.LedgerService/GetPeriodStats"
	LedgerServiceGetCashFlowSummaryProcedure = "/duesbook.v1.LedgerService/GetCashFlowSummary"
)

// Procedure paths of the AuthService.
const (
	AuthServiceRegisterProcedure       = "/duesbook.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/duesbook.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/duesbook.v1.AuthService/GetCurrentUser"
)
