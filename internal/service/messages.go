package service

// Money travels as decimal strings and calendar dates as YYYY-MM-DD.

// Player is a roster entry.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Position   string `json:"position,omitempty"`
	DefaultFee string `json:"default_fee"`
	JoinDate   string `json:"join_date"`
	Active     bool   `json:"active"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// Period is a billing month with its cached totals.
type Period struct {
	ID            string `json:"id"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	TotalExpected string `json:"total_expected"`
	TotalReceived string `json:"total_received"`
	PlayersCount  int    `json:"players_count"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// MonthlyRecord is a roster player's dues entry in one period.
type MonthlyRecord struct {
	ID                 string  `json:"id"`
	PeriodID           string  `json:"period_id"`
	PlayerID           string  `json:"player_id"`
	PlayerName         string  `json:"player_name"`
	Phone              string  `json:"phone"`
	Email              string  `json:"email,omitempty"`
	Position           string  `json:"position,omitempty"`
	DefaultFee         string  `json:"default_fee"`
	CustomFee          *string `json:"custom_fee,omitempty"`
	EffectiveFee       string  `json:"effective_fee"`
	Status             string  `json:"status"`
	PaymentDate        *string `json:"payment_date,omitempty"`
	PendingMonthsCount int     `json:"pending_months_count"`
}

// CasualRecord is a one-off participant's payment in one period.
type CasualRecord struct {
	ID          string  `json:"id"`
	PeriodID    string  `json:"period_id"`
	PlayerName  string  `json:"player_name"`
	PlayDate    string  `json:"play_date"`
	InvitedBy   string  `json:"invited_by,omitempty"`
	Amount      string  `json:"amount"`
	Status      string  `json:"status"`
	PaymentDate *string `json:"payment_date,omitempty"`
}

// Expense is money spent by the group within a period.
type Expense struct {
	ID          string `json:"id"`
	PeriodID    string `json:"period_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// CashFlow is received dues against expenses.
type CashFlow struct {
	MonthlyReceived string `json:"monthly_received"`
	CasualReceived  string `json:"casual_received"`
	Received        string `json:"received"`
	Expenses        string `json:"expenses"`
	Net             string `json:"net"`
}

// PeriodCashFlow is the cash flow of one period.
type PeriodCashFlow struct {
	PeriodID string `json:"period_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Name     string `json:"name"`
	CashFlow
}

// User is an account. Each account owns one tenant.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// Empty is returned by operations with no payload.
type Empty struct{}

// Roster

type CreatePlayerRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,max=20"`
	Email      string `json:"email" validate:"omitempty,email,max=100"`
	Position   string `json:"position" validate:"max=50"`
	DefaultFee string `json:"default_fee" validate:"omitempty,decimal_gte0"`
	JoinDate   string `json:"join_date" validate:"omitempty,date"`
}

type PlayerIDRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type ListPlayersRequest struct {
	Active *bool  `json:"active,omitempty"`
	Search string `json:"search" validate:"max=100"`
}

// UpdatePlayerRequest changes only the fields that are set.
type UpdatePlayerRequest struct {
	PlayerID   string  `json:"player_id" validate:"required"`
	Name       *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email      *string `json:"email,omitempty" validate:"omitempty,max=100"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=50"`
	DefaultFee *string `json:"default_fee,omitempty" validate:"omitempty,decimal_gte0"`
}

type PlayerResponse struct {
	Player *Player `json:"player"`
}

type ListPlayersResponse struct {
	Players []*Player `json:"players"`
}

// Periods

type CreatePeriodRequest struct {
	Year  int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Month int    `json:"month" validate:"required,gte=1,lte=12"`
	Name  string `json:"name" validate:"max=50"`
}

type PeriodIDRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
}

// PeriodFilterRequest narrows period listings. Zero fields match everything.
type PeriodFilterRequest struct {
	Year   int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	Month  int    `json:"month" validate:"omitempty,gte=1,lte=12"`
	Status string `json:"status" validate:"omitempty,oneof=open closed"`
}

type SetPeriodStatusRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=open closed"`
}

type PeriodResponse struct {
	Period *Period `json:"period"`
}

type ListPeriodsResponse struct {
	Periods []*Period `json:"periods"`
}

// Payments

type AddPlayersToPeriodRequest struct {
	PeriodID  string   `json:"period_id" validate:"required"`
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,dive,required"`
}

type AddPlayersToPeriodResponse struct {
	Records          []*MonthlyRecord `json:"records"`
	AddedCount       int              `json:"added_count"`
	ExpectedIncrease string           `json:"expected_increase"`
	Period           *Period          `json:"period"`
}

type AddCasualPlayerRequest struct {
	PeriodID    string `json:"period_id" validate:"required"`
	PlayerName  string `json:"player_name" validate:"required,max=100"`
	PlayDate    string `json:"play_date" validate:"omitempty,date"`
	InvitedBy   string `json:"invited_by" validate:"max=100"`
	Amount      string `json:"amount" validate:"required,decimal_gt0"`
	Status      string `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	PaymentDate string `json:"payment_date" validate:"omitempty,date"`
}

// SetPaymentStatusRequest addresses the record by record_id, or by period_id
// and player_id.
type SetPaymentStatusRequest struct {
	RecordID    string `json:"record_id"`
	PeriodID    string `json:"period_id"`
	PlayerID    string `json:"player_id"`
	Status      string `json:"status" validate:"required,oneof=pending paid overdue"`
	PaymentDate string `json:"payment_date" validate:"omitempty,date"`
}

type SetCasualPaymentStatusRequest struct {
	PeriodID    string `json:"period_id"`
	RecordID    string `json:"record_id" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=pending paid overdue"`
	PaymentDate string `json:"payment_date" validate:"omitempty,date"`
}

type ListMonthlyRecordsRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=pending paid overdue"`
}

type RecordResponse struct {
	Record *MonthlyRecord `json:"record"`
	Period *Period        `json:"period"`
}

type CasualRecordResponse struct {
	Record *CasualRecord `json:"record"`
	Period *Period       `json:"period"`
}

type ListMonthlyRecordsResponse struct {
	Records []*MonthlyRecord `json:"records"`
}

type ListCasualRecordsResponse struct {
	Records []*CasualRecord `json:"records"`
}

// Fees and aggregation

type SetCustomFeeRequest struct {
	RecordID string `json:"record_id" validate:"required"`
	Fee      string `json:"fee" validate:"required,decimal_gte0"`
}

type RecordIDRequest struct {
	RecordID string `json:"record_id" validate:"required"`
}

type BulkReviseDefaultFeeRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
	Fee      string `json:"fee" validate:"required,decimal_gt0"`
}

type BulkReviseDefaultFeeResponse struct {
	Period       *Period `json:"period"`
	UpdatedCount int     `json:"updated_count"`
}

// Pending dues

type PendingCountRequest struct {
	PlayerID     string `json:"player_id" validate:"required"`
	AsOfPeriodID string `json:"as_of_period_id" validate:"required"`
}

type PendingCountResponse struct {
	PlayerID     string `json:"player_id"`
	AsOfPeriodID string `json:"as_of_period_id"`
	Count        int    `json:"count"`
}

// Expenses

type AddExpenseRequest struct {
	PeriodID    string `json:"period_id" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Amount      string `json:"amount" validate:"required,decimal_gt0"`
	Category    string `json:"category" validate:"required,oneof=equipment field_rental referee transportation food medical maintenance other"`
	Date        string `json:"date" validate:"omitempty,date"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string `json:"expense_id" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Amount      string `json:"amount" validate:"required,decimal_gt0"`
	Category    string `json:"category" validate:"required,oneof=equipment field_rental referee transportation food medical maintenance other"`
	Date        string `json:"date" validate:"omitempty,date"`
}

type ExpenseIDRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

type ExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// Reports

type PeriodStatsResponse struct {
	PeriodID       string `json:"period_id"`
	TotalPlayers   int    `json:"total_players"`
	Paid           int    `json:"paid"`
	Pending        int    `json:"pending"`
	Overdue        int    `json:"overdue"`
	CasualCount    int    `json:"casual_count"`
	TotalExpected  string `json:"total_expected"`
	TotalReceived  string `json:"total_received"`
	CollectionRate string `json:"collection_rate"`
}

type CashFlowSummaryResponse struct {
	Periods []*PeriodCashFlow `json:"periods"`
	Total   CashFlow          `json:"total"`
}

// Accounts

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=100"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type UserResponse struct {
	User *User `json:"user"`
}
