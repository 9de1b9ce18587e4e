package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duesbook/internal/auth"
	"github.com/mmynk/duesbook/internal/ledger"
	"github.com/mmynk/duesbook/internal/middleware"
	"github.com/mmynk/duesbook/internal/storage/sqlite"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// setupTestServer serves both services over a temp-file SQLite database with
// the production interceptor chain.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	logging := connect.WithInterceptors(middleware.LoggingInterceptor(discard))

	ledgerPath, ledgerHandler := NewLedgerServiceHandler(
		NewLedgerService(ledger.New(store, ledger.WithLogger(discard)), discard),
		logging,
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	)
	authPath, authHandler := NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, discard),
		logging,
	)

	mux := http.NewServeMux()
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle(authPath, authHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

// call invokes procedure with token as bearer credential, when set.
func call[Req, Res any](t *testing.T, server *httptest.Server, token, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](server.Client(), server.URL+procedure, connect.WithCodec(JSONCodec()))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func mustCall[Req, Res any](t *testing.T, server *httptest.Server, token, procedure string, msg *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](t, server, token, procedure, msg)
	if err != nil {
		t.Fatalf("%s failed: %v", procedure, err)
	}
	return res
}

func register(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()
	resp := mustCall[RegisterRequest, AuthResponse](t, server, "", AuthServiceRegisterProcedure, &RegisterRequest{
		Email:       email,
		DisplayName: "Coach",
		Password:    "password123",
	})
	if resp.Token == "" {
		t.Fatal("expected token in register response")
	}
	return resp.Token
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func TestAuthFlow(t *testing.T) {
	server := setupTestServer(t)
	token := register(t, server, "coach@example.com")

	t.Run("login", func(t *testing.T) {
		resp := mustCall[LoginRequest, AuthResponse](t, server, "", AuthServiceLoginProcedure, &LoginRequest{
			Email:    "Coach@Example.com",
			Password: "password123",
		})
		if resp.User.Email != "coach@example.com" {
			t.Errorf("expected normalized email, got %q", resp.User.Email)
		}
	})

	t.Run("current user", func(t *testing.T) {
		resp := mustCall[GetCurrentUserRequest, UserResponse](t, server, token, AuthServiceGetCurrentUserProcedure, &GetCurrentUserRequest{})
		if resp.User.Email != "coach@example.com" || resp.User.DisplayName != "Coach" {
			t.Errorf("unexpected user: %+v", resp.User)
		}
	})

	t.Run("current user without token", func(t *testing.T) {
		_, err := call[GetCurrentUserRequest, UserResponse](t, server, "", AuthServiceGetCurrentUserProcedure, &GetCurrentUserRequest{})
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := call[LoginRequest, AuthResponse](t, server, "", AuthServiceLoginProcedure, &LoginRequest{
			Email:    "coach@example.com",
			Password: "not-the-password",
		})
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := call[RegisterRequest, AuthResponse](t, server, "", AuthServiceRegisterProcedure, &RegisterRequest{
			Email:       "coach@example.com",
			DisplayName: "Other",
			Password:    "password123",
		})
		assertCode(t, err, connect.CodeAlreadyExists)
		if field := ErrorField(err); field != "email" {
			t.Errorf("expected field email, got %q", field)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := call[RegisterRequest, AuthResponse](t, server, "", AuthServiceRegisterProcedure, &RegisterRequest{
			Email:       "new@example.com",
			DisplayName: "New",
			Password:    "short",
		})
		assertCode(t, err, connect.CodeInvalidArgument)
		if field := ErrorField(err); field != "password" {
			t.Errorf("expected field password, got %q", field)
		}
	})
}

func TestLedgerRequiresToken(t *testing.T) {
	server := setupTestServer(t)

	for name, token := range map[string]string{
		"missing": "",
		"garbage": "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := call[PeriodFilterRequest, ListPeriodsResponse](t, server, token, LedgerServiceListPeriodsProcedure, &PeriodFilterRequest{})
			assertCode(t, err, connect.CodeUnauthenticated)
		})
	}
}

func TestDuesFlowOverRPC(t *testing.T) {
	server := setupTestServer(t)
	token := register(t, server, "coach@example.com")

	alice := mustCall[CreatePlayerRequest, PlayerResponse](t, server, token, LedgerServiceCreatePlayerProcedure, &CreatePlayerRequest{
		Name: "Alice", Phone: "555-0001", DefaultFee: "50.00", JoinDate: "2024-01-10",
	}).Player
	bob := mustCall[CreatePlayerRequest, PlayerResponse](t, server, token, LedgerServiceCreatePlayerProcedure, &CreatePlayerRequest{
		Name: "Bob", Phone: "555-0002", DefaultFee: "30",
	}).Player
	if alice.DefaultFee != "50.00" || alice.JoinDate != "2024-01-10" {
		t.Errorf("unexpected player: %+v", alice)
	}

	period := mustCall[CreatePeriodRequest, PeriodResponse](t, server, token, LedgerServiceCreatePeriodProcedure, &CreatePeriodRequest{
		Year: 2024, Month: 3,
	}).Period
	if period.Name != "03/2024" || period.Status != "open" {
		t.Errorf("unexpected period: %+v", period)
	}

	added := mustCall[AddPlayersToPeriodRequest, AddPlayersToPeriodResponse](t, server, token, LedgerServiceAddPlayersToPeriodProcedure, &AddPlayersToPeriodRequest{
		PeriodID:  period.ID,
		PlayerIDs: []string{alice.ID, bob.ID},
	})
	if added.AddedCount != 2 || added.ExpectedIncrease != "80.00" {
		t.Errorf("unexpected add result: count=%d increase=%s", added.AddedCount, added.ExpectedIncrease)
	}
	if added.Period.TotalExpected != "80.00" || added.Period.PlayersCount != 2 {
		t.Errorf("unexpected period after add: %+v", added.Period)
	}

	paid := mustCall[SetPaymentStatusRequest, RecordResponse](t, server, token, LedgerServiceSetPaymentStatusProcedure, &SetPaymentStatusRequest{
		PeriodID:    period.ID,
		PlayerID:    alice.ID,
		Status:      "paid",
		PaymentDate: "2024-03-05",
	})
	if paid.Record.PaymentDate == nil || *paid.Record.PaymentDate != "2024-03-05" {
		t.Errorf("expected payment date 2024-03-05, got %v", paid.Record.PaymentDate)
	}
	if paid.Period.TotalReceived != "50.00" {
		t.Errorf("expected received 50.00, got %s", paid.Period.TotalReceived)
	}

	casual := mustCall[AddCasualPlayerRequest, CasualRecordResponse](t, server, token, LedgerServiceAddCasualPlayerProcedure, &AddCasualPlayerRequest{
		PeriodID:   period.ID,
		PlayerName: "Guest",
		Amount:     "20",
		Status:     "paid",
	})
	if casual.Period.TotalExpected != "100.00" || casual.Period.TotalReceived != "70.00" {
		t.Errorf("unexpected totals after casual: %+v", casual.Period)
	}

	mustCall[AddExpenseRequest, ExpenseResponse](t, server, token, LedgerServiceAddExpenseProcedure, &AddExpenseRequest{
		PeriodID:    period.ID,
		Description: "Pitch rental",
		Amount:      "15.50",
		Category:    "field_rental",
	})

	t.Run("stats", func(t *testing.T) {
		stats := mustCall[PeriodIDRequest, PeriodStatsResponse](t, server, token, LedgerServiceGetPeriodStatsProcedure, &PeriodIDRequest{PeriodID: period.ID})
		if stats.TotalPlayers != 2 || stats.Paid != 1 || stats.Pending != 1 || stats.CasualCount != 1 {
			t.Errorf("unexpected counts: %+v", stats)
		}
		if stats.CollectionRate != "70.00" {
			t.Errorf("expected collection rate 70.00, got %s", stats.CollectionRate)
		}
	})

	t.Run("cash flow", func(t *testing.T) {
		summary := mustCall[PeriodFilterRequest, CashFlowSummaryResponse](t, server, token, LedgerServiceGetCashFlowSummaryProcedure, &PeriodFilterRequest{})
		if len(summary.Periods) != 1 {
			t.Fatalf("expected 1 period, got %d", len(summary.Periods))
		}
		want := CashFlow{MonthlyReceived: "50.00", CasualReceived: "20.00", Received: "70.00", Expenses: "15.50", Net: "54.50"}
		if summary.Total != want {
			t.Errorf("expected %+v, got %+v", want, summary.Total)
		}
	})

	t.Run("expenses leave totals untouched", func(t *testing.T) {
		got := mustCall[PeriodIDRequest, PeriodResponse](t, server, token, LedgerServiceGetPeriodProcedure, &PeriodIDRequest{PeriodID: period.ID}).Period
		if got.TotalExpected != "100.00" || got.TotalReceived != "70.00" {
			t.Errorf("unexpected totals: %+v", got)
		}
	})

	t.Run("custom fee", func(t *testing.T) {
		res := mustCall[SetCustomFeeRequest, RecordResponse](t, server, token, LedgerServiceSetCustomFeeProcedure, &SetCustomFeeRequest{
			RecordID: paid.Record.ID,
			Fee:      "40",
		})
		if res.Record.EffectiveFee != "40.00" || res.Record.CustomFee == nil {
			t.Errorf("unexpected record: %+v", res.Record)
		}
		if res.Period.TotalExpected != "90.00" || res.Period.TotalReceived != "60.00" {
			t.Errorf("unexpected totals: %+v", res.Period)
		}
	})

	t.Run("pending dues", func(t *testing.T) {
		res := mustCall[PendingCountRequest, PendingCountResponse](t, server, token, LedgerServicePendingDuesProcedure, &PendingCountRequest{
			PlayerID:     bob.ID,
			AsOfPeriodID: period.ID,
		})
		if res.Count != 1 {
			t.Errorf("expected 1 pending month for Bob, got %d", res.Count)
		}
	})

	t.Run("filtered records", func(t *testing.T) {
		res := mustCall[ListMonthlyRecordsRequest, ListMonthlyRecordsResponse](t, server, token, LedgerServiceListMonthlyRecordsProcedure, &ListMonthlyRecordsRequest{
			PeriodID: period.ID,
			Status:   "pending",
		})
		if len(res.Records) != 1 || res.Records[0].PlayerID != bob.ID {
			t.Errorf("expected only Bob pending, got %+v", res.Records)
		}
	})
}

func TestRequestValidation(t *testing.T) {
	server := setupTestServer(t)
	token := register(t, server, "coach@example.com")
	period := mustCall[CreatePeriodRequest, PeriodResponse](t, server, token, LedgerServiceCreatePeriodProcedure, &CreatePeriodRequest{
		Year: 2024, Month: 3,
	}).Period

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{
			name: "player without name",
			call: func() error {
				_, err := call[CreatePlayerRequest, PlayerResponse](t, server, token, LedgerServiceCreatePlayerProcedure, &CreatePlayerRequest{Phone: "1"})
				return err
			},
			field: "name",
		},
		{
			name: "negative default fee",
			call: func() error {
				_, err := call[CreatePlayerRequest, PlayerResponse](t, server, token, LedgerServiceCreatePlayerProcedure, &CreatePlayerRequest{Name: "A", Phone: "1", DefaultFee: "-5"})
				return err
			},
			field: "default_fee",
		},
		{
			name: "month out of range",
			call: func() error {
				_, err := call[CreatePeriodRequest, PeriodResponse](t, server, token, LedgerServiceCreatePeriodProcedure, &CreatePeriodRequest{Year: 2024, Month: 13})
				return err
			},
			field: "month",
		},
		{
			name: "no players to add",
			call: func() error {
				_, err := call[AddPlayersToPeriodRequest, AddPlayersToPeriodResponse](t, server, token, LedgerServiceAddPlayersToPeriodProcedure, &AddPlayersToPeriodRequest{PeriodID: period.ID, PlayerIDs: []string{}})
				return err
			},
			field: "player_ids",
		},
		{
			name: "casual amount not a number",
			call: func() error {
				_, err := call[AddCasualPlayerRequest, CasualRecordResponse](t, server, token, LedgerServiceAddCasualPlayerProcedure, &AddCasualPlayerRequest{PeriodID: period.ID, PlayerName: "Guest", Amount: "abc"})
				return err
			},
			field: "amount",
		},
		{
			name: "unknown expense category",
			call: func() error {
				_, err := call[AddExpenseRequest, ExpenseResponse](t, server, token, LedgerServiceAddExpenseProcedure, &AddExpenseRequest{PeriodID: period.ID, Description: "Balls", Amount: "10", Category: "pitch"})
				return err
			},
			field: "category",
		},
		{
			name: "bulk fee of zero",
			call: func() error {
				_, err := call[BulkReviseDefaultFeeRequest, BulkReviseDefaultFeeResponse](t, server, token, LedgerServiceBulkReviseDefaultFeeProcedure, &BulkReviseDefaultFeeRequest{PeriodID: period.ID, Fee: "0"})
				return err
			},
			field: "fee",
		},
		{
			name: "bad payment status",
			call: func() error {
				_, err := call[SetPaymentStatusRequest, RecordResponse](t, server, token, LedgerServiceSetPaymentStatusProcedure, &SetPaymentStatusRequest{RecordID: "r", Status: "waived"})
				return err
			},
			field: "status",
		},
		{
			name: "payment status without record",
			call: func() error {
				_, err := call[SetPaymentStatusRequest, RecordResponse](t, server, token, LedgerServiceSetPaymentStatusProcedure, &SetPaymentStatusRequest{PeriodID: period.ID, Status: "paid"})
				return err
			},
			field: "record_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assertCode(t, err, connect.CodeInvalidArgument)
			if got := ErrorField(err); got != tt.field {
				t.Errorf("expected field %q, got %q (%v)", tt.field, got, err)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	server := setupTestServer(t)
	owner := register(t, server, "owner@example.com")
	other := register(t, server, "other@example.com")

	player := mustCall[CreatePlayerRequest, PlayerResponse](t, server, owner, LedgerServiceCreatePlayerProcedure, &CreatePlayerRequest{
		Name: "Alice", Phone: "555-0001", DefaultFee: "50",
	}).Player
	period := mustCall[CreatePeriodRequest, PeriodResponse](t, server, owner, LedgerServiceCreatePeriodProcedure, &CreatePeriodRequest{
		Year: 2024, Month: 3,
	}).Period
	mustCall[AddPlayersToPeriodRequest, AddPlayersToPeriodResponse](t, server, owner, LedgerServiceAddPlayersToPeriodProcedure, &AddPlayersToPeriodRequest{
		PeriodID: period.ID, PlayerIDs: []string{player.ID},
	})

	t.Run("unknown period", func(t *testing.T) {
		_, err := call[PeriodIDRequest, PeriodResponse](t, server, owner, LedgerServiceGetPeriodProcedure, &PeriodIDRequest{PeriodID: "missing"})
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("duplicate period", func(t *testing.T) {
		_, err := call[CreatePeriodRequest, PeriodResponse](t, server, owner, LedgerServiceCreatePeriodProcedure, &CreatePeriodRequest{Year: 2024, Month: 3})
		assertCode(t, err, connect.CodeAlreadyExists)
		if field := ErrorField(err); field != "month" {
			t.Errorf("expected field month, got %q", field)
		}
	})

	t.Run("duplicate phone", func(t *testing.T) {
		_, err := call[CreatePlayerRequest, PlayerResponse](t, server, owner, LedgerServiceCreatePlayerProcedure, &CreatePlayerRequest{Name: "Other", Phone: "555-0001"})
		assertCode(t, err, connect.CodeAlreadyExists)
		if field := ErrorField(err); field != "phone" {
			t.Errorf("expected field phone, got %q", field)
		}
	})

	t.Run("player already in period", func(t *testing.T) {
		_, err := call[AddPlayersToPeriodRequest, AddPlayersToPeriodResponse](t, server, owner, LedgerServiceAddPlayersToPeriodProcedure, &AddPlayersToPeriodRequest{
			PeriodID: period.ID, PlayerIDs: []string{player.ID},
		})
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("player with history cannot be deleted", func(t *testing.T) {
		_, err := call[PlayerIDRequest, Empty](t, server, owner, LedgerServiceDeletePlayerProcedure, &PlayerIDRequest{PlayerID: player.ID})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		_, err := call[PlayerIDRequest, PlayerResponse](t, server, other, LedgerServiceGetPlayerProcedure, &PlayerIDRequest{PlayerID: player.ID})
		assertCode(t, err, connect.CodeNotFound)

		_, err = call[SetPaymentStatusRequest, RecordResponse](t, server, other, LedgerServiceSetPaymentStatusProcedure, &SetPaymentStatusRequest{
			PeriodID: period.ID, PlayerID: player.ID, Status: "paid",
		})
		assertCode(t, err, connect.CodeNotFound)

		periods := mustCall[PeriodFilterRequest, ListPeriodsResponse](t, server, other, LedgerServiceListPeriodsProcedure, &PeriodFilterRequest{})
		if len(periods.Periods) != 0 {
			t.Errorf("expected no periods for other tenant, got %d", len(periods.Periods))
		}
	})
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  connect.Code
		field string
	}{
		{"not found", ledger.ErrNotFound, connect.CodeNotFound, ""},
		{"validation", &ledger.ValidationError{Field: "fee", Message: "bad"}, connect.CodeInvalidArgument, "fee"},
		{"conflict", &ledger.ConflictError{Field: "phone", Message: "taken"}, connect.CodeAlreadyExists, "phone"},
		{"concurrent update", ledger.ErrConcurrentUpdate, connect.CodeAborted, ""},
		{"cancelled", context.Canceled, connect.CodeCanceled, ""},
		{"unknown", errors.New("disk on fire"), connect.CodeInternal, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toConnectError(discard, "/test", tt.err)
			if got := connect.CodeOf(err); got != tt.code {
				t.Errorf("expected code %v, got %v", tt.code, got)
			}
			if got := ErrorField(err); got != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, got)
			}
		})
	}

	t.Run("internal details are hidden", func(t *testing.T) {
		var connectErr *connect.Error
		if !errors.As(toConnectError(discard, "/test", errors.New("disk on fire")), &connectErr) {
			t.Fatal("expected a connect error")
		}
		if connectErr.Message() != "internal error" {
			t.Errorf("expected generic message, got %q", connectErr.Message())
		}
	})
}
