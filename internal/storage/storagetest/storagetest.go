// Package storagetest holds a conformance suite every storage.Store
// implementation runs from its own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duesbook/internal/models"
	"github.com/mmynk/duesbook/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// Run exercises the storage.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("players", func(t *testing.T) { testPlayers(t, open(t, newStore)) })
	t.Run("periods", func(t *testing.T) { testPeriods(t, open(t, newStore)) })
	t.Run("records", func(t *testing.T) { testRecords(t, open(t, newStore)) })
	t.Run("expenses", func(t *testing.T) { testExpenses(t, open(t, newStore)) })
	t.Run("users", func(t *testing.T) { testUsers(t, open(t, newStore)) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, open(t, newStore)) })
}

func open(t *testing.T, newStore Factory) storage.Store {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { s.Close() })
	return s
}

// MustPlayer creates an active player with the given phone.
func MustPlayer(t *testing.T, s storage.Queries, tenantID, name, phone, fee string) *models.Player {
	t.Helper()
	p, err := models.NewPlayer(tenantID, models.PlayerFields{
		Name:       name,
		Phone:      phone,
		DefaultFee: decimal.RequireFromString(fee),
	}, now)
	if err != nil {
		t.Fatalf("NewPlayer failed: %v", err)
	}
	if err := s.CreatePlayer(context.Background(), p); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	return p
}

// MustPeriod creates an empty period.
func MustPeriod(t *testing.T, s storage.Queries, tenantID string, year, month int) *models.Period {
	t.Helper()
	p, err := models.NewPeriod(tenantID, year, month, "", now)
	if err != nil {
		t.Fatalf("NewPeriod failed: %v", err)
	}
	if err := s.CreatePeriod(context.Background(), p); err != nil {
		t.Fatalf("CreatePeriod failed: %v", err)
	}
	return p
}

// MustRecord snapshots player into period.
func MustRecord(t *testing.T, s storage.Queries, period *models.Period, player *models.Player) *models.MonthlyRecord {
	t.Helper()
	r, err := models.NewMonthlyRecord(period, player, now)
	if err != nil {
		t.Fatalf("NewMonthlyRecord failed: %v", err)
	}
	if err := s.CreateMonthlyRecord(context.Background(), r); err != nil {
		t.Fatalf("CreateMonthlyRecord failed: %v", err)
	}
	return r
}

func wantNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func wantConstraint(t *testing.T, err error, kind storage.ConstraintKind) {
	t.Helper()
	var cerr *storage.ConstraintError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConstraintError, got %v", err)
	}
	if cerr.Kind != kind {
		t.Errorf("constraint kind = %v, want %v", cerr.Kind, kind)
	}
}

func testPlayers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	alice := MustPlayer(t, s, "t1", "Alice", "111", "100")
	MustPlayer(t, s, "t1", "bob", "222", "50")
	MustPlayer(t, s, "t2", "Alice Other", "111", "70")

	t.Run("CreatePlayer generates ID", func(t *testing.T) {
		if alice.ID == "" {
			t.Fatal("Expected player ID to be generated")
		}
	})

	t.Run("GetPlayer round trips", func(t *testing.T) {
		got, err := s.GetPlayer(ctx, "t1", alice.ID)
		if err != nil {
			t.Fatalf("GetPlayer failed: %v", err)
		}
		if got.Name != "Alice" || got.Phone != "111" || !got.Active {
			t.Errorf("unexpected player: %+v", got)
		}
		if !got.DefaultFee.Equal(decimal.NewFromInt(100)) {
			t.Errorf("DefaultFee = %s, want 100", got.DefaultFee)
		}
		if !got.JoinDate.Equal(models.Day(now)) {
			t.Errorf("JoinDate = %v, want %v", got.JoinDate, models.Day(now))
		}
	})

	t.Run("GetPlayer hides other tenants", func(t *testing.T) {
		_, err := s.GetPlayer(ctx, "t2", alice.ID)
		wantNotFound(t, err)
	})

	t.Run("duplicate phone within tenant", func(t *testing.T) {
		dup, _ := models.NewPlayer("t1", models.PlayerFields{Name: "Dup", Phone: "111"}, now)
		wantConstraint(t, s.CreatePlayer(ctx, dup), storage.ConstraintUnique)
	})

	t.Run("GetPlayerByPhone", func(t *testing.T) {
		got, err := s.GetPlayerByPhone(ctx, "t2", "111")
		if err != nil {
			t.Fatalf("GetPlayerByPhone failed: %v", err)
		}
		if got.Name != "Alice Other" {
			t.Errorf("Name = %q, want Alice Other", got.Name)
		}
		_, err = s.GetPlayerByPhone(ctx, "t2", "999")
		wantNotFound(t, err)
	})

	t.Run("GetPlayersByIDs omits foreign IDs", func(t *testing.T) {
		foreign := MustPlayer(t, s, "t2", "Zed", "333", "0")
		got, err := s.GetPlayersByIDs(ctx, "t1", []string{alice.ID, foreign.ID, "missing"})
		if err != nil {
			t.Fatalf("GetPlayersByIDs failed: %v", err)
		}
		if len(got) != 1 || got[alice.ID] == nil {
			t.Errorf("expected only alice, got %d players", len(got))
		}
	})

	t.Run("ListPlayers filters and orders", func(t *testing.T) {
		inactive := false
		carol := MustPlayer(t, s, "t1", "Carol", "444", "10")
		carol.Active = false
		if err := s.UpdatePlayer(ctx, carol); err != nil {
			t.Fatalf("UpdatePlayer failed: %v", err)
		}

		all, err := s.ListPlayers(ctx, "t1", models.PlayerFilter{})
		if err != nil {
			t.Fatalf("ListPlayers failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 players, got %d", len(all))
		}

		off, err := s.ListPlayers(ctx, "t1", models.PlayerFilter{Active: &inactive})
		if err != nil {
			t.Fatalf("ListPlayers failed: %v", err)
		}
		if len(off) != 1 || off[0].Name != "Carol" {
			t.Errorf("expected only Carol, got %v", names(off))
		}

		found, err := s.ListPlayers(ctx, "t1", models.PlayerFilter{Search: "BO"})
		if err != nil {
			t.Fatalf("ListPlayers failed: %v", err)
		}
		if len(found) != 1 || found[0].Name != "bob" {
			t.Errorf("expected only bob, got %v", names(found))
		}
	})

	t.Run("UpdatePlayer in another tenant", func(t *testing.T) {
		stolen := *alice
		stolen.TenantID = "t2"
		stolen.Name = "Hijacked"
		wantNotFound(t, s.UpdatePlayer(ctx, &stolen))

		got, _ := s.GetPlayer(ctx, "t1", alice.ID)
		if got.Name != "Alice" {
			t.Errorf("Name = %q, want Alice", got.Name)
		}
	})

	t.Run("DeletePlayer with history is rejected", func(t *testing.T) {
		period := MustPeriod(t, s, "t1", 2024, 1)
		MustRecord(t, s, period, alice)

		wantConstraint(t, s.DeletePlayer(ctx, "t1", alice.ID), storage.ConstraintForeignKey)

		n, err := s.CountPlayerRecords(ctx, "t1", alice.ID)
		if err != nil {
			t.Fatalf("CountPlayerRecords failed: %v", err)
		}
		if n != 1 {
			t.Errorf("CountPlayerRecords = %d, want 1", n)
		}
	})

	t.Run("DeletePlayer without history", func(t *testing.T) {
		gone := MustPlayer(t, s, "t1", "Gone", "555", "0")
		if err := s.DeletePlayer(ctx, "t1", gone.ID); err != nil {
			t.Fatalf("DeletePlayer failed: %v", err)
		}
		_, err := s.GetPlayer(ctx, "t1", gone.ID)
		wantNotFound(t, err)
		wantNotFound(t, s.DeletePlayer(ctx, "t1", gone.ID))
	})
}

func testPeriods(t *testing.T, s storage.Store) {
	ctx := context.Background()

	jan := MustPeriod(t, s, "t1", 2024, 1)
	MustPeriod(t, s, "t1", 2023, 12)
	MustPeriod(t, s, "t1", 2024, 2)
	MustPeriod(t, s, "t2", 2024, 1)

	t.Run("GetPeriod round trips", func(t *testing.T) {
		got, err := s.GetPeriod(ctx, "t1", jan.ID)
		if err != nil {
			t.Fatalf("GetPeriod failed: %v", err)
		}
		if got.Name != "01/2024" || got.Status != models.PeriodOpen {
			t.Errorf("unexpected period: %+v", got)
		}
		if !got.TotalExpected.IsZero() || !got.TotalReceived.IsZero() || got.PlayersCount != 0 {
			t.Errorf("expected empty totals, got %s/%s/%d", got.TotalExpected, got.TotalReceived, got.PlayersCount)
		}
	})

	t.Run("GetPeriod hides other tenants", func(t *testing.T) {
		_, err := s.GetPeriod(ctx, "t2", jan.ID)
		wantNotFound(t, err)
	})

	t.Run("duplicate year and month", func(t *testing.T) {
		dup, _ := models.NewPeriod("t1", 2024, 1, "", now)
		wantConstraint(t, s.CreatePeriod(ctx, dup), storage.ConstraintUnique)
	})

	t.Run("ListPeriods newest first", func(t *testing.T) {
		got, err := s.ListPeriods(ctx, "t1", models.PeriodFilter{})
		if err != nil {
			t.Fatalf("ListPeriods failed: %v", err)
		}
		want := []string{"02/2024", "01/2024", "12/2023"}
		if len(got) != len(want) {
			t.Fatalf("expected %d periods, got %d", len(want), len(got))
		}
		for i, p := range got {
			if p.Name != want[i] {
				t.Errorf("period %d = %s, want %s", i, p.Name, want[i])
			}
		}

		byYear, err := s.ListPeriods(ctx, "t1", models.PeriodFilter{Year: 2024})
		if err != nil {
			t.Fatalf("ListPeriods failed: %v", err)
		}
		if len(byYear) != 2 {
			t.Errorf("expected 2 periods in 2024, got %d", len(byYear))
		}
	})

	t.Run("UpdatePeriod bumps version", func(t *testing.T) {
		p, _ := s.GetPeriod(ctx, "t1", jan.ID)
		p.TotalExpected = decimal.RequireFromString("150.50")
		p.PlayersCount = 2
		before := p.Version
		if err := s.UpdatePeriod(ctx, p); err != nil {
			t.Fatalf("UpdatePeriod failed: %v", err)
		}
		if p.Version != before+1 {
			t.Errorf("Version = %d, want %d", p.Version, before+1)
		}
		got, _ := s.GetPeriod(ctx, "t1", jan.ID)
		if !got.TotalExpected.Equal(decimal.RequireFromString("150.5")) || got.Version != p.Version {
			t.Errorf("unexpected period after update: %+v", got)
		}
	})

	t.Run("UpdatePeriod detects stale version", func(t *testing.T) {
		a, _ := s.GetPeriod(ctx, "t1", jan.ID)
		b, _ := s.GetPeriod(ctx, "t1", jan.ID)
		if err := s.UpdatePeriod(ctx, a); err != nil {
			t.Fatalf("UpdatePeriod failed: %v", err)
		}
		b.PlayersCount = 99
		if err := s.UpdatePeriod(ctx, b); !errors.Is(err, storage.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
		got, _ := s.GetPeriod(ctx, "t1", jan.ID)
		if got.PlayersCount == 99 {
			t.Error("stale update was written")
		}
	})

	t.Run("UpdatePeriod in another tenant", func(t *testing.T) {
		p, _ := s.GetPeriod(ctx, "t1", jan.ID)
		p.TenantID = "t2"
		wantNotFound(t, s.UpdatePeriod(ctx, p))
	})

	t.Run("DeletePeriod cascades", func(t *testing.T) {
		period := MustPeriod(t, s, "t1", 2025, 6)
		player := MustPlayer(t, s, "t1", "Cascade", "cascade-1", "10")
		rec := MustRecord(t, s, period, player)
		casual, _ := models.NewCasualRecord(period, models.CasualFields{PlayerName: "Guest", Amount: decimal.NewFromInt(5)}, now)
		if err := s.CreateCasualRecord(ctx, casual); err != nil {
			t.Fatalf("CreateCasualRecord failed: %v", err)
		}
		exp, _ := models.NewExpense(period, models.ExpenseFields{Description: "Balls", Amount: decimal.NewFromInt(30), Category: "equipment"}, now)
		if err := s.CreateExpense(ctx, exp); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := s.DeletePeriod(ctx, "t1", period.ID); err != nil {
			t.Fatalf("DeletePeriod failed: %v", err)
		}
		_, err := s.GetPeriod(ctx, "t1", period.ID)
		wantNotFound(t, err)
		_, err = s.GetMonthlyRecord(ctx, "t1", rec.ID)
		wantNotFound(t, err)
		_, err = s.GetCasualRecord(ctx, "t1", casual.ID)
		wantNotFound(t, err)
		_, err = s.GetExpense(ctx, "t1", exp.ID)
		wantNotFound(t, err)

		// Player is free to go once its only record is gone.
		if err := s.DeletePlayer(ctx, "t1", player.ID); err != nil {
			t.Errorf("DeletePlayer after cascade failed: %v", err)
		}
	})

	t.Run("DeletePeriod in another tenant", func(t *testing.T) {
		wantNotFound(t, s.DeletePeriod(ctx, "t2", jan.ID))
		if _, err := s.GetPeriod(ctx, "t1", jan.ID); err != nil {
			t.Errorf("period was deleted through another tenant: %v", err)
		}
	})
}

func testRecords(t *testing.T, s storage.Store) {
	ctx := context.Background()

	alice := MustPlayer(t, s, "t1", "Alice", "111", "100")
	bob := MustPlayer(t, s, "t1", "Bob", "222", "80")
	p1 := MustPeriod(t, s, "t1", 2024, 1)
	p2 := MustPeriod(t, s, "t1", 2024, 2)
	p0 := MustPeriod(t, s, "t1", 2023, 11)

	r1 := MustRecord(t, s, p1, alice)
	MustRecord(t, s, p1, bob)
	r2 := MustRecord(t, s, p2, alice)
	r0 := MustRecord(t, s, p0, alice)

	t.Run("duplicate player in period", func(t *testing.T) {
		dup, _ := models.NewMonthlyRecord(p1, alice, now)
		wantConstraint(t, s.CreateMonthlyRecord(ctx, dup), storage.ConstraintUnique)
	})

	t.Run("record must reference same-tenant period", func(t *testing.T) {
		foreignPeriod := MustPeriod(t, s, "t2", 2024, 1)
		r := &models.MonthlyRecord{
			TenantID: "t2", PeriodID: foreignPeriod.ID, PlayerID: alice.ID,
			PlayerName: "Alice", Phone: "111", DefaultFee: decimal.Zero,
			Payment: models.Payment{Status: models.StatusPending},
		}
		wantConstraint(t, s.CreateMonthlyRecord(ctx, r), storage.ConstraintForeignKey)
	})

	t.Run("GetMonthlyRecordByPlayer", func(t *testing.T) {
		got, err := s.GetMonthlyRecordByPlayer(ctx, "t1", p1.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetMonthlyRecordByPlayer failed: %v", err)
		}
		if got.ID != r1.ID {
			t.Errorf("ID = %s, want %s", got.ID, r1.ID)
		}
		_, err = s.GetMonthlyRecordByPlayer(ctx, "t2", p1.ID, alice.ID)
		wantNotFound(t, err)
	})

	t.Run("UpdateMonthlyRecord persists fee and payment", func(t *testing.T) {
		rec, _ := s.GetMonthlyRecord(ctx, "t1", r1.ID)
		if err := rec.SetCustomFee(decimal.RequireFromString("75.25"), now); err != nil {
			t.Fatalf("SetCustomFee failed: %v", err)
		}
		paidAt := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
		rec.Transition(models.StatusPaid, &paidAt, now)
		if err := s.UpdateMonthlyRecord(ctx, rec); err != nil {
			t.Fatalf("UpdateMonthlyRecord failed: %v", err)
		}

		got, _ := s.GetMonthlyRecord(ctx, "t1", r1.ID)
		if !got.CustomFee.Valid || !got.CustomFee.Decimal.Equal(decimal.RequireFromString("75.25")) {
			t.Errorf("CustomFee = %+v, want 75.25", got.CustomFee)
		}
		if !got.EffectiveFee().Equal(decimal.RequireFromString("75.25")) {
			t.Errorf("EffectiveFee = %s", got.EffectiveFee())
		}
		if got.Status != models.StatusPaid || got.PaymentDate == nil || !got.PaymentDate.Equal(paidAt) {
			t.Errorf("unexpected payment: %s %v", got.Status, got.PaymentDate)
		}

		got.ClearCustomFee(now)
		got.Transition(models.StatusPending, nil, now)
		if err := s.UpdateMonthlyRecord(ctx, got); err != nil {
			t.Fatalf("UpdateMonthlyRecord failed: %v", err)
		}
		again, _ := s.GetMonthlyRecord(ctx, "t1", r1.ID)
		if again.CustomFee.Valid || again.PaymentDate != nil {
			t.Errorf("expected cleared fee and date, got %+v", again)
		}
	})

	t.Run("ListMonthlyRecords filters by status", func(t *testing.T) {
		all, err := s.ListMonthlyRecords(ctx, "t1", p1.ID, models.RecordFilter{})
		if err != nil {
			t.Fatalf("ListMonthlyRecords failed: %v", err)
		}
		if len(all) != 2 || all[0].PlayerName != "Alice" {
			t.Fatalf("unexpected records: %d", len(all))
		}
		paid, err := s.ListMonthlyRecords(ctx, "t1", p1.ID, models.RecordFilter{Status: models.StatusPaid})
		if err != nil {
			t.Fatalf("ListMonthlyRecords failed: %v", err)
		}
		if len(paid) != 0 {
			t.Errorf("expected no paid records, got %d", len(paid))
		}
		foreign, _ := s.ListMonthlyRecords(ctx, "t2", p1.ID, models.RecordFilter{})
		if len(foreign) != 0 {
			t.Errorf("expected no records for other tenant, got %d", len(foreign))
		}
	})

	t.Run("ListPlayerHistory orders by month", func(t *testing.T) {
		history, err := s.ListPlayerHistory(ctx, "t1", alice.ID)
		if err != nil {
			t.Fatalf("ListPlayerHistory failed: %v", err)
		}
		want := []string{r0.ID, r1.ID, r2.ID}
		if len(history) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(history))
		}
		for i, h := range history {
			if h.RecordID != want[i] {
				t.Errorf("entry %d = %s, want %s", i, h.RecordID, want[i])
			}
		}
		if history[0].Year != 2023 || history[0].Month != 11 {
			t.Errorf("first entry month = %d/%d", history[0].Month, history[0].Year)
		}

		foreign, _ := s.ListPlayerHistory(ctx, "t2", alice.ID)
		if len(foreign) != 0 {
			t.Errorf("expected empty history for other tenant, got %d", len(foreign))
		}
	})

	t.Run("SetPendingMonthsCount", func(t *testing.T) {
		if err := s.SetPendingMonthsCount(ctx, "t1", r2.ID, 3); err != nil {
			t.Fatalf("SetPendingMonthsCount failed: %v", err)
		}
		got, _ := s.GetMonthlyRecord(ctx, "t1", r2.ID)
		if got.PendingMonthsCount != 3 {
			t.Errorf("PendingMonthsCount = %d, want 3", got.PendingMonthsCount)
		}
		wantNotFound(t, s.SetPendingMonthsCount(ctx, "t2", r2.ID, 1))
	})

	t.Run("casual records", func(t *testing.T) {
		late := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
		early := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		c1, _ := models.NewCasualRecord(p1, models.CasualFields{PlayerName: "Late", PlayDate: late, Amount: decimal.NewFromInt(20)}, now)
		c2, _ := models.NewCasualRecord(p1, models.CasualFields{PlayerName: "Early", PlayDate: early, Amount: decimal.NewFromInt(15), InvitedBy: "Alice"}, now)
		for _, c := range []*models.CasualRecord{c1, c2} {
			if err := s.CreateCasualRecord(ctx, c); err != nil {
				t.Fatalf("CreateCasualRecord failed: %v", err)
			}
		}

		list, err := s.ListCasualRecords(ctx, "t1", p1.ID)
		if err != nil {
			t.Fatalf("ListCasualRecords failed: %v", err)
		}
		if len(list) != 2 || list[0].PlayerName != "Early" {
			t.Fatalf("unexpected casual order: %d records", len(list))
		}
		if !list[0].PlayDate.Equal(early) || list[0].InvitedBy != "Alice" {
			t.Errorf("unexpected casual record: %+v", list[0])
		}

		c1.Transition(models.StatusPaid, nil, now)
		if err := s.UpdateCasualRecord(ctx, c1); err != nil {
			t.Fatalf("UpdateCasualRecord failed: %v", err)
		}
		got, err := s.GetCasualRecord(ctx, "t1", c1.ID)
		if err != nil {
			t.Fatalf("GetCasualRecord failed: %v", err)
		}
		if got.Status != models.StatusPaid || got.PaymentDate == nil {
			t.Errorf("expected paid with date, got %s %v", got.Status, got.PaymentDate)
		}

		_, err = s.GetCasualRecord(ctx, "t2", c1.ID)
		wantNotFound(t, err)
	})
}

func testExpenses(t *testing.T, s storage.Store) {
	ctx := context.Background()
	period := MustPeriod(t, s, "t1", 2024, 1)

	e1, _ := models.NewExpense(period, models.ExpenseFields{
		Description: "Field", Amount: decimal.NewFromInt(200), Category: "field_rental",
		Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}, now)
	e2, _ := models.NewExpense(period, models.ExpenseFields{
		Description: "Balls", Amount: decimal.RequireFromString("45.90"), Category: "equipment",
		Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}, now)
	for _, e := range []*models.Expense{e1, e2} {
		if err := s.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	t.Run("ListExpenses orders by date", func(t *testing.T) {
		list, err := s.ListExpenses(ctx, "t1", period.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(list) != 2 || list[0].Description != "Balls" {
			t.Fatalf("unexpected expenses: %d", len(list))
		}
		if !list[0].Amount.Equal(decimal.RequireFromString("45.9")) || list[0].Category != models.CategoryEquipment {
			t.Errorf("unexpected expense: %+v", list[0])
		}
	})

	t.Run("UpdateExpense", func(t *testing.T) {
		e1.Description = "Field rental"
		if err := s.UpdateExpense(ctx, e1); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		got, _ := s.GetExpense(ctx, "t1", e1.ID)
		if got.Description != "Field rental" {
			t.Errorf("Description = %q", got.Description)
		}
	})

	t.Run("expenses are tenant scoped", func(t *testing.T) {
		_, err := s.GetExpense(ctx, "t2", e1.ID)
		wantNotFound(t, err)
		wantNotFound(t, s.DeleteExpense(ctx, "t2", e1.ID))
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := s.DeleteExpense(ctx, "t1", e2.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		_, err := s.GetExpense(ctx, "t1", e2.ID)
		wantNotFound(t, err)
	})
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := s.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID || got.TenantID != user.TenantID {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("missing user is nil", func(t *testing.T) {
		got, err := s.GetUserByID(ctx, "missing")
		if err != nil || got != nil {
			t.Errorf("expected nil, nil; got %v, %v", got, err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		wantConstraint(t, s.CreateUser(ctx, dup), storage.ConstraintUnique)
	})
}

func testTransactions(t *testing.T, s storage.Store) {
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		var created *models.Period
		err := s.InTx(ctx, func(q storage.Queries) error {
			created = MustPeriod(t, q, "t1", 2024, 5)
			MustPlayer(t, q, "t1", "Ghost", "ghost", "10")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		_, err = s.GetPeriod(ctx, "t1", created.ID)
		wantNotFound(t, err)
		_, err = s.GetPlayerByPhone(ctx, "t1", "ghost")
		wantNotFound(t, err)
	})

	t.Run("commit on success", func(t *testing.T) {
		var created *models.Period
		err := s.InTx(ctx, func(q storage.Queries) error {
			created = MustPeriod(t, q, "t1", 2024, 6)
			created.PlayersCount = 4
			return q.UpdatePeriod(ctx, created)
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}
		got, err := s.GetPeriod(ctx, "t1", created.ID)
		if err != nil {
			t.Fatalf("GetPeriod failed: %v", err)
		}
		if got.PlayersCount != 4 || got.Version != 1 {
			t.Errorf("unexpected committed period: count=%d version=%d", got.PlayersCount, got.Version)
		}
	})

	t.Run("cancelled context rolls back", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		var created *models.Period
		err := s.InTx(cctx, func(q storage.Queries) error {
			created = MustPeriod(t, q, "t1", 2024, 7)
			cancel()
			return cctx.Err()
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		_, err = s.GetPeriod(ctx, "t1", created.ID)
		wantNotFound(t, err)
	})
}

func names(players []*models.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
