package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEffectiveFee(t *testing.T) {
	tests := []struct {
		name       string
		defaultFee decimal.Decimal
		custom     decimal.NullDecimal
		want       decimal.Decimal
	}{
		{
			name:       "no override uses default",
			defaultFee: d("100"),
			want:       d("100"),
		},
		{
			name:       "override wins",
			defaultFee: d("100"),
			custom:     decimal.NewNullDecimal(d("150")),
			want:       d("150"),
		},
		{
			name:       "zero override is still an override",
			defaultFee: d("100"),
			custom:     decimal.NewNullDecimal(decimal.Zero),
			want:       decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveFee(tt.defaultFee, tt.custom)
			if !got.Equal(tt.want) {
				t.Errorf("EffectiveFee() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name         string
		charges      []Charge
		wantExpected string
		wantReceived string
		wantErr      bool
	}{
		{
			name:         "empty period",
			charges:      nil,
			wantExpected: "0",
			wantReceived: "0",
		},
		{
			name: "mixed paid and pending",
			charges: []Charge{
				{Amount: d("100"), Paid: true},
				{Amount: d("150")},
				{Amount: d("20.50"), Paid: true},
			},
			wantExpected: "270.50",
			wantReceived: "120.50",
		},
		{
			name: "zero fee counts as charged but adds nothing",
			charges: []Charge{
				{Amount: decimal.Zero, Paid: true},
				{Amount: d("80")},
			},
			wantExpected: "80",
			wantReceived: "0",
		},
		{
			name:    "negative amount is rejected",
			charges: []Charge{{Amount: d("-1")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTotals(tt.charges)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CalculateTotals() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Expected.Equal(d(tt.wantExpected)) {
				t.Errorf("Expected = %s, want %s", got.Expected, tt.wantExpected)
			}
			if !got.Received.Equal(d(tt.wantReceived)) {
				t.Errorf("Received = %s, want %s", got.Received, tt.wantReceived)
			}
		})
	}
}

func TestCalculateTotalsOrderIndependent(t *testing.T) {
	charges := []Charge{
		{Amount: d("0.1"), Paid: true},
		{Amount: d("0.2")},
		{Amount: d("0.3"), Paid: true},
	}
	reversed := []Charge{charges[2], charges[1], charges[0]}

	a, err := CalculateTotals(charges)
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}
	b, err := CalculateTotals(reversed)
	if err != nil {
		t.Fatalf("CalculateTotals failed: %v", err)
	}
	if !a.Expected.Equal(b.Expected) || !a.Received.Equal(b.Received) {
		t.Errorf("totals depend on order: %+v vs %+v", a, b)
	}
	if !a.Expected.Equal(d("0.6")) {
		t.Errorf("Expected = %s, want 0.6", a.Expected)
	}
}

func TestPendingCount(t *testing.T) {
	// P1 pending, P2 pending, P3 paid, P4 pending.
	history := []MonthStatus{
		{Year: 2024, Month: 4},
		{Year: 2024, Month: 1},
		{Year: 2024, Month: 3, Paid: true},
		{Year: 2024, Month: 2},
	}

	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{name: "as of P4", year: 2024, month: 4, want: 3},
		{name: "as of P3", year: 2024, month: 3, want: 2},
		{name: "as of P1", year: 2024, month: 1, want: 1},
		{name: "before history", year: 2023, month: 12, want: 0},
		{name: "after history", year: 2025, month: 1, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PendingCount(history, tt.year, tt.month); got != tt.want {
				t.Errorf("PendingCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunningPendingCounts(t *testing.T) {
	history := []MonthStatus{
		{Year: 2024, Month: 4},
		{Year: 2024, Month: 1},
		{Year: 2024, Month: 3, Paid: true},
		{Year: 2023, Month: 12, Paid: true},
		{Year: 2024, Month: 2},
	}

	got := RunningPendingCounts(history)
	want := []int{3, 1, 2, 0, 2}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("counts[%d] = %d, want %d", i, got[i], want[i])
		}
		if single := PendingCount(history, history[i].Year, history[i].Month); single != got[i] {
			t.Errorf("counts[%d] = %d disagrees with PendingCount = %d", i, got[i], single)
		}
	}

	if history[0].Month != 4 {
		t.Error("input was reordered")
	}
}

func TestCalculateCashFlow(t *testing.T) {
	cf := CalculateCashFlow(d("200"), d("30"), []decimal.Decimal{d("50"), d("25.5")})

	if !cf.Received.Equal(d("230")) {
		t.Errorf("Received = %s, want 230", cf.Received)
	}
	if !cf.Expenses.Equal(d("75.5")) {
		t.Errorf("Expenses = %s, want 75.5", cf.Expenses)
	}
	if !cf.Net.Equal(d("154.5")) {
		t.Errorf("Net = %s, want 154.5", cf.Net)
	}

	empty := CalculateCashFlow(decimal.Zero, decimal.Zero, nil)
	if !empty.Net.IsZero() {
		t.Errorf("empty Net = %s, want 0", empty.Net)
	}
}

func TestCollectionRate(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		received string
		want     string
	}{
		{name: "nothing expected", expected: "0", received: "0", want: "0"},
		{name: "half collected", expected: "200", received: "100", want: "50"},
		{name: "rounded", expected: "300", received: "100", want: "33.33"},
		{name: "fully collected", expected: "250", received: "250", want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectionRate(d(tt.expected), d(tt.received))
			if !got.Equal(d(tt.want)) {
				t.Errorf("CollectionRate() = %s, want %s", got, tt.want)
			}
		})
	}
}
