package sharestax

import (
	"testing"
)

func TestNewTradeExecution_DerivesSideFromSign(t *testing.T) {
	b := NewTradeExecution(acme, at("2021-05-18, 10:00:00"), "USD", Q(15), usd(6.77), usd(0.36))
	if b.Side() != Buy {
		t.Errorf("Side() = %v, want buy", b.Side())
	}
	if !b.Quantity().Equal(Q(15)) {
		t.Errorf("Quantity() = %s, want 15", b.Quantity())
	}

	s := NewTradeExecution(acme, at("2021-06-03, 10:00:00"), "USD", Q(-10), usd(7.875), usd(0.35))
	if s.Side() != Sell {
		t.Errorf("Side() = %v, want sell", s.Side())
	}
	if !s.Quantity().Equal(Q(10)) {
		t.Errorf("Quantity() = %s, want positive magnitude 10", s.Quantity())
	}
}

func TestNewTradeExecution_ZeroQuantityIsBuy(t *testing.T) {
	e := NewTradeExecution(acme, at("2021-05-18, 10:00:00"), "USD", Q(0), usd(1), usd(0))
	if e.Side() != Buy {
		t.Errorf("Side() = %v, want buy for zero raw quantity", e.Side())
	}
}

func TestNewTradeExecution_FeeStoredAsMagnitude(t *testing.T) {
	e := NewTradeExecution(acme, at("2021-05-18, 10:00:00"), "USD", Q(15), usd(6.77), usd(-0.36225725))
	if e.Fee().IsNegative() {
		t.Errorf("Fee() = %s, want non-negative", e.Fee().Amount())
	}
	if !e.Fee().Equal(usd(0.36225725)) {
		t.Errorf("Fee() = %s, want 0.36225725", e.Fee().Amount())
	}
}

func TestTradeExecution_Day(t *testing.T) {
	e := buy("2021-05-18, 15:42:07", 15, 6.77, 0.36)
	if got := e.Day().String(); got != "2021-05-18" {
		t.Errorf("Day() = %s, want 2021-05-18", got)
	}
}

func TestTradeCycle_AppendRoutesBySide(t *testing.T) {
	cycle := cycleOf(
		buy("2021-05-18, 10:00:00", 15, 6.77, 0.36),
		sell("2021-06-03, 10:00:00", 10, 7.875, 0.35),
	)
	if len(cycle.Side(Buy)) != 1 || len(cycle.Side(Sell)) != 1 {
		t.Fatalf("Side lengths = %d buys, %d sells, want 1 and 1", len(cycle.Side(Buy)), len(cycle.Side(Sell)))
	}
	if !cycle.Quantity(Buy).Equal(Q(15)) || !cycle.Quantity(Sell).Equal(Q(10)) {
		t.Errorf("Quantity = %s bought, %s sold, want 15 and 10", cycle.Quantity(Buy), cycle.Quantity(Sell))
	}
	if cycle.IsEmpty() {
		t.Error("IsEmpty() = true for populated cycle")
	}
}

func TestTradeCycle_ValidateRejectsForeignExecution(t *testing.T) {
	cycle := cycleOf(buy("2021-05-18, 10:00:00", 15, 6.77, 0.36))
	if err := cycle.Validate("USD", acme); err != nil {
		t.Errorf("Validate(USD, acme) = %v, want nil", err)
	}
	if err := cycle.Validate("EUR", acme); err == nil {
		t.Error("Validate(EUR, acme) = nil, want currency mismatch error")
	}
	if err := cycle.Validate("USD", zen); err == nil {
		t.Error("Validate(USD, zen) = nil, want company mismatch error")
	}
}
