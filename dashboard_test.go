package evomarket

import "testing"

func TestSnapshotCapturesModelState(t *testing.T) {
	m, err := NewMarketModel(Config{NumInvestors: 2, Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}

	snap := Snapshot(m)
	if snap.Step != 3 || snap.Generation != 0 {
		t.Fatalf("snapshot step/gen = %d/%d, want 3/0", snap.Step, snap.Generation)
	}
	if len(snap.Securities) != len(m.Securities) {
		t.Fatalf("snapshot has %d securities, want %d", len(snap.Securities), len(m.Securities))
	}
	for i, sd := range snap.Securities {
		sec := m.Securities[i]
		if sd.Name != sec.Name || sd.Price != sec.Price || sd.MarketCap != sec.MarketCap() {
			t.Fatalf("security %d = %+v, disagrees with model", i, sd)
		}
	}
	if len(snap.Investors) != 2 {
		t.Fatalf("snapshot has %d investors, want 2", len(snap.Investors))
	}
	for i, id := range snap.Investors {
		inv := m.Investors[i]
		if id.ID != inv.ID || id.PortfolioValue != inv.PortfolioValue() {
			t.Fatalf("investor %d = %+v, disagrees with model", i, id)
		}
		if id.Strategy != "trend" && id.Strategy != "qlearn" {
			t.Fatalf("investor %d strategy tag = %q", i, id.Strategy)
		}
	}
}

func TestBroadcastNoOpWhenDisabled(t *testing.T) {
	// Must not panic with no hub initialized.
	webDashboardEnabled = false
	Broadcast(MsgTypeStatus, "ignored")
}
