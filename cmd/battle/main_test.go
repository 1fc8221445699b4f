package main

import (
	"math"
	"testing"

	"github.com/mwhiting/hexfront/internal/battle"
)

func TestTickLabel(t *testing.T) {
	if got := tickLabel(-1); got != "never" {
		t.Fatalf("tickLabel(-1) = %q, want never", got)
	}
	if got := tickLabel(42); got != "T=42" {
		t.Fatalf("tickLabel(42) = %q, want T=42", got)
	}
}

func TestOutcomeCounts(t *testing.T) {
	all := []runStats{
		{outcome: battle.Victory},
		{outcome: battle.Victory},
		{outcome: battle.Draw},
		{outcome: battle.DecisiveDefeat},
	}
	counts := outcomeCounts(all)
	if counts[battle.Victory] != 2 || counts[battle.Draw] != 1 || counts[battle.DecisiveDefeat] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	if counts[battle.Undecided] != 0 {
		t.Fatalf("phantom undecided runs: %v", counts)
	}
}

func TestAggregateMeans(t *testing.T) {
	all := []runStats{
		{ticks: 100, score: battle.BattleScore{Total: 1000}, dispatched: 8, delivered: 6},
		{ticks: 300, score: battle.BattleScore{Total: -500}, dispatched: 2, delivered: 2},
	}
	ticks, score, rate := aggregateMeans(all)
	if ticks != 200 {
		t.Fatalf("mean ticks = %v, want 200", ticks)
	}
	if score != 250 {
		t.Fatalf("mean score = %v, want 250", score)
	}
	if math.Abs(rate-0.8) > 1e-9 {
		t.Fatalf("delivery rate = %v, want 0.8", rate)
	}

	if ticks, score, rate := aggregateMeans(nil); ticks != 0 || score != 0 || rate != 0 {
		t.Fatal("empty aggregate not zero")
	}
}

func TestAggregateMeansNoDispatches(t *testing.T) {
	_, _, rate := aggregateMeans([]runStats{{ticks: 10}})
	if rate != 0 {
		t.Fatalf("delivery rate with no couriers = %v, want 0", rate)
	}
}

func TestSummarizeCountsLogEvents(t *testing.T) {
	m := battle.NewMap(10, 10)
	a := battle.NewArmy(battle.SideA)
	ua := battle.NewUnit(0, battle.SideA, battle.Infantry, 100)
	ua.Position = battle.Hex{Q: 2, R: 5}
	a.AddUnit(ua)
	b := battle.NewArmy(battle.SideB)
	ub := battle.NewUnit(1, battle.SideB, battle.Infantry, 100)
	ub.Position = battle.Hex{Q: 7, R: 5}
	b.AddUnit(ub)
	bs := battle.NewBattle(m, a, b)

	log := bs.Log
	log.AddUnit(3, battle.SideA, 0, "courier", "dispatched", "move", 10)
	log.AddUnit(7, battle.SideA, 0, "courier", "delivered", "move", 4)
	log.AddUnit(9, battle.SideA, 0, "courier", "intercepted", "move", 0)
	log.AddUnit(12, battle.SideB, 1, "engage", "contact", "unit 0", 0)
	log.AddUnit(30, battle.SideB, 1, "morale", "break", "stress", 1.2)
	log.AddUnit(55, battle.SideB, 1, "morale", "rallied", "", 0)
	log.AddSide(60, battle.SideA, "gocode", "fired", "push", 2)

	stats := summarize(bs, 3, 99)
	if stats.runIndex != 3 || stats.seed != 99 {
		t.Fatalf("identity fields = %d, %d", stats.runIndex, stats.seed)
	}
	if stats.dispatched != 1 || stats.delivered != 1 || stats.intercepted != 1 {
		t.Fatalf("courier counts = %d/%d/%d", stats.dispatched, stats.delivered, stats.intercepted)
	}
	if stats.firstContactTick != 12 {
		t.Fatalf("first contact = %d, want 12", stats.firstContactTick)
	}
	if stats.breaks != 1 || stats.rallies != 1 || stats.firstBreakTick != 30 {
		t.Fatalf("morale counts = %d/%d first=%d", stats.breaks, stats.rallies, stats.firstBreakTick)
	}
	if stats.goCodes != 1 {
		t.Fatalf("go-code count = %d, want 1", stats.goCodes)
	}
	if stats.strengthA != 100 || stats.strengthB != 100 {
		t.Fatalf("strengths = %d/%d", stats.strengthA, stats.strengthB)
	}
}
