package simulator

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/emaskripto-boop/Emaskripto/config"
	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
	"github.com/emaskripto-boop/Emaskripto/internal/service"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

func newTestSimulator(t *testing.T) (*Simulator, *service.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&store.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := utils.InitLogger("error")
	repo := repository.New(store.New(db, logger), logger)
	svc := service.New(repo, &config.Config{}, logger)

	sim := New(svc, &config.Config{SimIntervalMS: 4000}, logger)
	sim.rng = rand.New(rand.NewSource(1))
	return sim, svc
}

// forceRoll pins the tick's threshold draw.
func forceRoll(sim *Simulator, r float64) {
	sim.roll = func() float64 { return r }
}

func feedSizes(t *testing.T, svc *service.Service) (txs, deps, wds, users int) {
	t.Helper()
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	return len(stats.Transactions), len(stats.Deposits), len(stats.Withdrawals), len(stats.NewUsers)
}

func TestTick_IdleWithoutSession(t *testing.T) {
	sim, svc := newTestSimulator(t)
	forceRoll(sim, 0.5)

	if err := sim.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}

	txs, deps, wds, _ := feedSizes(t, svc)
	if txs != 0 || deps != 0 || wds != 0 {
		t.Errorf("no session: expected no events, got %d/%d/%d", txs, deps, wds)
	}
}

func TestTick_TradeOnly(t *testing.T) {
	sim, svc := newTestSimulator(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Viewer", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 0.5 crosses only the trade threshold (> 0.4).
	forceRoll(sim, 0.5)
	if err := sim.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	txs, deps, wds, _ := feedSizes(t, svc)
	if txs != 1 {
		t.Errorf("expected one transaction, got %d", txs)
	}
	if deps != 0 || wds != 0 {
		t.Errorf("expected no deposits/withdrawals, got %d/%d", deps, wds)
	}

	stats, _ := svc.Stats(ctx)
	tx := stats.Transactions[0]
	if tx.Type != models.TxBuy && tx.Type != models.TxSell {
		t.Errorf("unexpected type %s", tx.Type)
	}
	if tx.Asset != models.AssetGold {
		t.Errorf("unexpected asset %s", tx.Asset)
	}
	if tx.Amount < 0.001 || tx.Amount > 0.121 {
		t.Errorf("amount out of range: %v", tx.Amount)
	}
	if tx.Price < 0.0754 || tx.Price > 0.0759 {
		t.Errorf("price out of range: %v", tx.Price)
	}
}

func TestTick_LowRollEmitsDepositAndWithdrawal(t *testing.T) {
	sim, svc := newTestSimulator(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Viewer", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 0.05 is below both the deposit (0.2) and withdrawal (0.1) thresholds;
	// one tick can emit several kinds.
	forceRoll(sim, 0.05)
	if err := sim.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	txs, deps, wds, _ := feedSizes(t, svc)
	if txs != 0 || deps != 1 || wds != 1 {
		t.Errorf("expected 0 tx / 1 dep / 1 wd, got %d/%d/%d", txs, deps, wds)
	}

	stats, _ := svc.Stats(ctx)
	if stats.Deposits[0].Status != models.StatusCompleted {
		t.Errorf("simulator never fabricates pending work, got %s", stats.Deposits[0].Status)
	}
	if stats.Withdrawals[0].Status != models.StatusCompleted {
		t.Errorf("simulator never fabricates pending work, got %s", stats.Withdrawals[0].Status)
	}
}

func TestTick_HighRollEmitsTradeAndAnnouncement(t *testing.T) {
	sim, svc := newTestSimulator(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Viewer", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, _, _, seedUsers := feedSizes(t, svc)

	forceRoll(sim, 0.9)
	if err := sim.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	txs, _, _, users := feedSizes(t, svc)
	if txs != 1 {
		t.Errorf("expected one transaction, got %d", txs)
	}
	if users != seedUsers+1 {
		t.Errorf("expected one new announcement, got %d (was %d)", users, seedUsers)
	}
}

func TestTick_NeverImpersonatesViewer(t *testing.T) {
	sim, svc := newTestSimulator(t)
	ctx := context.Background()
	// Register under a bot pool name; fabricated events must never use it.
	if _, err := svc.Register(ctx, "TraderX", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	forceRoll(sim, 0.95)
	for i := 0; i < 30; i++ {
		if err := sim.Tick(ctx); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}

	stats, _ := svc.Stats(ctx)
	for _, tx := range stats.Transactions {
		if strings.EqualFold(tx.User, "TraderX") {
			t.Fatalf("fabricated trade uses the viewer's name: %+v", tx)
		}
	}
	// Registration itself announces the viewer once; the simulator must never
	// add a second one.
	viewerAnnouncements := 0
	for _, a := range stats.NewUsers {
		if strings.EqualFold(a.Name, "TraderX") {
			viewerAnnouncements++
		}
	}
	if viewerAnnouncements > 1 {
		t.Fatalf("fabricated announcement uses the viewer's name (%d entries)", viewerAnnouncements)
	}
}

func TestPauseResume(t *testing.T) {
	sim, _ := newTestSimulator(t)

	if sim.Paused() {
		t.Error("expected running by default")
	}
	sim.Pause()
	if !sim.Paused() {
		t.Error("expected paused")
	}
	sim.Resume()
	if sim.Paused() {
		t.Error("expected resumed")
	}
}

func TestRandUser_ExcludesViewer(t *testing.T) {
	sim, _ := newTestSimulator(t)

	for i := 0; i < 200; i++ {
		if name := sim.randUser("cryptoking"); strings.EqualFold(name, "CryptoKing") {
			t.Fatal("randUser returned the viewer's name")
		}
	}
}
