// Package simulator fabricates synthetic market activity so the feed looks
// alive: random trades, completed deposits and withdrawals, and new-user
// announcements, written through the activity feed service on a fixed tick.
package simulator

import (
	"context"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/emaskripto-boop/Emaskripto/config"
	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/service"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "emaskripto_simulator_events_total",
	Help: "Synthetic events emitted by the market simulator",
}, []string{"kind"})

var botUsernames = []string{
	"Nelson5030", "Erzulie", "SamuelPie", "Yaxcelis24", "Jmichel", "WanOOo",
	"Fata10", "Lailaaa", "Danri", "Muhammad99", "CryptoKing", "GoldMaster",
	"TraderX", "BullRun", "RichieRich", "AlphaTrade", "Zenith", "Vortex_G",
	"MidasTouch", "Satoshi_N", "BlockWhale", "LunaMoon",
}

var depositCurrencies = []string{"USDT (TRC20)", "TRX", "TON", "DOGE"}

type Simulator struct {
	svc      *service.Service
	logger   *utils.Logger
	interval time.Duration
	paused   atomic.Bool

	rng *rand.Rand
	// roll supplies the tick's threshold draw; separate from rng so tests
	// can force a branch.
	roll func() float64
}

func New(svc *service.Service, cfg *config.Config, logger *utils.Logger) *Simulator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Simulator{
		svc:      svc,
		logger:   logger,
		interval: time.Duration(cfg.SimIntervalMS) * time.Millisecond,
		rng:      rng,
		roll:     rng.Float64,
	}
}

// Pause stops emitting until Resume. The admin panel pauses the feed so
// pending moderation work isn't buried mid-review.
func (s *Simulator) Pause()       { s.paused.Store(true) }
func (s *Simulator) Resume()      { s.paused.Store(false) }
func (s *Simulator) Paused() bool { return s.paused.Load() }

// Run ticks until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Infof("Market simulator started (interval %s)", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Market simulator stopped")
			return
		case <-ticker.C:
			if s.paused.Load() {
				continue
			}
			if err := s.Tick(ctx); err != nil {
				s.logger.Errorf("Simulator tick failed: %v", err)
			}
		}
	}
}

// Tick draws one value and independently decides which synthetic events to
// fabricate: a trade above 0.4 (60%), a deposit below 0.2 (20%), a withdrawal
// below 0.1 (10%), a new-user announcement above 0.85 (15%). The thresholds
// overlap, so a single tick can emit several kinds. Idle when nobody is
// logged in.
func (s *Simulator) Tick(ctx context.Context) error {
	viewer, err := s.svc.Session(ctx)
	if err != nil {
		return err
	}
	if viewer == nil {
		return nil
	}

	r := s.roll()

	if r > 0.4 {
		txType := models.TxBuy
		if s.rng.Float64() > 0.5 {
			txType = models.TxSell
		}
		tx := models.Transaction{
			ID:        utils.NewID("TX"),
			User:      s.randUser(viewer.Username),
			Amount:    utils.RoundTo(s.rng.Float64()*0.12+0.001, 6),
			Price:     utils.RoundTo(s.rng.Float64()*0.0005+0.0754, 8),
			Profit:    float64(s.rng.Intn(50000) + 5000),
			Type:      txType,
			Timestamp: "just now",
			Asset:     models.AssetGold,
		}
		if err := s.svc.AppendTransaction(ctx, tx); err != nil {
			return err
		}
		eventsTotal.WithLabelValues("transaction").Inc()
	}

	if r < 0.2 {
		dep := models.Deposit{
			ID:        utils.NewID("DEP"),
			User:      s.randUser(viewer.Username),
			Amount:    float64(s.rng.Intn(100) + 10),
			Currency:  depositCurrencies[s.rng.Intn(len(depositCurrencies))],
			Timestamp: "just now",
			Status:    models.StatusCompleted,
		}
		if err := s.svc.AppendDeposit(ctx, dep); err != nil {
			return err
		}
		eventsTotal.WithLabelValues("deposit").Inc()
	}

	if r < 0.1 {
		wd := models.Withdrawal{
			ID:        utils.NewID("WD"),
			User:      s.randUser(viewer.Username),
			Amount:    float64(s.rng.Intn(50) + 10),
			Currency:  "USDT (TRC20)",
			Timestamp: "just now",
			Status:    models.StatusCompleted,
		}
		if err := s.svc.AppendWithdrawal(ctx, wd); err != nil {
			return err
		}
		eventsTotal.WithLabelValues("withdrawal").Inc()
	}

	if r > 0.85 {
		name := s.randUser(viewer.Username)
		stats, err := s.svc.Stats(ctx)
		if err != nil {
			return err
		}
		// Don't announce the same name twice in a row.
		if len(stats.NewUsers) == 0 || stats.NewUsers[0].Name != name {
			a := models.Announcement{Name: name, Joined: "just now"}
			if err := s.svc.AppendAnnouncement(ctx, a); err != nil {
				return err
			}
			eventsTotal.WithLabelValues("new_user").Inc()
		}
	}

	return nil
}

// randUser picks a bot username, never the viewer's own.
func (s *Simulator) randUser(viewer string) string {
	pool := make([]string, 0, len(botUsernames))
	for _, name := range botUsernames {
		if !strings.EqualFold(name, viewer) {
			pool = append(pool, name)
		}
	}
	return pool[s.rng.Intn(len(pool))]
}
