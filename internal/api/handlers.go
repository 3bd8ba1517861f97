package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
)

type registerRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"` // collected, never checked
	ReferralCode string `json:"referral_code"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	account, err := s.svc.Register(r.Context(), req.Username, req.ReferralCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	account, err := s.svc.Login(r.Context(), req.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	account, err := s.svc.Session(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if account == nil {
		writeError(w, http.StatusUnauthorized, models.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleStatsStream pushes a server-sent event for every committed store
// write, so the SPA can refresh without polling.
func (s *Server) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := s.store.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case key, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", key)
			flusher.Flush()
		}
	}
}

func (s *Server) handleReferral(w http.ResponseWriter, r *http.Request) {
	account, err := s.svc.Session(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if account == nil {
		writeError(w, http.StatusUnauthorized, models.ErrNoSession.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"referral_code": account.ReferralCode,
		"referrals":     account.Referrals,
	})
}

type depositRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	SenderAddress string  `json:"sender_address"`
}

func (s *Server) handleRequestDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	dep, err := s.svc.RequestDeposit(r.Context(), req.Amount, req.Currency, req.SenderAddress)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dep)
}

type withdrawalRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	wd, err := s.svc.RequestWithdrawal(r.Context(), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wd)
}

type tradeRequest struct {
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	trade, err := s.svc.Buy(r.Context(), req.Amount, req.Price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	trade, err := s.svc.Sell(r.Context(), req.Price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	pendingDeposits := []models.Deposit{}
	for _, dep := range stats.Deposits {
		if dep.Status == models.StatusPending {
			pendingDeposits = append(pendingDeposits, dep)
		}
	}
	pendingWithdrawals := []models.Withdrawal{}
	for _, wd := range stats.Withdrawals {
		if wd.Status == models.StatusPending {
			pendingWithdrawals = append(pendingWithdrawals, wd)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deposits":    pendingDeposits,
		"withdrawals": pendingWithdrawals,
	})
}

type moderationRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleProcessDeposit(w http.ResponseWriter, r *http.Request) {
	var req moderationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.svc.ProcessDeposit(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

func (s *Server) handleProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req moderationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.svc.ProcessWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}

func (s *Server) handleSimulatorPause(w http.ResponseWriter, r *http.Request) {
	s.sim.Pause()
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (s *Server) handleSimulatorResume(w http.ResponseWriter, r *http.Request) {
	s.sim.Resume()
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}
