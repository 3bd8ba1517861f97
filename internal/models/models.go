package models

// Terminal and pending states for deposits and withdrawals. A record starts
// PENDING and moves to COMPLETED or FAILED at most once.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

const (
	ReferralActive  = "ACTIVE"
	ReferralPending = "PENDING"
)

const (
	TxBuy         = "BUY"
	TxSell        = "SELL"
	TxTransferIn  = "TRANSFER_IN"
	TxTransferOut = "TRANSFER_OUT"
)

const (
	AssetGold     = "GOLD"
	AssetSilver   = "SILVER"
	AssetBronze   = "BRONZE"
	AssetPlatinum = "PLATINUM"
	AssetDiamond  = "DIAMOND"
)

// Feed retention caps. The global transaction feed keeps 25 entries; the
// per-account history keeps a looser 50.
const (
	MaxNewUsers       = 15
	MaxDeposits       = 20
	MaxWithdrawals    = 20
	MaxTransactions   = 25
	MaxAccountHistory = 50
)

// Balance splits funds into spendable currency, the commodity token, and a
// withdrawal escrow. Requesting a withdrawal moves the amount from USDT to
// Reserved; moderation either burns the reserve (COMPLETED) or releases it
// back (FAILED). Spendable funds are never deducted twice for one request.
type Balance struct {
	USDT     float64 `json:"usdt"`
	Gold     float64 `json:"gold"`
	Reserved float64 `json:"reserved"`
}

type Referral struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Reward float64 `json:"reward"`
	Date   string  `json:"date"`
}

type Account struct {
	Username     string        `json:"username"`
	ReferralCode string        `json:"referral_code"`
	Balance      Balance       `json:"balance"`
	Referrals    []Referral    `json:"referrals"`
	History      []Transaction `json:"history"`
}

// PushHistory prepends a trade to the account's own history, newest first.
func (a *Account) PushHistory(tx Transaction) {
	a.History = append([]Transaction{tx}, a.History...)
	if len(a.History) > MaxAccountHistory {
		a.History = a.History[:MaxAccountHistory]
	}
}

type Deposit struct {
	ID            string  `json:"id"`
	User          string  `json:"user"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	SenderAddress string  `json:"sender_address,omitempty"`
	Timestamp     string  `json:"timestamp"`
	Status        string  `json:"status"`
}

type Withdrawal struct {
	ID        string  `json:"id"`
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Timestamp string  `json:"timestamp"`
	Status    string  `json:"status"`
}

type Transaction struct {
	ID        string  `json:"id"`
	User      string  `json:"user"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
	Profit    float64 `json:"profit"`
	Type      string  `json:"type"`
	Timestamp string  `json:"timestamp"`
	Asset     string  `json:"asset"`
}

type Announcement struct {
	Name   string `json:"name"`
	Joined string `json:"joined"`
}

// GlobalStats is the shared activity feed visible to every session. Each list
// is ordered newest first and bounded; mutation goes through the typed push
// methods so the caps hold for every writer.
type GlobalStats struct {
	NewUsers     []Announcement `json:"new_users"`
	Deposits     []Deposit      `json:"deposits"`
	Withdrawals  []Withdrawal   `json:"withdrawals"`
	Transactions []Transaction  `json:"transactions"`
}

func (s *GlobalStats) PushTransaction(tx Transaction) {
	s.Transactions = append([]Transaction{tx}, s.Transactions...)
	if len(s.Transactions) > MaxTransactions {
		s.Transactions = s.Transactions[:MaxTransactions]
	}
}

func (s *GlobalStats) PushDeposit(dep Deposit) {
	s.Deposits = append([]Deposit{dep}, s.Deposits...)
	if len(s.Deposits) > MaxDeposits {
		s.Deposits = s.Deposits[:MaxDeposits]
	}
}

func (s *GlobalStats) PushWithdrawal(wd Withdrawal) {
	s.Withdrawals = append([]Withdrawal{wd}, s.Withdrawals...)
	if len(s.Withdrawals) > MaxWithdrawals {
		s.Withdrawals = s.Withdrawals[:MaxWithdrawals]
	}
}

func (s *GlobalStats) PushAnnouncement(a Announcement) {
	s.NewUsers = append([]Announcement{a}, s.NewUsers...)
	if len(s.NewUsers) > MaxNewUsers {
		s.NewUsers = s.NewUsers[:MaxNewUsers]
	}
}

// DefaultStats is what a fresh install shows before anything happened: a
// couple of seed announcements and empty feeds.
func DefaultStats() GlobalStats {
	return GlobalStats{
		NewUsers: []Announcement{
			{Name: "Nelson5030", Joined: "2 minutes ago"},
			{Name: "TraderX", Joined: "7 minutes ago"},
		},
		Deposits:     []Deposit{},
		Withdrawals:  []Withdrawal{},
		Transactions: []Transaction{},
	}
}
