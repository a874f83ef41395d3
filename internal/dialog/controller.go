// Package dialog owns conversation state. A Controller runs one conversation:
// it gates every turn through the sentiment analyzer, classifies it, asks the
// generator what to say, fills transfer slots across turns and escalates to a
// human when the user is angry or pushes back on a loan denial. A Manager
// owns one controller per session key.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/truongvq/tellerbot/internal/bank"
	"github.com/truongvq/tellerbot/internal/metrics"
	"github.com/truongvq/tellerbot/internal/nlu"
	"github.com/truongvq/tellerbot/internal/policy"
	"github.com/truongvq/tellerbot/internal/reply"
	"github.com/truongvq/tellerbot/internal/sentiment"
	"github.com/truongvq/tellerbot/internal/session"
	"github.com/truongvq/tellerbot/internal/validate"
)

type State string

const (
	StateIdle                State = "IDLE"
	StateAwaitingAmount      State = "AWAITING_AMOUNT"
	StateAwaitingBeneficiary State = "AWAITING_BENEFICIARY"
	StateLoanDenied          State = "LOAN_DENIED"
	StateHandoverPending     State = "HANDOVER_PENDING"
	StateHumanConnected      State = "HUMAN_CONNECTED"
)

type HandoverReason string

const (
	ReasonAngry       HandoverReason = "angry"
	ReasonLoanInquiry HandoverReason = "loan_inquiry"
)

// Delays is the artificial latency profile. Zero everything for instant
// replies; tests use a ManualScheduler instead.
type Delays struct {
	Reply           time.Duration // user message → bot processing
	History         time.Duration // history header → transaction rows
	Confirm         time.Duration // finalize → confirmation card
	HandoverConnect time.Duration // handover alert → connecting notice
	AgentJoin       time.Duration // connecting notice → agent greeting
}

type pendingTransfer struct {
	amount      int64
	hasAmount   bool
	beneficiary *bank.Beneficiary
}

// Options wires a Controller. Store, Scheduler and Logger default to a
// memory store, wall-clock timers and slog.Default.
type Options struct {
	SessionKey string
	Store      session.Store
	Scheduler  Scheduler
	Generator  *reply.Generator
	Bank       *bank.Repository
	Policy     *policy.Store
	Validator  *validate.Validator
	Delays     Delays
	Logger     *slog.Logger
}

// Controller is the per-conversation state machine. All turn processing and
// every scheduled effect run under one mutex, so a message sent inside a
// delay window is processed strictly before or after the pending effect,
// never interleaved.
type Controller struct {
	mu         sync.Mutex
	key        string
	state      State
	prevIntent nlu.IntentType
	prevTerm   string
	pending    pendingTransfer
	seq        int64
	lastActive time.Time

	store  session.Store
	sched  Scheduler
	gen    *reply.Generator
	bank   *bank.Repository
	policy *policy.Store
	valid  *validate.Validator
	delays Delays
	log    *slog.Logger

	listeners    map[int]func(session.Message)
	nextListener int
}

// NewController creates a conversation in IDLE state and opens it with a
// personalized greeting.
func NewController(opts Options) *Controller {
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		key:        opts.SessionKey,
		state:      StateIdle,
		store:      opts.Store,
		sched:      opts.Scheduler,
		gen:        opts.Generator,
		bank:       opts.Bank,
		policy:     opts.Policy,
		valid:      opts.Validator,
		delays:     opts.Delays,
		log:        opts.Logger.With("component", "dialog", "session", opts.SessionKey),
		lastActive: time.Now(),
		listeners:  make(map[int]func(session.Message)),
	}

	c.mu.Lock()
	c.append(session.SenderBot, reply.TypeText,
		fmt.Sprintf("Chào %s, tôi có thể giúp gì cho bạn?", c.bank.User().FullName), nil)
	c.mu.Unlock()
	return c
}

func (c *Controller) SessionKey() string { return c.key }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Messages returns the transcript so far.
func (c *Controller) Messages(ctx context.Context) ([]session.Message, error) {
	return c.store.Messages(ctx, c.key)
}

// Feedback attaches a like/dislike to a transcript message by id.
func (c *Controller) Feedback(ctx context.Context, msgID string, fb session.Feedback) error {
	if fb != session.FeedbackLike && fb != session.FeedbackDislike {
		return fmt.Errorf("invalid feedback %q", fb)
	}
	return c.store.SetFeedback(ctx, c.key, msgID, fb)
}

// Subscribe registers a listener for every appended message and returns an
// unsubscribe func. Listeners run under the controller lock and must not
// call back into the controller.
func (c *Controller) Subscribe(fn func(session.Message)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Send appends the user's message and schedules turn processing after the
// reply delay.
func (c *Controller) Send(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	c.lastActive = time.Now()
	c.append(session.SenderUser, reply.TypeText, text, nil)
	c.mu.Unlock()

	c.sched.After(c.delays.Reply, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.process(text)
	})
}

// SelectBeneficiary handles the UI tapping a contact in a beneficiary list.
func (c *Controller) SelectBeneficiary(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateHandoverPending || c.state == StateHumanConnected {
		return nil
	}
	b, ok := c.bank.BeneficiaryByID(id)
	if !ok {
		return fmt.Errorf("beneficiary %q not found", id)
	}
	c.lastActive = time.Now()

	switch c.state {
	case StateAwaitingBeneficiary:
		c.pending.beneficiary = &b
		c.finalize()
	case StateIdle:
		c.pending = pendingTransfer{beneficiary: &b}
		c.state = StateAwaitingAmount
		c.askAmountFor(b)
	default:
		c.pending.beneficiary = &b
		c.finalize()
	}
	return nil
}

// process runs one user turn. Caller holds the lock.
func (c *Controller) process(text string) {
	// Conversation owned by a human agent: bot processing is inert.
	if c.state == StateHandoverPending || c.state == StateHumanConnected {
		return
	}

	sent := sentiment.Analyze(text)
	if sent == sentiment.Angry {
		c.triggerHandover(ReasonAngry)
		return
	}

	intent := nlu.Recognize(text, nlu.Context{PreviousIntent: c.prevIntent})
	metrics.IntentsTotal.WithLabelValues(string(intent.Type)).Inc()
	c.log.Info("turn processed", "intent", intent.Type, "sentiment", sent, "state", c.state)

	if intent.Type == nlu.IntentCancel {
		c.state = StateIdle
		c.pending = pendingTransfer{}
		c.prevIntent, c.prevTerm = "", ""
		c.bot(c.gen.Generate(intent, c.replyCtx()))
		return
	}

	// "Why was I denied?" after a loan denial goes to a human.
	if c.state == StateLoanDenied && sent == sentiment.Inquisitive {
		c.triggerHandover(ReasonLoanInquiry)
		return
	}

	switch intent.Type {
	case nlu.IntentBalance, nlu.IntentSpending:
		c.bot(c.gen.Generate(intent, c.replyCtx()))
		c.prevIntent, c.prevTerm = intent.Type, ""

	case nlu.IntentInterest:
		resp := c.gen.Generate(intent, c.replyCtx())
		if resp.IsRefusal {
			metrics.RefusalsTotal.Inc()
		}
		c.bot(resp)
		c.prevIntent, c.prevTerm = nlu.IntentInterest, intent.Term

	case nlu.IntentFollowUp:
		c.bot(c.gen.Generate(intent, c.replyCtx()))
		if c.prevIntent == nlu.IntentInterest && intent.Term != "" {
			c.prevTerm = intent.Term
		}

	case nlu.IntentHistory:
		c.bot(reply.Response{Text: "Dưới đây là 5 giao dịch gần nhất của bạn:", Type: reply.TypeText})
		rows := c.bank.RecentTransactions(5)
		c.sched.After(c.delays.History, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.bot(reply.Response{Text: c.historyText(rows), Type: reply.TypeText})
		})
		c.prevIntent, c.prevTerm = nlu.IntentHistory, ""

	case nlu.IntentLoan:
		c.bot(c.gen.Generate(intent, c.replyCtx()))
		c.state = StateLoanDenied
		c.prevIntent, c.prevTerm = nlu.IntentLoan, ""

	default: // transfer or unknown: try the slot-filling flow first
		if c.transferTurn(text, intent) {
			c.prevIntent, c.prevTerm = nlu.IntentTransfer, ""
			return
		}
		c.bot(c.gen.Generate(intent, c.replyCtx()))
		c.prevIntent, c.prevTerm = intent.Type, ""
	}
}

// transferTurn attempts to advance the transfer slot-filling flow. The
// amount and a beneficiary are re-resolved on every turn regardless of
// state, so "500k cho TRAN VAN C" works in one shot. Returns false when the
// turn is not part of a transfer.
func (c *Controller) transferTurn(text string, intent nlu.Intent) bool {
	amount, hasAmount := nlu.ExtractAmount(text)
	if hasAmount && amount < 0 {
		c.bot(reply.Response{Text: c.policy.NegativeAmountText(), Type: reply.TypeError})
		return true
	}

	ben, benFound := FindBeneficiary(text, c.bank.Beneficiaries())

	switch {
	case c.state == StateAwaitingAmount && hasAmount:
		c.pending.amount, c.pending.hasAmount = amount, true
		if c.pending.beneficiary != nil {
			c.finalize()
		} else {
			c.state = StateAwaitingBeneficiary
			c.askBeneficiary(amount)
		}
		return true

	case c.state == StateAwaitingBeneficiary && benFound:
		b := ben
		c.pending.beneficiary = &b
		c.finalize()
		return true

	case intent.Type == nlu.IntentTransfer || (hasAmount && benFound):
		switch {
		case hasAmount && benFound:
			b := ben
			c.pending = pendingTransfer{amount: amount, hasAmount: true, beneficiary: &b}
			c.finalize()
		case hasAmount:
			c.pending = pendingTransfer{amount: amount, hasAmount: true}
			c.state = StateAwaitingBeneficiary
			c.askBeneficiary(amount)
		case benFound:
			b := ben
			c.pending = pendingTransfer{beneficiary: &b}
			c.state = StateAwaitingAmount
			c.askAmountFor(b)
		default:
			c.state = StateAwaitingAmount
			c.bot(reply.Response{Text: "Bạn muốn chuyển bao nhiêu tiền?", Type: reply.TypeText})
		}
		return true
	}
	return false
}

// finalize validates the collected slots and hands the transfer to the
// review flow. The engine never executes the transfer itself; it emits a
// confirmation card the UI acts on.
func (c *Controller) finalize() {
	ben := c.pending.beneficiary

	if res := c.valid.Amount(c.pending.amount); !res.Valid {
		c.bot(reply.Response{Text: res.Error, Type: reply.TypeError})
		c.pending.amount, c.pending.hasAmount = 0, false
		c.state = StateAwaitingAmount
		return
	}

	details := reply.TransferDetails{
		Name:          ben.Name,
		AccountNumber: ben.AccountNumber,
		BankName:      ben.BankShortName,
		Amount:        c.pending.amount,
	}
	c.state = StateIdle
	c.pending = pendingTransfer{}
	c.prevIntent, c.prevTerm = nlu.IntentTransfer, ""
	metrics.TransfersFinalized.Inc()

	c.sched.After(c.delays.Confirm, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.bot(reply.Response{
			Text:    "Vui lòng xác nhận thông tin:",
			Type:    reply.TypeTransferConfirm,
			Payload: &reply.Payload{Transfer: &details},
		})
	})
}

// triggerHandover walks the two-stage escalation: alert now, connecting
// notice after a beat, then the agent greeting. From the first stage on, user
// input is inert.
func (c *Controller) triggerHandover(reason HandoverReason) {
	c.state = StateHandoverPending
	metrics.HandoversTotal.WithLabelValues(string(reason)).Inc()
	c.log.Info("handover triggered", "reason", reason)

	text := "Vấn đề này cần nhân viên hỗ trợ. Tôi đang kết nối bạn với nhân viên tư vấn..."
	if reason == ReasonAngry {
		text = "Xin lỗi vì trải nghiệm chưa tốt. Hệ thống ghi nhận bạn đang không hài lòng. Tôi đã chuyển cuộc hội thoại cho nhân viên CSKH ưu tiên xử lý ngay."
	}
	c.bot(reply.Response{Text: text, Type: reply.TypeHandoverAlert})

	c.sched.After(c.delays.HandoverConnect, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.append(session.SenderBot, reply.TypeText,
			"--- Đang kết nối với Nhân viên tư vấn. Vui lòng chờ trong giây lát ---", nil)

		c.sched.After(c.delays.AgentJoin, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.state = StateHumanConnected
			c.append(session.SenderAgent, reply.TypeText,
				fmt.Sprintf("Chào anh/chị %s, em có thể hỗ trợ mình về vấn đề gì ạ?", c.bank.User().FullName), nil)
		})
	})
}

func (c *Controller) askBeneficiary(amount int64) {
	c.bot(reply.Response{
		Text:    fmt.Sprintf("Chuyển %s VND cho ai?", c.policy.FormatVND(amount)),
		Type:    reply.TypeBeneficiaryList,
		Payload: &reply.Payload{Beneficiaries: c.bank.Beneficiaries()},
	})
}

func (c *Controller) askAmountFor(b bank.Beneficiary) {
	c.bot(reply.Response{Text: fmt.Sprintf("Bạn muốn chuyển bao nhiêu cho %s?", b.Name), Type: reply.TypeText})
}

func (c *Controller) historyText(rows []bank.Transaction) string {
	var sb strings.Builder
	for i, t := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sign := "-"
		if t.Direction == "in" {
			sign = "+"
		}
		sb.WriteString(fmt.Sprintf("- %s: %s%s VND (%s)", t.Date, sign, c.policy.FormatVND(t.Amount), t.Description))
	}
	return sb.String()
}

func (c *Controller) replyCtx() reply.Context {
	return reply.Context{PreviousIntent: c.prevIntent, PreviousTerm: c.prevTerm}
}

func (c *Controller) bot(r reply.Response) {
	c.append(session.SenderBot, r.Type, r.Text, r.Payload)
}

// append writes to the transcript and notifies listeners. Caller holds the
// lock.
func (c *Controller) append(sender session.Sender, typ reply.Type, text string, payload *reply.Payload) {
	c.seq++
	msg := session.NewMessage(c.seq, sender, typ, text, payload)
	if err := c.store.Append(context.Background(), c.key, msg); err != nil {
		c.log.Warn("transcript append failed", "error", err)
	}
	metrics.MessagesTotal.WithLabelValues(string(sender)).Inc()
	for _, fn := range c.listeners {
		fn(msg)
	}
}
