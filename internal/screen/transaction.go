package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/transaction"
)

// TransactionState is what the transaction detail view shows.
type TransactionState struct {
	Transaction *domain.Transaction
	Outcome     transaction.Outcome
	Note        string
	Overdue     bool
	IsSeller    bool
}

// PaymentResult is returned by Pay.
type PaymentResult struct {
	Result
	Link domain.PaymentLink
}

// TransactionView is the detail view of one transaction.
type TransactionView struct {
	view
	id       string
	scope    *Scope[TransactionState]
	inflight inflight
}

// NewTransactionView opens the detail view of transaction id for sess.
func NewTransactionView(ctx context.Context, svc *Services, sess *session.Session, id string) *TransactionView {
	return &TransactionView{
		view:  view{svc: svc, sess: sess},
		id:    id,
		scope: NewScope[TransactionState](ctx),
	}
}

// ID returns the transaction id.
func (v *TransactionView) ID() string { return v.id }

// Load fetches the transaction and resolves its label and action.
func (v *TransactionView) Load(ctx context.Context) (TransactionState, error) {
	return load(ctx, v.view, v.scope, "TransactionView.Load", func(ctx context.Context) (TransactionState, error) {
		tx, err := v.svc.API.GetTransaction(ctx, v.id)
		if err != nil {
			return TransactionState{}, err
		}
		return TransactionState{
			Transaction: tx,
			Outcome:     transaction.Resolve(tx),
			Note:        transaction.Note(tx),
			Overdue:     transaction.Overdue(tx, v.svc.Clock.Now()),
			IsSeller:    transaction.IsSeller(tx),
		}, nil
	})
}

// State returns the last loaded state.
func (v *TransactionView) State() (TransactionState, bool) { return v.scope.State() }

// Busy reports whether a payment or transition is in flight.
func (v *TransactionView) Busy() bool { return v.inflight.Busy() }

// Pay stores the shipping address when the transaction has none and hands
// back the payment link. An empty address falls back to the stored one and
// then to the session's last accepted address.
func (v *TransactionView) Pay(ctx context.Context, address string) (PaymentResult, error) {
	state, err := v.current(ctx)
	if err != nil {
		return PaymentResult{}, err
	}
	if state.IsSeller || state.Outcome.Action != transaction.ActionPay {
		return PaymentResult{}, ErrUnavailable
	}
	if address == "" && state.Transaction.ShippingAddress() == "" {
		address = v.sess.Location
	}
	plan, err := transaction.PlanPayment(state.Transaction, address)
	if errors.Is(err, transaction.ErrNotAllowed) {
		return PaymentResult{}, ErrUnavailable
	}
	if err != nil {
		return PaymentResult{}, err
	}
	release, err := v.inflight.acquire()
	if err != nil {
		return PaymentResult{}, err
	}
	defer release()

	res := PaymentResult{Link: plan.Link}
	err = run(ctx, v.view, v.scope, "TransactionView.Pay", func(ctx context.Context) error {
		if plan.Location != "" {
			env, err := v.svc.API.SetTransactionLocation(ctx, v.id, plan.Location)
			if err != nil {
				return fmt.Errorf("storing shipping address: %w", err)
			}
			res.Message = env.Message
			if err := v.svc.Sessions.RememberLocation(ctx, v.sess.DiscordID, plan.Location); err != nil {
				v.svc.Logger.WarnContext(ctx, "remembering shipping address failed", slog.Any("error", err))
			}
		}
		v.svc.record(ctx, v.sess.DiscordID, event.PaymentStarted, event.TransactionData{
			TransactionID: v.id,
			Location:      plan.Location,
		})
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	if plan.Location == "" {
		return res, nil
	}
	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}

// MarkDelivered is the seller's step after payment.
func (v *TransactionView) MarkDelivered(ctx context.Context) (Result, error) {
	return v.transition(ctx, "TransactionView.MarkDelivered", transaction.ActionDeliver, transaction.CanDeliver, v.svc.API.MarkDelivered, event.TransactionDelivered)
}

// MarkCompleted is the buyer's confirmation of receipt.
func (v *TransactionView) MarkCompleted(ctx context.Context) (Result, error) {
	return v.transition(ctx, "TransactionView.MarkCompleted", transaction.ActionComplete, transaction.CanComplete, v.svc.API.MarkCompleted, event.TransactionCompleted)
}

func (v *TransactionView) transition(
	ctx context.Context,
	name string,
	action transaction.Action,
	allowed func(*domain.Transaction) error,
	call func(context.Context, string) (domain.Envelope[*domain.Transaction], error),
	typ event.Type,
) (Result, error) {
	state, err := v.current(ctx)
	if err != nil {
		return Result{}, err
	}
	if state.Outcome.Action != action || allowed(state.Transaction) != nil {
		return Result{}, ErrUnavailable
	}
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	var res Result
	err = run(ctx, v.view, v.scope, name, func(ctx context.Context) error {
		env, err := call(ctx, v.id)
		if err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}
		res.Message = env.Message
		v.svc.record(ctx, v.sess.DiscordID, typ, event.TransactionData{TransactionID: v.id})
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}

// Close cancels the view's requests.
func (v *TransactionView) Close() { v.scope.Close() }

func (v *TransactionView) current(ctx context.Context) (TransactionState, error) {
	if state, ok := v.scope.State(); ok {
		return state, v.scope.Err()
	}
	return v.Load(ctx)
}
