package screen

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/domain"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/kyc"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
)

// ProfileState is what the profile view shows.
type ProfileState struct {
	Profile domain.Profile
	KYC     domain.KycStatus
	Badge   kyc.Badge
}

// ProfileView shows the account and runs its mutations. Every successful
// mutation overwrites the session's profile snapshot.
type ProfileView struct {
	view
	scope    *Scope[ProfileState]
	inflight inflight
}

// NewProfileView opens the profile view of sess.
func NewProfileView(ctx context.Context, svc *Services, sess *session.Session) *ProfileView {
	return &ProfileView{
		view:  view{svc: svc, sess: sess},
		scope: NewScope[ProfileState](ctx),
	}
}

// Load refreshes the account and the KYC record concurrently.
func (v *ProfileView) Load(ctx context.Context) (ProfileState, error) {
	return load(ctx, v.view, v.scope, "ProfileView.Load", func(ctx context.Context) (ProfileState, error) {
		var state ProfileState
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			s, err := v.svc.Sessions.Refresh(gctx, v.sess.DiscordID)
			if err != nil {
				return err
			}
			state.Profile = s.Profile
			return nil
		})
		g.Go(func() error {
			k, err := v.svc.API.CheckKYC(gctx)
			if err != nil {
				return fmt.Errorf("checking kyc: %w", err)
			}
			state.KYC = domain.StatusOf(k)
			return nil
		})
		if err := g.Wait(); err != nil {
			return ProfileState{}, err
		}
		state.Badge = kyc.BadgeOf(state.KYC)
		return state, nil
	})
}

// State returns the last loaded state.
func (v *ProfileView) State() (ProfileState, bool) { return v.scope.State() }

// Busy reports whether a change is in flight.
func (v *ProfileView) Busy() bool { return v.inflight.Busy() }

// Edit updates name, email and phone.
func (v *ProfileView) Edit(ctx context.Context, form account.EditProfile) (Result, error) {
	form, err := form.Validate()
	if err != nil {
		return Result{}, err
	}
	return v.mutate(ctx, "ProfileView.Edit", event.ProfileUpdated, func(ctx context.Context) (domain.Envelope[domain.User], error) {
		return v.svc.API.UpdateAccount(ctx, form)
	})
}

// ChangePassword replaces the password.
func (v *ProfileView) ChangePassword(ctx context.Context, form account.ChangePassword) (Result, error) {
	form, err := form.Validate()
	if err != nil {
		return Result{}, err
	}
	return v.mutate(ctx, "ProfileView.ChangePassword", event.PasswordChanged, func(ctx context.Context) (domain.Envelope[domain.User], error) {
		return v.svc.API.ChangePassword(ctx, form)
	})
}

// ChangePicture uploads a new profile picture.
func (v *ProfileView) ChangePicture(ctx context.Context, img *domain.Upload) (Result, error) {
	if err := kyc.CheckSubmission(img); err != nil {
		return Result{}, err
	}
	return v.mutate(ctx, "ProfileView.ChangePicture", event.ProfilePictureChanged, func(ctx context.Context) (domain.Envelope[domain.User], error) {
		return v.svc.API.UpdateImage(ctx, *img)
	})
}

// RemovePicture deletes the profile picture.
func (v *ProfileView) RemovePicture(ctx context.Context) (Result, error) {
	return v.mutate(ctx, "ProfileView.RemovePicture", event.ProfilePictureRemoved, v.svc.API.DeleteImage)
}

// SubmitKYC sends an identity document. Only offered while the badge allows
// (re)submission.
func (v *ProfileView) SubmitKYC(ctx context.Context, img *domain.Upload) (Result, error) {
	state, ok := v.scope.State()
	if !ok {
		var err error
		if state, err = v.Load(ctx); err != nil {
			return Result{}, err
		}
	}
	if !state.Badge.CanVerify {
		return Result{}, ErrUnavailable
	}
	if err := kyc.CheckSubmission(img); err != nil {
		return Result{}, err
	}
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	var res Result
	err = run(ctx, v.view, v.scope, "ProfileView.SubmitKYC", func(ctx context.Context) error {
		env, err := v.svc.API.SubmitKYC(ctx, *img)
		if err != nil {
			return fmt.Errorf("submitting kyc: %w", err)
		}
		res.Message = env.Message
		v.svc.record(ctx, v.sess.DiscordID, event.KYCSubmitted, event.AccountData{UserID: v.sess.UserID})
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}

// SignOut closes the session.
func (v *ProfileView) SignOut(ctx context.Context) error {
	if err := v.svc.Sessions.Close(ctx, v.sess.DiscordID); err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	v.scope.Close()
	return nil
}

// Close cancels the view's requests.
func (v *ProfileView) Close() { v.scope.Close() }

func (v *ProfileView) mutate(
	ctx context.Context,
	name string,
	typ event.Type,
	call func(context.Context) (domain.Envelope[domain.User], error),
) (Result, error) {
	release, err := v.inflight.acquire()
	if err != nil {
		return Result{}, err
	}
	defer release()

	var res Result
	err = run(ctx, v.view, v.scope, name, func(ctx context.Context) error {
		env, err := call(ctx)
		if err != nil {
			return err
		}
		res.Message = env.Message
		if env.Data.ID != "" {
			v.svc.refreshProfile(ctx, v.sess.DiscordID, env.Data)
		}
		v.svc.record(ctx, v.sess.DiscordID, typ, event.AccountData{UserID: v.sess.UserID})
		v.svc.Logger.InfoContext(ctx, "account updated",
			slog.String("discord_id", v.sess.DiscordID),
			slog.String("type", string(typ)),
		)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	_, err = v.Load(ctx)
	return res, ignoreStale(err)
}
