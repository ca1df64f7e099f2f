package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
)

func (h *Handlers) profileView(sess *session.Session) *screen.ProfileView {
	return screen.Open(h.views, key(sess.DiscordID, "profile"), func() *screen.ProfileView {
		return screen.NewProfileView(h.base, h.svc, sess)
	})
}

func profileReply(st screen.ProfileState, notice string) reply {
	return reply{
		notice:     notice,
		embeds:     []*discordgo.MessageEmbed{profileEmbed(st)},
		components: profileComponents(st),
	}
}

func (h *Handlers) profile(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		st, err := h.profileView(sess).Load(ctx)
		if err != nil {
			return reply{}, err
		}
		return profileReply(st, ""), nil
	}
}

// mutateProfile runs step on the profile view and renders the result.
func (h *Handlers) mutateProfile(i *discordgo.InteractionCreate, step func(context.Context, *screen.ProfileView) (screen.Result, error)) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		v := h.profileView(sess)
		res, err := step(ctx, v)
		if err != nil {
			return reply{}, err
		}
		st, ok := v.State()
		if !ok {
			return reply{notice: res.Message}, nil
		}
		return profileReply(st, res.Message), nil
	}
}

func (h *Handlers) showEditProfile(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	sess, err := h.session(ctx, i)
	if err != nil {
		msg, _ := explain(err)
		respond(s, i, msg)
		return
	}
	p := sess.Profile
	if st, ok := h.profileView(sess).State(); ok {
		p = st.Profile
	}
	form := account.EditProfileOf(p)
	_ = showModal(s, i, modalProfile, "Edit profile",
		input{id: "name", label: "Name", value: form.Name},
		input{id: "email", label: "Email", value: form.Email},
		input{id: "phone", label: "Phone", value: form.Phone},
	)
}

func (h *Handlers) editProfile(i *discordgo.InteractionCreate, v map[string]string) func(context.Context) (reply, error) {
	form := account.EditProfile{Name: v["name"], Email: v["email"], Phone: v["phone"]}
	return h.mutateProfile(i, func(ctx context.Context, pv *screen.ProfileView) (screen.Result, error) {
		return pv.Edit(ctx, form)
	})
}

func (h *Handlers) showChangePassword(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = showModal(s, i, modalPassword, "Change password",
		input{id: "old", label: "Current password"},
		input{id: "new", label: "New password"},
		input{id: "confirm", label: "Confirm new password"},
	)
}

func (h *Handlers) changePassword(i *discordgo.InteractionCreate, v map[string]string) func(context.Context) (reply, error) {
	form := account.ChangePassword{OldPassword: v["old"], NewPassword: v["new"], ConfirmPassword: v["confirm"]}
	return h.mutateProfile(i, func(ctx context.Context, pv *screen.ProfileView) (screen.Result, error) {
		return pv.ChangePassword(ctx, form)
	})
}

func (h *Handlers) removePicture(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return h.mutateProfile(i, func(ctx context.Context, pv *screen.ProfileView) (screen.Result, error) {
		return pv.RemovePicture(ctx)
	})
}

func (h *Handlers) changePicture(i *discordgo.InteractionCreate, opts commandOptions) func(context.Context) (reply, error) {
	return h.mutateProfile(i, func(ctx context.Context, pv *screen.ProfileView) (screen.Result, error) {
		img, err := h.download(ctx, opts.attachment("image"))
		if err != nil {
			return screen.Result{}, err
		}
		return pv.ChangePicture(ctx, img)
	})
}

// kyc shows the verification banner, or submits the attached document.
func (h *Handlers) kyc(i *discordgo.InteractionCreate, opts commandOptions) func(context.Context) (reply, error) {
	att := opts.attachment("image")
	if att == nil {
		return h.profile(i)
	}
	return h.mutateProfile(i, func(ctx context.Context, pv *screen.ProfileView) (screen.Result, error) {
		img, err := h.download(ctx, att)
		if err != nil {
			return screen.Result{}, err
		}
		return pv.SubmitKYC(ctx, img)
	})
}

func (h *Handlers) signOut(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		sess, err := h.session(ctx, i)
		if err != nil {
			return reply{}, err
		}
		if err := h.profileView(sess).SignOut(ctx); err != nil {
			return reply{}, err
		}
		h.views.CloseUser(sess.DiscordID)
		return reply{notice: "You are signed out."}, nil
	}
}

