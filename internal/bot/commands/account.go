package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/account"
)

func (h *Handlers) showLogin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = showModal(s, i, modalLogin, "Sign in to HypeBid",
		input{id: "email", label: "Email"},
		input{id: "password", label: "Password"},
	)
}

func (h *Handlers) showRegister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = showModal(s, i, modalRegister, "Create a HypeBid account",
		input{id: "name", label: "Name"},
		input{id: "email", label: "Email"},
		input{id: "phone", label: "Phone (starts with 62)"},
		input{id: "password", label: "Password"},
	)
}

func (h *Handlers) login(i *discordgo.InteractionCreate, v map[string]string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		uid := userID(i)
		sess, msg, err := h.sessions.Login(ctx, uid, account.Login{Email: v["email"], Password: v["password"]})
		if err != nil {
			return reply{}, err
		}
		h.views.CloseUser(uid)
		return reply{notice: fmt.Sprintf("%s. Welcome, %s!", msg, sess.Profile.Name)}, nil
	}
}

func (h *Handlers) register(i *discordgo.InteractionCreate, v map[string]string) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		uid := userID(i)
		sess, msg, err := h.sessions.Register(ctx, uid, account.Register{
			Name:     v["name"],
			Email:    v["email"],
			Phone:    v["phone"],
			Password: v["password"],
		})
		if err != nil {
			return reply{}, err
		}
		h.views.CloseUser(uid)
		return reply{notice: fmt.Sprintf("%s. Welcome, %s!", msg, sess.Profile.Name)}, nil
	}
}

func (h *Handlers) logout(i *discordgo.InteractionCreate) func(context.Context) (reply, error) {
	return func(ctx context.Context) (reply, error) {
		uid := userID(i)
		if err := h.sessions.Close(ctx, uid); err != nil {
			return reply{}, err
		}
		h.views.CloseUser(uid)
		return reply{notice: "You are signed out."}, nil
	}
}
