package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// maxUpload caps attachment downloads.
const maxUpload = 10 << 20

type commandOptions struct {
	byName   map[string]*discordgo.ApplicationCommandInteractionDataOption
	resolved *discordgo.ApplicationCommandInteractionDataResolved
}

func options(i *discordgo.InteractionCreate) commandOptions {
	data := i.ApplicationCommandData()
	o := commandOptions{
		byName:   make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options)),
		resolved: data.Resolved,
	}
	for _, opt := range data.Options {
		o.byName[opt.Name] = opt
	}
	return o
}

// str returns a string option, or "" when it was not given.
func (o commandOptions) str(name string) string {
	if opt, ok := o.byName[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// attachment returns the attachment passed as option name, or nil.
func (o commandOptions) attachment(name string) *discordgo.MessageAttachment {
	opt, ok := o.byName[name]
	if !ok || o.resolved == nil {
		return nil
	}
	id, _ := opt.Value.(string)
	return o.resolved.Attachments[id]
}

// download fetches an attachment into memory. A nil attachment yields a nil
// upload so the validators can report the missing image.
func (h *Handlers) download(ctx context.Context, att *discordgo.MessageAttachment) (*domain.Upload, error) {
	if att == nil {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building attachment request: %w", err)
	}
	resp, err := h.fetch.Do(req)
	if err != nil {
		return nil, &domain.RemoteError{Err: fmt.Errorf("downloading attachment: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.RemoteError{StatusCode: resp.StatusCode, Message: "Could not read the attached image"}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpload))
	if err != nil {
		return nil, &domain.RemoteError{Err: fmt.Errorf("reading attachment: %w", err)}
	}
	return &domain.Upload{
		Filename:    att.Filename,
		ContentType: att.ContentType,
		Body:        bytes.NewReader(body),
	}, nil
}
