package commands

import (
	"github.com/bwmarrin/discordgo"
)

type input struct {
	id       string
	label    string
	value    string
	long     bool
	optional bool
}

// showModal answers i with a form.
func showModal(s *discordgo.Session, i *discordgo.InteractionCreate, id, title string, inputs ...input) error {
	rows := make([]discordgo.MessageComponent, 0, len(inputs))
	for _, in := range inputs {
		style := discordgo.TextInputShort
		if in.long {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID: in.id,
				Label:    in.label,
				Style:    style,
				Value:    in.value,
				Required: !in.optional,
			},
		}})
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   id,
			Title:      title,
			Components: rows,
		},
	})
}

// modalValues collects the text inputs of a submitted modal by custom ID.
func modalValues(components []discordgo.MessageComponent) map[string]string {
	values := make(map[string]string)
	var walk func([]discordgo.MessageComponent)
	walk = func(cs []discordgo.MessageComponent) {
		for _, c := range cs {
			switch c := c.(type) {
			case *discordgo.ActionsRow:
				walk(c.Components)
			case discordgo.ActionsRow:
				walk(c.Components)
			case *discordgo.TextInput:
				values[c.CustomID] = c.Value
			case discordgo.TextInput:
				values[c.CustomID] = c.Value
			}
		}
	}
	walk(components)
	return values
}
