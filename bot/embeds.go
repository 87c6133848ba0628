package bot

import (
	"bytes"
	"log"

	"github.com/bwmarrin/discordgo"
)

const (
	colorSuccess = 0x2ecc71
	colorError   = 0xe74c3c
)

// channelSender is the slice of discordgo.Session the reply helpers
// need; tests substitute a recorder.
type channelSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func codeBlock(s string) string {
	return "```\n" + s + "\n```"
}

func (b *Bot) replyEmbed(channelID, title, description string, success bool) {
	color := colorSuccess
	if !success {
		color = colorError
	}
	_, err := b.sender.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	})
	if err != nil {
		log.Printf("bot: could not send embed to channel %s: %v\n", channelID, err)
	}
}

func (b *Bot) replyGIF(channelID, title, description string, gifData []byte) {
	_, err := b.sender.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed: &discordgo.MessageEmbed{
			Title:       title,
			Description: description,
			Color:       colorSuccess,
			Image: &discordgo.MessageEmbedImage{
				URL: "attachment://gameplay.gif",
			},
		},
		Files: []*discordgo.File{{
			Name:        "gameplay.gif",
			ContentType: "image/gif",
			Reader:      bytes.NewReader(gifData),
		}},
	})
	if err != nil {
		log.Printf("bot: could not send gif to channel %s: %v\n", channelID, err)
	}
}

// announce sends a GIF update to every channel registered to def.
func (b *Bot) announce(def, title, description string, gifData []byte) {
	b.cfgLock.Lock()
	channels := b.registeredChannels(def)
	b.cfgLock.Unlock()

	for _, channelID := range channels {
		b.replyGIF(channelID, title, description, gifData)
	}
}
